package server

import (
	"strings"

	"senseshare/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/profiles/me. A first session gets a fresh
// profile autocreated under its identity UUID.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()

	profile, err := s.profileRepo.GetOrCreate(ctx, profileID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/profiles/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		DisplayName *string `json:"display_name"`
		AvatarURL   *string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileRepo.GetOrCreate(ctx, profileID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Display name cannot be empty"))
		}
		profile.DisplayName = &name
	}
	if req.AvatarURL != nil {
		// clearing the avatar falls back to the deterministic identicon
		if strings.TrimSpace(*req.AvatarURL) == "" {
			fallback := models.IdenticonURL(profile.ID)
			profile.AvatarURL = &fallback
		} else {
			profile.AvatarURL = req.AvatarURL
		}
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(profile)
}
