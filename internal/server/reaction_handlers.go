package server

import (
	"senseshare/internal/feed"
	"senseshare/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.store.Like(ctx, id); err != nil {
		return respondAppError(c, err)
	}

	post, _ := s.store.Post(id)
	return c.JSON(post)
}

// CastReaction handles POST /api/posts/:id/reactions
func (s *Server) CastReaction(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reaction string `json:"reaction"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.store.CastReaction(ctx, id, feed.Reaction(req.Reaction)); err != nil {
		return respondAppError(c, err)
	}

	post, _ := s.store.Post(id)
	return c.JSON(post)
}

// AddReactionTag handles POST /api/posts/:id/tags
func (s *Server) AddReactionTag(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Tag string `json:"tag"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.store.AddReactionTag(ctx, id, req.Tag); err != nil {
		return respondAppError(c, err)
	}

	post, _ := s.store.Post(id)
	return c.JSON(post)
}
