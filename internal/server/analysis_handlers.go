package server

import (
	"senseshare/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AnalyzeSense handles POST /api/analyze-sense. The client sends the post
// snapshot it is looking at; the analysis reflects that snapshot's vote
// counts, not whatever the database holds by now.
func (s *Server) AnalyzeSense(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Post models.Post `json:"post"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if s.analyzer == nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewConfigurationError("Analysis is not configured on this server"))
	}

	result, err := s.analyzer.AnalyzePost(ctx, &req.Post)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(result)
}

// RecommendTags handles POST /api/recommend-tags
func (s *Server) RecommendTags(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Situation string `json:"situation"`
		Sensation string `json:"sensation"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if s.analyzer == nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewConfigurationError("Analysis is not configured on this server"))
	}

	tags, err := s.analyzer.RecommendTags(ctx, req.Situation, req.Sensation)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"tags": tags})
}
