package server

import (
	"errors"

	"senseshare/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.store.AddComment(ctx, postID, profileID(c), req.Text)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/posts/:id/comments/:commentId. Only the
// comment's author can delete it; a foreign comment reads as not found.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.Context()
	if _, err := s.parseID(c, "id"); err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.commentRepo.Delete(ctx, commentID, profileID(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("comment", commentID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if err := s.store.Refresh(ctx); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
