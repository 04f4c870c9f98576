package server

import (
	"senseshare/internal/feed"
	"senseshare/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts. Serving the feed is a reconciliation
// point: the store refetches from the repository before answering, so the
// snapshot is authoritative at this boundary.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.Context()

	if err := s.store.Refresh(ctx); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(s.store.Posts())
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, found := s.store.Post(id)
	if !found {
		// The snapshot may simply be stale; fall back to the repository.
		var repoErr error
		post, repoErr = s.postRepo.GetByID(c.Context(), id)
		if repoErr != nil {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("post", id))
		}
	}

	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()

	var draft feed.Draft
	if err := c.BodyParser(&draft); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	draft.AuthorID = profileID(c)

	post, err := s.store.CreatePost(ctx, draft)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}
