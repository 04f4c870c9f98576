package repository

import (
	"context"

	"senseshare/internal/cache"
	"senseshare/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	// Create persists the comment and reloads it joined with its author,
	// so the caller can append the row to local state without a refetch.
	Create(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint, authorID string) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Preload("Author").First(comment, comment.ID).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.PostKey(comment.PostID))
	cache.InvalidateFeed(ctx)
	return nil
}

// Delete soft-deletes a comment owned by authorID.
func (r *commentRepository) Delete(ctx context.Context, id uint, authorID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, authorID).
		Delete(&models.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	cache.InvalidateFeed(ctx)
	return nil
}
