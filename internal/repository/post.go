// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"senseshare/internal/cache"
	"senseshare/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
//
// Likes and agree/disagree tallies are written as absolute values: the caller
// supplies the new count computed from its last known local state. Concurrent
// writers can therefore lose updates (last-writer-wins); only the reaction-tag
// counter is protected by an atomic server-side upsert.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	SetLikes(ctx context.Context, id uint, likes int) error
	SetAgreeCount(ctx context.Context, id uint, count int) error
	SetDisagreeCount(ctx context.Context, id uint, count int) error
	AddReactionTag(ctx context.Context, postID uint, tag string) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidateFeed(ctx)
	}
	return err
}

// applyPostDetails adds the comments_count subquery so the returned value
// always matches the joined comment rows at the refetch boundary.
func (r *postRepository) applyPostDetails(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) as comments_count")
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at DESC")
		}).
		Preload("Comments.Author").
		Preload("ReactionTags").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns all non-deleted posts, newest first, each joined with its
// author, comments (with comment authors) and reaction tags. This is the
// single reconciliation query behind every full feed refetch.
func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := cache.Aside(ctx, cache.FeedKey(), &posts, cache.FeedTTL, func() error {
		return r.applyPostDetails(r.db.WithContext(ctx)).
			Preload("Author").
			Preload("Comments", func(db *gorm.DB) *gorm.DB {
				return db.Order("comments.created_at DESC")
			}).
			Preload("Comments.Author").
			Preload("ReactionTags").
			Order("posts.created_at DESC").
			Find(&posts).Error
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) SetLikes(ctx context.Context, id uint, likes int) error {
	return r.setCounter(ctx, id, "likes", likes)
}

func (r *postRepository) SetAgreeCount(ctx context.Context, id uint, count int) error {
	return r.setCounter(ctx, id, "agree_count", count)
}

func (r *postRepository) SetDisagreeCount(ctx context.Context, id uint, count int) error {
	return r.setCounter(ctx, id, "disagree_count", count)
}

func (r *postRepository) setCounter(ctx context.Context, id uint, column string, value int) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Update(column, value).Error
	if err == nil {
		cache.Invalidate(ctx, cache.PostKey(id))
		cache.InvalidateFeed(ctx)
	}
	return err
}

// AddReactionTag increments the tag's count, creating it at 1 when absent.
// The upsert is a single statement so two racing voters never read a stale
// count (same ON CONFLICT pattern as the unique-like insert).
func (r *postRepository) AddReactionTag(ctx context.Context, postID uint, tag string) error {
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO reaction_tags (post_id, tag, count, created_at)
		 VALUES (?, ?, 1, NOW())
		 ON CONFLICT (post_id, tag) DO UPDATE SET count = reaction_tags.count + 1`,
		postID, tag,
	).Error
	if err == nil {
		cache.Invalidate(ctx, cache.PostKey(postID))
		cache.InvalidateFeed(ctx)
	}
	return err
}
