// Package feed owns the in-memory post list and keeps it consistent with
// persisted state under optimistic counter mutations.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"senseshare/internal/middleware"
	"senseshare/internal/models"
	"senseshare/internal/repository"
)

// Reaction is an agree/disagree vote on a post.
type Reaction string

// Reaction values.
const (
	ReactionAgree    Reaction = "agree"
	ReactionDisagree Reaction = "disagree"
)

// Draft carries the author-supplied fields of a new post. All counters start
// at zero server-side.
type Draft struct {
	AuthorID   string `json:"-"`
	Category   string `json:"category"`
	Type       string `json:"type"`
	Situation  string `json:"situation"`
	Sensation  string `json:"sensation"`
	EmotionTag string `json:"emotion_tag"`
}

// Store is the aggregate state manager for the post feed.
//
// It holds the authoritative in-memory snapshot (newest first) and applies
// optimistic local mutations before persisting. The snapshot is replaced
// wholesale, never mutated in place, so readers always see a consistent list.
//
// Likes and agree/disagree votes are persisted as absolute values computed
// from the last known local count; concurrent sessions can lose updates
// (last-writer-wins). This is a documented limitation carried over from the
// data model, not something the store tries to repair. The reaction-tag
// counter is the exception: its increment happens in an atomic server-side
// upsert, and the store refetches the whole list afterwards instead of
// patching local state.
type Store struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	logger      *slog.Logger

	mu    sync.RWMutex
	posts []*models.Post
	// voted tracks "already voted on this tag in this session" per client
	// session. Ephemeral on purpose: it is not per-user vote uniqueness.
	voted map[string]struct{}
}

// NewStore creates a feed store backed by the given repositories.
func NewStore(postRepo repository.PostRepository, commentRepo repository.CommentRepository, logger *slog.Logger) *Store {
	if logger == nil {
		logger = middleware.Logger
	}
	return &Store{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		logger:      logger,
		voted:       make(map[string]struct{}),
	}
}

// Posts returns the current snapshot, newest first.
func (s *Store) Posts() []*models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.Post(nil), s.posts...)
}

// Post returns the snapshot entry for the given ID.
func (s *Store) Post(id uint) (*models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Refresh refetches the full post list and replaces the snapshot wholesale.
// This is the single reconciliation point: after it, every post's
// comments_count equals len(comments) and all counters reflect storage.
func (s *Store) Refresh(ctx context.Context) error {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return models.NewPersistenceError(err)
	}
	middleware.FeedRefreshes.WithLabelValues("reconcile").Inc()

	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()
	return nil
}

// compensate discards whatever optimistic guess is in the snapshot by
// refetching the list. Recovery is deliberately coarse-grained: the whole
// list is reloaded rather than undoing a single field.
func (s *Store) compensate(ctx context.Context, op string, cause error) {
	s.logger.ErrorContext(ctx, "persistence failed, refetching feed",
		slog.String("operation", op),
		slog.String("error", cause.Error()),
	)
	middleware.FeedRefreshes.WithLabelValues("compensate").Inc()

	posts, err := s.postRepo.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "compensating refetch failed",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
		return
	}
	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()
}

// Like applies an optimistic likes+1 from the last known local value and
// persists the new absolute count. On persistence failure the optimistic
// value is discarded via a full refetch.
func (s *Store) Like(ctx context.Context, postID uint) error {
	updated, ok := s.mutatePost(postID, func(p *models.Post) {
		p.Likes++
	})
	if !ok {
		return models.NewNotFoundError("post", postID)
	}

	if err := s.postRepo.SetLikes(ctx, postID, updated.Likes); err != nil {
		s.compensate(ctx, "like", err)
		return models.NewPersistenceError(err)
	}
	return nil
}

// CastReaction applies an optimistic agree/disagree increment and persists
// the new absolute tally. Failure recovery is the same full-refetch
// compensation as Like.
func (s *Store) CastReaction(ctx context.Context, postID uint, reaction Reaction) error {
	if reaction != ReactionAgree && reaction != ReactionDisagree {
		return models.NewValidationError("Reaction must be \"agree\" or \"disagree\"")
	}

	updated, ok := s.mutatePost(postID, func(p *models.Post) {
		if reaction == ReactionAgree {
			p.AgreeCount++
		} else {
			p.DisagreeCount++
		}
	})
	if !ok {
		return models.NewNotFoundError("post", postID)
	}

	var err error
	if reaction == ReactionAgree {
		err = s.postRepo.SetAgreeCount(ctx, postID, updated.AgreeCount)
	} else {
		err = s.postRepo.SetDisagreeCount(ctx, postID, updated.DisagreeCount)
	}
	if err != nil {
		s.compensate(ctx, "cast_reaction", err)
		return models.NewPersistenceError(err)
	}
	return nil
}

// AddReactionTag delegates the increment-or-create to the atomic server-side
// upsert, then refetches the whole list instead of patching local state.
// The session-local voted set rejects repeat votes within this session only.
func (s *Store) AddReactionTag(ctx context.Context, postID uint, tag string) error {
	tag = NormalizeTag(tag)
	if tag == "#" || tag == "" {
		return models.NewValidationError("Tag is required")
	}
	if _, found := s.Post(postID); !found {
		return models.NewNotFoundError("post", postID)
	}

	key := votedKey(postID, tag)
	s.mu.Lock()
	if _, dup := s.voted[key]; dup {
		s.mu.Unlock()
		return models.NewValidationError("Already voted on this tag in this session")
	}
	s.mu.Unlock()

	if err := s.postRepo.AddReactionTag(ctx, postID, tag); err != nil {
		return models.NewPersistenceError(err)
	}

	s.mu.Lock()
	s.voted[key] = struct{}{}
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// HasVotedTag reports whether this session already voted on the tag.
func (s *Store) HasVotedTag(postID uint, tag string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.voted[votedKey(postID, NormalizeTag(tag))]
	return ok
}

// AddComment persists the comment (returned joined with its author), then
// prepends it to the local post and bumps comments_count by exactly one.
// No refetch: comment insertion has no shared-counter race. On failure local
// state is left untouched and the error surfaces to the caller.
func (s *Store) AddComment(ctx context.Context, postID uint, authorID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if _, found := s.Post(postID); !found {
		return nil, models.NewNotFoundError("post", postID)
	}

	comment := &models.Comment{PostID: postID, AuthorID: authorID, Text: text}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewPersistenceError(err)
	}

	s.mutatePost(postID, func(p *models.Post) {
		p.Comments = append([]models.Comment{*comment}, p.Comments...)
		p.CommentsCount++
	})
	return comment, nil
}

// CreatePost persists a new post with all counters zeroed, then refetches the
// full list. On failure local state is untouched and the error surfaces.
func (s *Store) CreatePost(ctx context.Context, draft Draft) (*models.Post, error) {
	if err := validateDraft(&draft); err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID:   draft.AuthorID,
		Category:   draft.Category,
		Type:       draft.Type,
		Situation:  draft.Situation,
		Sensation:  draft.Sensation,
		EmotionTag: draft.EmotionTag,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewPersistenceError(err)
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	if created, ok := s.Post(post.ID); ok {
		return created, nil
	}
	return post, nil
}

// mutatePost applies fn to a clone of the matching post and publishes a new
// snapshot slice. Returns the mutated clone. Immutable-replace semantics keep
// concurrent readers away from partially updated posts.
func (s *Store) mutatePost(postID uint, fn func(*models.Post)) (*models.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *models.Post
	next := make([]*models.Post, len(s.posts))
	for i, p := range s.posts {
		if p.ID == postID {
			clone := p.Clone()
			fn(clone)
			updated = clone
			next[i] = clone
		} else {
			next[i] = p
		}
	}
	if updated == nil {
		return nil, false
	}
	s.posts = next
	return updated, true
}

func validateDraft(draft *Draft) error {
	if draft.Type != models.PostTypeBest && draft.Type != models.PostTypeWorst {
		return models.NewValidationError("Type must be \"best\" or \"worst\"")
	}
	if strings.TrimSpace(draft.Situation) == "" {
		return models.NewValidationError("Situation is required")
	}
	if strings.TrimSpace(draft.Sensation) == "" {
		return models.NewValidationError("Sensation is required")
	}
	if draft.AuthorID == "" {
		return models.NewUnauthorizedError("Author is required")
	}
	draft.EmotionTag = NormalizeTag(draft.EmotionTag)
	return nil
}

// NormalizeTag trims whitespace and ensures the leading '#'.
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	if !strings.HasPrefix(tag, "#") {
		tag = "#" + tag
	}
	return tag
}

func votedKey(postID uint, tag string) string {
	return fmt.Sprintf("%d:%s", postID, tag)
}
