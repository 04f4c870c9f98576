package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"senseshare/internal/feed"
	"senseshare/internal/models"
	"senseshare/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	posts []*models.Post
}

func (s *postRepoStub) Create(_ context.Context, post *models.Post) error {
	post.ID = uint(len(s.posts) + 1)
	s.posts = append([]*models.Post{post}, s.posts...)
	return nil
}
func (s *postRepoStub) GetByID(_ context.Context, id uint) (*models.Post, error) {
	for _, p := range s.posts {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return nil, models.NewNotFoundError("post", id)
}
func (s *postRepoStub) List(_ context.Context) ([]*models.Post, error) {
	out := make([]*models.Post, len(s.posts))
	for i, p := range s.posts {
		cp := p.Clone()
		cp.CommentsCount = len(cp.Comments)
		out[i] = cp
	}
	return out, nil
}
func (s *postRepoStub) SetLikes(_ context.Context, id uint, likes int) error {
	return s.setCounter(id, func(p *models.Post) { p.Likes = likes })
}
func (s *postRepoStub) SetAgreeCount(_ context.Context, id uint, count int) error {
	return s.setCounter(id, func(p *models.Post) { p.AgreeCount = count })
}
func (s *postRepoStub) SetDisagreeCount(_ context.Context, id uint, count int) error {
	return s.setCounter(id, func(p *models.Post) { p.DisagreeCount = count })
}
func (s *postRepoStub) AddReactionTag(_ context.Context, postID uint, tag string) error {
	return s.setCounter(postID, func(p *models.Post) {
		for i := range p.ReactionTags {
			if p.ReactionTags[i].Tag == tag {
				p.ReactionTags[i].Count++
				return
			}
		}
		p.ReactionTags = append(p.ReactionTags, models.ReactionTag{PostID: postID, Tag: tag, Count: 1})
	})
}
func (s *postRepoStub) setCounter(id uint, fn func(*models.Post)) error {
	for _, p := range s.posts {
		if p.ID == id {
			fn(p)
			return nil
		}
	}
	return models.NewNotFoundError("post", id)
}

var _ repository.PostRepository = (*postRepoStub)(nil)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	nextID  uint
	deleted []uint
}

func (s *commentRepoStub) Create(_ context.Context, comment *models.Comment) error {
	s.nextID++
	comment.ID = s.nextID
	comment.Author = models.Profile{ID: comment.AuthorID}
	return nil
}
func (s *commentRepoStub) Delete(_ context.Context, id uint, _ string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

var _ repository.CommentRepository = (*commentRepoStub)(nil)

const testProfileID = "11111111-2222-3333-4444-555555555555"

// fakeAuth injects the profile ID the way AuthRequired does, bypassing JWT.
func fakeAuth(c *fiber.Ctx) error {
	c.Locals("profileID", testProfileID)
	return c.Next()
}

func feedApp(t *testing.T, posts ...*models.Post) (*fiber.App, *Server) {
	t.Helper()
	repo := &postRepoStub{posts: posts}
	comments := &commentRepoStub{}
	s := &Server{
		postRepo:    repo,
		commentRepo: comments,
		store:       feed.NewStore(repo, comments, nil),
	}
	require.NoError(t, s.store.Refresh(context.Background()))

	app := fiber.New()
	app.Get("/api/posts", s.GetPosts)
	app.Get("/api/posts/:id", s.GetPost)
	protected := app.Group("", fakeAuth)
	protected.Post("/api/posts", s.CreatePost)
	protected.Post("/api/posts/:id/like", s.LikePost)
	protected.Post("/api/posts/:id/reactions", s.CastReaction)
	protected.Post("/api/posts/:id/tags", s.AddReactionTag)
	protected.Post("/api/posts/:id/comments", s.CreateComment)
	protected.Delete("/api/posts/:id/comments/:commentId", s.DeleteComment)
	return app, s
}

func TestGetPosts(t *testing.T) {
	app, _ := feedApp(t,
		&models.Post{ID: 2, Situation: "newer", Comments: []models.Comment{{ID: 1}}},
		&models.Post{ID: 1, Situation: "older"},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var posts []models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	require.Len(t, posts, 2)
	assert.Equal(t, uint(2), posts[0].ID)
	assert.Equal(t, 1, posts[0].CommentsCount, "comments_count matches the comment list")
}

func TestGetPost_NotFound(t *testing.T) {
	app, _ := feedApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/posts/99", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreatePost(t *testing.T) {
	app, s := feedApp(t)

	resp := postJSON(t, app, "/api/posts", fiber.Map{
		"category":    "daily",
		"type":        "best",
		"situation":   "the gym was empty at six",
		"sensation":   "a tiny spark of joy",
		"emotion_tag": "quietjoy",
	})
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
	assert.Equal(t, testProfileID, post.AuthorID)
	assert.Equal(t, "#quietjoy", post.EmotionTag)
	assert.Zero(t, post.Likes)

	// the new post is visible in the refreshed snapshot
	_, found := s.store.Post(post.ID)
	assert.True(t, found)
}

func TestCreatePost_InvalidType(t *testing.T) {
	app, _ := feedApp(t)

	resp := postJSON(t, app, "/api/posts", fiber.Map{
		"type":      "mediocre",
		"situation": "s",
		"sensation": "f",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeValidation, decodeError(t, resp).Code)
}

func TestLikePost(t *testing.T) {
	app, _ := feedApp(t, &models.Post{ID: 1, Likes: 3})

	resp := postJSON(t, app, "/api/posts/1/like", fiber.Map{})
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var post models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
	assert.Equal(t, 4, post.Likes)
}

func TestCastReaction_Invalid(t *testing.T) {
	app, _ := feedApp(t, &models.Post{ID: 1})

	resp := postJSON(t, app, "/api/posts/1/reactions", fiber.Map{"reaction": "meh"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCastReaction_Agree(t *testing.T) {
	app, _ := feedApp(t, &models.Post{ID: 1, AgreeCount: 7})

	resp := postJSON(t, app, "/api/posts/1/reactions", fiber.Map{"reaction": "agree"})
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var post models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
	assert.Equal(t, 8, post.AgreeCount)
}

func TestAddReactionTag_SessionDuplicate(t *testing.T) {
	app, _ := feedApp(t, &models.Post{ID: 1})

	resp := postJSON(t, app, "/api/posts/1/tags", fiber.Map{"tag": "relatable"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = postJSON(t, app, "/api/posts/1/tags", fiber.Map{"tag": "#relatable"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateComment(t *testing.T) {
	app, s := feedApp(t, &models.Post{ID: 1})

	resp := postJSON(t, app, "/api/posts/1/comments", fiber.Map{"text": "hot take"})
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var comment models.Comment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&comment))
	assert.Equal(t, "hot take", comment.Text)
	assert.Equal(t, testProfileID, comment.AuthorID)

	post, _ := s.store.Post(1)
	assert.Equal(t, 1, post.CommentsCount)
}

func TestDeleteComment(t *testing.T) {
	app, _ := feedApp(t, &models.Post{ID: 1, Comments: []models.Comment{{ID: 7}}})

	req := httptest.NewRequest(http.MethodDelete, "/api/posts/1/comments/7", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
