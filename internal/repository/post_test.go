package repository

import (
	"context"
	"regexp"
	"testing"

	"senseshare/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupMockDB creates a GORM *gorm.DB backed by sqlmock for unit tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestPostRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := &models.Post{
		Type:      models.PostTypeBest,
		Situation: "the gym was empty at six",
		Sensation: "a tiny spark of joy",
		AuthorID:  "author-uuid",
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, post)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), post.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_SetLikes_AbsoluteValue(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	// the caller's last-known-local+1 lands as-is; no relative increment
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET`)).
		WithArgs(4, sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SetLikes(ctx, 1, 4)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_SetAgreeCount(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET`)).
		WithArgs(8, sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SetAgreeCount(ctx, 1, 8)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_AddReactionTag_Upsert(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO reaction_tags[\s\S]*ON CONFLICT \(post_id, tag\) DO UPDATE SET count = reaction_tags\.count \+ 1`).
		WithArgs(1, "#relatable").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AddReactionTag(ctx, 1, "#relatable")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_List_ComputesCommentsCount(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT posts\.\*, \(SELECT COUNT\(\*\) FROM comments WHERE comments\.post_id = posts\.id AND comments\.deleted_at IS NULL\) as comments_count FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "situation", "author_id", "comments_count"}).
			AddRow(2, "newer", "a1", 3).
			AddRow(1, "older", "a2", 0))

	// Preload Author
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("a1").AddRow("a2"))
	// Preload Comments
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "author_id"}))
	// Preload ReactionTags
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reaction_tags"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "tag", "count"}))

	posts, err := repo.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, 3, posts[0].CommentsCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_Create_ReloadsAuthor(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := &models.Comment{Text: "hot take", PostID: 1, AuthorID: "author-uuid"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "post_id", "author_id"}).
			AddRow(7, "hot take", 1, "author-uuid"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name"}).
			AddRow("author-uuid", "New User"))

	err := repo.Create(ctx, comment)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), comment.ID)
	assert.Equal(t, "author-uuid", comment.Author.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_Delete_NotOwned(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "comments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(ctx, 7, "someone-else")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
