package repository

import (
	"context"
	"regexp"
	"testing"

	"senseshare/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository_GetOrCreate_Existing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles"`)).
		WithArgs("author-uuid", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name", "avatar_url"}).
			AddRow("author-uuid", "Ada", "https://example.com/ada.png"))

	profile, err := repo.GetOrCreate(ctx, "author-uuid")
	require.NoError(t, err)
	assert.Equal(t, "Ada", *profile.DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_GetOrCreate_FirstSessionDefaults(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles"`)).
		WithArgs("new-uuid", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "profiles"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	profile, err := repo.GetOrCreate(ctx, "new-uuid")
	require.NoError(t, err)

	assert.Equal(t, "New User", *profile.DisplayName)
	// a fresh profile never serializes a null avatar; the identicon is the default
	require.NotNil(t, profile.AvatarURL)
	assert.Equal(t, models.IdenticonURL("new-uuid"), *profile.AvatarURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}
