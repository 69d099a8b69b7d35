package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/namgiho96/giho-blog/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db, nil)
	ctx := context.Background()

	comment := &models.Comment{Content: "Nice post!", PostSlug: "hello-world", UserID: "user-1"}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(ctx, comment)
	assert.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByPost_SQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE post_slug = $1 ORDER BY created_at desc`)).
		WithArgs("hello-world").
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_slug", "user_id", "content"}).
			AddRow("c2", "hello-world", "user-2", "Comment 2").
			AddRow("c1", "hello-world", "user-1", "Comment 1"))

	comments, err := repo.ListByPost(context.Background(), "hello-world")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Comment 2", comments[0].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByPost_UsesReplica(t *testing.T) {
	primary, primaryMock := setupMockDB(t)
	replica, replicaMock := setupMockDB(t)
	repo := NewCommentRepository(primary, replica)

	replicaMock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.ListByPost(context.Background(), "hello-world")
	require.NoError(t, err)
	assert.NoError(t, replicaMock.ExpectationsWereMet())
	assert.NoError(t, primaryMock.ExpectationsWereMet())
}

func TestCommentRepository_Lifecycle(t *testing.T) {
	repo := NewCommentRepository(setupSQLiteDB(t), nil)
	ctx := context.Background()

	older := &models.Comment{PostSlug: "hello-world", UserID: "user-1", Content: "first", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &models.Comment{PostSlug: "hello-world", UserID: "user-2", Content: "second"}
	other := &models.Comment{PostSlug: "other-post", UserID: "user-1", Content: "elsewhere"}
	for _, c := range []*models.Comment{older, newer, other} {
		require.NoError(t, repo.Create(ctx, c))
	}

	list, err := repo.ListByPost(ctx, "hello-world")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	found, err := repo.GetByID(ctx, older.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "first", found.Content)

	found.Content = "edited"
	found.UpdatedAt = time.Now()
	require.NoError(t, repo.Update(ctx, found))

	reloaded, err := repo.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", reloaded.Content)
	assert.Equal(t, "user-1", reloaded.UserID)

	require.NoError(t, repo.Delete(ctx, older.ID))
	missing, err := repo.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCommentRepository_GetByID_NotFound(t *testing.T) {
	repo := NewCommentRepository(setupSQLiteDB(t), nil)
	comment, err := repo.GetByID(context.Background(), "does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, comment)
}
