package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/namgiho96/giho-blog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, string) (*models.Comment, error)
	listByPostFn func(context.Context, string) ([]*models.Comment, error)
	updateFn     func(context.Context, *models.Comment) error
	deleteFn     func(context.Context, string) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, slug string) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, slug)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, _ string) (*models.Comment, error) { return nil, nil },
		listByPostFn: func(_ context.Context, _ string) ([]*models.Comment, error) { return nil, nil },
		updateFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:     func(_ context.Context, _ string) error { return nil },
	}
}

func repoWithComment(c models.Comment) *commentRepoStub {
	repo := noopCommentRepo()
	repo.getByIDFn = func(_ context.Context, id string) (*models.Comment, error) {
		if id != c.ID {
			return nil, nil
		}
		copied := c
		return &copied, nil
	}
	return repo
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestCommentService_Create_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(noopCommentRepo())
	ctx := context.Background()

	t.Run("whitespace content fails regardless of auth", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Create(ctx, CreateCommentInput{PostSlug: "p1", UserID: "", Content: "   "})
		assertCode(t, err, models.CodeValidation)
		_, err = svc.Create(ctx, CreateCommentInput{PostSlug: "p1", UserID: "u1", Content: "   "})
		assertCode(t, err, models.CodeValidation)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Create(ctx, CreateCommentInput{
			PostSlug: "p1",
			UserID:   "u1",
			Content:  strings.Repeat("가", models.MaxCommentLength+1),
		})
		assertCode(t, err, models.CodeValidation)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Create(ctx, CreateCommentInput{PostSlug: "p1", Content: "hello"})
		assertCode(t, err, models.CodeUnauthorized)
	})
}

func TestCommentService_Create_Success(t *testing.T) {
	t.Parallel()

	var stored *models.Comment
	repo := noopCommentRepo()
	repo.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = "c-42"
		stored = c
		return nil
	}

	svc := NewCommentService(repo)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	comment, err := svc.Create(context.Background(), CreateCommentInput{
		PostSlug: "hello-world",
		UserID:   "0f8fad5b-d9cb-469f-a165-70867728950e",
		Content:  "  Great post!  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "c-42", comment.ID)
	assert.Equal(t, "Great post!", comment.Content)
	assert.Equal(t, "Great post!", stored.Content)
	assert.Equal(t, fixed, comment.CreatedAt)
	assert.Equal(t, "User 0f8fad5b", comment.User.DisplayName)
}

func TestCommentService_Create_StoreError(t *testing.T) {
	t.Parallel()

	repo := noopCommentRepo()
	repo.createFn = func(context.Context, *models.Comment) error { return errors.New("connection refused") }

	_, err := NewCommentService(repo).Create(context.Background(), CreateCommentInput{
		PostSlug: "p1", UserID: "u1", Content: "hi",
	})
	assertCode(t, err, models.CodeInternal)
	assert.Equal(t, "Failed to create comment", err.(*models.AppError).Message)
}

func TestCommentService_List(t *testing.T) {
	t.Parallel()

	repo := noopCommentRepo()
	svc := NewCommentService(repo)

	list, err := svc.List(context.Background(), "empty-post")
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)
	assert.NotNil(t, list.Comments)
	assert.Empty(t, list.Comments)

	repo.listByPostFn = func(_ context.Context, slug string) ([]*models.Comment, error) {
		return []*models.Comment{
			{ID: "c2", PostSlug: slug, UserID: "abcdef123456", Content: "newer"},
			{ID: "c1", PostSlug: slug, UserID: "u1", Content: "older"},
		}, nil
	}
	list, err = svc.List(context.Background(), "hello-world")
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, "c2", list.Comments[0].ID)
	assert.Equal(t, "abcdef12", list.Comments[0].User.UserName)
	assert.Nil(t, list.Comments[0].User.AvatarURL)
}

func TestCommentService_Update(t *testing.T) {
	t.Parallel()

	existing := models.Comment{ID: "c1", PostSlug: "p1", UserID: "owner", Content: "before"}
	ctx := context.Background()

	tests := []struct {
		name    string
		in      UpdateCommentInput
		code    string
		updated bool
	}{
		{"empty content checked first", UpdateCommentInput{CommentID: "missing", UserID: "", Content: " "}, models.CodeValidation, false},
		{"anonymous", UpdateCommentInput{CommentID: "c1", Content: "after"}, models.CodeUnauthorized, false},
		{"not found", UpdateCommentInput{CommentID: "missing", UserID: "owner", Content: "after"}, models.CodeNotFound, false},
		{"not owner", UpdateCommentInput{CommentID: "c1", UserID: "intruder", Content: "after"}, models.CodeForbidden, false},
		{"owner", UpdateCommentInput{CommentID: "c1", UserID: "owner", Content: " after "}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repoWithComment(existing)
			called := false
			repo.updateFn = func(_ context.Context, c *models.Comment) error {
				called = true
				assert.Equal(t, "after", c.Content)
				return nil
			}

			comment, err := NewCommentService(repo).Update(ctx, tt.in)
			assert.Equal(t, tt.updated, called)
			if tt.code != "" {
				assertCode(t, err, tt.code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "after", comment.Content)
			assert.Equal(t, "owner", comment.UserID)
		})
	}
}

func TestCommentService_Delete(t *testing.T) {
	t.Parallel()

	existing := models.Comment{ID: "c1", PostSlug: "p1", UserID: "owner", Content: "bye"}
	ctx := context.Background()

	tests := []struct {
		name    string
		in      DeleteCommentInput
		code    string
		deleted bool
	}{
		{"anonymous", DeleteCommentInput{CommentID: "c1"}, models.CodeUnauthorized, false},
		{"not found", DeleteCommentInput{CommentID: "missing", UserID: "owner"}, models.CodeNotFound, false},
		{"not owner", DeleteCommentInput{CommentID: "c1", UserID: "intruder"}, models.CodeForbidden, false},
		{"owner", DeleteCommentInput{CommentID: "c1", UserID: "owner"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repoWithComment(existing)
			called := false
			repo.deleteFn = func(_ context.Context, id string) error {
				called = true
				assert.Equal(t, "c1", id)
				return nil
			}

			comment, err := NewCommentService(repo).Delete(ctx, tt.in)
			assert.Equal(t, tt.deleted, called)
			if tt.code != "" {
				assertCode(t, err, tt.code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "p1", comment.PostSlug)
		})
	}
}

func TestCommentService_Delete_LookupFailure(t *testing.T) {
	t.Parallel()

	repo := noopCommentRepo()
	repo.getByIDFn = func(context.Context, string) (*models.Comment, error) {
		return nil, errors.New("timeout")
	}
	_, err := NewCommentService(repo).Delete(context.Background(), DeleteCommentInput{CommentID: "c1", UserID: "u1"})
	assertCode(t, err, models.CodeInternal)
}
