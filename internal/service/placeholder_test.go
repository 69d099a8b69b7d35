package service

import (
	"context"
	"testing"
	"time"

	"github.com/namgiho96/giho-blog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderCounterStore(t *testing.T) {
	store := PlaceholderCounterStore{}
	ctx := context.Background()

	state, err := store.GetLikeState(ctx, "any", "")
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{LikeCount: 15, IsLiked: false}, state)

	// Placeholder mode does not require a session.
	toggled, err := store.ToggleLike(ctx, "any", "")
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{LikeCount: 16, IsLiked: true}, toggled)

	views, err := store.GetViewCount(ctx, "any")
	require.NoError(t, err)
	assert.Equal(t, int64(42), views.ViewCount)

	recorded, err := store.RecordView(ctx, "any", "s1")
	require.NoError(t, err)
	assert.Equal(t, models.ViewResult{ViewCount: 42, IsNewView: true}, recorded)

	_, err = store.RecordView(ctx, "any", "")
	assertCode(t, err, models.CodeValidation)
}

func TestPlaceholderCommentStore(t *testing.T) {
	fixed := time.UnixMilli(1735689600000)
	store := PlaceholderCommentStore{Now: func() time.Time { return fixed }}
	ctx := context.Background()

	list, err := store.List(ctx, "hello-world")
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "hello-world", list.Comments[0].PostSlug)
	assert.Equal(t, "Mock User", list.Comments[0].User.DisplayName)

	created, err := store.Create(ctx, CreateCommentInput{PostSlug: "hello-world", Content: "  hi  "})
	require.NoError(t, err)
	assert.Equal(t, "mock-1735689600000", created.ID)
	assert.Equal(t, "hi", created.Content)
	assert.Equal(t, "mock-user-1", created.UserID)

	_, err = store.Create(ctx, CreateCommentInput{PostSlug: "hello-world", Content: "   "})
	assertCode(t, err, models.CodeValidation)

	updated, err := store.Update(ctx, UpdateCommentInput{CommentID: "c9", Content: "edited "})
	require.NoError(t, err)
	assert.Equal(t, "c9", updated.ID)
	assert.Equal(t, "mock-slug", updated.PostSlug)
	assert.Equal(t, "edited", updated.Content)

	_, err = store.Update(ctx, UpdateCommentInput{CommentID: "c9", Content: ""})
	assertCode(t, err, models.CodeValidation)

	deleted, err := store.Delete(ctx, DeleteCommentInput{CommentID: "c9"})
	require.NoError(t, err)
	assert.Nil(t, deleted)
}

func TestStoreSelection(t *testing.T) {
	placeholder := NewPlaceholderStores()
	assert.False(t, placeholder.Live)
	assert.IsType(t, PlaceholderCounterStore{}, placeholder.Counters)

	live := NewLiveStores(new(mockCounterRepo), noopCommentRepo())
	assert.True(t, live.Live)
	assert.IsType(t, &CounterService{}, live.Counters)
	assert.IsType(t, &CommentService{}, live.Comments)
}
