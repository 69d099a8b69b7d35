// Package service holds the interaction stores the API layer talks to. Each store
// has a live variant backed by the database and a placeholder variant used when
// no database is configured, so the site stays renderable in demo mode.
package service

import (
	"context"

	"github.com/namgiho96/giho-blog/internal/models"
	"github.com/namgiho96/giho-blog/internal/repository"
)

// CounterStore reads and mutates per-post view and like counters.
type CounterStore interface {
	// GetLikeState returns the like count and, when userID is non-empty, whether that user liked the post.
	GetLikeState(ctx context.Context, slug, userID string) (models.LikeState, error)
	ToggleLike(ctx context.Context, slug, userID string) (models.LikeState, error)
	GetViewCount(ctx context.Context, slug string) (models.ViewCount, error)
	RecordView(ctx context.Context, slug, sessionID string) (models.ViewResult, error)
}

// CommentStore manages comments scoped to a post and owned by a user.
type CommentStore interface {
	List(ctx context.Context, slug string) (models.CommentList, error)
	Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error)
	Update(ctx context.Context, in UpdateCommentInput) (*models.Comment, error)
	// Delete returns the removed comment. The placeholder variant returns nil.
	Delete(ctx context.Context, in DeleteCommentInput) (*models.Comment, error)
}

type CreateCommentInput struct {
	PostSlug string
	UserID   string
	Content  string
}

type UpdateCommentInput struct {
	CommentID string
	UserID    string
	Content   string
}

type DeleteCommentInput struct {
	CommentID string
	UserID    string
}

// Stores bundles the store variants selected for this process.
type Stores struct {
	Counters CounterStore
	Comments CommentStore
	Live     bool
}

// NewLiveStores wires the database-backed stores.
func NewLiveStores(counters repository.CounterRepository, comments repository.CommentRepository) Stores {
	return Stores{
		Counters: NewCounterService(counters),
		Comments: NewCommentService(comments),
		Live:     true,
	}
}

// NewPlaceholderStores returns the fixed-response stores used without a database.
func NewPlaceholderStores() Stores {
	return Stores{
		Counters: PlaceholderCounterStore{},
		Comments: PlaceholderCommentStore{},
	}
}
