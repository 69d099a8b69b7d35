package service

import (
	"context"
	"fmt"
	"time"

	"github.com/namgiho96/giho-blog/internal/models"
)

// Fixed values served when no database is configured.
const (
	placeholderLikeCount = 15
	placeholderViewCount = 42
	placeholderUserID    = "mock-user-1"
	placeholderSlug      = "mock-slug"
)

func placeholderUser() models.CommentUser {
	return models.CommentUser{
		AvatarURL:   nil,
		UserName:    "mock_user",
		DisplayName: "Mock User",
	}
}

// PlaceholderCounterStore answers counter requests with fixed values. Input
// validation still applies so clients see the same error contract as in live mode.
type PlaceholderCounterStore struct{}

func (PlaceholderCounterStore) GetLikeState(context.Context, string, string) (models.LikeState, error) {
	return models.LikeState{LikeCount: placeholderLikeCount, IsLiked: false}, nil
}

func (PlaceholderCounterStore) ToggleLike(context.Context, string, string) (models.LikeState, error) {
	return models.LikeState{LikeCount: placeholderLikeCount + 1, IsLiked: true}, nil
}

func (PlaceholderCounterStore) GetViewCount(context.Context, string) (models.ViewCount, error) {
	return models.ViewCount{ViewCount: placeholderViewCount}, nil
}

func (PlaceholderCounterStore) RecordView(_ context.Context, _ string, sessionID string) (models.ViewResult, error) {
	if err := requireSessionID(sessionID); err != nil {
		return models.ViewResult{}, err
	}
	return models.ViewResult{ViewCount: placeholderViewCount, IsNewView: true}, nil
}

// PlaceholderCommentStore serves one canned comment and echoes mutations.
type PlaceholderCommentStore struct {
	Now func() time.Time
}

func (p PlaceholderCommentStore) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}

func (p PlaceholderCommentStore) List(_ context.Context, slug string) (models.CommentList, error) {
	now := p.now()
	comments := []models.Comment{{
		ID:        "1",
		PostSlug:  slug,
		UserID:    placeholderUserID,
		Content:   "좋은 글 감사합니다!",
		CreatedAt: now,
		UpdatedAt: now,
		User:      placeholderUser(),
	}}
	return models.CommentList{Comments: comments, Total: len(comments)}, nil
}

func (p PlaceholderCommentStore) Create(_ context.Context, in CreateCommentInput) (*models.Comment, error) {
	content, err := normalizeContent(in.Content)
	if err != nil {
		return nil, err
	}
	now := p.now()
	return &models.Comment{
		ID:        fmt.Sprintf("mock-%d", now.UnixMilli()),
		PostSlug:  in.PostSlug,
		UserID:    placeholderUserID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		User:      placeholderUser(),
	}, nil
}

func (p PlaceholderCommentStore) Update(_ context.Context, in UpdateCommentInput) (*models.Comment, error) {
	content, err := normalizeContent(in.Content)
	if err != nil {
		return nil, err
	}
	now := p.now()
	return &models.Comment{
		ID:        in.CommentID,
		PostSlug:  placeholderSlug,
		UserID:    placeholderUserID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		User:      placeholderUser(),
	}, nil
}

func (PlaceholderCommentStore) Delete(context.Context, DeleteCommentInput) (*models.Comment, error) {
	return nil, nil
}
