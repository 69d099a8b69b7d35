package service

import (
	"context"

	"github.com/namgiho96/giho-blog/internal/models"
	"github.com/namgiho96/giho-blog/internal/observability"
	"github.com/namgiho96/giho-blog/internal/repository"
)

// CounterService is the database-backed CounterStore.
type CounterService struct {
	repo repository.CounterRepository
}

func NewCounterService(repo repository.CounterRepository) *CounterService {
	return &CounterService{repo: repo}
}

func (s *CounterService) GetLikeState(ctx context.Context, slug, userID string) (state models.LikeState, err error) {
	ctx, span := observability.StartStoreSpan(ctx, "counters", "get_like_state", slug)
	defer func() { observability.EndSpan(span, err) }()

	stats, err := s.repo.GetStats(ctx, slug)
	if err != nil {
		return models.LikeState{}, models.NewInternalError(err)
	}
	state.LikeCount = stats.LikeCount

	if userID != "" {
		liked, err := s.repo.HasLiked(ctx, slug, userID)
		if err != nil {
			return models.LikeState{}, models.NewInternalError(err)
		}
		state.IsLiked = liked
	}
	return state, nil
}

func (s *CounterService) ToggleLike(ctx context.Context, slug, userID string) (state models.LikeState, err error) {
	if userID == "" {
		return models.LikeState{}, models.NewAuthenticationRequiredError()
	}

	ctx, span := observability.StartStoreSpan(ctx, "counters", "toggle_like", slug)
	defer func() { observability.EndSpan(span, err) }()

	state, err = s.repo.ToggleLike(ctx, slug, userID)
	if err != nil {
		return models.LikeState{}, models.NewInternalError(err)
	}
	observability.RecordLikeToggle(state.IsLiked)
	return state, nil
}

func (s *CounterService) GetViewCount(ctx context.Context, slug string) (count models.ViewCount, err error) {
	ctx, span := observability.StartStoreSpan(ctx, "counters", "get_view_count", slug)
	defer func() { observability.EndSpan(span, err) }()

	stats, err := s.repo.GetStats(ctx, slug)
	if err != nil {
		return models.ViewCount{}, models.NewInternalError(err)
	}
	return models.ViewCount{ViewCount: stats.ViewCount}, nil
}

func (s *CounterService) RecordView(ctx context.Context, slug, sessionID string) (result models.ViewResult, err error) {
	if err = requireSessionID(sessionID); err != nil {
		return models.ViewResult{}, err
	}

	ctx, span := observability.StartStoreSpan(ctx, "counters", "record_view", slug)
	defer func() { observability.EndSpan(span, err) }()

	result, err = s.repo.RecordView(ctx, slug, sessionKey(sessionID))
	if err != nil {
		return models.ViewResult{}, models.NewInternalError(err)
	}
	observability.RecordView(result.IsNewView)
	return result, nil
}
