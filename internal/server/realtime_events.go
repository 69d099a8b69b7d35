package server

import (
	"context"
	"time"

	"github.com/namgiho96/giho-blog/internal/middleware"
	"github.com/namgiho96/giho-blog/internal/notifications"
)

const publishTimeout = 2 * time.Second

// publishPostEvent fans an interaction event out to the post's live subscribers.
// Placeholder stores never publish: their numbers are not real.
func (s *Server) publishPostEvent(ctx context.Context, eventType, slug string, payload any) {
	if !s.stores.Live || s.hub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.hub.Publish(ctx, notifications.NewEvent(eventType, slug, payload)); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish interaction event",
			"type", eventType,
			"slug", slug,
			"error", err,
		)
	}
}
