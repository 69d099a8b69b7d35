package server

import (
	"github.com/namgiho96/giho-blog/internal/featureflags"
	"github.com/namgiho96/giho-blog/internal/middleware"
	"github.com/namgiho96/giho-blog/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// requireLiveUpdates admits websocket upgrades for callers the live_updates flag
// covers. Anonymous callers are bucketed by their viewer session id.
func (s *Server) requireLiveUpdates(c *fiber.Ctx) error {
	subject := middleware.CurrentUserID(c)
	if subject == "" {
		subject = c.Query("sessionId")
	}
	if !s.featureFlags.Enabled(featureflags.LiveUpdates, subject) {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Live updates"))
	}
	if !websocket.IsWebSocketUpgrade(c) {
		return models.RespondWithError(c, fiber.StatusUpgradeRequired,
			models.NewValidationError("WebSocket upgrade required"))
	}
	return c.Next()
}

// PostEventsHandler streams interaction events of one post to a subscriber.
func (s *Server) PostEventsHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		slug := conn.Params("slug")

		client, err := s.hub.Register(slug, conn)
		if err != nil {
			middleware.Logger.Warn("rejecting interaction subscriber", "slug", slug, "error", err)
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}
