package server

import (
	"context"
	"time"

	"github.com/namgiho96/giho-blog/internal/database"

	"github.com/gofiber/fiber/v2"
)

const (
	statusHealthy       = "healthy"
	statusUnhealthy     = "unhealthy"
	statusNotConfigured = "unconfigured"
)

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Missing DB or Redis is not a
// failure: the API runs on placeholder data and local fan-out without them.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := statusNotConfigured
	if s.db != nil {
		dbStatus = statusHealthy
		if err := database.Ping(ctx, s.db); err != nil {
			dbStatus = statusUnhealthy
		}
	}

	redisStatus := statusNotConfigured
	if s.redis != nil {
		redisStatus = statusHealthy
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = statusUnhealthy
		}
	}

	status := fiber.StatusOK
	overall := statusHealthy
	if dbStatus == statusUnhealthy || redisStatus == statusUnhealthy {
		status = fiber.StatusServiceUnavailable
		overall = statusUnhealthy
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"store":  storeMode(s.stores.Live),
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

func storeMode(live bool) string {
	if live {
		return "live"
	}
	return "placeholder"
}
