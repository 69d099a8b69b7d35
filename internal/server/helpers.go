package server

import (
	"strings"

	"github.com/namgiho96/giho-blog/internal/middleware"
	"github.com/namgiho96/giho-blog/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes an optional JSON body. An empty body leaves out untouched.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	return nil
}

// respondError maps a store error onto its status and logs server-side failures
// with the request context.
func respondError(c *fiber.Ctx, err error, msg string) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), msg,
			"error", err,
			"path", c.Path(),
		)
	}
	return models.RespondWithError(c, status, err)
}

// safeRedirectPath accepts only same-site relative paths. Anything else,
// including protocol-relative "//host" forms, falls back to "/".
func safeRedirectPath(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return "/"
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	if strings.ContainsAny(next, "\r\n") {
		return "/"
	}
	return next
}
