// Package middleware provides request-scoped middleware: authentication, logging, metrics and tracing.
package middleware

import (
	"context"
	"strings"

	"github.com/namgiho96/giho-blog/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Fiber locals populated by OptionalAuth.
const (
	LocalUser   = "authUser"
	LocalUserID = "userID"
	LocalToken  = "sessionToken"
)

// SessionVerifier resolves a session token into the signed-in user.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*models.AuthUser, error)
}

// OptionalAuth attaches the caller's identity when a valid session is presented
// through the session cookie or an Authorization bearer header. Invalid or missing
// credentials leave the request anonymous; handlers decide whether that is acceptable.
func OptionalAuth(verifier SessionVerifier, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if verifier == nil {
			return c.Next()
		}

		token := ExtractToken(c, cookieName)
		if token == "" {
			return c.Next()
		}

		user, err := verifier.Verify(c.UserContext(), token)
		if err != nil || user == nil {
			Logger.DebugContext(c.UserContext(), "ignoring invalid session token")
			return c.Next()
		}

		c.Locals(LocalUser, user)
		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalToken, token)
		return c.Next()
	}
}

// ExtractToken returns the bearer token if present, otherwise the session cookie value.
func ExtractToken(c *fiber.Ctx, cookieName string) string {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return strings.TrimSpace(c.Cookies(cookieName))
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.AuthUser {
	user, _ := c.Locals(LocalUser).(*models.AuthUser)
	return user
}

// CurrentUserID returns the authenticated user id, or "" for anonymous requests.
func CurrentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}
