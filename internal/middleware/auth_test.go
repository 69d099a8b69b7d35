package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/namgiho96/giho-blog/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	tokens map[string]*models.AuthUser
}

func (s stubVerifier) Verify(_ context.Context, token string) (*models.AuthUser, error) {
	if user, ok := s.tokens[token]; ok {
		return user, nil
	}
	return nil, errors.New("invalid token")
}

func TestOptionalAuth(t *testing.T) {
	verifier := stubVerifier{tokens: map[string]*models.AuthUser{
		"good-token": {ID: "user-123", UserName: "octocat"},
	}}

	app := fiber.New()
	app.Use(OptionalAuth(verifier, "blog_session"))
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": CurrentUserID(c), "anonymous": CurrentUser(c) == nil})
	})

	tests := []struct {
		name           string
		authHeader     string
		cookie         string
		expectedUserID string
	}{
		{name: "Bearer token", authHeader: "Bearer good-token", expectedUserID: "user-123"},
		{name: "Lowercase scheme", authHeader: "bearer good-token", expectedUserID: "user-123"},
		{name: "Session cookie", cookie: "good-token", expectedUserID: "user-123"},
		{name: "No credentials", expectedUserID: ""},
		{name: "Invalid token stays anonymous", authHeader: "Bearer bad-token", expectedUserID: ""},
		{name: "Basic scheme falls back to cookie", authHeader: "Basic dXNlcjpwYXNz", cookie: "good-token", expectedUserID: "user-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "blog_session", Value: tt.cookie})
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var body struct {
				UserID    string `json:"userID"`
				Anonymous bool   `json:"anonymous"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.expectedUserID, body.UserID)
			assert.Equal(t, tt.expectedUserID == "", body.Anonymous)
		})
	}
}

func TestOptionalAuth_NilVerifier(t *testing.T) {
	app := fiber.New()
	app.Use(OptionalAuth(nil, "blog_session"))
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(CurrentUserID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer anything")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
