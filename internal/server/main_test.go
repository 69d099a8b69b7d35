package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/namgiho96/giho-blog/internal/auth"
	"github.com/namgiho96/giho-blog/internal/config"
	"github.com/namgiho96/giho-blog/internal/database"
	"github.com/namgiho96/giho-blog/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-with-at-least-32-characters"

func testConfig() *config.Config {
	return &config.Config{
		Port:              "0",
		Env:               "test",
		JWTSecret:         testSecret,
		SessionCookieName: "blog_session",
		SessionTTLHours:   1,
		SiteURL:           "http://blog.test",
		AllowedOrigins:    "http://blog.test",
		FeatureFlags:      "live_updates=on",
	}
}

// setupSQLiteDB returns a migrated in-memory database on a single connection.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.NewIssuer(testSecret, time.Hour).Issue(&models.AuthUser{
		ID:          userID,
		UserName:    userID[:8],
		DisplayName: "User " + userID[:8],
		Provider:    "github",
	})
	require.NoError(t, err)
	return token
}

// doJSON sends a request and decodes the JSON response body into out (if non-nil).
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}
