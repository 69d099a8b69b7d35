package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:               "8080",
		Env:                "development",
		JWTSecret:          "secure-secret-at-least-32-chars-long",
		SessionCookieName:  "blog_session",
		SessionTTLHours:    24,
		DBSSLMode:          "require",
		TracingSampleRatio: 1,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"valid development", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"zero ttl", func(c *Config) { c.SessionTTLHours = 0 }, true},
		{"bad sample ratio", func(c *Config) { c.TracingSampleRatio = 2 }, true},
		{"production default secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = defaultJWTSecret
		}, true},
		{"production short secret", func(c *Config) {
			c.Env = "prod"
			c.JWTSecret = "short"
		}, true},
		{"production store without ssl", func(c *Config) {
			c.Env = "production"
			c.DBHost = "db.internal"
			c.DBName = "blog"
			c.DBSSLMode = "disable"
		}, true},
		{"production placeholder store without ssl", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "disable"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_StoreConfigured(t *testing.T) {
	c := validConfig()
	assert.False(t, c.StoreConfigured())

	c.DBHost = placeholderDBHost
	c.DBName = "blog"
	assert.False(t, c.StoreConfigured())

	c.DBHost = "db.internal"
	assert.True(t, c.StoreConfigured())

	c.DBName = ""
	assert.False(t, c.StoreConfigured())
}

func TestConfig_AuthConfigured(t *testing.T) {
	c := validConfig()
	assert.False(t, c.AuthConfigured())
	c.GitHubClientID = "id"
	assert.False(t, c.AuthConfigured())
	c.GitHubClientSecret = "secret"
	assert.True(t, c.AuthConfigured())
}

func TestLoadConfig_Normalization(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("DB_HOST", "  db.internal ")
	t.Setenv("DB_NAME", "blog\n")
	t.Setenv("SITE_URL", "https://blog.example.com/")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "db.internal", c.DBHost)
	assert.Equal(t, "blog", c.DBName)
	assert.Equal(t, "https://blog.example.com", c.SiteURL)
	assert.True(t, c.StoreConfigured())
}

func TestLoadConfig_DefaultsToPlaceholderMode(t *testing.T) {
	defer viper.Reset()
	for _, key := range []string{"DB_HOST", "DB_NAME", "GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET"} {
		if v, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, v) })
			os.Unsetenv(key)
		}
	}
	t.Setenv("APP_ENV", "test")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, c.StoreConfigured())
	assert.False(t, c.AuthConfigured())
	assert.Equal(t, "live_updates=on", c.FeatureFlags)
}
