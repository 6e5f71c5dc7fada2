package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "a-test-secret-that-is-at-least-32-chars"

func TestLoad(t *testing.T) {
	t.Run("defaults apply when only the secret is set", func(t *testing.T) {
		t.Setenv("TASKNEST_AUTH_JWT_SECRET", testSecret)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "info", cfg.Server.LogLevel)
		assert.Equal(t, "tasknest.db", cfg.Database.DSN)
		assert.Equal(t, 60*24*7, cfg.Auth.TokenLifetimeMinutes)
		assert.Equal(t, testSecret, cfg.Auth.JWTSecret)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("TASKNEST_AUTH_JWT_SECRET", testSecret)
		t.Setenv("TASKNEST_SERVER_PORT", "9999")
		t.Setenv("TASKNEST_SERVER_LOG_LEVEL", "debug")
		t.Setenv("TASKNEST_DATABASE_DSN", "/tmp/other.db")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 9999, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Server.LogLevel)
		assert.Equal(t, "/tmp/other.db", cfg.Database.DSN)
	})

	t.Run("missing secret fails validation", func(t *testing.T) {
		t.Setenv("TASKNEST_AUTH_JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("short secret fails validation", func(t *testing.T) {
		t.Setenv("TASKNEST_AUTH_JWT_SECRET", "too-short")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("invalid log level fails validation", func(t *testing.T) {
		t.Setenv("TASKNEST_AUTH_JWT_SECRET", testSecret)
		t.Setenv("TASKNEST_SERVER_LOG_LEVEL", "verbose")

		_, err := Load()
		require.Error(t, err)
	})
}
