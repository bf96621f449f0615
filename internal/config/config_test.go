package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "DATABASE_DRIVER", "DATABASE_DSN", "ADMIN_PASSWORD_HASH", "CORS_ORIGINS", "RATE_LIMIT_RPS", "SETTINGS_STRICT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "backoffice.db", cfg.DatabaseDSN)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 0, cfg.RateLimitRPS)
	assert.False(t, cfg.SettingsStrict)
	assert.False(t, cfg.AuthEnabled())
}

func TestLoadPostgresDSN(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "office")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "books")

	cfg := Load()
	assert.Equal(t, "pgx", cfg.DatabaseDriver)
	assert.Equal(t, "postgres://office:pw@db.internal:6543/books?sslmode=disable", cfg.DatabaseDSN)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("HTTP_PORT", "http")
	t.Setenv("RATE_LIMIT_RPS", "fast")
	t.Setenv("SETTINGS_STRICT", "maybe")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abc")

	cfg := Load()
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 0, cfg.RateLimitRPS)
	assert.False(t, cfg.SettingsStrict)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.AuthEnabled())
}
