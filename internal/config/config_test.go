package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Dias221467/Travel_Planner/internal/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_NAME", "TOKEN_EXPIRY", "REDIS_URL", "FRONTEND_URL", "OUTBOX_MAX_ATTEMPTS", "OUTBOX_BATCH", "OUTBOX_RETRY_SPEC", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg := config.LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "travel_planner", cfg.DBName)
	assert.Equal(t, 72*time.Hour, cfg.TokenExpiry)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "@every 1m", cfg.OutboxRetrySpec)
	assert.Equal(t, 5, cfg.OutboxMaxAttempts)
	assert.Equal(t, 50, cfg.OutboxBatch)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3001"}, cfg.AllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "5001")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_EXPIRY", "2h")
	t.Setenv("FRONTEND_URL", "https://trips.example.com,https://www.trips.example.com")
	t.Setenv("OUTBOX_MAX_ATTEMPTS", "9")

	cfg := config.LoadConfig()

	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenExpiry)
	assert.Equal(t, 9, cfg.OutboxMaxAttempts)
	assert.Contains(t, cfg.AllowedOrigins, "https://trips.example.com")
	assert.Contains(t, cfg.AllowedOrigins, "https://www.trips.example.com")
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TOKEN_EXPIRY", "soon")
	t.Setenv("OUTBOX_BATCH", "-3")

	cfg := config.LoadConfig()

	assert.Equal(t, 72*time.Hour, cfg.TokenExpiry)
	assert.Equal(t, 50, cfg.OutboxBatch)
}
