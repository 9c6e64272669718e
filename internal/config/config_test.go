package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	// Empty values read as unset.
	for _, key := range []string{"PORT", "BOOKING_EXPIRY_MIN", "SWEEP_INTERVAL_SEC",
		"DB_NAME", "DB_SSLMODE", "NATS_ENABLED", "ES_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.BookingExpiry)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, "parkgate", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.False(t, cfg.NATS.Enabled)
	assert.False(t, cfg.Search.Enabled)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BOOKING_EXPIRY_MIN", "15")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.BookingExpiry)
	// Malformed numbers fall back to the default.
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
}
