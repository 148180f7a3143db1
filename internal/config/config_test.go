package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadTTLDefaults(t *testing.T) {
	t.Setenv("BOOKING_PENDING_TTL_MINUTES", "")
	t.Setenv("BOOKING_TTL_SWEEP_INTERVAL", "")
	t.Setenv("BOOKING_TTL_INITIAL_DELAY", "")

	cfg := loadTTL()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 15, cfg.TTLMinutes)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, 10*time.Second, cfg.InitialDelay)
}

func TestLoadTTLCustomMinutes(t *testing.T) {
	t.Setenv("BOOKING_PENDING_TTL_MINUTES", "30")
	cfg := loadTTL()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 30, cfg.TTLMinutes)
}

func TestLoadTTLInvalidDisablesWorker(t *testing.T) {
	for _, raw := range []string{"soon", "0", "-5", "1.5"} {
		t.Setenv("BOOKING_PENDING_TTL_MINUTES", raw)
		cfg := loadTTL()
		assert.Falsef(t, cfg.Enabled, "TTL=%q must disable the worker", raw)
	}
}

func TestLoadTTLDurationOverrides(t *testing.T) {
	t.Setenv("BOOKING_PENDING_TTL_MINUTES", "15")
	t.Setenv("BOOKING_TTL_SWEEP_INTERVAL", "30s")
	t.Setenv("BOOKING_TTL_INITIAL_DELAY", "2s")

	cfg := loadTTL()
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.Equal(t, 2*time.Second, cfg.InitialDelay)
}
