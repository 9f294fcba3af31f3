package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "0 0 * * *", cfg.SweepSchedule)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 7, cfg.InvoiceDueDays)
	assert.Equal(t, 7, cfg.ExpiringSoonDays)
	assert.Equal(t, 15, cfg.RecentlyExpiredDays)
	assert.Equal(t, float64(20), cfg.RateLimitRPS)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("TIMEZONE", "Asia/Kolkata")
	t.Setenv("INVOICE_DUE_DAYS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "Asia/Kolkata", cfg.Location.String())
	assert.Equal(t, 0, cfg.InvoiceDueDays)
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadWindows(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("EXPIRING_SOON_DAYS", "0")

	_, err := Load()
	assert.Error(t, err)
}
