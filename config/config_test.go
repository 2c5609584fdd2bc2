// file: config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.FirstBloodEnabled)
	assert.InDelta(t, 0.75, cfg.SuspicionThreshold, 1e-9)
	assert.InDelta(t, 0.95, cfg.SimilarityThreshold, 1e-9)
	assert.Equal(t, 60, cfg.TemporalWindowSecs)
	assert.Equal(t, 5000, cfg.MaxScanRows)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.Equal(t, 86400, cfg.FirstBloodCacheTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("INTEL_SUSPICION_THRESHOLD", "0.9")
	t.Setenv("INTEL_MAX_SCAN_ROWS", "1000")
	t.Setenv("INTEL_SUSPICION_ENABLED", "false")
	t.Setenv("INTEL_HMAC_SECRET", "rotated-secret")

	cfg := Load()
	assert.InDelta(t, 0.9, cfg.SuspicionThreshold, 1e-9)
	assert.Equal(t, 1000, cfg.MaxScanRows)
	assert.False(t, cfg.SuspicionEnabled)
	assert.Equal(t, "rotated-secret", cfg.HMACSecret)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("INTEL_RETENTION_DAYS", "forever")
	t.Setenv("INTEL_SUSPICION_THRESHOLD", "very high")

	cfg := Load()
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.InDelta(t, 0.75, cfg.SuspicionThreshold, 1e-9)
}

func TestFeatureStatusReflectsConfig(t *testing.T) {
	cfg := Load()
	status := cfg.FeatureStatus()

	assert.Equal(t, cfg.Enabled, status["enabled"])
	assert.Equal(t, cfg.SuspicionThreshold, status["suspicion_threshold"])
	assert.Equal(t, cfg.RetentionDays, status["retention_days"])
}
