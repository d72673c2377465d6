package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 365, cfg.RetentionDays)
	assert.True(t, cfg.Enabled)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SIGAT_AUDIT_RETENTION_DAYS", "30")
	t.Setenv("SIGAT_AUDIT_ENABLED", "false")

	cfg := ConfigFromEnv()
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.False(t, cfg.Enabled)
}

func TestConfigFromEnv_InvalidValuesKeepDefaults(t *testing.T) {
	t.Setenv("SIGAT_AUDIT_RETENTION_DAYS", "not-a-number")

	cfg := ConfigFromEnv()
	assert.Equal(t, 365, cfg.RetentionDays)
}
