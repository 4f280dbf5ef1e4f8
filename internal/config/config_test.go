package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 100, cfg.LogRotation)
	assert.False(t, cfg.AuditBatch)
	assert.Equal(t, 5*time.Second, cfg.AuditFlushInterval)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	t.Setenv("LOG_ROTATION", "250")
	t.Setenv("AUDIT_BATCH", "true")
	t.Setenv("AUDIT_FLUSH_INTERVAL", "30s")

	cfg := Load()
	assert.Equal(t, 250, cfg.LogRotation)
	assert.True(t, cfg.AuditBatch)
	assert.Equal(t, 30*time.Second, cfg.AuditFlushInterval)
}

func TestLoad_InvalidRotationFallsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	t.Setenv("LOG_ROTATION", "not-a-number")

	assert.Equal(t, 100, Load().LogRotation)
}
