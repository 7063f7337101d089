package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("SEED_TASKS", "")
	t.Setenv("NUMBERING_MAX_ATTEMPTS", "")
	t.Setenv("S3_BUCKET", "")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, 5, cfg.NumberingMaxAttempts)
	assert.Equal(t, 10*time.Minute, cfg.TaskCacheTTL)
	assert.Equal(t, DefaultTasks, cfg.SeedTasks)
	assert.NotEmpty(t, cfg.SessionSecret)
	assert.False(t, cfg.HasS3Storage())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_TYPE", "Postgres")
	t.Setenv("SEED_TASKS", "feeding, , swarm control")
	t.Setenv("NUMBERING_MAX_ATTEMPTS", "8")
	t.Setenv("LOGIN_RATE_WINDOW", "30s")
	t.Setenv("TASK_CACHE_TTL", "not-a-duration")
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	t.Setenv("S3_BUCKET", "journals")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DBType)
	assert.Equal(t, []string{"feeding", "swarm control"}, cfg.SeedTasks)
	assert.Equal(t, 8, cfg.NumberingMaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.LoginRateWindow)
	assert.Equal(t, 10*time.Minute, cfg.TaskCacheTTL)
	assert.True(t, cfg.HasS3Storage())
}

func TestGenerateSecureSecret(t *testing.T) {
	a := GenerateSecureSecret()
	b := GenerateSecureSecret()
	assert.Len(t, a, 44)
	assert.NotEqual(t, a, b)
}
