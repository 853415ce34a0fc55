package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "marketplace-moderation", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "moderation:decision_log", cfg.Audit.CacheKey)
	assert.Equal(t, 400, cfg.Audit.CacheLimit)
	assert.Equal(t, 5, cfg.Audit.HistoryDisplayLimit)
	assert.Equal(t, 500, cfg.Moderation.SnapshotLimit)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUDIT_CACHE_LIMIT", "100")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("AUDIT_HISTORY_DISPLAY_LIMIT", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, 100, cfg.Audit.CacheLimit)
	assert.Equal(t, 10, cfg.Audit.HistoryDisplayLimit)
	assert.False(t, cfg.Postgres.RunMigrations)
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("SOME_INT", "oops")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))

	t.Setenv("SOME_BOOL", "1")
	assert.True(t, getEnvAsBool("SOME_BOOL", false))

	assert.Equal(t, "fallback", getEnv("UNSET_KEY_FOR_TEST", "fallback"))
}
