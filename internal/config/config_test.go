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

	assert.Equal(t, "egov-portal", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxFileSizeBytes)
	assert.Equal(t, 5, cfg.Upload.MaxFiles)
	assert.Equal(t, 5*time.Minute, cfg.Reports.CacheTTL())
	assert.True(t, cfg.Postgres.RunMigrations)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("STORAGE_S3_BUCKET", "documents")
	t.Setenv("UPLOAD_MAX_FILES", "3")
	t.Setenv("REPORTS_CACHE_TTL_SECONDS", "0")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "s3", cfg.Storage.Driver)
	assert.Equal(t, "documents", cfg.Storage.S3Bucket)
	assert.Equal(t, 3, cfg.Upload.MaxFiles)
	assert.Equal(t, time.Duration(0), cfg.Reports.CacheTTL())
	assert.False(t, cfg.Postgres.RunMigrations)
}

func TestLoadInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}

func TestIntAndBoolFallbacks(t *testing.T) {
	t.Setenv("UPLOAD_MAX_FILES", "not-a-number")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "not-a-bool")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Upload.MaxFiles)
	assert.True(t, cfg.Postgres.RunMigrations)
}
