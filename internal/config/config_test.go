package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery/internal/config"
	"gallery/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GALLERY_STORAGE_BUCKET", "")
	t.Setenv("PORT", "")

	cfg, err := config.LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "s3", cfg.Storage.Provider)
	assert.Equal(t, "", cfg.Storage.Bucket)
	assert.Equal(t, "", cfg.Storage.Endpoint)
	assert.Equal(t, int64(3600), cfg.Storage.PresignExpiry)
	assert.Equal(t, domain.DefaultMaxFileSizeBytes, cfg.Upload.MaxFileSizeBytes)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxFileSizeBytes)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GALLERY_STORAGE_PROVIDER", "MinIO")
	t.Setenv("GALLERY_STORAGE_ENDPOINT", "http://localhost:9000")
	t.Setenv("GALLERY_STORAGE_PROJECT_ID", "holiday")
	t.Setenv("GALLERY_STORAGE_BUCKET", "photos")
	t.Setenv("GALLERY_UPLOAD_MAX_FILE_SIZE_BYTES", "1024")
	t.Setenv("GALLERY_CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg, err := config.LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, "minio", cfg.Storage.Provider)
	assert.Equal(t, "http://localhost:9000", cfg.Storage.Endpoint)
	assert.Equal(t, "photos", cfg.Storage.Bucket)
	assert.Equal(t, "holiday/", cfg.Storage.KeyPrefix())
	assert.Equal(t, int64(1024), cfg.Upload.MaxFileSizeBytes)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_NonPositiveLimitsFallBack(t *testing.T) {
	t.Setenv("GALLERY_UPLOAD_MAX_FILE_SIZE_BYTES", "0")
	t.Setenv("GALLERY_STORAGE_LIST_CONCURRENCY", "-3")

	cfg, err := config.LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultMaxFileSizeBytes, cfg.Upload.MaxFileSizeBytes)
	assert.Equal(t, 1, cfg.Storage.ListConcurrency)
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("GALLERY_SERVER_PORT", "")

	cfg, err := config.LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Port)
}

func TestLoadFrom_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("GALLERY_STORAGE_BUCKET=from-file\n"), 0o600))

	// godotenv never overrides variables that are already set, so start unset.
	prev, had := os.LookupEnv("GALLERY_STORAGE_BUCKET")
	require.NoError(t, os.Unsetenv("GALLERY_STORAGE_BUCKET"))
	t.Cleanup(func() {
		if had {
			_ = os.Setenv("GALLERY_STORAGE_BUCKET", prev)
		} else {
			_ = os.Unsetenv("GALLERY_STORAGE_BUCKET")
		}
	})

	cfg, err := config.LoadFrom(envFile)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Storage.Bucket)
}

func TestLoadFrom_MissingEnvFile(t *testing.T) {
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestStorageConfig_KeyPrefix(t *testing.T) {
	cfg := config.StorageConfig{}
	assert.Equal(t, "", cfg.KeyPrefix())

	cfg.ProjectID = "/nested/"
	assert.Equal(t, "nested/", cfg.KeyPrefix())
}
