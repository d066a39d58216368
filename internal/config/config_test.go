package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "M", cfg.Level)
	assert.Equal(t, 8, cfg.ModuleSize)
	assert.Equal(t, 4, cfg.Margin)
	assert.Equal(t, "#000000", cfg.Dark)
	assert.InDelta(t, 0.2, cfg.LogoSize, 1e-9)
	assert.Equal(t, 150, cfg.Site.Size)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Empty(t, cfg.S3.Bucket)
	assert.Equal(t, 30*time.Second, cfg.S3.UploadTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("QRFOLIO_LEVEL", "H")
	t.Setenv("QRFOLIO_MARGIN", "1")
	t.Setenv("QRFOLIO_SITE_BASE_URL", "https://example.com")
	t.Setenv("QRFOLIO_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("QRFOLIO_S3_BUCKET", "codes")
	t.Setenv("QRFOLIO_S3_FORCE_PATH_STYLE", "true")
	t.Setenv("QRFOLIO_LOG_JSON", "true")

	var cfg Config
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "H", cfg.Level)
	assert.Equal(t, 1, cfg.Margin)
	assert.Equal(t, "https://example.com", cfg.Site.BaseURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "codes", cfg.S3.Bucket)
	assert.True(t, cfg.S3.ForcePathStyle)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadInvalidValue(t *testing.T) {
	t.Setenv("QRFOLIO_MODULE_SIZE", "big")

	var cfg Config
	assert.Error(t, Load(&cfg))
	assert.Panics(t, func() { MustLoad(&cfg) })
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()

	assert.NoError(t, loadDotenv(filepath.Join(dir, "missing.env")))

	good := filepath.Join(dir, "good.env")
	require.NoError(t, os.WriteFile(good, []byte("QRFOLIO_DOTENV_SAMPLE=yes\n"), 0o600))
	t.Setenv("QRFOLIO_DOTENV_SAMPLE", "")
	require.NoError(t, os.Unsetenv("QRFOLIO_DOTENV_SAMPLE"))
	require.NoError(t, loadDotenv(good))
	assert.Equal(t, "yes", os.Getenv("QRFOLIO_DOTENV_SAMPLE"))

	// A directory exists but cannot be read as a file.
	assert.Error(t, loadDotenv(dir))
}
