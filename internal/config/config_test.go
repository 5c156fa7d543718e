package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Run from a temp dir so no stray config.yaml is picked up.
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, []string{".pdf"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, "Payment History", cfg.Layout.Sentinel)
	assert.Equal(t, float64(100), cfg.Layout.WindowAbove)
	assert.Equal(t, float64(20), cfg.Layout.WindowBelow)
	assert.Equal(t, float64(1), cfg.Layout.RowGranularity)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CREDITSCAN_SERVER_PORT", "9090")
	t.Setenv("CREDITSCAN_LOGGING_LEVEL", "debug")
	t.Setenv("CREDITSCAN_LAYOUT_WINDOW_ABOVE", "120")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, float64(120), cfg.Layout.WindowAbove)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := chdirTemp(t)

	yaml := []byte("server:\n  port: 9191\nlayout:\n  sentinel: \"Account History\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "Account History", cfg.Layout.Sentinel)
	// Untouched sections keep their defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := []byte("server:\n  port: 9191\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0644))
	t.Setenv("CREDITSCAN_SERVER_PORT", "9292")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9292, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	t.Run("normalizes format to json", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Format = "text"
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "json", cfg.Logging.Format)
	})

	t.Run("rejects invalid port", func(t *testing.T) {
		cfg := Default()
		cfg.Server.Port = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects inverted layout window", func(t *testing.T) {
		cfg := Default()
		cfg.Layout.WindowAbove = 10
		cfg.Layout.WindowBelow = 50
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects empty sentinel", func(t *testing.T) {
		cfg := Default()
		cfg.Layout.Sentinel = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects zero rate limit", func(t *testing.T) {
		cfg := Default()
		cfg.Security.RateLimit.RPS = 0
		assert.Error(t, cfg.Validate())
	})
}

// chdirTemp switches the working directory to a fresh temp dir for the
// duration of the test.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}
