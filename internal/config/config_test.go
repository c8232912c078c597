package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setXDG(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	return root
}

func TestLoadConfigCreatesDefaults(t *testing.T) {
	root := setXDG(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "data", "atelier", "catalog.toml"), cfg.CatalogPath)
	assert.Equal(t, 150*time.Millisecond, cfg.AdvanceDelay.Duration)
	assert.Equal(t, 8, cfg.SwipeThreshold)
	assert.False(t, cfg.ShuffleOnRebuild)

	data, err := os.ReadFile(filepath.Join(root, "config", "atelier", "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `advance_delay = "150ms"`)
}

func TestLoadConfigKeepsDefaultsForMissingKeys(t *testing.T) {
	root := setXDG(t)
	path := filepath.Join(root, "config", "atelier", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("advance_delay = \"0s\"\nshuffle_on_rebuild = true\nlog_level = \"debug\"\n"), 0644))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Zero(t, cfg.AdvanceDelay.Duration)
	assert.True(t, cfg.ShuffleOnRebuild)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout.Duration)
	assert.Equal(t, 40, cfg.ArtWidth)
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	root := setXDG(t)
	path := filepath.Join(root, "config", "atelier", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("advance_delay = \"soon\"\n"), 0644))

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestXDGFallbacks(t *testing.T) {
	root := setXDG(t)
	assert.Equal(t, filepath.Join(root, "cache", "atelier", "ansi_cache"), GetCacheDir())
	assert.Equal(t, filepath.Join(root, "data", "atelier"), GetDataDir())

	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", root)
	assert.Equal(t, filepath.Join(root, ".cache"), GetXDGCacheHome())
}
