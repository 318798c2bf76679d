package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestParseJSON(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"server_base_url":       "https://herbs.example",
		"online_check_interval": "10s",
		"request_timeout":       int64(2 * time.Second),
		"catalog_page_size":     25,
	})

	t.Run("overlays present keys only", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseJSON(&cfg, []string{"-config", path}))

		assert.Equal(t, "https://herbs.example", cfg.ServerBaseURL)
		assert.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
		assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 25, cfg.CatalogPageSize)
		assert.Equal(t, "herbscan.db", cfg.DatabasePath)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("no file named", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseJSON(&cfg, []string{"-a", "http://x"}))
		assert.Equal(t, defaults(), cfg)
	})

	t.Run("flags override file", func(t *testing.T) {
		cfg, err := LoadConfig([]string{"-c", path, "-l", "30"})
		require.NoError(t, err)
		assert.Equal(t, 30, cfg.CatalogPageSize)
		assert.Equal(t, "https://herbs.example", cfg.ServerBaseURL)
	})

	t.Run("invalid json", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ not json`), 0o600))

		cfg := defaults()
		require.ErrorContains(t, parseJSON(&cfg, []string{"-c", bad}), "decode config")
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := defaults()
		err := parseJSON(&cfg, []string{"-c", filepath.Join(t.TempDir(), "nope.json")})
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
