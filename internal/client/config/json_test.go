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

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeTempJSON(t, dir, "albums.json", map[string]any{
		"remote_kind":        "grpc",
		"grpc_addr":          "feed.internal:50051",
		"cache_ttl":          "10m",
		"request_timeout":    float64(3 * time.Second),
		"preserve_favorites": true,
	})

	t.Run("loads from -config", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-config", path}))

		assert.Equal(t, RemoteGRPC, cfg.RemoteKind)
		assert.Equal(t, "feed.internal:50051", cfg.GRPCAddr)
		assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.True(t, cfg.PreserveFavorites)
		// missing keys keep their defaults
		assert.Equal(t, "data/albums.db", cfg.DatabaseDSN)
		assert.Equal(t, StoreSQLite, cfg.Store)
	})

	t.Run("no flags → no changes", func(t *testing.T) {
		cfg := &Config{RemoteURL: "http://localhost/photos", CacheTTL: 42 * time.Second}
		require.NoError(t, parseJson(cfg, nil))

		assert.Equal(t, "http://localhost/photos", cfg.RemoteURL)
		assert.Equal(t, 42*time.Second, cfg.CacheTTL)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := &Config{}
		err := parseJson(cfg, []string{"-c", filepath.Join(dir, "absent.json")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		cfg := &Config{}
		err := parseJson(cfg, []string{"-config", bad})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"store":     "memory",
		"cache_ttl": "2h",
		"log_level": "warn",
	})

	cfg, err := LoadConfig([]string{"-c", path, "-t", "5m"})
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_InvalidResult(t *testing.T) {
	_, err := LoadConfig([]string{"-k", "carrier-pigeon"})
	require.ErrorIs(t, err, ErrInvalidConfig)
}
