package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	want := Config{HTTPAddr: ":8080", GRPCAddr: ":50051", LogLevel: "info"}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Layers(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"grpc_addr":    ":6000",
		"database_dsn": "postgres://feed",
		"seed_file":    "albums.json",
	})

	c, err := LoadConfig([]string{"-c", path, "-g", ":7000", "-s", "k", "-unrelated", "x"})
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, ":7000", c.GRPCAddr, "flags win over the file")
	assert.Equal(t, "postgres://feed", c.DatabaseDSN)
	assert.Equal(t, "albums.json", c.SeedFile)
	assert.Equal(t, "k", c.SecretKey)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig([]string{"-a", "", "-g", ""})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadConfig([]string{"-l", "chatty"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadConfig([]string{"-c", "/does/not/exist.json"})
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestParseFlags(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	err := parseFlags(c, []string{"-a", "127.0.0.1:9090", "-d", "db", "-f", "seed.json", "-s", "secret", "-l", "debug"})
	require.NoError(t, err)

	want := &Config{
		HTTPAddr:    "127.0.0.1:9090",
		GRPCAddr:    ":50051",
		DatabaseDSN: "db",
		SeedFile:    "seed.json",
		SecretKey:   "secret",
		LogLevel:    "debug",
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}
