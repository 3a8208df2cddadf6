package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/albumkeeper/internal/flagx"
)

// JsonConfig is the on-disk shape of the server configuration.
type JsonConfig struct {
	HTTPAddr    string `json:"http_addr"`
	GRPCAddr    string `json:"grpc_addr"`
	DatabaseDSN string `json:"database_dsn"`
	SeedFile    string `json:"seed_file"`
	SecretKey   string `json:"secret_key"`
	LogLevel    string `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config. Keys missing
// from the file keep their current value.
func parseJson(cfg *Config, args []string) error {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	jc := JsonConfig{
		HTTPAddr:    cfg.HTTPAddr,
		GRPCAddr:    cfg.GRPCAddr,
		DatabaseDSN: cfg.DatabaseDSN,
		SeedFile:    cfg.SeedFile,
		SecretKey:   cfg.SecretKey,
		LogLevel:    cfg.LogLevel,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.HTTPAddr = jc.HTTPAddr
	cfg.GRPCAddr = jc.GRPCAddr
	cfg.DatabaseDSN = jc.DatabaseDSN
	cfg.SeedFile = jc.SeedFile
	cfg.SecretKey = jc.SecretKey
	cfg.LogLevel = jc.LogLevel
	return nil
}
