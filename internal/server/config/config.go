// Package config handles configuration for the album feed server,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/albumkeeper/internal/logging"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the album feed server.
//
//   - HTTPAddr / GRPCAddr: bind addresses; an empty value disables that endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps the collection in memory.
//   - SeedFile: JSON array loaded into the store on start.
//   - SecretKey: HMAC secret for validating client tokens. Empty disables auth.
type Config struct {
	HTTPAddr    string
	GRPCAddr    string
	DatabaseDSN string
	SeedFile    string
	SecretKey   string
	LogLevel    string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.GRPCAddr = ":50051"
	c.LogLevel = "info"
}

func (c *Config) Validate() error {
	if c.HTTPAddr == "" && c.GRPCAddr == "" {
		return fmt.Errorf("%w: at least one of http_addr and grpc_addr is required", ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags. args
// excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
