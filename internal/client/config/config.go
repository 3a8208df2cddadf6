package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/albumkeeper/internal/logging"
)

const (
	RemoteHTTP = "http"
	RemoteGRPC = "grpc"
	RemoteS3   = "s3"

	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the album cache CLI.
type Config struct {
	// RemoteKind selects the remote source: http, grpc or s3.
	RemoteKind string
	RemoteURL  string
	GRPCAddr   string

	S3Bucket       string
	S3Key          string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	// AuthSecret signs access tokens for the album feed server. Empty
	// disables authentication.
	AuthSecret string

	Store       string
	DatabaseDSN string

	CacheTTL       time.Duration
	RequestTimeout time.Duration

	SingleFlight      bool
	PreserveFavorites bool

	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.RemoteKind = RemoteHTTP
	c.RemoteURL = "https://jsonplaceholder.typicode.com/photos"
	c.GRPCAddr = "127.0.0.1:50051"
	c.S3Region = "us-east-1"
	c.Store = StoreSQLite
	c.DatabaseDSN = "data/albums.db"
	c.CacheTTL = time.Hour
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch c.RemoteKind {
	case RemoteHTTP:
		if c.RemoteURL == "" {
			return fmt.Errorf("%w: remote_url is required for the http remote", ErrInvalidConfig)
		}
	case RemoteGRPC:
		if c.GRPCAddr == "" {
			return fmt.Errorf("%w: grpc_addr is required for the grpc remote", ErrInvalidConfig)
		}
	case RemoteS3:
		if c.S3Bucket == "" || c.S3Key == "" {
			return fmt.Errorf("%w: s3_bucket and s3_key are required for the s3 remote", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown remote_kind %q", ErrInvalidConfig, c.RemoteKind)
	}

	switch c.Store {
	case StoreMemory:
	case StoreSQLite:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("%w: database_dsn is required for the sqlite store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("%w: cache_ttl must be positive", ErrInvalidConfig)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request_timeout must be positive", ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. args excludes the program name.
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
