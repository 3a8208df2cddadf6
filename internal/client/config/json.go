package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/albumkeeper/internal/flagx"
	"github.com/dmitrijs2005/albumkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// are timex.Duration, so "1h" and integer nanoseconds both work.
type JsonConfig struct {
	RemoteKind        string         `json:"remote_kind"`
	RemoteURL         string         `json:"remote_url"`
	GRPCAddr          string         `json:"grpc_addr"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Key             string         `json:"s3_key"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	S3AccessKey       string         `json:"s3_access_key"`
	S3SecretKey       string         `json:"s3_secret_key"`
	AuthSecret        string         `json:"auth_secret"`
	Store             string         `json:"store"`
	DatabaseDSN       string         `json:"database_dsn"`
	CacheTTL          timex.Duration `json:"cache_ttl"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	SingleFlight      bool           `json:"single_flight"`
	PreserveFavorites bool           `json:"preserve_favorites"`
	LogLevel          string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c/-config in args.
// Keys missing from the file keep their current value.
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
		RemoteKind:        cfg.RemoteKind,
		RemoteURL:         cfg.RemoteURL,
		GRPCAddr:          cfg.GRPCAddr,
		S3Bucket:          cfg.S3Bucket,
		S3Key:             cfg.S3Key,
		S3Region:          cfg.S3Region,
		S3BaseEndpoint:    cfg.S3BaseEndpoint,
		S3AccessKey:       cfg.S3AccessKey,
		S3SecretKey:       cfg.S3SecretKey,
		AuthSecret:        cfg.AuthSecret,
		Store:             cfg.Store,
		DatabaseDSN:       cfg.DatabaseDSN,
		CacheTTL:          timex.Duration{Duration: cfg.CacheTTL},
		RequestTimeout:    timex.Duration{Duration: cfg.RequestTimeout},
		SingleFlight:      cfg.SingleFlight,
		PreserveFavorites: cfg.PreserveFavorites,
		LogLevel:          cfg.LogLevel,
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.RemoteKind = jc.RemoteKind
	cfg.RemoteURL = jc.RemoteURL
	cfg.GRPCAddr = jc.GRPCAddr
	cfg.S3Bucket = jc.S3Bucket
	cfg.S3Key = jc.S3Key
	cfg.S3Region = jc.S3Region
	cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	cfg.S3AccessKey = jc.S3AccessKey
	cfg.S3SecretKey = jc.S3SecretKey
	cfg.AuthSecret = jc.AuthSecret
	cfg.Store = jc.Store
	cfg.DatabaseDSN = jc.DatabaseDSN
	cfg.CacheTTL = time.Duration(jc.CacheTTL.Duration)
	cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	cfg.SingleFlight = jc.SingleFlight
	cfg.PreserveFavorites = jc.PreserveFavorites
	cfg.LogLevel = jc.LogLevel
	return nil
}
