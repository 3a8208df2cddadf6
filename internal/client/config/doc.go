// Package config loads runtime configuration for the album cache CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "1h" or integer
// nanoseconds:
//
//	{
//	  "remote_kind": "http",
//	  "remote_url": "https://jsonplaceholder.typicode.com/photos",
//	  "store": "sqlite",
//	  "database_dsn": "data/albums.db",
//	  "cache_ttl": "1h",
//	  "request_timeout": "15s",
//	  "single_flight": false,
//	  "preserve_favorites": false,
//	  "log_level": "info"
//	}
//
// The s3 remote additionally reads s3_bucket, s3_key, s3_region,
// s3_base_endpoint, s3_access_key and s3_secret_key; auth_secret signs
// tokens for the album feed server.
package config
