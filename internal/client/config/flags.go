package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/albumkeeper/internal/flagx"
)

var valueFlags = []string{
	"-k", "-u", "-g", "-s", "-d", "-t", "-r", "-l",
	"-secret",
	"-s3-bucket", "-s3-key", "-s3-region", "-s3-endpoint", "-s3-access-key", "-s3-secret-key",
}

var boolFlags = []string{"-single-flight", "-preserve-favorites"}

// parseFlags populates Config fields from command-line flags.
//
//	-k string   remote kind: http, grpc or s3
//	-u string   URL of the http remote
//	-g string   address of the grpc remote
//	-s string   store: sqlite or memory
//	-d string   sqlite database path
//	-t duration cache time to live
//	-r duration remote request timeout
//	-l string   log level
//
// Arguments that belong to other components are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, valueFlags, boolFlags...)

	fs := flag.NewFlagSet("albumkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.RemoteKind, "k", cfg.RemoteKind, "remote kind: http, grpc or s3")
	fs.StringVar(&cfg.RemoteURL, "u", cfg.RemoteURL, "URL of the http remote")
	fs.StringVar(&cfg.GRPCAddr, "g", cfg.GRPCAddr, "address of the grpc remote")
	fs.StringVar(&cfg.Store, "s", cfg.Store, "store: sqlite or memory")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "sqlite database path")
	fs.DurationVar(&cfg.CacheTTL, "t", cfg.CacheTTL, "cache time to live")
	fs.DurationVar(&cfg.RequestTimeout, "r", cfg.RequestTimeout, "remote request timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.AuthSecret, "secret", cfg.AuthSecret, "secret used to sign access tokens")

	fs.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "s3 bucket")
	fs.StringVar(&cfg.S3Key, "s3-key", cfg.S3Key, "s3 object key")
	fs.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "s3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "s3-endpoint", cfg.S3BaseEndpoint, "s3 compatible endpoint")
	fs.StringVar(&cfg.S3AccessKey, "s3-access-key", cfg.S3AccessKey, "s3 access key")
	fs.StringVar(&cfg.S3SecretKey, "s3-secret-key", cfg.S3SecretKey, "s3 secret key")

	fs.BoolVar(&cfg.SingleFlight, "single-flight", cfg.SingleFlight, "share one fetch between concurrent refreshes")
	fs.BoolVar(&cfg.PreserveFavorites, "preserve-favorites", cfg.PreserveFavorites, "keep favorite flags across refreshes")

	return fs.Parse(args)
}
