package client

import (
	"context"

	"github.com/dmitrijs2005/albumkeeper/internal/client/models"
)

// Client fetches the complete album collection from a remote source.
type Client interface {
	// FetchAll is all-or-nothing: it returns every album or an error.
	FetchAll(ctx context.Context) ([]models.Album, error)
	Close() error
}

const (
	SourceHTTP = "http"
	SourceGRPC = "grpc"
	SourceS3   = "s3"
)
