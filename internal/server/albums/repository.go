// Package albums stores and serves the collection published by the feed
// server.
package albums

import (
	"context"

	"github.com/dmitrijs2005/albumkeeper/internal/server/models"
)

// Repository holds the published collection.
type Repository interface {
	// List returns every album ordered by (albumId, id).
	List(ctx context.Context) ([]models.Album, error)
	// ReplaceAll swaps the whole collection for items.
	ReplaceAll(ctx context.Context, items []models.Album) error
}
