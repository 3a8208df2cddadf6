package albums

import (
	"context"
	"time"

	"github.com/dmitrijs2005/albumkeeper/internal/client/models"
	"github.com/dmitrijs2005/albumkeeper/internal/live"
)

// Repository describes the local album store.
type Repository interface {
	// GetAll returns every record ordered by (AlbumID, ID).
	GetAll(ctx context.Context) ([]models.CachedAlbum, error)

	// ObserveAll streams GetAll, re-emitting after every change.
	ObserveAll(ctx context.Context) <-chan live.Update[[]models.CachedAlbum]

	// GetByID returns (nil, nil) when the record does not exist.
	GetByID(ctx context.Context, id int) (*models.CachedAlbum, error)

	// ObserveByID streams GetByID; absence is emitted as nil.
	ObserveByID(ctx context.Context, id int) <-chan live.Update[*models.CachedAlbum]

	// ReplaceAll inserts records, overwriting any with the same ID. Records
	// with a zero CachedAt are stamped with the write time. Callers that want
	// a full replacement clear the store first; the two steps are not atomic.
	ReplaceAll(ctx context.Context, records []models.CachedAlbum) error

	// ClearAll removes every record.
	ClearAll(ctx context.Context) error

	Count(ctx context.Context) (int, error)

	// CacheTimestamp returns the CachedAt of an arbitrary record as the age
	// of the whole generation, or nil when the store is empty.
	CacheTimestamp(ctx context.Context) (*time.Time, error)

	// SetFavorite updates one record; it is a no-op for unknown IDs.
	SetFavorite(ctx context.Context, id int, favorite bool) error

	// IsFavorite returns nil when the record does not exist.
	IsFavorite(ctx context.Context, id int) (*bool, error)

	// GetFavorites returns the favorite records, same ordering as GetAll.
	GetFavorites(ctx context.Context) ([]models.CachedAlbum, error)

	ObserveFavorites(ctx context.Context) <-chan live.Update[[]models.CachedAlbum]
}
