package albums

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/albumkeeper/internal/server/models"
)

// MemoryRepository keeps the collection in process memory. It backs the
// server when no database is configured.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []models.Album
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) List(ctx context.Context) ([]models.Album, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Album{}, r.items...), nil
}

func (r *MemoryRepository) ReplaceAll(ctx context.Context, items []models.Album) error {
	byID := make(map[int]models.Album, len(items))
	for _, a := range items {
		byID[a.ID] = a
	}
	next := make([]models.Album, 0, len(byID))
	for _, a := range byID {
		next = append(next, a)
	}
	slices.SortFunc(next, func(a, b models.Album) int {
		if c := cmp.Compare(a.AlbumID, b.AlbumID); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	r.mu.Lock()
	r.items = next
	r.mu.Unlock()
	return nil
}
