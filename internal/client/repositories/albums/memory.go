package albums

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/albumkeeper/internal/client/models"
	"github.com/dmitrijs2005/albumkeeper/internal/live"
)

// MemoryRepository keeps records in process memory. It never fails.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[int]models.CachedAlbum
	// order of insertion, so CacheTimestamp behaves like "LIMIT 1" on a table
	seq []int
	hub *live.Hub
	now func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[int]models.CachedAlbum),
		hub:     live.NewHub(),
		now:     time.Now,
	}
}

func (r *MemoryRepository) snapshot(keep func(models.CachedAlbum) bool) []models.CachedAlbum {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.CachedAlbum, 0, len(r.records))
	for _, a := range r.records {
		if keep == nil || keep(a) {
			out = append(out, a)
		}
	}
	models.SortCached(out)
	return out
}

func (r *MemoryRepository) GetAll(ctx context.Context) ([]models.CachedAlbum, error) {
	return r.snapshot(nil), nil
}

func (r *MemoryRepository) ObserveAll(ctx context.Context) <-chan live.Update[[]models.CachedAlbum] {
	return live.Watch(ctx, r.hub, r.GetAll)
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int) (*models.CachedAlbum, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *MemoryRepository) ObserveByID(ctx context.Context, id int) <-chan live.Update[*models.CachedAlbum] {
	return live.Watch(ctx, r.hub, func(ctx context.Context) (*models.CachedAlbum, error) {
		return r.GetByID(ctx, id)
	})
}

func (r *MemoryRepository) ReplaceAll(ctx context.Context, records []models.CachedAlbum) error {
	if len(records) == 0 {
		return nil
	}
	now := r.now()

	r.mu.Lock()
	for _, a := range records {
		if a.CachedAt.IsZero() {
			a.CachedAt = now
		}
		if _, exists := r.records[a.ID]; !exists {
			r.seq = append(r.seq, a.ID)
		}
		r.records[a.ID] = a
	}
	r.mu.Unlock()

	r.hub.Notify()
	return nil
}

func (r *MemoryRepository) ClearAll(ctx context.Context) error {
	r.mu.Lock()
	r.records = make(map[int]models.CachedAlbum)
	r.seq = nil
	r.mu.Unlock()

	r.hub.Notify()
	return nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records), nil
}

func (r *MemoryRepository) CacheTimestamp(ctx context.Context) (*time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.seq) == 0 {
		return nil, nil
	}
	ts := r.records[r.seq[0]].CachedAt
	return &ts, nil
}

func (r *MemoryRepository) SetFavorite(ctx context.Context, id int, favorite bool) error {
	r.mu.Lock()
	a, ok := r.records[id]
	if ok {
		a.IsFavorite = favorite
		r.records[id] = a
	}
	r.mu.Unlock()

	if ok {
		r.hub.Notify()
	}
	return nil
}

func (r *MemoryRepository) IsFavorite(ctx context.Context, id int) (*bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	fav := a.IsFavorite
	return &fav, nil
}

func (r *MemoryRepository) GetFavorites(ctx context.Context) ([]models.CachedAlbum, error) {
	return r.snapshot(func(a models.CachedAlbum) bool { return a.IsFavorite }), nil
}

func (r *MemoryRepository) ObserveFavorites(ctx context.Context) <-chan live.Update[[]models.CachedAlbum] {
	return live.Watch(ctx, r.hub, r.GetFavorites)
}

var _ Repository = (*MemoryRepository)(nil)
