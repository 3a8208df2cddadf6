// Package services implements the offline-first album cache on top of a
// local store and a remote source.
package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/albumkeeper/internal/client/client"
	"github.com/dmitrijs2005/albumkeeper/internal/client/metrics"
	"github.com/dmitrijs2005/albumkeeper/internal/client/models"
	"github.com/dmitrijs2005/albumkeeper/internal/client/repositories/albums"
	"github.com/dmitrijs2005/albumkeeper/internal/client/staleness"
	"github.com/dmitrijs2005/albumkeeper/internal/live"
	"github.com/dmitrijs2005/albumkeeper/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// AlbumService decides when the cache is served as is and when it is
// refreshed from the remote source.
type AlbumService struct {
	remote client.Client
	store  albums.Repository

	logger            logging.Logger
	policy            staleness.Policy
	metrics           *metrics.SyncMetrics
	status            *statusRecorder
	flight            *singleflight.Group
	preserveFavorites bool
}

func NewAlbumService(remote client.Client, store albums.Repository, opts ...Option) *AlbumService {
	s := &AlbumService{
		remote: remote,
		store:  store,
		logger: logging.Nop(),
		policy: staleness.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("module", "album_service")
	if s.status != nil {
		s.status.logger = s.logger
	}
	return s
}

// SyncWithCache runs the cache protocol once for the caller:
//
//  1. a non-empty cache is emitted immediately;
//  2. a fresh cache ends the stream there, without a fetch;
//  3. otherwise the cache is refreshed and the fetched albums are emitted.
//
// A failed refresh is reported only when nothing was emitted before it.
// A read error of the local store is always reported. The channel is closed
// when the protocol ends. Cancelling ctx aborts the fetch and stops further
// results for this caller.
func (s *AlbumService) SyncWithCache(ctx context.Context) <-chan SyncResult {
	out := make(chan SyncResult)

	go func() {
		defer close(out)

		emit := func(r SyncResult) bool {
			if ctx.Err() != nil {
				return false
			}
			select {
			case out <- r:
				return true
			case <-ctx.Done():
				return false
			}
		}

		records, err := s.store.GetAll(ctx)
		if err != nil {
			emit(SyncResult{Err: err})
			return
		}

		hasCache := len(records) > 0
		if hasCache && !emit(SyncResult{Albums: models.ToAlbums(records), Origin: OriginCache}) {
			return
		}

		cachedAt, err := s.store.CacheTimestamp(ctx)
		if err != nil {
			emit(SyncResult{Err: err})
			return
		}

		if s.policy.IsFresh(cachedAt) {
			s.metrics.RecordCacheHit(ctx)
			s.logger.Debug(ctx, "cache is fresh", "cached_at", *cachedAt, "albums", len(records))
			return
		}

		fetched, err := s.refresh(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if hasCache {
				s.logger.Warn(ctx, "refresh failed, keeping stale cache", "error", err)
				return
			}
			emit(SyncResult{Err: err})
			return
		}

		emit(SyncResult{Albums: fetched, Origin: OriginRemote})
	}()

	return out
}

// ForceRefresh replaces the cache with the remote collection regardless of
// its age.
func (s *AlbumService) ForceRefresh(ctx context.Context) ([]models.Album, error) {
	return s.refresh(ctx)
}

func (s *AlbumService) refresh(ctx context.Context) ([]models.Album, error) {
	if s.flight == nil {
		return s.doRefresh(ctx)
	}

	// The shared run outlives any single caller; each caller stops waiting
	// on its own cancellation. The remote client timeout still bounds it.
	ch := s.flight.DoChan(refreshKey, func() (interface{}, error) {
		return s.doRefresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			s.logger.Debug(ctx, "joined in-flight refresh")
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]models.Album)), nil
	}
}

func (s *AlbumService) doRefresh(ctx context.Context) ([]models.Album, error) {
	runID := uuid.NewString()
	log := s.logger.With("run_id", runID)
	start := time.Now()

	s.status.started(ctx, runID, s.policy.Time())
	log.Info(ctx, "refreshing album cache")

	fail := func(err error) ([]models.Album, error) {
		s.metrics.RecordRefresh(ctx, time.Since(start), false)
		s.status.failed(ctx, runID, err)
		log.Error(ctx, "refresh failed", "error", err)
		return nil, err
	}

	fetched, err := s.remote.FetchAll(ctx)
	s.metrics.RecordFetch(ctx, err == nil)
	if err != nil {
		return fail(err)
	}

	var favorites map[int]bool
	if s.preserveFavorites {
		favorites, err = s.favoriteIDs(ctx)
		if err != nil {
			return fail(err)
		}
	}

	cachedAt := s.policy.Time()
	records := models.ToCached(fetched, cachedAt, favorites)

	if err := s.store.ClearAll(ctx); err != nil {
		return fail(err)
	}
	if err := s.store.ReplaceAll(ctx, records); err != nil {
		return fail(err)
	}

	s.metrics.RecordRefresh(ctx, time.Since(start), true)
	s.metrics.RecordCachedAlbums(ctx, len(records))
	s.status.completed(ctx, runID, cachedAt, fetched)
	log.Info(ctx, "album cache refreshed", "albums", len(records), "took", time.Since(start))

	return models.ToAlbums(records), nil
}

func (s *AlbumService) favoriteIDs(ctx context.Context) (map[int]bool, error) {
	favs, err := s.store.GetFavorites(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[int]bool, len(favs))
	for _, f := range favs {
		ids[f.ID] = true
	}
	return ids, nil
}

// FetchRemote returns the remote collection without touching the cache.
func (s *AlbumService) FetchRemote(ctx context.Context) ([]models.Album, error) {
	return s.remote.FetchAll(ctx)
}

// ObserveCachedAlbums streams the cache content, independent of any sync.
func (s *AlbumService) ObserveCachedAlbums(ctx context.Context) <-chan live.Update[[]models.Album] {
	return live.Map(ctx, s.store.ObserveAll(ctx), models.ToAlbums)
}

func (s *AlbumService) ObserveFavoriteAlbums(ctx context.Context) <-chan live.Update[[]models.Album] {
	return live.Map(ctx, s.store.ObserveFavorites(ctx), models.ToAlbums)
}

// GetAlbum returns (nil, nil) for an unknown id.
func (s *AlbumService) GetAlbum(ctx context.Context, id int) (*models.Album, error) {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAlbumPtr(rec), nil
}

func (s *AlbumService) ObserveAlbum(ctx context.Context, id int) <-chan live.Update[*models.Album] {
	return live.Map(ctx, s.store.ObserveByID(ctx, id), toAlbumPtr)
}

func toAlbumPtr(rec *models.CachedAlbum) *models.Album {
	if rec == nil {
		return nil
	}
	a := rec.Album()
	return &a
}

func (s *AlbumService) HasCachedData(ctx context.Context) (bool, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsFavorite reports false for unknown ids.
func (s *AlbumService) IsFavorite(ctx context.Context, id int) (bool, error) {
	fav, err := s.store.IsFavorite(ctx, id)
	if err != nil {
		return false, fmt.Errorf("read favorite %d: %w", id, err)
	}
	return fav != nil && *fav, nil
}

// ToggleFavorite inverts the flag of id and returns the new value. Unknown
// ids are treated as not favorite; the write is then a no-op.
func (s *AlbumService) ToggleFavorite(ctx context.Context, id int) (bool, error) {
	cur, err := s.store.IsFavorite(ctx, id)
	if err != nil {
		return false, fmt.Errorf("toggle favorite %d: %w", id, err)
	}

	next := cur == nil || !*cur
	if err := s.store.SetFavorite(ctx, id, next); err != nil {
		return false, fmt.Errorf("toggle favorite %d: %w", id, err)
	}
	if cur != nil {
		s.metrics.RecordFavoriteChange(ctx, next)
	}
	return next, nil
}

// SetFavorite is a no-op for an unknown id.
func (s *AlbumService) SetFavorite(ctx context.Context, id int, favorite bool) error {
	cur, err := s.store.IsFavorite(ctx, id)
	if err != nil {
		return fmt.Errorf("set favorite %d: %w", id, err)
	}
	if err := s.store.SetFavorite(ctx, id, favorite); err != nil {
		return fmt.Errorf("set favorite %d: %w", id, err)
	}
	if cur != nil {
		s.metrics.RecordFavoriteChange(ctx, favorite)
	}
	return nil
}

// Status returns the recorded refresh history, or a zero status when no
// status store is configured.
func (s *AlbumService) Status(ctx context.Context) (*models.SyncStatus, error) {
	return s.status.load(ctx)
}
