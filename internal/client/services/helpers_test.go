package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/albumkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/albumkeeper/internal/client/models"
	"github.com/dmitrijs2005/albumkeeper/internal/client/repositories/albums"
	"github.com/dmitrijs2005/albumkeeper/internal/client/staleness"
	"github.com/dmitrijs2005/albumkeeper/internal/live"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// fakeRemote counts fetches. With a gate it blocks until the gate is closed
// or the fetch context ends.
type fakeRemote struct {
	mu      sync.Mutex
	albums  []models.Album
	err     error
	calls   int
	gate    chan struct{}
	entered chan struct{}
	ctxErr  error
}

func (f *fakeRemote) FetchAll(ctx context.Context) ([]models.Album, error) {
	f.mu.Lock()
	f.calls++
	albums, err, gate, entered := f.albums, f.err, f.gate, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			f.mu.Lock()
			f.ctxErr = ctx.Err()
			f.mu.Unlock()
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return slices.Clone(albums), nil
}

func (f *fakeRemote) Close() error { return nil }

func (f *fakeRemote) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeRemote) CtxErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ctxErr
}

// failingStore injects errors into selected operations.
type failingStore struct {
	albums.Repository
	getAllErr    error
	timestampErr error
	clearErr     error
	replaceErr   error
	favoriteErr  error
	setErr       error
}

func (s *failingStore) GetAll(ctx context.Context) ([]models.CachedAlbum, error) {
	if s.getAllErr != nil {
		return nil, s.getAllErr
	}
	return s.Repository.GetAll(ctx)
}

func (s *failingStore) CacheTimestamp(ctx context.Context) (*time.Time, error) {
	if s.timestampErr != nil {
		return nil, s.timestampErr
	}
	return s.Repository.CacheTimestamp(ctx)
}

func (s *failingStore) ClearAll(ctx context.Context) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	return s.Repository.ClearAll(ctx)
}

func (s *failingStore) ReplaceAll(ctx context.Context, records []models.CachedAlbum) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	return s.Repository.ReplaceAll(ctx, records)
}

func (s *failingStore) IsFavorite(ctx context.Context, id int) (*bool, error) {
	if s.favoriteErr != nil {
		return nil, s.favoriteErr
	}
	return s.Repository.IsFavorite(ctx, id)
}

func (s *failingStore) SetFavorite(ctx context.Context, id int, favorite bool) error {
	if s.setErr != nil {
		return s.setErr
	}
	return s.Repository.SetFavorite(ctx, id, favorite)
}

var errNetwork = errors.New("network error")

// now is the fixed clock of every test; millisecond precision survives the
// SQLite round trip.
var now = time.UnixMilli(1_700_000_000_000)

func fixedPolicy() staleness.Policy {
	return staleness.Policy{Threshold: staleness.DefaultThreshold, Now: func() time.Time { return now }}
}

type storeFactory struct {
	name string
	new  func(t *testing.T) albums.Repository
}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

func stores() []storeFactory {
	return []storeFactory{
		{name: "sqlite", new: func(t *testing.T) albums.Repository { return albums.NewSQLiteRepository(setupDB(t)) }},
		{name: "memory", new: func(t *testing.T) albums.Repository { return albums.NewMemoryRepository() }},
	}
}

func album(id, albumID int) models.Album {
	return models.Album{
		ID:           id,
		AlbumID:      albumID,
		Title:        fmt.Sprintf("photo %d", id),
		URL:          fmt.Sprintf("https://via.placeholder.com/600/%d", id),
		ThumbnailURL: fmt.Sprintf("https://via.placeholder.com/150/%d", id),
	}
}

func seedStore(t *testing.T, store albums.Repository, cachedAt time.Time, items ...models.Album) {
	t.Helper()
	require.NoError(t, store.ReplaceAll(context.Background(), models.ToCached(items, cachedAt, nil)))
}

// collect drains a sync stream.
func collect(t *testing.T, ch <-chan SyncResult) []SyncResult {
	t.Helper()
	var out []SyncResult
	deadline := time.After(5 * time.Second)
	for {
		select {
		case r, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, r)
		case <-deadline:
			t.Fatal("sync stream did not complete")
		}
	}
}

func albumIDs(items []models.Album) []int {
	out := make([]int, 0, len(items))
	for _, a := range items {
		out = append(out, a.ID)
	}
	return out
}

func awaitUpdate[T any](t *testing.T, ch <-chan live.Update[T], match func(T) bool) T {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case u, ok := <-ch:
			require.True(t, ok, "stream closed")
			require.NoError(t, u.Err)
			if match(u.Value) {
				return u.Value
			}
		case <-deadline:
			t.Fatal("timed out waiting for matching update")
		}
	}
}

func albumsMemory() albums.Repository {
	return albums.NewMemoryRepository()
}
