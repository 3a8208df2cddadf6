package albums

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/albumkeeper/internal/logging"
	"github.com/dmitrijs2005/albumkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedJSON = `[
  {"albumId": 2, "id": 3, "title": "c", "url": "u3", "thumbnailUrl": "t3"},
  {"albumId": 1, "id": 2, "title": "b", "url": "u2", "thumbnailUrl": "t2"},
  {"albumId": 1, "id": 1, "title": "a", "url": "u1", "thumbnailUrl": "t1"}
]`

type brokenRepo struct{ err error }

func (b brokenRepo) List(context.Context) ([]models.Album, error)     { return nil, b.err }
func (b brokenRepo) ReplaceAll(context.Context, []models.Album) error { return b.err }

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "albums.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestService_SeedAndList(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository(), logging.Nop())

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	n, err := svc.Seed(ctx, writeSeed(t, seedJSON))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err = svc.List(ctx)
	require.NoError(t, err)
	ids := make([]int, 0, len(got))
	for _, a := range got {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []int{1, 2, 3}, ids)
}

func TestService_SeedErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository(), logging.Nop())

	_, err := svc.Seed(ctx, filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read seed file")

	_, err = svc.Seed(ctx, writeSeed(t, `{"id": 1}`))
	assert.ErrorContains(t, err, "failed to parse seed file")

	boom := errors.New("boom")
	svc = NewService(brokenRepo{err: boom}, logging.Nop())
	_, err = svc.Seed(ctx, writeSeed(t, seedJSON))
	assert.ErrorIs(t, err, boom)

	_, err = svc.List(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestMemoryRepository_ReplaceDeduplicatesByID(t *testing.T) {
	repo := NewMemoryRepository()
	require.NoError(t, repo.ReplaceAll(context.Background(), []models.Album{
		{AlbumID: 1, ID: 1, Title: "old"},
		{AlbumID: 1, ID: 1, Title: "new"},
	}))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Album{{AlbumID: 1, ID: 1, Title: "new"}}, got)

	got[0].Title = "mutated"
	again, _ := repo.List(context.Background())
	assert.Equal(t, "new", again[0].Title)
}
