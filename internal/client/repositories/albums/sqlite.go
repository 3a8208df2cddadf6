package albums

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/albumkeeper/internal/client/models"
	"github.com/dmitrijs2005/albumkeeper/internal/dbx"
	"github.com/dmitrijs2005/albumkeeper/internal/live"
)

const selectAlbum = `SELECT id, albumId, title, url, thumbnailUrl, isFavorite, cachedAt FROM albums`

// SQLiteRepository implements Repository on the albums table. Live streams
// only see writes made through the same SQLiteRepository value.
type SQLiteRepository struct {
	db  dbx.DBTX
	hub *live.Hub
	now func() time.Time
}

// NewSQLiteRepository returns a repository bound to db, normally an *sql.DB
// so that ReplaceAll can open its own transaction.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, hub: live.NewHub(), now: time.Now}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlbum(s rowScanner) (models.CachedAlbum, error) {
	var (
		a        models.CachedAlbum
		favorite int64
		cachedAt int64
	)
	if err := s.Scan(&a.ID, &a.AlbumID, &a.Title, &a.URL, &a.ThumbnailURL, &favorite, &cachedAt); err != nil {
		return models.CachedAlbum{}, err
	}
	a.IsFavorite = favorite != 0
	a.CachedAt = time.UnixMilli(cachedAt)
	return a, nil
}

func (r *SQLiteRepository) list(ctx context.Context, op, query string) ([]models.CachedAlbum, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	result := make([]models.CachedAlbum, 0)
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.CachedAlbum, error) {
	return r.list(ctx, "select albums", selectAlbum+` ORDER BY albumId ASC, id ASC`)
}

func (r *SQLiteRepository) ObserveAll(ctx context.Context) <-chan live.Update[[]models.CachedAlbum] {
	return live.Watch(ctx, r.hub, r.GetAll)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int) (*models.CachedAlbum, error) {
	a, err := scanAlbum(r.db.QueryRowContext(ctx, selectAlbum+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("select album", err)
	}
	return &a, nil
}

func (r *SQLiteRepository) ObserveByID(ctx context.Context, id int) <-chan live.Update[*models.CachedAlbum] {
	return live.Watch(ctx, r.hub, func(ctx context.Context) (*models.CachedAlbum, error) {
		return r.GetByID(ctx, id)
	})
}

// ReplaceAll writes all records in one transaction.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, records []models.CachedAlbum) error {
	if len(records) == 0 {
		return nil
	}
	now := r.now()

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query := `INSERT OR REPLACE INTO albums (id, albumId, title, url, thumbnailUrl, isFavorite, cachedAt)
			VALUES (?, ?, ?, ?, ?, ?, ?)`
		for _, a := range records {
			cachedAt := a.CachedAt
			if cachedAt.IsZero() {
				cachedAt = now
			}
			if _, err := tx.ExecContext(ctx, query,
				a.ID, a.AlbumID, a.Title, a.URL, a.ThumbnailURL, boolToInt(a.IsFavorite), cachedAt.UnixMilli()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storeErr("insert albums", err)
	}

	r.hub.Notify()
	return nil
}

func (r *SQLiteRepository) ClearAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM albums`); err != nil {
		return storeErr("clear albums", err)
	}
	r.hub.Notify()
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM albums`).Scan(&n); err != nil {
		return 0, storeErr("count albums", err)
	}
	return n, nil
}

func (r *SQLiteRepository) CacheTimestamp(ctx context.Context) (*time.Time, error) {
	var ms int64
	err := r.db.QueryRowContext(ctx, `SELECT cachedAt FROM albums LIMIT 1`).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("read cache timestamp", err)
	}
	ts := time.UnixMilli(ms)
	return &ts, nil
}

func (r *SQLiteRepository) SetFavorite(ctx context.Context, id int, favorite bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE albums SET isFavorite = ? WHERE id = ?`, boolToInt(favorite), id)
	if err != nil {
		return storeErr("update favorite", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("get rows affected", err)
	}
	if n > 0 {
		r.hub.Notify()
	}
	return nil
}

func (r *SQLiteRepository) IsFavorite(ctx context.Context, id int) (*bool, error) {
	var v int64
	err := r.db.QueryRowContext(ctx, `SELECT isFavorite FROM albums WHERE id = ?`, id).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("read favorite", err)
	}
	fav := v != 0
	return &fav, nil
}

func (r *SQLiteRepository) GetFavorites(ctx context.Context) ([]models.CachedAlbum, error) {
	return r.list(ctx, "select favorites", selectAlbum+` WHERE isFavorite = 1 ORDER BY albumId ASC, id ASC`)
}

func (r *SQLiteRepository) ObserveFavorites(ctx context.Context) <-chan live.Update[[]models.CachedAlbum] {
	return live.Watch(ctx, r.hub, r.GetFavorites)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ Repository = (*SQLiteRepository)(nil)
