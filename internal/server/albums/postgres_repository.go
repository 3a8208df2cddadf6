package albums

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/albumkeeper/internal/dbx"
	"github.com/dmitrijs2005/albumkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Album, error) {
	query :=
		`SELECT album_id, id, title, url, thumbnail_url FROM albums
		 ORDER BY album_id, id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := []models.Album{}
	for rows.Next() {
		var a models.Album
		if err := rows.Scan(&a.AlbumID, &a.ID, &a.Title, &a.URL, &a.ThumbnailURL); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) ReplaceAll(ctx context.Context, items []models.Album) error {
	insert :=
		`INSERT INTO albums (id, album_id, title, url, thumbnail_url)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
		   album_id = EXCLUDED.album_id,
		   title = EXCLUDED.title,
		   url = EXCLUDED.url,
		   thumbnail_url = EXCLUDED.thumbnail_url
		 `

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM albums`); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		for _, a := range items {
			if _, err := tx.ExecContext(ctx, insert, a.ID, a.AlbumID, a.Title, a.URL, a.ThumbnailURL); err != nil {
				return fmt.Errorf("db error: %w", err)
			}
		}
		return nil
	})
}
