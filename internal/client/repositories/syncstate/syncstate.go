// Package syncstate persists the refresh history of the album cache in the
// metadata key/value table.
package syncstate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/albumkeeper/internal/client/models"
	"github.com/dmitrijs2005/albumkeeper/internal/dbx"
)

const statusKey = "sync_status"

type Repository interface {
	// Load returns a zero SyncStatus when nothing was saved yet.
	Load(ctx context.Context) (*models.SyncStatus, error)
	Save(ctx context.Context, status *models.SyncStatus) error
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context) (*models.SyncStatus, error) {
	raw, err := r.get(ctx, statusKey)
	if err != nil {
		return nil, err
	}
	status := &models.SyncStatus{}
	if raw == nil {
		return status, nil
	}
	if err := json.Unmarshal(raw, status); err != nil {
		return nil, fmt.Errorf("failed to decode sync status: %w", err)
	}
	return status, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, status *models.SyncStatus) error {
	raw, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to encode sync status: %w", err)
	}
	return r.set(ctx, statusKey, raw)
}

// MemoryRepository keeps the status for the lifetime of the process.
type MemoryRepository struct {
	mu     sync.Mutex
	status models.SyncStatus
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Load(ctx context.Context) (*models.SyncStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.status
	return &s, nil
}

func (r *MemoryRepository) Save(ctx context.Context, status *models.SyncStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = *status
	return nil
}

var (
	_ Repository = (*SQLiteRepository)(nil)
	_ Repository = (*MemoryRepository)(nil)
)
