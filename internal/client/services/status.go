package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/albumkeeper/internal/client/models"
	"github.com/dmitrijs2005/albumkeeper/internal/client/repositories/syncstate"
	"github.com/dmitrijs2005/albumkeeper/internal/cryptox"
	"github.com/dmitrijs2005/albumkeeper/internal/logging"
)

// statusRecorder keeps the sync status up to date. Writes are best effort:
// a failure is logged and never fails the refresh. A nil recorder records
// nothing.
type statusRecorder struct {
	mu     sync.Mutex
	repo   syncstate.Repository
	logger logging.Logger
}

func (r *statusRecorder) update(ctx context.Context, f func(*models.SyncStatus)) {
	if r == nil {
		return
	}
	// a cancelled caller still gets its attempt recorded
	ctx = context.WithoutCancel(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	st, err := r.repo.Load(ctx)
	if err != nil {
		r.logger.Warn(ctx, "failed to load sync status", "error", err)
		return
	}
	f(st)
	if err := r.repo.Save(ctx, st); err != nil {
		r.logger.Warn(ctx, "failed to save sync status", "error", err)
	}
}

func (r *statusRecorder) started(ctx context.Context, runID string, at time.Time) {
	r.update(ctx, func(st *models.SyncStatus) {
		st.Phase = models.SyncPhaseSyncing
		st.RunID = runID
		st.Message = ""
		st.LastAttempt = at
	})
}

func (r *statusRecorder) failed(ctx context.Context, runID string, cause error) {
	r.update(ctx, func(st *models.SyncStatus) {
		st.Phase = models.SyncPhaseFailed
		st.RunID = runID
		st.Message = cause.Error()
		st.AttemptCount++
	})
}

func (r *statusRecorder) completed(ctx context.Context, runID string, at time.Time, fetched []models.Album) {
	if r == nil {
		return
	}
	hash, err := cryptox.Fingerprint(fetched)
	if err != nil {
		r.logger.Warn(ctx, "failed to fingerprint albums", "error", err)
	}
	r.update(ctx, func(st *models.SyncStatus) {
		st.Phase = models.SyncPhaseComplete
		st.RunID = runID
		st.Message = ""
		st.AttemptCount = 0
		st.LastSyncTime = at
		st.LastSyncHash = hash
		st.AlbumCount = len(fetched)
	})
}

func (r *statusRecorder) load(ctx context.Context) (*models.SyncStatus, error) {
	if r == nil {
		return &models.SyncStatus{}, nil
	}
	return r.repo.Load(ctx)
}
