package models

import "time"

// SyncPhase is the state of the most recent refresh attempt.
type SyncPhase string

const (
	SyncPhaseNever    SyncPhase = ""
	SyncPhaseSyncing  SyncPhase = "syncing"
	SyncPhaseComplete SyncPhase = "complete"
	SyncPhaseFailed   SyncPhase = "failed"
)

// SyncStatus describes the refresh history of the local cache.
type SyncStatus struct {
	Phase SyncPhase `json:"phase"`

	// RunID identifies the attempt in logs.
	RunID string `json:"run_id,omitempty"`

	// Message is the error text of a failed attempt.
	Message string `json:"message,omitempty"`

	LastAttempt time.Time `json:"last_attempt"`

	// AttemptCount counts consecutive failures; a success resets it.
	AttemptCount int `json:"attempt_count"`

	LastSyncTime time.Time `json:"last_sync_time"`

	// LastSyncHash fingerprints the last successfully stored collection.
	LastSyncHash string `json:"last_sync_hash,omitempty"`

	AlbumCount int `json:"album_count"`
}
