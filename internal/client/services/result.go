package services

import "github.com/dmitrijs2005/albumkeeper/internal/client/models"

// Origin tells where the albums of a successful SyncResult came from.
type Origin string

const (
	OriginCache  Origin = "cache"
	OriginRemote Origin = "remote"
)

// SyncResult is one element of a SyncWithCache stream: either albums with
// their origin, or an error.
type SyncResult struct {
	Albums []models.Album
	Origin Origin
	Err    error
}

func (r SyncResult) OK() bool {
	return r.Err == nil
}
