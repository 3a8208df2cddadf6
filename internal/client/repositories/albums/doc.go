// Package albums is the local store of the album cache.
//
// # Overview
//
// Repository is the contract the sync service relies on: ordered reads,
// point reads, bulk replace and clear, the representative cache timestamp,
// and the locally owned favorite flag. Every read that the presentation
// layer wants to follow has an Observe variant returning a live stream (see
// internal/live): the current snapshot first, then a new snapshot after
// each write made through the same repository.
//
// Two implementations are provided. SQLiteRepository persists records in the
// albums table created by internal/client/migrations; MemoryRepository keeps
// them in a map and is used for throwaway sessions and tests.
//
// # Ordering
//
// Listings are always ordered by (AlbumID, ID) ascending.
//
// # Errors
//
// Failures are returned as *StoreError so callers can tell local problems
// from transport ones with errors.As.
package albums
