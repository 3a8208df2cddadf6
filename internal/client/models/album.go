// Package models defines the client-side data models of the album cache.
package models

import (
	"sort"
	"time"
)

// Album is one item of the remote collection as seen by the presentation
// layer.
type Album struct {
	// ID is the unique, stable identifier assigned by the remote source.
	ID int `json:"id"`

	// AlbumID groups items; listings are ordered by it first.
	AlbumID int `json:"albumId"`

	Title        string `json:"title"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`

	// IsFavorite is owned by this device. The remote never sends it, so it
	// is false on anything that was just decoded from the network.
	IsFavorite bool `json:"-"`
}

// CachedAlbum is the persistent record kept in the local store.
type CachedAlbum struct {
	ID           int
	AlbumID      int
	Title        string
	URL          string
	ThumbnailURL string
	IsFavorite   bool

	// CachedAt is the time of the bulk write that produced this record.
	// Every record of one refresh shares it.
	CachedAt time.Time
}

// Album drops the storage-only fields.
func (c CachedAlbum) Album() Album {
	return Album{
		ID:           c.ID,
		AlbumID:      c.AlbumID,
		Title:        c.Title,
		URL:          c.URL,
		ThumbnailURL: c.ThumbnailURL,
		IsFavorite:   c.IsFavorite,
	}
}

// ToAlbums maps records to domain values, keeping order. A nil input gives
// an empty, non-nil slice.
func ToAlbums(records []CachedAlbum) []Album {
	out := make([]Album, 0, len(records))
	for _, r := range records {
		out = append(out, r.Album())
	}
	return out
}

// ToCached stamps fetched albums with cachedAt. Flags found in favorites
// are applied by ID; everything else starts as not favorite, whatever the
// input carried.
func ToCached(albums []Album, cachedAt time.Time, favorites map[int]bool) []CachedAlbum {
	out := make([]CachedAlbum, 0, len(albums))
	for _, a := range albums {
		out = append(out, CachedAlbum{
			ID:           a.ID,
			AlbumID:      a.AlbumID,
			Title:        a.Title,
			URL:          a.URL,
			ThumbnailURL: a.ThumbnailURL,
			IsFavorite:   favorites[a.ID],
			CachedAt:     cachedAt,
		})
	}
	return out
}

// SortCached orders records the way every listing is returned:
// by AlbumID, then ID, ascending.
func SortCached(records []CachedAlbum) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].AlbumID != records[j].AlbumID {
			return records[i].AlbumID < records[j].AlbumID
		}
		return records[i].ID < records[j].ID
	})
}
