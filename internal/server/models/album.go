// Package models defines the records published by the album feed server.
package models

// Album is one item of the published collection. The JSON shape matches
// what clients decode.
type Album struct {
	AlbumID      int    `json:"albumId"`
	ID           int    `json:"id"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// Map returns a as the generic JSON object sent over gRPC.
func (a Album) Map() map[string]any {
	return map[string]any{
		"albumId":      a.AlbumID,
		"id":           a.ID,
		"title":        a.Title,
		"url":          a.URL,
		"thumbnailUrl": a.ThumbnailURL,
	}
}
