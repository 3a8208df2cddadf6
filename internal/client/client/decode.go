package client

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/albumkeeper/internal/client/models"
)

// MaxResponseSize bounds every payload read from a remote source.
const MaxResponseSize = 64 * 1024 * 1024

func decodeAlbums(body []byte) ([]models.Album, error) {
	var albums []models.Album
	if err := json.Unmarshal(body, &albums); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if albums == nil {
		albums = []models.Album{}
	}
	return albums, nil
}
