package albums

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/albumkeeper/internal/logging"
	"github.com/dmitrijs2005/albumkeeper/internal/server/models"
)

type Service struct {
	repo   Repository
	logger logging.Logger
}

func NewService(repo Repository, logger logging.Logger) *Service {
	return &Service{repo: repo, logger: logger.With("module", "album_service")}
}

func (s *Service) List(ctx context.Context) ([]models.Album, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	return items, nil
}

// Seed replaces the collection with the JSON array stored at path and
// returns how many albums it loaded.
func (s *Service) Seed(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read seed file: %w", err)
	}

	var items []models.Album
	if err := json.Unmarshal(data, &items); err != nil {
		return 0, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	if err := s.repo.ReplaceAll(ctx, items); err != nil {
		return 0, fmt.Errorf("failed to store seed: %w", err)
	}

	s.logger.Info(ctx, "seeded albums", "path", path, "count", len(items))
	return len(items), nil
}
