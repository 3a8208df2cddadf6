package services

import (
	"github.com/dmitrijs2005/albumkeeper/internal/client/metrics"
	"github.com/dmitrijs2005/albumkeeper/internal/client/repositories/syncstate"
	"github.com/dmitrijs2005/albumkeeper/internal/client/staleness"
	"github.com/dmitrijs2005/albumkeeper/internal/logging"
	"golang.org/x/sync/singleflight"
)

type Option func(*AlbumService)

func WithLogger(l logging.Logger) Option {
	return func(s *AlbumService) {
		s.logger = l
	}
}

// WithPolicy replaces the default one hour wall-clock staleness policy.
func WithPolicy(p staleness.Policy) Option {
	return func(s *AlbumService) {
		s.policy = p
	}
}

func WithMetrics(m *metrics.SyncMetrics) Option {
	return func(s *AlbumService) {
		s.metrics = m
	}
}

// WithStatusStore records every refresh attempt in r.
func WithStatusStore(r syncstate.Repository) Option {
	return func(s *AlbumService) {
		if r == nil {
			s.status = nil
			return
		}
		s.status = &statusRecorder{repo: r}
	}
}

// WithSingleFlight makes concurrent refreshes share one fetch and one
// write. The shared fetch runs under the context of the caller that
// started it.
func WithSingleFlight(enabled bool) Option {
	return func(s *AlbumService) {
		if enabled {
			s.flight = &singleflight.Group{}
		} else {
			s.flight = nil
		}
	}
}

// WithPreserveFavorites carries favorite flags across a refresh for IDs
// that are still present. By default a refresh resets every flag.
func WithPreserveFavorites(enabled bool) Option {
	return func(s *AlbumService) {
		s.preserveFavorites = enabled
	}
}
