// Package metrics provides OpenTelemetry instruments for the album cache.
package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope of the sync metrics.
const MeterName = "github.com/dmitrijs2005/albumkeeper/sync"

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// SyncMetrics holds the instruments recorded by the sync service. A nil
// *SyncMetrics is valid and records nothing.
type SyncMetrics struct {
	refreshDuration metric.Float64Histogram
	fetches         metric.Int64Counter
	cacheHits       metric.Int64Counter
	cachedAlbums    metric.Int64Gauge
	favoriteToggles metric.Int64Counter
}

// NewSyncMetrics creates the instruments on provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(MeterName)

	refreshDuration, err := meter.Float64Histogram(
		"albumkeeper_refresh_duration_seconds",
		metric.WithDescription("Duration of cache refreshes in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30),
	)
	if err != nil {
		return nil, err
	}

	fetches, err := meter.Int64Counter(
		"albumkeeper_remote_fetches_total",
		metric.WithDescription("Number of remote collection fetches"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter(
		"albumkeeper_cache_hits_total",
		metric.WithDescription("Number of syncs answered by a fresh cache"),
		metric.WithUnit("{sync}"),
	)
	if err != nil {
		return nil, err
	}

	cachedAlbums, err := meter.Int64Gauge(
		"albumkeeper_cached_albums",
		metric.WithDescription("Number of albums in the local cache after the last refresh"),
		metric.WithUnit("{album}"),
	)
	if err != nil {
		return nil, err
	}

	favoriteToggles, err := meter.Int64Counter(
		"albumkeeper_favorite_changes_total",
		metric.WithDescription("Number of favorite flag changes"),
		metric.WithUnit("{change}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		refreshDuration: refreshDuration,
		fetches:         fetches,
		cacheHits:       cacheHits,
		cachedAlbums:    cachedAlbums,
		favoriteToggles: favoriteToggles,
	}, nil
}

func result(success bool) attribute.KeyValue {
	if success {
		return attribute.String("result", ResultSuccess)
	}
	return attribute.String("result", ResultFailure)
}

// RecordRefresh records the duration of one refresh attempt, fetch and
// cache write included. success is false when any step failed.
func (m *SyncMetrics) RecordRefresh(ctx context.Context, duration time.Duration, success bool) {
	if m == nil {
		return
	}
	m.refreshDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(result(success)))
}

// RecordFetch records the outcome of one remote collection fetch,
// independent of whether the result was stored afterwards.
func (m *SyncMetrics) RecordFetch(ctx context.Context, success bool) {
	if m == nil {
		return
	}
	m.fetches.Add(ctx, 1, metric.WithAttributes(result(success)))
}

func (m *SyncMetrics) RecordCacheHit(ctx context.Context) {
	if m == nil {
		return
	}
	m.cacheHits.Add(ctx, 1)
}

func (m *SyncMetrics) RecordCachedAlbums(ctx context.Context, count int) {
	if m == nil {
		return
	}
	m.cachedAlbums.Record(ctx, int64(count))
}

func (m *SyncMetrics) RecordFavoriteChange(ctx context.Context, favorite bool) {
	if m == nil {
		return
	}
	m.favoriteToggles.Add(ctx, 1, metric.WithAttributes(attribute.Bool("favorite", favorite)))
}
