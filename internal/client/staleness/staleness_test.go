package staleness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr(t time.Time) *time.Time { return &t }

func TestIsFresh(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		cachedAt *time.Time
		want     bool
	}{
		{name: "absent is never fresh", cachedAt: nil, want: false},
		{name: "just written", cachedAt: ptr(now), want: true},
		{name: "59 minutes old", cachedAt: ptr(now.Add(-59 * time.Minute)), want: true},
		{name: "one millisecond short of an hour", cachedAt: ptr(now.Add(-time.Hour + time.Millisecond)), want: true},
		{name: "exactly an hour", cachedAt: ptr(now.Add(-time.Hour)), want: false},
		{name: "epoch", cachedAt: ptr(time.UnixMilli(0)), want: false},
		{name: "clock skew into the future", cachedAt: ptr(now.Add(time.Hour)), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFresh(tt.cachedAt, now, DefaultThreshold))
		})
	}
}

func TestPolicy_UsesInjectedClock(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	p := Policy{Threshold: 10 * time.Minute, Now: func() time.Time { return clock }}

	written := base
	assert.True(t, p.IsFresh(&written))

	clock = base.Add(10 * time.Minute)
	assert.False(t, p.IsFresh(&written))
	assert.Equal(t, clock, p.Time())
}

func TestPolicy_ZeroValueFallsBackToWallClock(t *testing.T) {
	var p Policy
	recent := time.Now()
	assert.False(t, p.IsFresh(&recent), "zero threshold treats everything as stale")
	assert.WithinDuration(t, time.Now(), p.Time(), time.Second)
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, time.Hour, p.Threshold)
	recent := time.Now().Add(-time.Minute)
	assert.True(t, p.IsFresh(&recent))
}
