// Package staleness decides whether the cached generation can be served
// without asking the remote source.
package staleness

import "time"

// DefaultThreshold is how long a fetched collection is trusted.
const DefaultThreshold = time.Hour

// IsFresh reports whether a cache written at cachedAt is still fresh at now.
// A missing timestamp is never fresh. The comparison is strict: a cache
// exactly threshold old is stale. Timestamps from the future count as fresh.
func IsFresh(cachedAt *time.Time, now time.Time, threshold time.Duration) bool {
	if cachedAt == nil {
		return false
	}
	return now.Sub(*cachedAt) < threshold
}

// Policy binds a threshold to a clock.
type Policy struct {
	Threshold time.Duration
	Now       func() time.Time
}

// DefaultPolicy uses DefaultThreshold and the wall clock.
func DefaultPolicy() Policy {
	return Policy{Threshold: DefaultThreshold, Now: time.Now}
}

func (p Policy) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// IsFresh applies the policy at the current time.
func (p Policy) IsFresh(cachedAt *time.Time) bool {
	return IsFresh(cachedAt, p.now(), p.Threshold)
}

// Time returns the policy's notion of now; refreshes stamp records with it.
func (p Policy) Time() time.Time {
	return p.now()
}
