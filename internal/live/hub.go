// Package live turns "something changed" notifications from a store into
// per-subscriber streams of fresh snapshots.
//
// A stream is cold: every call to Watch starts its own subscription, loads
// the current state immediately and loads again after each Notify. Changes
// that arrive while a subscriber is still busy are coalesced, so a slow
// reader sees the latest state rather than every intermediate one.
package live

import (
	"context"
	"sync"
)

// Update is one element of a live stream. A non-nil Err is always the last
// element before the stream closes.
type Update[T any] struct {
	Value T
	Err   error
}

// Hub fans change notifications out to subscribers. The zero value is ready
// to use.
type Hub struct {
	mu   sync.Mutex
	next uint64
	subs map[uint64]chan struct{}
}

func NewHub() *Hub {
	return &Hub{}
}

// Notify wakes every subscriber. It never blocks.
func (h *Hub) Notify() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers reports how many streams are currently attached.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) subscribe() (uint64, <-chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		h.subs = make(map[uint64]chan struct{})
	}
	h.next++
	ch := make(chan struct{}, 1)
	h.subs[h.next] = ch
	return h.next, ch
}

func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}

// Watch starts a stream that emits load's result now and after every change
// announced on h. The channel closes when ctx is done or after an Update
// carrying a load error.
func Watch[T any](ctx context.Context, h *Hub, load func(context.Context) (T, error)) <-chan Update[T] {
	out := make(chan Update[T])
	// subscribe before the first load so a write racing with it is not lost
	id, changed := h.subscribe()

	go func() {
		defer close(out)
		defer h.unsubscribe(id)

		for {
			v, err := load(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				select {
				case out <- Update[T]{Err: err}:
				case <-ctx.Done():
				}
				return
			}

			select {
			case out <- Update[T]{Value: v}:
			case <-ctx.Done():
				return
			}

			select {
			case <-changed:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// Map converts every value of in with f. Errors pass through unchanged.
func Map[T, U any](ctx context.Context, in <-chan Update[T], f func(T) U) <-chan Update[U] {
	out := make(chan Update[U])

	go func() {
		defer close(out)
		for u := range in {
			var next Update[U]
			if u.Err != nil {
				next.Err = u.Err
			} else {
				next.Value = f(u.Value)
			}
			select {
			case out <- next:
			case <-ctx.Done():
				// drain so the producer can observe ctx and exit
				for range in {
				}
				return
			}
		}
	}()

	return out
}
