package live

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func next[T any](t *testing.T, ch <-chan Update[T]) Update[T] {
	t.Helper()
	select {
	case u, ok := <-ch:
		require.True(t, ok, "stream closed unexpectedly")
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
	}
	return Update[T]{}
}

func waitClosed[T any](t *testing.T, ch <-chan Update[T]) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("stream was not closed")
		}
	}
}

func TestWatch_EmitsCurrentThenChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub()
	var state atomic.Int64
	state.Store(1)

	ch := Watch(ctx, h, func(context.Context) (int64, error) { return state.Load(), nil })

	assert.Equal(t, int64(1), next(t, ch).Value)

	state.Store(2)
	h.Notify()
	assert.Equal(t, int64(2), next(t, ch).Value)
}

func TestWatch_SubscribersAreIndependent(t *testing.T) {
	h := NewHub()
	load := func(context.Context) (string, error) { return "snap", nil }

	ctx1, cancel1 := context.WithCancel(context.Background())
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()

	a := Watch(ctx1, h, load)
	b := Watch(ctx2, h, load)
	assert.Equal(t, "snap", next(t, a).Value)
	assert.Equal(t, "snap", next(t, b).Value)
	assert.Equal(t, 2, h.Subscribers())

	cancel1()
	waitClosed(t, a)

	h.Notify()
	assert.Equal(t, "snap", next(t, b).Value, "cancelling one subscriber must not affect the other")
	require.Eventually(t, func() bool { return h.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
}

func TestWatch_LoadErrorEndsStream(t *testing.T) {
	h := NewHub()
	boom := errors.New("disk gone")

	ch := Watch(context.Background(), h, func(context.Context) (int, error) { return 0, boom })

	u := next(t, ch)
	require.ErrorIs(t, u.Err, boom)
	waitClosed(t, ch)
	require.Eventually(t, func() bool { return h.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
}

func TestWatch_CoalescesBursts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub()
	var state atomic.Int64
	ch := Watch(ctx, h, func(context.Context) (int64, error) { return state.Load(), nil })
	assert.Equal(t, int64(0), next(t, ch).Value)

	for i := 1; i <= 10; i++ {
		state.Store(int64(i))
		h.Notify()
	}

	// the reader eventually sees the final state without having to read ten updates
	deadline := time.After(2 * time.Second)
	for {
		select {
		case u := <-ch:
			if u.Value == 10 {
				return
			}
		case <-deadline:
			t.Fatal("final state never observed")
		}
	}
}

func TestMap_ConvertsValuesAndPassesErrors(t *testing.T) {
	ctx := context.Background()
	in := make(chan Update[int], 2)
	in <- Update[int]{Value: 21}
	in <- Update[int]{Err: errors.New("x")}
	close(in)

	out := Map(ctx, in, func(v int) string {
		if v == 21 {
			return "forty-two"
		}
		return ""
	})

	assert.Equal(t, "forty-two", next(t, out).Value)
	assert.EqualError(t, next(t, out).Err, "x")
	waitClosed(t, out)
}
