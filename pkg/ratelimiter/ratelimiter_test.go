package ratelimiter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sombhu2022/agri-farm-sub000/pkg/ratelimiter"
)

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore()

	_, err := ratelimiter.New(store, "k", ratelimiter.Config{Limit: 0, Window: time.Second})
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)

	_, err = ratelimiter.New(store, "k", ratelimiter.Config{Limit: 1, Window: 0})
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)

	_, err = ratelimiter.New(nil, "k", ratelimiter.Config{Limit: 1, Window: time.Second})
	assert.ErrorIs(t, err, ratelimiter.ErrStoreNil)
}

func TestFixedWindow_AllowsUpToLimit(t *testing.T) {
	t.Parallel()

	fw, err := ratelimiter.New(ratelimiter.NewMemoryStore(), "k", ratelimiter.Config{
		Limit:  3,
		Window: time.Minute,
	})
	require.NoError(t, err)

	ctx := context.Background()
	for range 3 {
		require.NoError(t, fw.Acquire(ctx))
	}

	ok, resetAt, err := fw.TryAcquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "fourth acquisition must be denied within the window")
	assert.True(t, resetAt.After(time.Now()))
}

func TestFixedWindow_BlocksUntilWindowResets(t *testing.T) {
	t.Parallel()

	const window = 150 * time.Millisecond

	fw, err := ratelimiter.New(ratelimiter.NewMemoryStore(), "k", ratelimiter.Config{
		Limit:  1,
		Window: window,
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, fw.Acquire(ctx))

	start := time.Now()
	require.NoError(t, fw.Acquire(ctx))
	assert.GreaterOrEqual(t, time.Since(start), window/2, "second acquire should have waited for the window")
}

func TestFixedWindow_AcquireRespectsContext(t *testing.T) {
	t.Parallel()

	fw, err := ratelimiter.New(ratelimiter.NewMemoryStore(), "k", ratelimiter.Config{
		Limit:  1,
		Window: time.Minute,
	})
	require.NoError(t, err)

	require.NoError(t, fw.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = fw.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFixedWindow_ConcurrentAcquire(t *testing.T) {
	t.Parallel()

	const (
		limit  = 5
		window = 200 * time.Millisecond
	)

	fw, err := ratelimiter.New(ratelimiter.NewMemoryStore(), "k", ratelimiter.Config{
		Limit:  limit,
		Window: window,
	})
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		times []time.Time
		wg    sync.WaitGroup
	)

	for range limit * 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, fw.Acquire(context.Background()))
			mu.Lock()
			times = append(times, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	// No window of the configured duration may contain more than limit
	// acquisitions.
	for _, anchor := range times {
		n := 0
		for _, ts := range times {
			if !ts.Before(anchor) && ts.Sub(anchor) < window {
				n++
			}
		}
		assert.LessOrEqual(t, n, limit)
	}
}

func TestMemoryStore_Reset(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore()
	ctx := context.Background()

	count, _, err := store.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, store.Reset(ctx, "k"))

	count, _, err = store.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "counter must restart after reset")
}
