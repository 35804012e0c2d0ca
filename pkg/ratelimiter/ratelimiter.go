package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// Config defines the fixed-window configuration.
type Config struct {
	Limit  int           // Maximum acquisitions per window
	Window time.Duration // Window duration
}

func (c Config) validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidConfig, c.Limit)
	}
	if c.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %v", ErrInvalidConfig, c.Window)
	}
	return nil
}

// FixedWindow implements a blocking fixed-window rate limiter over a
// pluggable Store. A single key is used per limiter instance; callers that
// need per-tenant limiting create one limiter per key.
type FixedWindow struct {
	store  Store
	config Config
	key    string
}

// New creates a fixed-window limiter for the given key.
func New(store Store, key string, config Config) (*FixedWindow, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	if key == "" {
		key = "ratelimiter:default"
	}

	return &FixedWindow{
		store:  store,
		config: config,
		key:    key,
	}, nil
}

// Acquire blocks until the caller may proceed under the configured limit.
// It returns immediately while the current window has capacity; otherwise it
// sleeps until the window resets and tries again. Safe for concurrent use.
func (fw *FixedWindow) Acquire(ctx context.Context) error {
	for {
		count, resetAt, err := fw.store.Incr(ctx, fw.key, fw.config.Window)
		if err != nil {
			return err
		}
		if count <= int64(fw.config.Limit) {
			return nil
		}

		wait := time.Until(resetAt)
		if wait <= 0 {
			// Window already rolled over between Incr and now; retry.
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// TryAcquire reports whether capacity was available without blocking.
// When denied it returns the time at which the window resets.
func (fw *FixedWindow) TryAcquire(ctx context.Context) (bool, time.Time, error) {
	count, resetAt, err := fw.store.Incr(ctx, fw.key, fw.config.Window)
	if err != nil {
		return false, time.Time{}, err
	}
	return count <= int64(fw.config.Limit), resetAt, nil
}

// Reset clears the limiter state.
func (fw *FixedWindow) Reset(ctx context.Context) error {
	return fw.store.Reset(ctx, fw.key)
}
