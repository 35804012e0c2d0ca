package ratelimiter

import (
	"context"
	"time"
)

// Store defines the interface for fixed-window counter backends.
type Store interface {
	// Incr increments the counter for key within the current window,
	// creating the window when absent or expired. It returns the count
	// after the increment and the time at which the window resets.
	Incr(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)

	// Reset clears the counter state for the given key.
	Reset(ctx context.Context, key string) error
}
