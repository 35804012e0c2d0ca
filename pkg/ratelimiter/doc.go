// Package ratelimiter implements a blocking fixed-window rate limiter.
//
// Acquire returns immediately while the current window has capacity and
// otherwise suspends the caller until the window resets. Counter state lives
// behind the Store interface with in-memory and Redis implementations; the
// in-memory store matches the engine's single-instance scope, the Redis
// store lets several processes share one budget.
package ratelimiter
