// Package redis provides a configured Redis client constructor with
// connection retries and a readiness healthcheck. The shared fixed-window
// rate-limit store in pkg/ratelimiter builds on it.
package redis
