package redis

import "errors"

var (
	// ErrFailedToParseConnString is returned for malformed connection URLs.
	ErrFailedToParseConnString = errors.New("failed to parse redis connection string")

	// ErrNotReady is returned when all connection attempts were exhausted.
	ErrNotReady = errors.New("redis is not ready")

	// ErrHealthcheckFailed is returned when the server does not respond to ping.
	ErrHealthcheckFailed = errors.New("redis healthcheck failed")
)
