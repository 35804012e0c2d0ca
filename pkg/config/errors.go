package config

import "errors"

var (
	// ErrNilPointer is returned when Load receives a nil destination.
	ErrNilPointer = errors.New("config: destination cannot be nil")

	// ErrParseFailed is returned when environment parsing fails.
	ErrParseFailed = errors.New("config: failed to parse environment")

	// ErrEnvFileLoad is returned when an explicitly requested .env file cannot be loaded.
	ErrEnvFileLoad = errors.New("config: failed to load env file")
)
