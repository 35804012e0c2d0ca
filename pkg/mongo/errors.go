package mongo

import "errors"

var (
	// ErrFailedToConnect is returned when all connection attempts were exhausted.
	ErrFailedToConnect = errors.New("failed to connect to mongo")

	// ErrHealthcheckFailed is returned when the server does not respond to ping.
	ErrHealthcheckFailed = errors.New("mongo healthcheck failed")
)
