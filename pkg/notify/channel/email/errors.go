package email

import "errors"

var (
	// ErrInvalidConfig indicates a missing or malformed configuration value.
	ErrInvalidConfig = errors.New("email: invalid config")

	// ErrSendFailed indicates the underlying transport rejected the message.
	ErrSendFailed = errors.New("email: failed to send")
)
