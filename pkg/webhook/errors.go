package webhook

import "errors"

var (
	// ErrInvalidURL indicates the endpoint URL is missing or malformed.
	ErrInvalidURL = errors.New("invalid webhook URL")

	// ErrInvalidPayload indicates the payload is empty or cannot be sent.
	ErrInvalidPayload = errors.New("invalid webhook payload")

	// ErrInvalidConfiguration indicates missing or inconsistent signing configuration.
	ErrInvalidConfiguration = errors.New("invalid webhook configuration")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("webhook request timed out")

	// ErrTemporaryFailure indicates a transport-level failure that may resolve on retry.
	ErrTemporaryFailure = errors.New("temporary delivery failure")

	// ErrPermanentFailure indicates a failure that retrying cannot cure.
	ErrPermanentFailure = errors.New("permanent delivery failure")

	// ErrDeliveryFailed indicates all retry attempts were exhausted.
	ErrDeliveryFailed = errors.New("webhook delivery failed")

	// ErrCircuitOpen indicates the circuit breaker is protecting the endpoint.
	ErrCircuitOpen = errors.New("circuit breaker is open")
)
