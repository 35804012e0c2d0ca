package webhook

import (
	"net/http"
	"time"
)

// DeliveryResult contains information about one delivery attempt.
type DeliveryResult struct {
	Success    bool
	StatusCode int
	Attempt    int
	Duration   time.Duration
	Error      error
}

// DeliveryHook is called after each delivery attempt.
type DeliveryHook func(result DeliveryResult)

type sendOptions struct {
	timeout    time.Duration
	headers    map[string]string
	httpClient *http.Client

	maxRetries      int
	backoffStrategy BackoffStrategy

	signatureSecret string

	circuitBreaker *CircuitBreaker

	onDelivery DeliveryHook
}

func defaultSendOptions() *sendOptions {
	return &sendOptions{
		timeout:         10 * time.Second,
		headers:         make(map[string]string),
		maxRetries:      3,
		backoffStrategy: DefaultBackoffStrategy(),
	}
}

// SendOption is a functional option for configuring a send.
type SendOption func(*sendOptions)

// WithTimeout sets the per-request HTTP timeout. Default is 10 seconds.
func WithTimeout(timeout time.Duration) SendOption {
	return func(o *sendOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithHeader adds a custom header to the request.
// Content-Type and User-Agent are set automatically.
func WithHeader(key, value string) SendOption {
	return func(o *sendOptions) {
		if key != "" && value != "" {
			o.headers[key] = value
		}
	}
}

// WithHeaders adds multiple custom headers to the request.
func WithHeaders(headers map[string]string) SendOption {
	return func(o *sendOptions) {
		for k, v := range headers {
			if k != "" && v != "" {
				o.headers[k] = v
			}
		}
	}
}

// WithMaxRetries sets the retry attempt cap. Default is 3; 0 disables retries.
func WithMaxRetries(n int) SendOption {
	return func(o *sendOptions) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

// WithBackoff sets the backoff strategy for retries.
func WithBackoff(strategy BackoffStrategy) SendOption {
	return func(o *sendOptions) {
		if strategy != nil {
			o.backoffStrategy = strategy
		}
	}
}

// WithSignature enables HMAC-SHA256 request signing with the given secret.
// Adds X-Webhook-Signature, X-Webhook-Timestamp, and X-Webhook-ID headers.
func WithSignature(secret string) SendOption {
	return func(o *sendOptions) {
		o.signatureSecret = secret
	}
}

// WithHTTPClient overrides the HTTP client for this send, for custom
// transports or testing.
func WithHTTPClient(client *http.Client) SendOption {
	return func(o *sendOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithCircuitBreaker enables circuit breaker protection for the endpoint.
// Reuse the same instance per endpoint so failure state carries across sends.
func WithCircuitBreaker(cb *CircuitBreaker) SendOption {
	return func(o *sendOptions) {
		o.circuitBreaker = cb
	}
}

// WithOnDelivery sets a callback invoked after every delivery attempt.
func WithOnDelivery(hook DeliveryHook) SendOption {
	return func(o *sendOptions) {
		o.onDelivery = hook
	}
}

// WithBasicRetry configures fixed-interval retries, useful in tests where
// predictable timing matters.
func WithBasicRetry(attempts int, interval time.Duration) SendOption {
	return func(o *sendOptions) {
		o.maxRetries = attempts
		o.backoffStrategy = FixedBackoff{Interval: interval}
	}
}

// WithNoRetry disables all retry attempts.
func WithNoRetry() SendOption {
	return func(o *sendOptions) {
		o.maxRetries = 0
	}
}
