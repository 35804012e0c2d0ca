package notify

import "errors"

var (
	// ErrTemplateNotFound is returned synchronously when a send references an
	// unregistered template; nothing is enqueued.
	ErrTemplateNotFound = errors.New("notification template not found")

	// ErrTemplateInactive is returned synchronously when the referenced
	// template exists but is disabled.
	ErrTemplateInactive = errors.New("notification template is inactive")

	// ErrNoValidRecipients is returned synchronously when no recipient ID
	// resolves in the directory; nothing is enqueued.
	ErrNoValidRecipients = errors.New("no valid recipients")

	// ErrChannelRejected marks a terminal per-recipient failure: the
	// recipient does not accept the payload's channel or has no address for
	// it. Never retried.
	ErrChannelRejected = errors.New("recipient does not accept channel")

	// ErrProviderValidation marks a terminal per-recipient failure: the
	// provider rejected the recipient.
	ErrProviderValidation = errors.New("provider validation failed")

	// ErrNoProvider is recorded when no provider is registered for the
	// payload's channel.
	ErrNoProvider = errors.New("no provider registered for channel")

	// ErrNoPayloads is returned when SendBatch is called with an empty set.
	ErrNoPayloads = errors.New("no payloads to send")

	// ErrEngineClosed is returned when submitting work after Shutdown.
	ErrEngineClosed = errors.New("notification engine is closed")

	// ErrResultNotFound is returned when a result ID is unknown.
	ErrResultNotFound = errors.New("notification result not found")

	// ErrBatchNotFound is returned when a batch ID is unknown.
	ErrBatchNotFound = errors.New("notification batch not found")
)
