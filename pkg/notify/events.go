package notify

import (
	"context"

	"github.com/Sombhu2022/agri-farm-sub000/pkg/broadcast"
)

// EventType identifies engine lifecycle events published on the event bus.
type EventType string

const (
	// EventQueued fires when a payload enters the dispatch queue.
	EventQueued EventType = "queued"

	// EventBatchQueued fires when a batch's payloads enter the queue.
	EventBatchQueued EventType = "batch_queued"

	// EventProcessed fires after every recipient of a payload was attempted.
	EventProcessed EventType = "processed"

	// EventSent fires per successfully delivered (payload, recipient) pair.
	EventSent EventType = "sent"

	// EventError fires per failed (payload, recipient) pair.
	EventError EventType = "error"
)

// Event is the message published to engine observers. Only the fields
// relevant to the event type are set.
type Event struct {
	Type      EventType
	Payload   *Payload
	Batch     *Batch
	Recipient *Recipient
	Result    *Result
	Results   []Result
	Err       string
}

// publish is non-blocking: a slow observer loses messages, never stalls the
// processing loop.
func (e *Engine) publish(ev Event) {
	_ = e.events.Broadcast(context.Background(), broadcast.Message[Event]{Data: ev})
}

// Subscribe registers an observer for engine events. The subscription ends
// when ctx is cancelled.
func (e *Engine) Subscribe(ctx context.Context) broadcast.Subscriber[Event] {
	return e.events.Subscribe(ctx)
}
