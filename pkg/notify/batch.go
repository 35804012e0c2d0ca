package notify

import (
	"sync"
	"time"
)

// batchTracker groups payloads submitted together and aggregates their
// per-pair results. A batch completes when every constituent
// (payload, recipient) pair is accounted for - by a result, or by a
// discount when a payload expires or is cleared before dispatch.
type batchTracker struct {
	mu       sync.Mutex
	batches  map[string]*Batch
	expected map[string]int    // batch ID -> unaccounted pair count
	byPay    map[string]string // payload ID -> batch ID
}

func newBatchTracker() *batchTracker {
	return &batchTracker{
		batches:  make(map[string]*Batch),
		expected: make(map[string]int),
		byPay:    make(map[string]string),
	}
}

func (t *batchTracker) create(id string, payloads []*Payload) *Batch {
	t.mu.Lock()
	defer t.mu.Unlock()

	b := &Batch{
		ID:        id,
		Status:    BatchPending,
		CreatedAt: time.Now(),
	}

	pairs := 0
	for _, p := range payloads {
		b.PayloadIDs = append(b.PayloadIDs, p.ID)
		t.byPay[p.ID] = id
		pairs += len(p.RecipientIDs)
	}

	t.batches[id] = b
	t.expected[id] = pairs
	return b
}

// batchOf returns the batch ID the payload belongs to, if any.
func (t *batchTracker) batchOf(payloadID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id, ok := t.byPay[payloadID]
	return id, ok
}

// markProcessing transitions a pending batch when its first payload starts.
func (t *batchTracker) markProcessing(batchID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.batches[batchID]
	if ok && b.Status == BatchPending {
		b.Status = BatchProcessing
	}
}

// account records a pair result against the payload's batch, if any, and
// completes the batch once no pairs remain outstanding.
func (t *batchTracker) account(payloadID string, res Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	batchID, ok := t.byPay[payloadID]
	if !ok {
		return
	}
	b := t.batches[batchID]

	b.Results = append(b.Results, res)
	t.expected[batchID]--
	t.maybeCompleteLocked(batchID)
}

// discount removes n expected pairs from the payload's batch without
// recording results. Used when a payload expires or is cleared before
// dispatch, so a batch cannot wedge on pairs that will never be attempted.
func (t *batchTracker) discount(payloadID string, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	batchID, ok := t.byPay[payloadID]
	if !ok {
		return
	}

	t.expected[batchID] -= n
	t.maybeCompleteLocked(batchID)
}

func (t *batchTracker) maybeCompleteLocked(batchID string) {
	b := t.batches[batchID]
	if b == nil || t.expected[batchID] > 0 {
		return
	}
	if b.Status == BatchCompleted {
		return
	}

	now := time.Now()
	b.Status = BatchCompleted
	b.CompletedAt = &now
}

func (t *batchTracker) get(id string) (*Batch, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.batches[id]
	if !ok {
		return nil, false
	}

	// Deep-enough copy: results and payload IDs are what callers inspect.
	out := *b
	out.PayloadIDs = append([]string(nil), b.PayloadIDs...)
	out.Results = append([]Result(nil), b.Results...)
	return &out, true
}
