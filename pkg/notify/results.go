package notify

import (
	"sync"
	"time"
)

// resultStore records one Result per (payload, recipient) pair. Results are
// append-only: the engine records and reads them but never deletes.
type resultStore struct {
	mu      sync.RWMutex
	results map[string]Result
}

func newResultStore() *resultStore {
	return &resultStore{
		results: make(map[string]Result),
	}
}

func (s *resultStore) record(res Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[res.ID] = res
}

func (s *resultStore) get(id string) (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.results[id]
	if !ok {
		return nil, false
	}
	out := res
	return &out, true
}

// stats is a pure read-side aggregation; it never mutates results.
func (s *resultStore) stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		ByChannel:  make(map[ChannelType]int),
		ByPriority: make(map[Priority]int),
	}

	var latencySum time.Duration
	var latencyCount int

	for _, res := range s.results {
		st.Total++
		switch res.Status {
		case StatusSent:
			st.Sent++
		case StatusDelivered:
			st.Delivered++
		case StatusFailed:
			st.Failed++
		case StatusPending:
			st.Pending++
		case StatusCancelled:
			st.Cancelled++
		}

		st.ByChannel[res.Channel]++
		st.ByPriority[res.Priority]++

		if res.SentAt != nil && res.DeliveredAt != nil {
			latencySum += res.DeliveredAt.Sub(*res.SentAt)
			latencyCount++
		}
	}

	if st.Total > 0 {
		st.DeliveryRate = float64(st.Delivered) / float64(st.Total)
	}
	if latencyCount > 0 {
		st.AvgDeliveryLatency = latencySum / time.Duration(latencyCount)
	}

	return st
}
