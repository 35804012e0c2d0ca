package notify

import (
	"context"
	"sync"
)

// Provider is the concrete integration performing delivery for one channel
// type. The engine never mutates provider internal state; providers must be
// safe for concurrent Send calls.
type Provider interface {
	// Channel returns the channel type this provider handles.
	Channel() ChannelType

	// Validate reports whether the recipient can be delivered to by this
	// provider. A false return is a terminal, non-retryable failure for the
	// (payload, recipient) pair.
	Validate(ctx context.Context, rec *Recipient) bool

	// Send delivers rendered content to the recipient. Implementations
	// return a Result describing the outcome; the engine normalizes IDs,
	// attempts, and timestamps.
	Send(ctx context.Context, p *Payload, rec *Recipient, content Content) (*Result, error)
}

// SelectionPolicy determines which provider serves a channel when several
// are registered.
type SelectionPolicy string

const (
	// PolicyFirst always selects the first registered provider for the
	// channel. This matches the engine's historical behavior and is the
	// default.
	PolicyFirst SelectionPolicy = "first"

	// PolicyRoundRobin rotates through the channel's providers on every
	// selection.
	PolicyRoundRobin SelectionPolicy = "round-robin"
)

// Registry holds an ordered list of providers per channel type and selects
// one per dispatch according to the configured policy. Safe for concurrent
// use; providers are owned by the registry for the engine's lifetime.
type Registry struct {
	mu        sync.RWMutex
	providers map[ChannelType][]Provider
	cursor    map[ChannelType]int
	policy    SelectionPolicy
}

// NewRegistry creates a provider registry with the given selection policy.
// An empty policy defaults to PolicyFirst.
func NewRegistry(policy SelectionPolicy) *Registry {
	if policy == "" {
		policy = PolicyFirst
	}
	return &Registry{
		providers: make(map[ChannelType][]Provider),
		cursor:    make(map[ChannelType]int),
		policy:    policy,
	}
}

// Register appends a provider to its channel's list. Registration order is
// selection order under PolicyFirst.
func (r *Registry) Register(p Provider) {
	if p == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ch := p.Channel()
	r.providers[ch] = append(r.providers[ch], p)
}

// Select returns the provider serving the channel under the registry policy,
// or ErrNoProvider when none is registered.
func (r *Registry) Select(ch ChannelType) (Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.providers[ch]
	if len(list) == 0 {
		return nil, ErrNoProvider
	}

	switch r.policy {
	case PolicyRoundRobin:
		idx := r.cursor[ch] % len(list)
		r.cursor[ch]++
		return list[idx], nil
	default:
		return list[0], nil
	}
}

// Channels returns the channel types with at least one registered provider.
func (r *Registry) Channels() []ChannelType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ChannelType, 0, len(r.providers))
	for ch := range r.providers {
		out = append(out, ch)
	}
	return out
}
