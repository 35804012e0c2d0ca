package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sombhu2022/agri-farm-sub000/pkg/notify"
)

// stubProvider is a configurable in-memory provider shared by the package
// tests.
type stubProvider struct {
	name    string
	channel notify.ChannelType
	valid   func(*notify.Recipient) bool
	send    func(context.Context, *notify.Payload, *notify.Recipient, notify.Content) (*notify.Result, error)

	mu    sync.Mutex
	sends []stubSend
}

type stubSend struct {
	PayloadID   string
	RecipientID string
	Content     notify.Content
}

func newStubProvider(ch notify.ChannelType) *stubProvider {
	return &stubProvider{channel: ch}
}

func (s *stubProvider) Channel() notify.ChannelType { return s.channel }

func (s *stubProvider) Validate(_ context.Context, rec *notify.Recipient) bool {
	if s.valid != nil {
		return s.valid(rec)
	}
	return true
}

func (s *stubProvider) Send(ctx context.Context, p *notify.Payload, rec *notify.Recipient, content notify.Content) (*notify.Result, error) {
	s.mu.Lock()
	s.sends = append(s.sends, stubSend{PayloadID: p.ID, RecipientID: rec.ID, Content: content})
	s.mu.Unlock()

	if s.send != nil {
		return s.send(ctx, p, rec, content)
	}
	return &notify.Result{Status: notify.StatusSent}, nil
}

func (s *stubProvider) Sends() []stubSend {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]stubSend, len(s.sends))
	copy(out, s.sends)
	return out
}

func TestRegistry_SelectFirst(t *testing.T) {
	t.Parallel()

	reg := notify.NewRegistry(notify.PolicyFirst)

	_, err := reg.Select(notify.ChannelEmail)
	assert.True(t, errors.Is(err, notify.ErrNoProvider))

	a := newStubProvider(notify.ChannelEmail)
	a.name = "a"
	b := newStubProvider(notify.ChannelEmail)
	b.name = "b"
	reg.Register(a)
	reg.Register(b)

	for range 3 {
		p, err := reg.Select(notify.ChannelEmail)
		require.NoError(t, err)
		assert.Same(t, notify.Provider(a), p)
	}
}

func TestRegistry_SelectRoundRobin(t *testing.T) {
	t.Parallel()

	reg := notify.NewRegistry(notify.PolicyRoundRobin)

	a := newStubProvider(notify.ChannelSMS)
	b := newStubProvider(notify.ChannelSMS)
	reg.Register(a)
	reg.Register(b)

	var order []notify.Provider
	for range 4 {
		p, err := reg.Select(notify.ChannelSMS)
		require.NoError(t, err)
		order = append(order, p)
	}

	assert.Same(t, notify.Provider(a), order[0])
	assert.Same(t, notify.Provider(b), order[1])
	assert.Same(t, notify.Provider(a), order[2])
	assert.Same(t, notify.Provider(b), order[3])
}

func TestRegistry_Channels(t *testing.T) {
	t.Parallel()

	reg := notify.NewRegistry(notify.PolicyFirst)
	reg.Register(newStubProvider(notify.ChannelEmail))
	reg.Register(newStubProvider(notify.ChannelPush))

	assert.ElementsMatch(t, []notify.ChannelType{notify.ChannelEmail, notify.ChannelPush}, reg.Channels())
}
