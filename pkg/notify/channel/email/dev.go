package email

import (
	"context"
	"sync"

	"github.com/Sombhu2022/agri-farm-sub000/pkg/notify"
)

// DevMessage is one message captured by the DevProvider.
type DevMessage struct {
	To      string
	Subject string
	Body    string
}

// DevProvider implements the email channel for local development and tests:
// it records messages in memory instead of sending them.
type DevProvider struct {
	mu       sync.Mutex
	messages []DevMessage
}

var _ notify.Provider = (*DevProvider)(nil)

// NewDevProvider creates a capturing email provider.
func NewDevProvider() *DevProvider {
	return &DevProvider{}
}

// Channel implements notify.Provider.
func (p *DevProvider) Channel() notify.ChannelType {
	return notify.ChannelEmail
}

// Validate implements notify.Provider.
func (p *DevProvider) Validate(_ context.Context, rec *notify.Recipient) bool {
	return emailRegex.MatchString(rec.Email)
}

// Send implements notify.Provider.
func (p *DevProvider) Send(_ context.Context, _ *notify.Payload, rec *notify.Recipient, content notify.Content) (*notify.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.messages = append(p.messages, DevMessage{
		To:      rec.Email,
		Subject: content.Subject,
		Body:    content.Body,
	})

	return &notify.Result{Status: notify.StatusSent}, nil
}

// Messages returns a copy of everything captured so far.
func (p *DevProvider) Messages() []DevMessage {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]DevMessage, len(p.messages))
	copy(out, p.messages)
	return out
}
