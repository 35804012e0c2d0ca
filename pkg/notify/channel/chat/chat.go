// Package chat implements the chat delivery channel. Messages are posted to
// a workspace incoming-webhook endpoint (Slack-compatible shape) addressed
// to the recipient's chat user ID.
package chat

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/Sombhu2022/agri-farm-sub000/pkg/notify"
	sender "github.com/Sombhu2022/agri-farm-sub000/pkg/webhook"
)

// Config holds chat workspace settings.
type Config struct {
	WebhookURL string `env:"CHAT_WEBHOOK_URL"`
}

var (
	// ErrInvalidConfig indicates a missing or malformed configuration value.
	ErrInvalidConfig = errors.New("chat: invalid config")

	// ErrSendFailed indicates the workspace endpoint rejected the message.
	ErrSendFailed = errors.New("chat: failed to send")
)

// message is the incoming-webhook body.
type message struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// Provider posts notifications to a chat workspace incoming webhook.
type Provider struct {
	sender *sender.Sender
	config Config
}

var _ notify.Provider = (*Provider)(nil)

// New creates a chat channel provider.
func New(cfg Config) (*Provider, error) {
	u, err := url.Parse(cfg.WebhookURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: WebhookURL must be an absolute URL", ErrInvalidConfig)
	}
	return &Provider{sender: sender.NewSender(), config: cfg}, nil
}

// Channel implements notify.Provider.
func (p *Provider) Channel() notify.ChannelType {
	return notify.ChannelChat
}

// Validate implements notify.Provider.
func (p *Provider) Validate(_ context.Context, rec *notify.Recipient) bool {
	return rec.ChatUserID != ""
}

// Send implements notify.Provider. The subject, when present, becomes a
// bolded first line.
func (p *Provider) Send(ctx context.Context, _ *notify.Payload, rec *notify.Recipient, content notify.Content) (*notify.Result, error) {
	text := content.Body
	if content.Subject != "" {
		text = "*" + content.Subject + "*\n" + content.Body
	}

	msg := message{Channel: rec.ChatUserID, Text: text}

	if err := p.sender.Send(ctx, p.config.WebhookURL, msg, sender.WithNoRetry()); err != nil {
		return nil, errors.Join(ErrSendFailed, err)
	}

	return &notify.Result{Status: notify.StatusSent}, nil
}
