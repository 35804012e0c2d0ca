// Package push implements the push-notification channel. Delivery goes
// through an HTTP push gateway (FCM proxy or similar) that accepts a JSON
// body with the device token and rendered content.
package push

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/Sombhu2022/agri-farm-sub000/pkg/notify"
	"github.com/Sombhu2022/agri-farm-sub000/pkg/webhook"
)

// Config holds push gateway settings.
type Config struct {
	GatewayURL string `env:"PUSH_GATEWAY_URL"`
	APIKey     string `env:"PUSH_GATEWAY_API_KEY"`
}

var (
	// ErrInvalidConfig indicates a missing or malformed configuration value.
	ErrInvalidConfig = errors.New("push: invalid config")

	// ErrSendFailed indicates the gateway rejected the message.
	ErrSendFailed = errors.New("push: failed to send")
)

// message is the JSON body posted to the gateway.
type message struct {
	DeviceToken string            `json:"device_token"`
	Title       string            `json:"title,omitempty"`
	Body        string            `json:"body"`
	Priority    string            `json:"priority"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Provider delivers push notifications through an HTTP gateway.
type Provider struct {
	sender *webhook.Sender
	config Config
}

var _ notify.Provider = (*Provider)(nil)

// New creates a gateway-backed push provider.
func New(cfg Config) (*Provider, error) {
	u, err := url.Parse(cfg.GatewayURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: GatewayURL must be an absolute URL", ErrInvalidConfig)
	}

	return &Provider{sender: webhook.NewSender(), config: cfg}, nil
}

// Channel implements notify.Provider.
func (p *Provider) Channel() notify.ChannelType {
	return notify.ChannelPush
}

// Validate implements notify.Provider. Device tokens are opaque gateway
// identifiers, so presence is the only local check.
func (p *Provider) Validate(_ context.Context, rec *notify.Recipient) bool {
	return rec.DeviceToken != ""
}

// Send implements notify.Provider.
func (p *Provider) Send(ctx context.Context, payload *notify.Payload, rec *notify.Recipient, content notify.Content) (*notify.Result, error) {
	msg := message{
		DeviceToken: rec.DeviceToken,
		Title:       content.Subject,
		Body:        content.Body,
		Priority:    string(payload.Priority),
		Metadata:    payload.Metadata,
	}

	opts := []webhook.SendOption{webhook.WithNoRetry()}
	if p.config.APIKey != "" {
		opts = append(opts, webhook.WithHeader("Authorization", "Bearer "+p.config.APIKey))
	}

	if err := p.sender.Send(ctx, p.config.GatewayURL, msg, opts...); err != nil {
		return nil, errors.Join(ErrSendFailed, err)
	}

	return &notify.Result{Status: notify.StatusSent}, nil
}
