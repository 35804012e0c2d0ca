// Package webhook implements the webhook delivery channel: the rendered
// notification is posted as JSON to each recipient's registered endpoint,
// signed with a shared HMAC secret when one is configured.
package webhook

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/Sombhu2022/agri-farm-sub000/pkg/notify"
	sender "github.com/Sombhu2022/agri-farm-sub000/pkg/webhook"
)

// Config holds webhook channel settings.
type Config struct {
	SigningSecret string        `env:"WEBHOOK_SIGNING_SECRET"`
	Timeout       time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"30s"`
	MaxRetries    int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
}

// ErrSendFailed indicates the endpoint did not accept the delivery.
var ErrSendFailed = errors.New("webhook: failed to send")

// envelope is the JSON body posted to the recipient endpoint.
type envelope struct {
	PayloadID  string            `json:"payload_id"`
	TemplateID string            `json:"template_id"`
	Priority   string            `json:"priority"`
	Subject    string            `json:"subject,omitempty"`
	Body       string            `json:"body"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	SentAt     time.Time         `json:"sent_at"`
}

// Provider delivers notifications to per-recipient webhook endpoints.
type Provider struct {
	sender *sender.Sender
	config Config
}

var _ notify.Provider = (*Provider)(nil)

// New creates a webhook channel provider.
func New(cfg Config) *Provider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Provider{sender: sender.NewSender(), config: cfg}
}

// Channel implements notify.Provider.
func (p *Provider) Channel() notify.ChannelType {
	return notify.ChannelWebhook
}

// Validate implements notify.Provider. The endpoint must be an absolute
// http(s) URL.
func (p *Provider) Validate(_ context.Context, rec *notify.Recipient) bool {
	u, err := url.Parse(rec.WebhookURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Send implements notify.Provider. Transport-level retries with backoff are
// handled here by the sender; the engine's own retry policy applies on top
// only if configured.
func (p *Provider) Send(ctx context.Context, payload *notify.Payload, rec *notify.Recipient, content notify.Content) (*notify.Result, error) {
	env := envelope{
		PayloadID:  payload.ID,
		TemplateID: payload.TemplateID,
		Priority:   string(payload.Priority),
		Subject:    content.Subject,
		Body:       content.Body,
		Metadata:   payload.Metadata,
		SentAt:     time.Now().UTC(),
	}

	opts := []sender.SendOption{
		sender.WithTimeout(p.config.Timeout),
		sender.WithMaxRetries(p.config.MaxRetries),
	}
	if p.config.SigningSecret != "" {
		opts = append(opts, sender.WithSignature(p.config.SigningSecret))
	}

	if err := p.sender.Send(ctx, rec.WebhookURL, env, opts...); err != nil {
		return nil, errors.Join(ErrSendFailed, err)
	}

	return &notify.Result{Status: notify.StatusSent}, nil
}
