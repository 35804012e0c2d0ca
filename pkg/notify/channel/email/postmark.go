package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"

	"github.com/Sombhu2022/agri-farm-sub000/pkg/notify"
)

// PostmarkProvider delivers email notifications through Postmark's
// transactional API.
type PostmarkProvider struct {
	client *postmark.Client
	config Config
}

var _ notify.Provider = (*PostmarkProvider)(nil)

// NewPostmarkProvider creates a Postmark-backed email provider. Both tokens
// and the sender address are required so broken configuration surfaces at
// startup instead of at send time.
func NewPostmarkProvider(cfg Config) (*PostmarkProvider, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("%w: SenderEmail is required", ErrInvalidConfig)
	}
	if !emailRegex.MatchString(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}

	return &PostmarkProvider{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		config: cfg,
	}, nil
}

// Channel implements notify.Provider.
func (p *PostmarkProvider) Channel() notify.ChannelType {
	return notify.ChannelEmail
}

// Validate implements notify.Provider. A recipient is deliverable when its
// email address parses.
func (p *PostmarkProvider) Validate(_ context.Context, rec *notify.Recipient) bool {
	return emailRegex.MatchString(rec.Email)
}

// Send implements notify.Provider.
func (p *PostmarkProvider) Send(ctx context.Context, payload *notify.Payload, rec *notify.Recipient, content notify.Content) (*notify.Result, error) {
	resp, err := p.client.SendEmail(ctx, postmark.Email{
		From:       p.config.SenderEmail,
		ReplyTo:    p.config.ReplyTo,
		To:         rec.Email,
		Subject:    content.Subject,
		Tag:        payload.TemplateID,
		HTMLBody:   content.Body,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return nil, errors.Join(ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return nil, errors.Join(ErrSendFailed, fmt.Errorf("postmark error %d: %s", resp.ErrorCode, resp.Message))
	}

	return &notify.Result{Status: notify.StatusSent}, nil
}
