package email

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/Sombhu2022/agri-farm-sub000/pkg/notify"
)

// dialer abstracts gomail's Dialer so send paths are testable without an
// SMTP server.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPProvider delivers email notifications over plain SMTP via gomail.
// Useful for self-hosted relays where a transactional API is unavailable.
type SMTPProvider struct {
	dialer dialer
	config Config
}

var _ notify.Provider = (*SMTPProvider)(nil)

// NewSMTPProvider creates an SMTP-backed email provider.
func NewSMTPProvider(cfg Config) (*SMTPProvider, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("%w: SMTPHost is required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("%w: SenderEmail is required", ErrInvalidConfig)
	}
	if !emailRegex.MatchString(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}

	return &SMTPProvider{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		config: cfg,
	}, nil
}

// Channel implements notify.Provider.
func (p *SMTPProvider) Channel() notify.ChannelType {
	return notify.ChannelEmail
}

// Validate implements notify.Provider.
func (p *SMTPProvider) Validate(_ context.Context, rec *notify.Recipient) bool {
	return emailRegex.MatchString(rec.Email)
}

// Send implements notify.Provider. DialAndSend opens a fresh connection per
// message; acceptable at notification volumes, revisit if throughput becomes
// a concern.
func (p *SMTPProvider) Send(_ context.Context, _ *notify.Payload, rec *notify.Recipient, content notify.Content) (*notify.Result, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", p.config.SenderEmail)
	m.SetHeader("To", rec.Email)
	if p.config.ReplyTo != "" {
		m.SetHeader("Reply-To", p.config.ReplyTo)
	}
	m.SetHeader("Subject", content.Subject)
	m.SetBody("text/html", content.Body)

	if err := p.dialer.DialAndSend(m); err != nil {
		return nil, errors.Join(ErrSendFailed, err)
	}

	return &notify.Result{Status: notify.StatusSent}, nil
}
