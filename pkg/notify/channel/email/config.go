package email

import "regexp"

// Config holds email delivery configuration. Postmark tokens configure the
// transactional API sender; the SMTP fields configure the gomail sender.
// Only the fields for the sender you construct are required.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	SenderEmail string `env:"SENDER_EMAIL"`
	ReplyTo     string `env:"REPLY_TO_EMAIL"`
}

// Covers the practical address shapes we deliver to; full RFC 5322
// validation is the provider's job.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
