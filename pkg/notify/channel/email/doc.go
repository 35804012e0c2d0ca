// Package email implements the email delivery channel.
//
// Three providers are available: PostmarkProvider for Postmark's
// transactional API, SMTPProvider for plain SMTP relays via gomail, and
// DevProvider which captures messages in memory for development and tests.
package email
