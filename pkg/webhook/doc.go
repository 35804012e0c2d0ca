// Package webhook provides reliable JSON-over-HTTP delivery with retries,
// exponential backoff, HMAC request signing, and circuit breaking.
//
// The webhook, chat, and push notification channels all deliver through this
// package so endpoint failures are handled uniformly.
package webhook
