// Package mongo provides a configured MongoDB client constructor with
// connection retries and a readiness healthcheck. The notification template
// and recipient stores in pkg/notify/mongostore build on it.
package mongo
