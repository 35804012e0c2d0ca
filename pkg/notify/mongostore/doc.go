// Package mongostore provides MongoDB-backed implementations of the notify
// template and recipient stores, for deployments where templates and
// recipient profiles must survive restarts. Delivery results intentionally
// stay in memory; only the two directories are persisted.
package mongostore
