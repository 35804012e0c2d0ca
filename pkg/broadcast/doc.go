// Package broadcast provides a generic publish/subscribe primitive used as
// the notification engine's event bus.
//
// Publishing never blocks: slow subscribers have messages dropped and are
// eventually unsubscribed, so observers cannot stall the dispatch loop.
package broadcast
