// Package queue holds what the transport implementations share: their error
// values and the default visibility timeout.
//
// Implementations live in subpackages (memory, sqlite, pubsub); the HTTP
// relay client lives in internal/relay.
package queue
