package types

// Counter numbers the messages of one direction of a session. The first
// message carries 1 and no value is used twice.
type Counter uint32

// QueueName identifies a queue on a transport.
type QueueName string

// String returns the string form of the queue name.
func (q QueueName) String() string { return string(q) }

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }
