package types

import "time"

// Envelope pairs a counter with the authenticated ciphertext it protects.
// Ciphertext is nonce‖ciphertext‖tag as produced by the cipher.
type Envelope struct {
	Counter    Counter
	Ciphertext []byte
}

// Delivery is one raw text blob handed out by a transport. It stays invisible
// to other receivers until acknowledged or until its lease expires.
type Delivery struct {
	ID         string    `json:"id"`
	Body       string    `json:"body"`
	InsertedAt time.Time `json:"inserted_at"`
	Receipt    string    `json:"receipt,omitempty"`
}

// Outbound is the result of sending one message.
type Outbound struct {
	Counter Counter
	Wire    string
}

// Inbound is a successfully processed message.
type Inbound struct {
	DeliveryID     string
	InsertedAt     time.Time
	Counter        Counter
	Plaintext      []byte
	Classification Classification
	// Expected is the counter the receiver expected before this message.
	Expected uint64
}
