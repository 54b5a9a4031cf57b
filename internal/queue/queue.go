package queue

import (
	"errors"
	"time"
)

// DefaultVisibilityTimeout is how long a delivery stays hidden from other
// receivers before it is handed out again.
const DefaultVisibilityTimeout = 30 * time.Second

var (
	// ErrNotFound means the acknowledged message no longer exists.
	ErrNotFound = errors.New("queue: message not found")
	// ErrStaleReceipt means the message was leased again since it was
	// delivered; the acknowledgement would remove another receiver's lease.
	ErrStaleReceipt = errors.New("queue: stale receipt")
	// ErrClosed means the transport was closed.
	ErrClosed = errors.New("queue: closed")
)
