package interfaces

import (
	"context"
	"time"

	domaintypes "devsecrets/internal/domain/types"
)

// MessageSender encrypts plaintext and hands it to a transport.
type MessageSender interface {
	Send(ctx context.Context, plaintext []byte) (domaintypes.Outbound, error)
}

// MessageReceiver pulls, verifies and acknowledges messages from a transport.
type MessageReceiver interface {
	// Poll processes at most one delivery. ok is false when the queue was empty.
	Poll(ctx context.Context) (msg domaintypes.Inbound, ok bool, err error)
	// Run polls until ctx is cancelled, sleeping interval when the queue is
	// empty, and passes every outcome to handle.
	Run(ctx context.Context, interval time.Duration, handle func(domaintypes.Inbound, error)) error
}
