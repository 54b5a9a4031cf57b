package interfaces

import (
	"context"

	domaintypes "devsecrets/internal/domain/types"
)

// Transport delivers opaque text blobs with at-least-once, unordered
// semantics. A delivery that is not acknowledged becomes visible again after
// the transport's lease expires.
type Transport interface {
	Send(ctx context.Context, body string) error
	// ReceiveNext polls without blocking; ok is false when nothing is queued.
	ReceiveNext(ctx context.Context) (delivery domaintypes.Delivery, ok bool, err error)
	Acknowledge(ctx context.Context, delivery domaintypes.Delivery) error
	Close() error
}
