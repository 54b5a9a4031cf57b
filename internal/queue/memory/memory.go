// Package memory is an in-process queue with visibility timeouts. It backs
// the relay server and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"devsecrets/internal/domain"
	"devsecrets/internal/queue"
)

type item struct {
	id         string
	body       string
	insertedAt time.Time
	visibleAt  time.Time
	receipt    string
}

// Queue is safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	name    domain.QueueName
	timeout time.Duration
	now     func() time.Time
	items   []*item
	closed  bool
}

// Option configures a Queue.
type Option func(*Queue)

// WithVisibilityTimeout overrides queue.DefaultVisibilityTimeout.
func WithVisibilityTimeout(d time.Duration) Option {
	return func(q *Queue) { q.timeout = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// New returns an empty queue.
func New(name domain.QueueName, opts ...Option) *Queue {
	q := &Queue{name: name, timeout: queue.DefaultVisibilityTimeout, now: time.Now}
	for _, o := range opts {
		o(q)
	}
	return q
}

// Name returns the queue name.
func (q *Queue) Name() domain.QueueName { return q.name }

// Put appends body and returns its message ID.
func (q *Queue) Put(body string) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return "", queue.ErrClosed
	}
	now := q.now().UTC()
	it := &item{id: uuid.NewString(), body: body, insertedAt: now, visibleAt: now}
	q.items = append(q.items, it)
	return it.id, nil
}

// Send implements domain.Transport.
func (q *Queue) Send(_ context.Context, body string) error {
	_, err := q.Put(body)
	return err
}

// ReceiveNext leases the oldest visible message.
func (q *Queue) ReceiveNext(_ context.Context) (domain.Delivery, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return domain.Delivery{}, false, queue.ErrClosed
	}
	now := q.now()
	for _, it := range q.items {
		if it.visibleAt.After(now) {
			continue
		}
		it.receipt = uuid.NewString()
		it.visibleAt = now.Add(q.timeout)
		return domain.Delivery{ID: it.id, Body: it.body, InsertedAt: it.insertedAt, Receipt: it.receipt}, true, nil
	}
	return domain.Delivery{}, false, nil
}

// Acknowledge removes a leased message. The receipt must be the one of the
// latest lease.
func (q *Queue) Acknowledge(_ context.Context, d domain.Delivery) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return queue.ErrClosed
	}
	for i, it := range q.items {
		if it.id != d.ID {
			continue
		}
		if it.receipt == "" || it.receipt != d.Receipt {
			return queue.ErrStaleReceipt
		}
		q.items = append(q.items[:i], q.items[i+1:]...)
		return nil
	}
	return queue.ErrNotFound
}

// Len returns the number of messages held, leased or not.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close drops all messages. Later calls fail with queue.ErrClosed.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	q.closed = true
	return nil
}

var _ domain.Transport = (*Queue)(nil)
