// Package pubsub carries messages over Google Cloud Pub/Sub.
//
// Send publishes to a topic. The first ReceiveNext starts a streaming pull on
// the subscription; pulled messages wait in a small buffer until handed out.
// A delivery that is not acknowledged within the visibility timeout is nacked
// by the client library and redelivered by the service.
package pubsub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"

	"devsecrets/internal/domain"
	"devsecrets/internal/queue"
)

// Config names the Pub/Sub resources of one queue.
type Config struct {
	Project         string
	Topic           string
	Subscription    string
	CredentialsFile string
	// Endpoint overrides the service address, for emulators.
	Endpoint string
}

const bufferSize = 16

// Queue is safe for concurrent use.
type Queue struct {
	client     *pubsub.Client
	ownsClient bool
	topic      *pubsub.Topic
	sub        *pubsub.Subscription

	startOnce  sync.Once
	cancel     context.CancelFunc
	done       chan struct{}
	deliveries chan *pubsub.Message

	mu       sync.Mutex
	pending  map[string]*pubsub.Message
	recvErr  error
	isClosed bool
}

// Open connects to Pub/Sub with cfg.
func Open(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Queue, error) {
	if cfg.Project == "" || cfg.Topic == "" {
		return nil, fmt.Errorf("pubsub: project and topic are required: %w", domain.ErrInvalidInput)
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	client, err := pubsub.NewClient(ctx, cfg.Project, opts...)
	if err != nil {
		return nil, fmt.Errorf("pubsub: %w", err)
	}
	q := New(client, cfg.Topic, cfg.Subscription)
	q.ownsClient = true
	return q, nil
}

// New wraps an existing client. subscription may be empty for send-only use.
func New(client *pubsub.Client, topic, subscription string) *Queue {
	q := &Queue{
		client:     client,
		topic:      client.Topic(topic),
		deliveries: make(chan *pubsub.Message, bufferSize),
		pending:    make(map[string]*pubsub.Message),
		done:       make(chan struct{}),
	}
	if subscription != "" {
		q.sub = client.Subscription(subscription)
		q.sub.ReceiveSettings.MaxExtension = queue.DefaultVisibilityTimeout
		q.sub.ReceiveSettings.MaxOutstandingMessages = bufferSize
	}
	return q
}

// SetVisibilityTimeout bounds how long a delivery may stay unacknowledged.
// It must be called before the first ReceiveNext.
func (q *Queue) SetVisibilityTimeout(d time.Duration) {
	if q.sub != nil {
		q.sub.ReceiveSettings.MaxExtension = d
	}
}

func (q *Queue) Send(ctx context.Context, body string) error {
	if q.closed() {
		return queue.ErrClosed
	}
	res := q.topic.Publish(ctx, &pubsub.Message{Data: []byte(body)})
	if _, err := res.Get(ctx); err != nil {
		return fmt.Errorf("pubsub: publish: %w", err)
	}
	return nil
}

func (q *Queue) start() {
	ctx, cancel := context.WithCancel(context.Background())
	q.mu.Lock()
	q.cancel = cancel
	q.mu.Unlock()
	go func() {
		defer close(q.done)
		err := q.sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
			select {
			case q.deliveries <- m:
			case <-ctx.Done():
				m.Nack()
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			q.mu.Lock()
			q.recvErr = err
			q.mu.Unlock()
		}
	}()
}

func (q *Queue) ReceiveNext(ctx context.Context) (domain.Delivery, bool, error) {
	if q.sub == nil {
		return domain.Delivery{}, false, fmt.Errorf("pubsub: no subscription configured: %w", domain.ErrInvalidInput)
	}
	if q.closed() {
		return domain.Delivery{}, false, queue.ErrClosed
	}
	q.startOnce.Do(q.start)

	select {
	case m := <-q.deliveries:
		q.mu.Lock()
		q.pending[m.ID] = m
		q.mu.Unlock()
		return domain.Delivery{
			ID:         m.ID,
			Body:       string(m.Data),
			InsertedAt: m.PublishTime.UTC(),
			Receipt:    m.ID,
		}, true, nil
	default:
	}

	q.mu.Lock()
	err := q.recvErr
	q.mu.Unlock()
	if err != nil {
		return domain.Delivery{}, false, fmt.Errorf("pubsub: receive: %w", err)
	}
	return domain.Delivery{}, false, ctx.Err()
}

func (q *Queue) Acknowledge(_ context.Context, d domain.Delivery) error {
	q.mu.Lock()
	m, ok := q.pending[d.ID]
	delete(q.pending, d.ID)
	q.mu.Unlock()
	if !ok {
		return queue.ErrNotFound
	}
	m.Ack()
	return nil
}

// Close stops pulling, nacks deliveries that were never acknowledged so the
// service hands them out again, and releases the client if Open created it.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.isClosed {
		q.mu.Unlock()
		return nil
	}
	q.isClosed = true
	for id, m := range q.pending {
		m.Nack()
		delete(q.pending, id)
	}
	cancel := q.cancel
	q.mu.Unlock()

	if cancel != nil {
		cancel()
		<-q.done
	}
drain:
	for {
		select {
		case m := <-q.deliveries:
			m.Nack()
		default:
			break drain
		}
	}
	q.topic.Stop()
	if q.ownsClient {
		return q.client.Close()
	}
	return nil
}

func (q *Queue) closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.isClosed
}

var _ domain.Transport = (*Queue)(nil)
