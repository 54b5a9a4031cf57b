package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"devsecrets/internal/domain"
	"devsecrets/internal/logging"
	"devsecrets/internal/queue/memory"
	"devsecrets/internal/queue/pubsub"
	"devsecrets/internal/queue/sqlite"
	"devsecrets/internal/relay"
)

// Wire bundles the logger and transport for the CLI.
type Wire struct {
	Config    Config
	Profile   domain.Profile
	Log       *logrus.Logger
	Transport domain.Transport
	HTTP      *http.Client
}

// NewWire constructs the dependency graph from cfg. Logs go to logOut.
func NewWire(ctx context.Context, cfg Config, logOut io.Writer) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogLevel, logOut)
	if err != nil {
		return nil, err
	}

	// Ensure an HTTP client is available for outbound calls
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	tr, err := openTransport(ctx, cfg, httpClient)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"transport": cfg.Transport.Kind,
		"queue":     cfg.Transport.Queue,
		"profile":   cfg.Profile,
	}).Debug("transport ready")

	return &Wire{
		Config:    cfg,
		Profile:   cfg.ParsedProfile(),
		Log:       log,
		Transport: tr,
		HTTP:      httpClient,
	}, nil
}

func openTransport(ctx context.Context, cfg Config, httpClient *http.Client) (domain.Transport, error) {
	t := cfg.Transport
	name := domain.QueueName(t.Queue)
	switch t.Kind {
	case TransportMemory:
		var opts []memory.Option
		if cfg.VisibilityTimeout > 0 {
			opts = append(opts, memory.WithVisibilityTimeout(cfg.VisibilityTimeout))
		}
		return memory.New(name, opts...), nil

	case TransportSQLite:
		var opts []sqlite.Option
		if cfg.VisibilityTimeout > 0 {
			opts = append(opts, sqlite.WithVisibilityTimeout(cfg.VisibilityTimeout))
		}
		q, err := sqlite.Open(ctx, t.SQLitePath, name, opts...)
		if err != nil {
			return nil, err
		}
		return q, nil

	case TransportRelay:
		c := relay.NewClient(t.RelayURL, name)
		c.HTTP = httpClient
		return c, nil

	case TransportPubSub:
		q, err := pubsub.Open(ctx, pubsub.Config{
			Project:         t.PubSubProject,
			Topic:           t.PubSubTopic,
			Subscription:    t.PubSubSubscription,
			CredentialsFile: t.PubSubCredentials,
			Endpoint:        t.PubSubEndpoint,
		})
		if err != nil {
			return nil, err
		}
		if cfg.VisibilityTimeout > 0 {
			q.SetVisibilityTimeout(cfg.VisibilityTimeout)
		}
		return q, nil
	}
	return nil, fmt.Errorf("transport %q: %w", t.Kind, domain.ErrInvalidInput)
}

// Close releases the transport.
func (w *Wire) Close() error { return w.Transport.Close() }
