package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"devsecrets/internal/domain"
	"devsecrets/internal/metrics"
	"devsecrets/internal/protocol/session"
)

// Receiver pulls deliveries from a transport and opens them with a session.
type Receiver struct {
	sess      *session.Session
	transport domain.Transport
	log       logrus.FieldLogger
}

// NewReceiver returns a Receiver. sess must be established.
func NewReceiver(sess *session.Session, transport domain.Transport, log logrus.FieldLogger) *Receiver {
	return &Receiver{sess: sess, transport: transport, log: log}
}

// Poll processes at most one delivery.
//
// ok reports whether a delivery was taken from the transport. When ok is
// true and err wraps domain.ErrFormat or domain.ErrTampered, the delivery was
// discarded; in the tampered case the returned Inbound carries the counter
// and classification but no plaintext.
func (r *Receiver) Poll(ctx context.Context) (domain.Inbound, bool, error) {
	d, ok, err := r.transport.ReceiveNext(ctx)
	if err != nil {
		metrics.TransportErrors.WithLabelValues("receive").Inc()
		return domain.Inbound{}, false, fmt.Errorf("receive: %w", err)
	}
	if !ok {
		return domain.Inbound{}, false, nil
	}

	log := r.log.WithField("delivery", d.ID)
	expected := r.sess.Expected()
	msg, err := r.sess.Receive(d.Body)
	in := domain.Inbound{
		DeliveryID:     d.ID,
		InsertedAt:     d.InsertedAt,
		Counter:        msg.Counter,
		Plaintext:      msg.Plaintext,
		Classification: msg.Classification,
		Expected:       expected,
	}

	switch {
	case err == nil:
		metrics.MessagesReceived.WithLabelValues(in.Classification.String()).Inc()
		fields := logrus.Fields{"counter": in.Counter, "classification": in.Classification}
		if in.Classification.Warning() {
			fields["expected"] = expected
			log.WithFields(fields).Warn("message out of sequence")
		} else {
			log.WithFields(fields).Debug("message received")
		}

	case errors.Is(err, domain.ErrFormat):
		metrics.MessagesRejected.WithLabelValues("format").Inc()
		log.WithError(err).Warn("discarding malformed message")

	case errors.Is(err, domain.ErrTampered):
		metrics.MessagesRejected.WithLabelValues("tampered").Inc()
		log.WithFields(logrus.Fields{"counter": in.Counter}).Error("message failed authentication, discarding")

	default:
		// Session misuse; leave the delivery for another receiver.
		return domain.Inbound{}, true, err
	}

	if ackErr := r.transport.Acknowledge(ctx, d); ackErr != nil {
		metrics.TransportErrors.WithLabelValues("ack").Inc()
		log.WithError(ackErr).Warn("acknowledge failed")
		if err == nil {
			err = fmt.Errorf("acknowledge %s: %w", d.ID, ackErr)
		}
	}
	if err != nil {
		return in, true, fmt.Errorf("delivery %s: %w", d.ID, err)
	}
	return in, true, nil
}

// Run polls until ctx is done. Every processed delivery and every failure is
// passed to handle; an empty queue or a failure waits interval before the
// next poll. Run returns nil once ctx is cancelled.
func (r *Receiver) Run(ctx context.Context, interval time.Duration, handle func(domain.Inbound, error)) error {
	if interval <= 0 {
		return fmt.Errorf("poll interval %v: %w", interval, domain.ErrInvalidInput)
	}
	for {
		if ctx.Err() != nil {
			return nil
		}
		in, ok, err := r.Poll(ctx)
		if ok || err != nil {
			if ctx.Err() != nil {
				return nil
			}
			handle(in, err)
		}
		if ok && (err == nil || discarded(err)) {
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

func discarded(err error) bool {
	return errors.Is(err, domain.ErrFormat) || errors.Is(err, domain.ErrTampered)
}

var _ domain.MessageReceiver = (*Receiver)(nil)
