package messaging

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"devsecrets/internal/domain"
	"devsecrets/internal/metrics"
	"devsecrets/internal/protocol/session"
)

// Sender encrypts messages with a session and sends them over a transport.
type Sender struct {
	sess      *session.Session
	transport domain.Transport
	log       logrus.FieldLogger
}

// NewSender returns a Sender. sess must be established.
func NewSender(sess *session.Session, transport domain.Transport, log logrus.FieldLogger) *Sender {
	return &Sender{sess: sess, transport: transport, log: log}
}

// Send encrypts plaintext and sends it. The session counter advances even
// when the transport fails; the lost counter shows up as a gap on the other
// side.
func (s *Sender) Send(ctx context.Context, plaintext []byte) (domain.Outbound, error) {
	out, err := s.sess.Send(plaintext)
	if err != nil {
		return domain.Outbound{}, err
	}
	if err := s.transport.Send(ctx, out.Wire); err != nil {
		metrics.TransportErrors.WithLabelValues("send").Inc()
		return out, fmt.Errorf("send message #%d: %w", out.Counter, err)
	}
	metrics.MessagesSent.Inc()
	s.log.WithFields(logrus.Fields{
		"counter": out.Counter,
		"profile": s.sess.Profile(),
		"bytes":   len(out.Wire),
	}).Debug("message sent")
	return out, nil
}

var _ domain.MessageSender = (*Sender)(nil)
