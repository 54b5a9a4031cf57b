package session

import (
	"errors"
	"fmt"
	"math"

	"devsecrets/internal/crypto"
	"devsecrets/internal/domain"
	"devsecrets/internal/protocol/envelope"
	"devsecrets/internal/protocol/sequence"
	"devsecrets/internal/util/memzero"
)

// State is the lifecycle stage of a Session.
type State int

const (
	Uninitialized State = iota
	KeyEstablished
	Active
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case KeyEstablished:
		return "key_established"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

var (
	errClosed         = errors.New("session closed")
	errNotEstablished = errors.New("no master secret established")
	errEstablished    = errors.New("master secret already established")
	errExhausted      = errors.New("message counter exhausted")
)

// Message is one successfully received message.
type Message struct {
	Counter        domain.Counter
	Plaintext      []byte
	Classification domain.Classification
}

// Session is one direction of a conversation under a single master secret.
type Session struct {
	profile domain.Profile
	state   State
	closed  bool
	master  []byte

	// sent is the counter of the last message sent.
	sent  domain.Counter
	guard *sequence.Guard

	derive func(master []byte, counter domain.Counter) ([]byte, error)
}

// New returns a session for profile. ProfileNone needs no key and starts in
// KeyEstablished; the others start Uninitialized.
func New(profile domain.Profile) (*Session, error) {
	switch profile {
	case domain.ProfileNone, domain.ProfileStaticKey, domain.ProfileDerivedKey, domain.ProfileDerivedKeyWithAgreement:
	default:
		return nil, fmt.Errorf("session: %v: %w", profile, domain.ErrInvalidInput)
	}
	s := &Session{
		profile: profile,
		guard:   sequence.New(),
		derive:  crypto.MessageKey,
	}
	if profile == domain.ProfileNone {
		s.state = KeyEstablished
	}
	return s, nil
}

// Profile returns the session's profile.
func (s *Session) Profile() domain.Profile { return s.profile }

// State returns the session's lifecycle stage.
func (s *Session) State() State { return s.state }

// Expected returns the counter the receiving side expects next.
func (s *Session) Expected() uint64 { return s.guard.Expected() }

// Establish sets a pre-shared master secret. The secret is copied; the caller
// may wipe its own buffer afterwards. The static-key profile needs exactly
// crypto.KeySize bytes.
func (s *Session) Establish(master []byte) error {
	if err := s.checkEstablish(domain.ProfileStaticKey, domain.ProfileDerivedKey); err != nil {
		return err
	}
	if len(master) == 0 {
		return fmt.Errorf("session: empty master secret: %w", domain.ErrInvalidInput)
	}
	if s.profile == domain.ProfileStaticKey && len(master) != crypto.KeySize {
		return fmt.Errorf("session: static key must be %d bytes, got %d: %w", crypto.KeySize, len(master), domain.ErrInvalidInput)
	}
	s.master = append([]byte(nil), master...)
	s.state = KeyEstablished
	return nil
}

// EstablishViaAgreement derives the master secret from local and the peer's
// public key. local is destroyed before returning, whether or not agreement
// succeeded.
func (s *Session) EstablishViaAgreement(local *crypto.KeyPair, peer crypto.PublicKey) error {
	if local != nil {
		defer local.Destroy()
	}
	if err := s.checkEstablish(domain.ProfileDerivedKeyWithAgreement); err != nil {
		return err
	}
	master, err := crypto.Agree(local, peer)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	s.master = master
	s.state = KeyEstablished
	return nil
}

func (s *Session) checkEstablish(allowed ...domain.Profile) error {
	if s.closed {
		return fmt.Errorf("session: %w: %w", errClosed, domain.ErrInvalidInput)
	}
	if s.state != Uninitialized {
		return fmt.Errorf("session: %w: %w", errEstablished, domain.ErrInvalidInput)
	}
	for _, p := range allowed {
		if p == s.profile {
			return nil
		}
	}
	return fmt.Errorf("session: profile %v cannot be established this way: %w", s.profile, domain.ErrInvalidInput)
}

func (s *Session) ready() error {
	if s.closed {
		return fmt.Errorf("session: %w: %w", errClosed, domain.ErrInvalidInput)
	}
	if s.state == Uninitialized {
		return fmt.Errorf("session: %w: %w", errNotEstablished, domain.ErrInvalidInput)
	}
	return nil
}

// Send produces the wire form of plaintext. The outgoing counter is advanced
// first and never rolled back, even when a later step fails.
func (s *Session) Send(plaintext []byte) (domain.Outbound, error) {
	if err := s.ready(); err != nil {
		return domain.Outbound{}, err
	}
	if s.sent == math.MaxUint32 {
		return domain.Outbound{}, fmt.Errorf("session: %w: %w", errExhausted, domain.ErrInvalidInput)
	}
	s.sent++
	s.state = Active
	out := domain.Outbound{Counter: s.sent}

	switch s.profile {
	case domain.ProfileNone:
		out.Wire = string(plaintext)
	case domain.ProfileStaticKey:
		blob, err := crypto.Encrypt(s.master, plaintext)
		if err != nil {
			return domain.Outbound{}, fmt.Errorf("session: encrypt #%d: %w", out.Counter, err)
		}
		out.Wire = envelope.EncodeStatic(blob)
	default:
		key, err := s.derive(s.master, out.Counter)
		if err != nil {
			return domain.Outbound{}, fmt.Errorf("session: derive #%d: %w", out.Counter, err)
		}
		blob, err := crypto.Encrypt(key, plaintext)
		memzero.Zero(key)
		if err != nil {
			return domain.Outbound{}, fmt.Errorf("session: encrypt #%d: %w", out.Counter, err)
		}
		out.Wire = envelope.Encode(out.Counter, blob)
	}
	return out, nil
}

// Receive authenticates and opens one wire message.
//
// Malformed input fails with domain.ErrFormat before any key is derived. A
// failed authentication returns domain.ErrTampered with no plaintext; the
// returned Message still carries the counter and classification so callers
// can report it. The guard keeps what it decided in either case.
func (s *Session) Receive(wire string) (Message, error) {
	if err := s.ready(); err != nil {
		return Message{}, err
	}

	switch s.profile {
	case domain.ProfileNone:
		s.state = Active
		return Message{Plaintext: []byte(wire), Classification: domain.Unsequenced}, nil

	case domain.ProfileStaticKey:
		blob, err := envelope.DecodeStatic(wire)
		if err != nil {
			return Message{}, err
		}
		s.state = Active
		pt, err := crypto.Decrypt(s.master, blob)
		if err != nil {
			return Message{Classification: domain.Unsequenced}, err
		}
		return Message{Plaintext: pt, Classification: domain.Unsequenced}, nil
	}

	env, err := envelope.Decode(wire)
	if err != nil {
		return Message{}, err
	}
	s.state = Active
	msg := Message{Counter: env.Counter, Classification: s.guard.Classify(env.Counter)}

	key, err := s.derive(s.master, env.Counter)
	if err != nil {
		return msg, fmt.Errorf("session: derive #%d: %w", env.Counter, err)
	}
	pt, err := crypto.Decrypt(key, env.Ciphertext)
	memzero.Zero(key)
	if err != nil {
		return msg, fmt.Errorf("session: message #%d: %w", env.Counter, err)
	}
	msg.Plaintext = pt
	return msg, nil
}

// Close wipes the master secret. Any later call fails with
// domain.ErrInvalidInput. Close is idempotent.
func (s *Session) Close() {
	memzero.Zero(s.master)
	s.master = nil
	s.closed = true
}
