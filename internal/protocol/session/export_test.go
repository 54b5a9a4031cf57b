package session

import "devsecrets/internal/domain"

// SetDerive replaces the message key derivation of s.
func SetDerive(s *Session, f func([]byte, domain.Counter) ([]byte, error)) { s.derive = f }

// Master exposes the master secret buffer of s.
func Master(s *Session) []byte { return s.master }

// SetSent sets the counter of the last message s sent.
func SetSent(s *Session, c domain.Counter) { s.sent = c }
