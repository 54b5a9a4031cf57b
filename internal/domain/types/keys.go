package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// X25519Public is a Curve25519 public key.
type X25519Public [32]byte

// Slice returns the key as a []byte.
func (p X25519Public) Slice() []byte { return p[:] }

// String returns the key as uppercase hex, the form users paste to each other.
func (p X25519Public) String() string { return strings.ToUpper(hex.EncodeToString(p[:])) }

// ParseX25519Public decodes a hex public key. Surrounding whitespace is ignored.
func ParseX25519Public(s string) (X25519Public, error) {
	var out X25519Public
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return out, fmt.Errorf("public key: %w", err)
	}
	if len(b) != len(out) {
		return out, fmt.Errorf("public key: want %d bytes, got %d", len(out), len(b))
	}
	copy(out[:], b)
	return out, nil
}

// X25519Private is a Curve25519 private key.
type X25519Private [32]byte

// Slice returns the key as a []byte.
func (k *X25519Private) Slice() []byte { return k[:] }
