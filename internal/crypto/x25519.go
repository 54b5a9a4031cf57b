package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"

	"devsecrets/internal/domain"
	"devsecrets/internal/util/memzero"
)

const agreementInfo = "devsecrets-agreement"

var errKeyPairDestroyed = errors.New("key pair already destroyed")

// KeyPair is an X25519 key pair whose private half can be destroyed once the
// shared secret has been computed.
type KeyPair struct {
	Public    domain.X25519Public
	private   domain.X25519Private
	destroyed bool
}

// GenerateKeyPair returns a fresh Curve25519 key pair.
// The private key is clamped per RFC 7748.
func GenerateKeyPair() (*KeyPair, error) {
	kp := &KeyPair{}
	if _, err := io.ReadFull(rand.Reader, kp.private[:]); err != nil {
		return nil, err
	}
	clamp(&kp.private)
	pub, err := curve25519.X25519(kp.private.Slice(), curve25519.Basepoint)
	if err != nil {
		kp.Destroy()
		return nil, err
	}
	copy(kp.Public[:], pub)
	return kp, nil
}

// Destroy wipes the private key. It is safe to call more than once.
func (kp *KeyPair) Destroy() {
	memzero.Zero(kp.private[:])
	kp.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (kp *KeyPair) Destroyed() bool { return kp.destroyed }

// Agree computes the master secret shared with the owner of peer. The raw
// X25519 output is passed through HKDF-SHA256 and wiped. Agree does not
// destroy kp; the caller owns that.
func Agree(kp *KeyPair, peer domain.X25519Public) ([]byte, error) {
	if kp == nil {
		return nil, fmt.Errorf("agreement: nil key pair: %w", domain.ErrInvalidInput)
	}
	if kp.destroyed {
		return nil, fmt.Errorf("agreement: %w: %w", errKeyPairDestroyed, domain.ErrInvalidInput)
	}
	// X25519 rejects low-order points, which would yield an all-zero secret.
	shared, err := curve25519.X25519(kp.private.Slice(), peer.Slice())
	if err != nil {
		return nil, fmt.Errorf("agreement: %v: %w", err, domain.ErrInvalidInput)
	}
	defer memzero.Zero(shared)

	master := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, shared, nil, []byte(agreementInfo)), master); err != nil {
		return nil, err
	}
	return master, nil
}

func clamp(k *domain.X25519Private) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}

// PublicKey is the public half of a KeyPair.
type PublicKey = domain.X25519Public
