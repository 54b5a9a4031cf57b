package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"devsecrets/internal/domain"
)

const (
	// KeySize is the key size of the authenticated cipher.
	KeySize = chacha20poly1305.KeySize
	// NonceSize is the size of the random nonce prefixed to every ciphertext.
	NonceSize = chacha20poly1305.NonceSizeX
	// Overhead is the total expansion of Encrypt: nonce plus tag.
	Overhead = NonceSize + chacha20poly1305.Overhead
)

// Encrypt seals plaintext under key with XChaCha20-Poly1305.
// Returns: nonce (24 bytes) || ciphertext || tag (16 bytes).
//
// The nonce is random, which is safe for the number of messages a single
// static key sees in practice.
func Encrypt(key, plaintext []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("cipher: key must be %d bytes, got %d: %w", KeySize, len(key), domain.ErrInvalidInput)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, NonceSize, NonceSize+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(out); err != nil {
		return nil, err
	}
	return aead.Seal(out, out[:NonceSize], plaintext, nil), nil
}

// Decrypt authenticates and opens a blob produced by Encrypt. The tag is
// verified before any plaintext is produced; on failure the result is nil and
// the error wraps domain.ErrTampered.
func Decrypt(key, blob []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("cipher: key must be %d bytes, got %d: %w", KeySize, len(key), domain.ErrInvalidInput)
	}
	if len(blob) < Overhead {
		return nil, fmt.Errorf("cipher: %d bytes is shorter than nonce and tag: %w", len(blob), domain.ErrTampered)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, blob[:NonceSize], blob[NonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("cipher: %w", domain.ErrTampered)
	}
	return plaintext, nil
}
