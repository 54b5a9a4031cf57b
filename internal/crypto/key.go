package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"devsecrets/internal/domain"
)

// MasterKeySize is the size of generated and passphrase-derived master keys.
const MasterKeySize = 32

// Argon2id parameters for passphrase-derived master keys.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// GenerateMasterKey returns a random master key.
func GenerateMasterKey() ([]byte, error) {
	key := make([]byte, MasterKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// ParseMasterKey decodes a hex master key as printed by EncodeKey.
func ParseMasterKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("master key: %v: %w", err, domain.ErrInvalidInput)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("master key: empty: %w", domain.ErrInvalidInput)
	}
	return key, nil
}

// EncodeKey renders key material as uppercase hex.
func EncodeKey(key []byte) string { return strings.ToUpper(hex.EncodeToString(key)) }

// MasterKeyFromPassphrase stretches a shared passphrase into a master key
// with Argon2id. Both peers must use the same salt.
func MasterKeyFromPassphrase(passphrase string, salt []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase: empty: %w", domain.ErrInvalidInput)
	}
	if len(salt) == 0 {
		return nil, fmt.Errorf("passphrase: empty salt: %w", domain.ErrInvalidInput)
	}
	return argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, MasterKeySize), nil
}
