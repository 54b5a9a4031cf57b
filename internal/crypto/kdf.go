package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"

	"devsecrets/internal/domain"
	"devsecrets/internal/util/memzero"
)

// MessageKeySize is the size of a derived per-message key.
const MessageKeySize = 32

// DeriveKey implements NIST SP 800-108 key derivation in counter mode with
// HMAC-SHA256 as the PRF. Block i is
//
//	HMAC(secret, BE32(i) || label || 0x00 || context || BE32(length*8))
//
// where i starts at start and increments (wrapping) for every further block.
// The output is the concatenated blocks truncated to length bytes.
func DeriveKey(secret, label, context []byte, length int, start uint32) ([]byte, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("kdf: empty secret: %w", domain.ErrInvalidInput)
	}
	if length <= 0 {
		return nil, fmt.Errorf("kdf: output length %d: %w", length, domain.ErrInvalidInput)
	}
	// [L]2 must fit its 32-bit field; this also keeps the block count far
	// below the 2^32 blocks the counter can address.
	if uint64(length)*8 > math.MaxUint32 {
		return nil, fmt.Errorf("kdf: output length %d too large: %w", length, domain.ErrInvalidInput)
	}

	input := make([]byte, 4+len(label)+1+len(context)+4)
	copy(input[4:], label)
	copy(input[4+len(label)+1:], context)
	binary.BigEndian.PutUint32(input[len(input)-4:], uint32(length*8))

	mac := hmac.New(sha256.New, secret)
	out := make([]byte, 0, length+sha256.Size)
	block := make([]byte, 0, sha256.Size)
	for i := start; len(out) < length; i++ {
		binary.BigEndian.PutUint32(input[:4], i)
		mac.Reset()
		mac.Write(input)
		block = mac.Sum(block[:0])
		out = append(out, block...)
	}
	memzero.Zero(block)

	if len(out) > length {
		memzero.Zero(out[length:])
	}
	return out[:length:length], nil
}

// MessageKey derives the key for one message from the master secret and the
// message counter.
//
// The counter is used twice: little-endian as the KDF context and as the
// first value of the KDF block counter. Peers running the same protocol rely
// on this exact layout, so it stays pinned here; new protocols should use a
// constant block counter start instead.
func MessageKey(master []byte, counter domain.Counter) ([]byte, error) {
	var context [4]byte
	binary.LittleEndian.PutUint32(context[:], uint32(counter))
	return DeriveKey(master, nil, context[:], MessageKeySize, uint32(counter))
}
