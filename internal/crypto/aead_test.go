package crypto_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devsecrets/internal/crypto"
	"devsecrets/internal/domain"
)

func TestCipher_RoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{7}, crypto.KeySize)

	for _, pt := range [][]byte{nil, []byte("x"), bytes.Repeat([]byte("hello "), 100)} {
		blob, err := crypto.Encrypt(key, pt)
		require.NoError(t, err)
		assert.Len(t, blob, len(pt)+crypto.Overhead)

		got, err := crypto.Decrypt(key, blob)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(pt, got), "got %q, want %q", got, pt)
	}
}

func TestCipher_NonceIsFresh(t *testing.T) {
	key := bytes.Repeat([]byte{7}, crypto.KeySize)
	a, err := crypto.Encrypt(key, []byte("same"))
	require.NoError(t, err)
	b, err := crypto.Encrypt(key, []byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCipher_EveryBitFlipIsTampered(t *testing.T) {
	key := bytes.Repeat([]byte{9}, crypto.KeySize)
	blob, err := crypto.Encrypt(key, []byte("attack at dawn"))
	require.NoError(t, err)

	for i := 0; i < len(blob)*8; i++ {
		flipped := append([]byte(nil), blob...)
		flipped[i/8] ^= 1 << (i % 8)

		pt, err := crypto.Decrypt(key, flipped)
		if !errors.Is(err, domain.ErrTampered) {
			t.Fatalf("bit %d: got err %v, want ErrTampered", i, err)
		}
		if pt != nil {
			t.Fatalf("bit %d: plaintext released on failure", i)
		}
	}
}

func TestCipher_WrongKeyAndShortBlob(t *testing.T) {
	key := bytes.Repeat([]byte{1}, crypto.KeySize)
	blob, err := crypto.Encrypt(key, []byte("hi"))
	require.NoError(t, err)

	_, err = crypto.Decrypt(bytes.Repeat([]byte{2}, crypto.KeySize), blob)
	assert.ErrorIs(t, err, domain.ErrTampered)

	_, err = crypto.Decrypt(key, blob[:crypto.Overhead-1])
	assert.ErrorIs(t, err, domain.ErrTampered)
}

func TestCipher_BadKeySize(t *testing.T) {
	_, err := crypto.Encrypt([]byte("short"), []byte("hi"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = crypto.Decrypt([]byte("short"), make([]byte, 64))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
