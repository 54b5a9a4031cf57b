package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devsecrets/internal/crypto"
	"devsecrets/internal/domain"
)

func TestMasterKey_GenerateEncodeParse(t *testing.T) {
	key, err := crypto.GenerateMasterKey()
	require.NoError(t, err)
	require.Len(t, key, crypto.MasterKeySize)

	enc := crypto.EncodeKey(key)
	assert.Len(t, enc, 64)

	got, err := crypto.ParseMasterKey("  " + enc + "\n")
	require.NoError(t, err)
	assert.Equal(t, key, got)
}

func TestParseMasterKey_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "zz", "abc"} {
		_, err := crypto.ParseMasterKey(in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "input %q", in)
	}
}

func TestMasterKeyFromPassphrase(t *testing.T) {
	salt := []byte("devsecrets/queue-a")

	k1, err := crypto.MasterKeyFromPassphrase("correct horse", salt)
	require.NoError(t, err)
	k2, err := crypto.MasterKeyFromPassphrase("correct horse", salt)
	require.NoError(t, err)
	k3, err := crypto.MasterKeyFromPassphrase("correct horse", []byte("devsecrets/queue-b"))
	require.NoError(t, err)

	assert.Len(t, k1, crypto.MasterKeySize)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)

	_, err = crypto.MasterKeyFromPassphrase("", salt)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFingerprint(t *testing.T) {
	fp := crypto.Fingerprint([]byte{1, 2, 3})
	assert.Len(t, fp.String(), 20)
	assert.Equal(t, fp, crypto.Fingerprint([]byte{1, 2, 3}))
	assert.NotEqual(t, fp, crypto.Fingerprint([]byte{1, 2, 4}))
}
