package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devsecrets/internal/crypto"
	"devsecrets/internal/domain"
)

func TestAgree_BothSidesMatch(t *testing.T) {
	a, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	defer a.Destroy()
	b, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	defer b.Destroy()

	ab, err := crypto.Agree(a, b.Public)
	require.NoError(t, err)
	ba, err := crypto.Agree(b, a.Public)
	require.NoError(t, err)

	assert.Len(t, ab, 32)
	assert.Equal(t, ab, ba)
}

func TestAgree_RejectsLowOrderPoint(t *testing.T) {
	a, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	defer a.Destroy()

	_, err = crypto.Agree(a, domain.X25519Public{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAgree_NilKeyPair(t *testing.T) {
	_, err := crypto.Agree(nil, domain.X25519Public{9})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
