package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devsecrets/internal/domain"
)

func TestKeyPair_DestroyZeroesPrivate(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)
	require.NotEqual(t, domain.X25519Private{}, kp.private)

	kp.Destroy()
	assert.Equal(t, domain.X25519Private{}, kp.private)
	assert.True(t, kp.Destroyed())

	_, err = Agree(kp, kp.Public)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerateKeyPair_Clamped(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)
	defer kp.Destroy()

	assert.Zero(t, kp.private[0]&7)
	assert.Zero(t, kp.private[31]&128)
	assert.NotZero(t, kp.private[31]&64)
}
