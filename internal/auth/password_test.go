package auth

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes and verifies", func(t *testing.T) {
		hash, err := HashPassword("correct-horse-battery", bcryptTestCost)
		require.NoError(t, err)
		assert.NotEqual(t, "correct-horse-battery", hash)

		assert.NoError(t, CheckPassword("correct-horse-battery", hash))
		assert.ErrorIs(t, CheckPassword("wrong-horse-battery", hash), ErrInvalidPassword)
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		_, err := HashPassword("short", bcryptTestCost)
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("rejects passwords over the bcrypt limit", func(t *testing.T) {
		_, err := HashPassword(strings.Repeat("x", 73), bcryptTestCost)
		assert.ErrorIs(t, err, ErrPasswordTooLong)
	})
}

func TestGenerateAPIToken(t *testing.T) {
	plaintext, hash, err := GenerateAPIToken()
	require.NoError(t, err)

	assert.Len(t, plaintext, 64)
	assert.Equal(t, HashToken(plaintext), hash)
	assert.NotEqual(t, plaintext, hash)
}

func TestGenerateSessionSecret(t *testing.T) {
	secret, err := GenerateSessionSecret()
	require.NoError(t, err)

	// The entrypoint hex-decodes the secret into CSRF key bytes; it must
	// always decode to the full 32 bytes.
	decoded, err := hex.DecodeString(secret)
	require.NoError(t, err)
	assert.Len(t, decoded, 32)
}

// bcryptTestCost keeps hashing fast in tests.
const bcryptTestCost = 4
