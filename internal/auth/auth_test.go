package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("testpassword")
	require.NoError(t, err)
	assert.NotEqual(t, "testpassword", hash, "password must not be stored in plaintext")

	assert.NoError(t, CheckPass(hash, "testpassword"))
	assert.Error(t, CheckPass(hash, "wrongpassword"))
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-123", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-123", "secret")
	require.NoError(t, err)

	_, err = ParseToken(token, "othersecret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token", "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
