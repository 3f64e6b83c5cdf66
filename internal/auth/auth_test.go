package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateJWT(secret, "user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ValidateJWT(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT([]byte("secret-a"), "user-123")
	require.NoError(t, err)

	_, err = ValidateJWT([]byte("secret-b"), token)
	assert.Error(t, err)
}

func TestJWTGarbageToken(t *testing.T) {
	_, err := ValidateJWT([]byte("secret"), "not.a.token")
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("segredo123")
	require.NoError(t, err)
	assert.NotEqual(t, "segredo123", hash)

	assert.True(t, CheckPasswordHash("segredo123", hash))
	assert.False(t, CheckPasswordHash("outra-senha", hash))
}
