package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	SetJWTSecret("unit-test-secret")

	token, err := GenerateToken(42, "alice", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Handle)
	assert.Equal(t, "campusfeed", claims.Issuer)
}

func TestValidToken_Expired(t *testing.T) {
	SetJWTSecret("unit-test-secret")

	token, err := GenerateToken(1, "bob", -time.Minute)
	require.NoError(t, err)

	_, err = ValidToken(token)
	assert.Error(t, err)
}

func TestValidToken_WrongSecret(t *testing.T) {
	SetJWTSecret("first-secret")
	token, err := GenerateToken(1, "bob", time.Hour)
	require.NoError(t, err)

	SetJWTSecret("second-secret")
	_, err = ValidToken(token)
	assert.Error(t, err)
}

func TestValidToken_Garbage(t *testing.T) {
	SetJWTSecret("unit-test-secret")
	_, err := ValidToken("not.a.token")
	assert.Error(t, err)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, CheckPassword("secret123", hash))
	assert.Error(t, CheckPassword("wrong", hash))
}
