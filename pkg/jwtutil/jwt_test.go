package jwtutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	util := NewJWTUtil(&JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	token, claims, err := util.GenerateToken(7, "seller", "Sea Seller", "vendor")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, claims.ID)

	parsed, err := util.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), parsed.UserID)
	assert.Equal(t, "seller", parsed.Username)
	assert.Equal(t, "Sea Seller", parsed.FullName)
	assert.Equal(t, "vendor", parsed.Role)
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestTokensHaveDistinctIDs(t *testing.T) {
	util := NewJWTUtil(&JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	_, first, err := util.GenerateToken(1, "a", "", "consumer")
	require.NoError(t, err)
	_, second, err := util.GenerateToken(1, "a", "", "consumer")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	issuer := NewJWTUtil(&JWTConfig{SigningKey: "key-one", ExpirationHours: 1})
	verifier := NewJWTUtil(&JWTConfig{SigningKey: "key-two", ExpirationHours: 1})

	token, _, err := issuer.GenerateToken(1, "a", "", "consumer")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	util := NewJWTUtil(&JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	util.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := util.GenerateToken(1, "a", "", "consumer")
	require.NoError(t, err)

	_, err = util.ValidateToken(token)
	assert.Error(t, err)
}

func TestGenerateTokenWithoutKey(t *testing.T) {
	util := NewJWTUtil(&JWTConfig{})

	_, _, err := util.GenerateToken(1, "a", "", "consumer")
	assert.Error(t, err)
}
