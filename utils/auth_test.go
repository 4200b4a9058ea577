package utils

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateJWT("ops@example.com", "manager", "Ops Person")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "Ops Person", claims.Name)
	assert.Greater(t, claims.ExpiresAt, time.Now().Unix())
}

func TestParseTokenExpired(t *testing.T) {
	expired := &Claims{
		Email: "ops@example.com",
		Role:  "admin",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString(JwtKey)
	require.NoError(t, err)

	_, err = ParseToken(signed)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, IsHashedPassword(hashed))
	assert.NotEqual(t, "s3cret", hashed)

	assert.True(t, VerifyPassword(hashed, "s3cret"))
	assert.False(t, VerifyPassword(hashed, "wrong"))
}

func TestVerifyLegacyPlaintextPassword(t *testing.T) {
	// Records predating hashing hold the raw password.
	assert.False(t, IsHashedPassword("admin123"))
	assert.True(t, VerifyPassword("admin123", "admin123"))
	assert.False(t, VerifyPassword("admin123", "admin1234"))
}
