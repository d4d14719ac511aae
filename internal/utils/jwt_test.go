package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseJWT(t *testing.T) {
	tok, err := SignJWT("secret", "4c1f6f0e-7c5b-4a53-9d1c-1f2f7c3b2a10", "DRIVER", 60)
	require.NoError(t, err)

	claims, err := ParseJWT("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, "4c1f6f0e-7c5b-4a53-9d1c-1f2f7c3b2a10", claims.UserID)
	assert.Equal(t, claims.UserID, claims.Subject)
	assert.Equal(t, "DRIVER", claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	tok, err := SignJWT("secret", "u1", "PASSENGER", 60)
	require.NoError(t, err)

	_, err = ParseJWT("other", tok)
	assert.Error(t, err)
}

func TestParseJWTRejectsExpired(t *testing.T) {
	tok, err := SignJWT("secret", "u1", "PASSENGER", -1)
	require.NoError(t, err)

	_, err = ParseJWT("secret", tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseJWTRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{UserID: "u1", Role: "DRIVER", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseJWT("secret", tok)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", h)
	assert.True(t, CheckPassword(h, "hunter22"))
	assert.False(t, CheckPassword(h, "hunter23"))
}
