package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTService_EmptySecret(t *testing.T) {
	_, err := NewJWTService("")
	assert.Error(t, err)
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc, err := NewJWTService("test-secret")
	require.NoError(t, err)

	token, err := svc.GenerateToken(7, "normal_user@example.com", "user")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "normal_user@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestJWTService_ValidateToken_Invalid(t *testing.T) {
	svc, err := NewJWTService("test-secret")
	require.NoError(t, err)

	other, err := NewJWTService("other-secret")
	require.NoError(t, err)
	foreign, err := other.GenerateToken(1, "a@example.com", "user")
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"email":   "a@example.com",
		"role":    "user",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	sign := func(method jwt.SigningMethod, claims jwt.MapClaims) string {
		t.Helper()
		token, err := jwt.NewWithClaims(method, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return token
	}
	exp := time.Now().Add(time.Hour).Unix()

	for name, token := range map[string]string{
		"malformed":     "invalid.jwt.token",
		"wrong secret":  foreign,
		"expired":       expiredString,
		"missing email": sign(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1, "role": "user", "exp": exp}),
		"missing user":  sign(jwt.SigningMethodHS256, jwt.MapClaims{"email": "a@example.com", "role": "user", "exp": exp}),
		"missing exp":   sign(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1, "email": "a@example.com", "role": "user"}),
		"other method":  sign(jwt.SigningMethodHS384, jwt.MapClaims{"user_id": 1, "email": "a@example.com", "role": "user", "exp": exp}),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.Error(t, err)
		})
	}
}
