package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWTToken_Success(t *testing.T) {
	token, err := GenerateJWTToken("test-issuer", 123, time.Hour, "secret-key")

	require.NoError(t, err)
	assert.NotEmpty(t, token.SignedString)
	assert.Equal(t, int64(123), token.UserID)

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	require.True(t, ok)
	assert.Equal(t, "test-issuer", claims.Issuer)
	assert.Equal(t, "123", claims.Subject)
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		issuer   string
		duration time.Duration
		key      string
	}{
		{"empty issuer", "", time.Hour, "key"},
		{"zero duration", "iss", 0, "key"},
		{"empty key", "iss", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateJWTToken(tt.issuer, 1, tt.duration, tt.key)
			assert.Error(t, err)
		})
	}
}

func TestValidateAndParseJWTToken(t *testing.T) {
	valid, err := GenerateJWTToken("iss", 456, 5*time.Minute, "key")
	require.NoError(t, err)
	expired, err := GenerateJWTToken("iss", 1, -time.Second, "key")
	require.NoError(t, err)

	parsed, err := ValidateAndParseJWTToken(valid.SignedString, "key", "iss")
	require.NoError(t, err)
	assert.Equal(t, int64(456), parsed.UserID)

	_, err = ValidateAndParseJWTToken(valid.SignedString, "wrong-key", "iss")
	assert.Error(t, err)

	_, err = ValidateAndParseJWTToken(valid.SignedString, "key", "fake-issuer")
	assert.Error(t, err)

	_, err = ValidateAndParseJWTToken(expired.SignedString, "key", "iss")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = ValidateAndParseJWTToken("not.a.token", "key", "iss")
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	valid, err := GenerateJWTToken("iss", 1, time.Hour, "key")
	require.NoError(t, err)
	expired, err := GenerateJWTToken("iss", 1, -time.Minute, "key")
	require.NoError(t, err)

	now := time.Now()
	assert.False(t, TokenExpired(valid.SignedString, now))
	assert.True(t, TokenExpired(expired.SignedString, now))
	assert.False(t, TokenExpired("opaque-api-token", now))
}

func TestParseBearerToken(t *testing.T) {
	token, err := ParseBearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer a b"} {
		_, err := ParseBearerToken(header)
		assert.ErrorIs(t, err, ErrInvalidAuthorizationHeader, header)
	}
}
