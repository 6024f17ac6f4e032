package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-time-sync/internal/config"
	"github.com/MKhiriev/go-time-sync/internal/logger"
)

func newTestAuthService(d time.Duration) AuthService {
	return NewAuthService(config.ServerApp{
		TokenSignKey:  "secret",
		TokenIssuer:   "timesync-test",
		TokenDuration: d,
	}, logger.Nop())
}

// ── CreateToken / ParseToken ─────────────────────────────────────────────────

func TestAuthService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(time.Hour)

	token, err := svc.CreateToken(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := svc.ParseToken(ctx, token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
}

func TestAuthService_ParseToken_Rejects(t *testing.T) {
	ctx := context.Background()

	expired, err := newTestAuthService(-time.Minute).CreateToken(ctx, 1)
	require.NoError(t, err)

	foreign, err := NewAuthService(config.ServerApp{
		TokenSignKey:  "other",
		TokenIssuer:   "timesync-test",
		TokenDuration: time.Hour,
	}, logger.Nop()).CreateToken(ctx, 1)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"expired":   expired.SignedString,
		"wrong key": foreign.SignedString,
		"garbage":   "not-a-jwt",
		"empty":     "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := newTestAuthService(time.Hour).ParseToken(ctx, raw)
			assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
		})
	}
}
