package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdnotes/hd-notes-api/internal/types"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	token, err := GenerateAccessToken(userID, "a@x.com", cfg, time.Now())
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(cfg.TokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig()

	// issued more than the full validity window ago
	token, err := GenerateAccessToken(uuid.New(), "a@x.com", cfg, time.Now().Add(-cfg.TokenTTL-time.Hour))
	require.NoError(t, err)

	_, err = ParseAccessToken(token, cfg)
	assert.ErrorIs(t, err, types.ErrUnauthenticated)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	other := cfg
	other.SecretKey = "a-different-secret"

	token, err := GenerateAccessToken(uuid.New(), "a@x.com", other, time.Now())
	require.NoError(t, err)

	_, err = ParseAccessToken(token, cfg)
	assert.ErrorIs(t, err, types.ErrUnauthenticated)
}

func TestAccessTokenTamperedPayload(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateAccessToken(uuid.New(), "a@x.com", cfg, time.Now())
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "AAAA"
	_, err = ParseAccessToken(tampered, cfg)
	assert.ErrorIs(t, err, types.ErrUnauthenticated)
}

func TestAccessTokenWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	other := cfg
	other.Issuer = "someone-else"

	token, err := GenerateAccessToken(uuid.New(), "a@x.com", other, time.Now())
	require.NoError(t, err)

	_, err = ParseAccessToken(token, cfg)
	assert.ErrorIs(t, err, types.ErrUnauthenticated)
}
