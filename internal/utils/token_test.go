package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "access-secret-for-tests"
	testRefreshSecret = "refresh-secret-for-tests"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testAccessSecret, 42, "a@x.com", "user", 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	claims, err := ParseAccessToken(tok.Token, testAccessSecret)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.WithinDuration(t, tok.Exp, claims.ExpiresAt.Time, time.Second)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken(testAccessSecret, 1, "a@x.com", "user", time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(tok.Token, "some-other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessTokenExpired(t *testing.T) {
	tok, err := NewAccessToken(testAccessSecret, 1, "a@x.com", "user", -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(tok.Token, testAccessSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAccessTokenMalformed(t *testing.T) {
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := ParseAccessToken(raw, testAccessSecret)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	tok, err := NewRefreshToken(testRefreshSecret, 7, 7*24*time.Hour)
	require.NoError(t, err)

	claims, err := ParseRefreshToken(tok.Token, testRefreshSecret)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestRefreshTokenExpired(t *testing.T) {
	tok, err := NewRefreshToken(testRefreshSecret, 7, -time.Hour)
	require.NoError(t, err)

	_, err = ParseRefreshToken(tok.Token, testRefreshSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

// The two token kinds must not be interchangeable: each is signed with its
// own secret, and refresh tokens additionally carry a type claim.
func TestSecretsAreIndependent(t *testing.T) {
	access, err := NewAccessToken(testAccessSecret, 1, "a@x.com", "user", time.Minute)
	require.NoError(t, err)
	refresh, err := NewRefreshToken(testRefreshSecret, 1, time.Hour)
	require.NoError(t, err)

	_, err = ParseRefreshToken(access.Token, testRefreshSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ParseAccessToken(refresh.Token, testAccessSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshTokenTypeClaimRequired(t *testing.T) {
	// An access-shaped token signed with the refresh secret still lacks
	// the type claim and must be rejected.
	tok, err := NewAccessToken(testRefreshSecret, 1, "a@x.com", "user", time.Minute)
	require.NoError(t, err)

	_, err = ParseRefreshToken(tok.Token, testRefreshSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestDecodeUnverified(t *testing.T) {
	tok, err := NewAccessToken(testAccessSecret, 9, "b@x.com", "admin", time.Minute)
	require.NoError(t, err)

	claims, err := DecodeUnverified(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", claims["email"])
	assert.Equal(t, float64(9), claims["userId"])

	_, err = DecodeUnverified("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
