package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/articlegate/articlegate/internal/auth"
	"github.com/articlegate/articlegate/internal/config"
)

var testJWT = config.JWT{
	AccessSecret:  "access-secret",
	RefreshSecret: "refresh-secret",
	AccessTTL:     15 * time.Minute,
	RefreshTTL:    7 * 24 * time.Hour,
	Issuer:        "test",
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTokens(c *clock) *auth.TokenService {
	return auth.NewTokenService(testJWT).WithClock(c.now)
}

func TestTokenRoundTrip(t *testing.T) {
	c := &clock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	tokens := newTokens(c)

	access, err := tokens.IssueAccessToken(11, 4)
	require.NoError(t, err)

	c.t = c.t.Add(14 * time.Minute)

	claims, err := tokens.Verify(access, auth.TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(11), claims.UserID)
	assert.Equal(t, uint(4), claims.RoleID)
	assert.NotEmpty(t, claims.ID)

	c.t = c.t.Add(2 * time.Minute)

	_, err = tokens.Verify(access, auth.TokenAccess)
	require.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestRefreshTokenLifetime(t *testing.T) {
	c := &clock{t: time.Now()}
	tokens := newTokens(c)

	refresh, err := tokens.IssueRefreshToken(1, 2)
	require.NoError(t, err)

	c.t = c.t.Add(6 * 24 * time.Hour)
	_, err = tokens.Verify(refresh, auth.TokenRefresh)
	require.NoError(t, err)

	c.t = c.t.Add(2 * 24 * time.Hour)
	_, err = tokens.Verify(refresh, auth.TokenRefresh)
	require.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestTokenKindsAreSeparated(t *testing.T) {
	tokens := newTokens(&clock{t: time.Now()})

	pair, err := tokens.IssuePair(1, 2)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	_, err = tokens.Verify(pair.AccessToken, auth.TokenRefresh)
	require.ErrorIs(t, err, auth.ErrTokenInvalid)

	_, err = tokens.Verify(pair.RefreshToken, auth.TokenAccess)
	require.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestTokenKindClaimIsChecked(t *testing.T) {
	// same secret for both kinds, only typ tells them apart
	cfg := testJWT
	cfg.RefreshSecret = cfg.AccessSecret
	tokens := auth.NewTokenService(cfg)

	refresh, err := tokens.IssueRefreshToken(1, 2)
	require.NoError(t, err)

	_, err = tokens.Verify(refresh, auth.TokenAccess)
	require.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestTamperedAndForeignTokens(t *testing.T) {
	tokens := newTokens(&clock{t: time.Now()})

	access, err := tokens.IssueAccessToken(1, 2)
	require.NoError(t, err)

	parts := strings.Split(access, ".")
	require.Len(t, parts, 3)

	otherSecret := auth.NewTokenService(config.JWT{AccessSecret: "other", RefreshSecret: "x", AccessTTL: time.Minute})
	foreign, err := otherSecret.IssueAccessToken(1, 2)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userId": 1, "roleId": 2, "typ": "access", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	testCases := map[string]string{
		"garbage":         "not-a-token",
		"empty":           "",
		"bad signature":   parts[0] + "." + parts[1] + ".c2lnbmF0dXJl",
		"swapped payload": parts[0] + "." + strings.Split(foreign, ".")[1] + "." + parts[2],
		"foreign secret":  foreign,
		"alg none":        none,
	}

	for name, token := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Verify(token, auth.TokenAccess)
			require.ErrorIs(t, err, auth.ErrTokenInvalid)
		})
	}
}

func TestExpiredForeignTokenIsInvalid(t *testing.T) {
	past := &clock{t: time.Now().Add(-24 * time.Hour)}
	foreign := auth.NewTokenService(config.JWT{AccessSecret: "other", RefreshSecret: "x", AccessTTL: time.Minute}).
		WithClock(past.now)

	token, err := foreign.IssueAccessToken(1, 2)
	require.NoError(t, err)

	_, err = newTokens(&clock{t: time.Now()}).Verify(token, auth.TokenAccess)
	require.ErrorIs(t, err, auth.ErrTokenInvalid)
}
