package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/articlegate/articlegate/internal/config"
)

// TokenKind separates access from refresh tokens.
type TokenKind string

// Token kinds, carried in the typ claim.
const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// Claims are the signed token contents. Permissions and names are never included.
type Claims struct {
	UserID uint      `json:"userId"`
	RoleID uint      `json:"roleId"`
	Kind   TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a successful login, registration or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService issues and verifies HS256 tokens with one secret per kind.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
}

// NewTokenService creates a token service from the JWT config.
func NewTokenService(cfg config.JWT) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		issuer:        cfg.Issuer,
		now:           time.Now,
	}
}

// WithClock replaces the time source.
func (t *TokenService) WithClock(now func() time.Time) *TokenService {
	t.now = now

	return t
}

// Now returns the current time of the service clock.
func (t *TokenService) Now() time.Time {
	return t.now()
}

// IssueAccessToken signs a short-lived access token.
func (t *TokenService) IssueAccessToken(userID, roleID uint) (string, error) {
	return t.issue(userID, roleID, TokenAccess)
}

// IssueRefreshToken signs a long-lived refresh token.
func (t *TokenService) IssueRefreshToken(userID, roleID uint) (string, error) {
	return t.issue(userID, roleID, TokenRefresh)
}

// IssuePair signs both tokens for the user and role.
func (t *TokenService) IssuePair(userID, roleID uint) (TokenPair, error) {
	access, err := t.IssueAccessToken(userID, roleID)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := t.IssueRefreshToken(userID, roleID)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify checks signature, kind and validity window.
// It returns ErrTokenExpired after exp and ErrTokenInvalid for every other failure.
func (t *TokenService) Verify(token string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return t.secret(kind), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}

		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	if !parsed.Valid || claims.Kind != kind || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

func (t *TokenService) issue(userID, roleID uint, kind TokenKind) (string, error) {
	now := t.now()

	ttl := t.accessTTL
	if kind == TokenRefresh {
		ttl = t.refreshTTL
	}

	claims := Claims{
		UserID: userID,
		RoleID: roleID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret(kind))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}

	return signed, nil
}

func (t *TokenService) secret(kind TokenKind) []byte {
	if kind == TokenRefresh {
		return t.refreshSecret
	}

	return t.accessSecret
}
