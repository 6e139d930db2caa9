package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/articlegate/articlegate/internal/db/controller/role"
	"github.com/articlegate/articlegate/internal/db/controller/user"
	"github.com/articlegate/articlegate/internal/db/models"
	"github.com/articlegate/articlegate/internal/validation"
)

const registerRequiredMsg = "Please provide all required fields: fullName, email, password, role"

// RevocationList remembers revoked refresh token ids until they would have expired anyway.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Grant is the outcome of a successful login, registration or refresh.
type Grant struct {
	Principal *Principal
	Tokens    TokenPair
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	FullName     string  `json:"fullName" validate:"required"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required"`
	RoleID       uint    `json:"role" validate:"required"`
	ProfilePhoto *string `json:"profilePhoto"`
}

// LocalProvider handles email and password authentication against the local database.
type LocalProvider struct {
	db          *gorm.DB
	service     *Service
	tokens      *TokenService
	revoked     RevocationList
	defaultRole string
}

// NewLocalProvider creates a new local authentication provider.
// defaultRole names the role a user is moved to when its own role was deleted.
func NewLocalProvider(
	db *gorm.DB,
	service *Service,
	tokens *TokenService,
	revoked RevocationList,
	defaultRole string,
) *LocalProvider {
	if defaultRole == "" {
		defaultRole = RoleViewer
	}

	return &LocalProvider{
		db:          db,
		service:     service,
		tokens:      tokens,
		revoked:     revoked,
		defaultRole: defaultRole,
	}
}

// Login verifies the credentials and issues a token pair.
// A user whose role was deleted is moved to the default role first;
// without a default role login fails with ErrNoDefaultRole and nothing is written.
func (p *LocalProvider) Login(ctx context.Context, email, password string) (*Grant, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	u, err := user.GetByEmail(ctx, p.db, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err //nolint:wrapcheck
	}

	if !u.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	r, err := p.service.roleOf(ctx, u)
	if errors.Is(err, ErrRoleNotFound) {
		r, err = p.degrade(ctx, u)
	}

	if err != nil {
		return nil, err
	}

	return p.grant(u, r)
}

// degrade moves the user to the default role.
func (p *LocalProvider) degrade(ctx context.Context, u *models.User) (*models.Role, error) {
	fallback, err := role.GetByName(ctx, p.db, p.defaultRole)
	if err != nil {
		if errors.Is(err, role.ErrNotFound) {
			log.Error().Uint("user_id", u.ID).Uint("role_id", u.RoleID).Str("default_role", p.defaultRole).
				Msg("user role is gone and the default role does not exist")

			return nil, ErrNoDefaultRole
		}

		return nil, err //nolint:wrapcheck
	}

	log.Warn().Uint("user_id", u.ID).Uint("old_role_id", u.RoleID).Uint("new_role_id", fallback.ID).
		Msg("user role is gone, assigning default role")

	if _, err := user.UpdateRole(ctx, p.db, u.ID, fallback.ID); err != nil {
		return nil, err //nolint:wrapcheck
	}

	u.RoleID = fallback.ID

	return fallback, nil
}

// Register creates a user with the requested role and issues a token pair.
func (p *LocalProvider) Register(ctx context.Context, in RegisterInput) (*Grant, error) {
	in.Email = models.NormalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)

	if err := validation.Struct(in, registerRequiredMsg); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if _, err := user.GetByEmail(ctx, p.db, in.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, err //nolint:wrapcheck
	}

	r, err := role.Get(ctx, p.db, in.RoleID)
	if err != nil {
		if errors.Is(err, role.ErrNotFound) {
			return nil, ErrInvalidRole
		}

		return nil, err //nolint:wrapcheck
	}

	hash, err := models.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	photo := in.ProfilePhoto
	if photo != nil && strings.TrimSpace(*photo) == "" {
		photo = nil
	}

	u := &models.User{
		FullName:     in.FullName,
		Email:        in.Email,
		Password:     hash,
		RoleID:       r.ID,
		ProfilePhoto: photo,
	}

	if err := user.Create(ctx, p.db, u); err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			return nil, ErrEmailExists
		}

		return nil, err //nolint:wrapcheck
	}

	log.Info().Uint("user_id", u.ID).Str("role", r.Name).Msg("user registered")

	return p.grant(u, r)
}

// Refresh exchanges a refresh token for a new pair. The old refresh token is revoked
// before the principal is resolved again, so role reassignments take effect here
// and a failed refresh still spends the token.
func (p *LocalProvider) Refresh(ctx context.Context, refreshToken string) (*Grant, error) {
	if refreshToken == "" {
		return nil, ErrMissingRefreshToken
	}

	claims, err := p.tokens.Verify(refreshToken, TokenRefresh)
	if err != nil {
		return nil, err
	}

	revoked, err := p.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}

	if revoked {
		return nil, ErrTokenRevoked
	}

	// spent before anything is issued, a replay only wins inside the IsRevoked/Revoke gap
	if err := p.revoke(ctx, claims); err != nil {
		return nil, err
	}

	u, err := user.GetByID(ctx, p.db, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err //nolint:wrapcheck
	}

	r, err := p.service.roleOf(ctx, u)
	if err != nil {
		return nil, err
	}

	return p.grant(u, r)
}

// Logout revokes the refresh token. An already expired token needs no revocation.
func (p *LocalProvider) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrMissingRefreshToken
	}

	claims, err := p.tokens.Verify(refreshToken, TokenRefresh)
	if errors.Is(err, ErrTokenExpired) {
		return nil
	}

	if err != nil {
		return err
	}

	return p.revoke(ctx, claims)
}

func (p *LocalProvider) revoke(ctx context.Context, claims *Claims) error {
	ttl := claims.ExpiresAt.Sub(p.tokens.Now())
	if ttl <= 0 {
		return nil
	}

	if err := p.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	return nil
}

func (p *LocalProvider) grant(u *models.User, r *models.Role) (*Grant, error) {
	pair, err := p.tokens.IssuePair(u.ID, r.ID)
	if err != nil {
		return nil, err
	}

	return &Grant{Principal: NewPrincipal(u, r), Tokens: pair}, nil
}
