package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/articlegate/articlegate/internal/db/controller/role"
	"github.com/articlegate/articlegate/internal/db/controller/user"
	"github.com/articlegate/articlegate/internal/db/models"
)

// Service resolves principals from storage. Nothing is cached,
// so permission edits on a role apply to the next request.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ResolvePrincipal loads the user and the role named by the token, not the user's stored role.
// A reassignment therefore applies once a new token is issued.
func (s *Service) ResolvePrincipal(ctx context.Context, userID, roleID uint) (*Principal, error) {
	u, err := user.GetByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err //nolint:wrapcheck
	}

	r, err := s.role(ctx, roleID)
	if err != nil {
		return nil, err
	}

	return NewPrincipal(u, r), nil
}

// roleOf loads the role currently stored for the user.
func (s *Service) roleOf(ctx context.Context, u *models.User) (*models.Role, error) {
	return s.role(ctx, u.RoleID)
}

func (s *Service) role(ctx context.Context, id uint) (*models.Role, error) {
	r, err := role.Get(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, role.ErrNotFound) {
			return nil, ErrRoleNotFound
		}

		return nil, err //nolint:wrapcheck
	}

	return r, nil
}
