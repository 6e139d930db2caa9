package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/articlegate/articlegate/internal/auth"
	"github.com/articlegate/articlegate/internal/config"
	"github.com/articlegate/articlegate/internal/db/controller/permission"
	"github.com/articlegate/articlegate/internal/db/controller/role"
	"github.com/articlegate/articlegate/internal/db/controller/user"
	"github.com/articlegate/articlegate/internal/db/models"
)

// DemoPassword is the password of every seeded demo user.
const DemoPassword = "password123"

const (
	// RoleManager may author, edit and publish.
	RoleManager = "Manager"
	// RoleContributor may author and edit.
	RoleContributor = "Contributor"
)

type seedRole struct {
	name      string
	keys      []auth.Key
	demoEmail string
}

var seedRoles = []seedRole{ //nolint:gochecknoglobals
	{auth.RoleSuperAdmin, auth.AllKeys(), "superadmin@test.com"},
	{RoleManager, []auth.Key{auth.KeyCreate, auth.KeyEdit, auth.KeyPublish, auth.KeyView}, "manager@test.com"},
	{RoleContributor, []auth.Key{auth.KeyCreate, auth.KeyEdit, auth.KeyView}, "contributor@test.com"},
	{auth.RoleViewer, []auth.Key{auth.KeyView}, "viewer@test.com"},
}

// Bootstrap prepares the database on start. The stock roles are only written into an empty
// roles table, so roles deleted by an administrator stay deleted across restarts.
// The permission catalog is always ensured.
func Bootstrap(ctx context.Context, db *gorm.DB, cfg config.Seed) error {
	n, err := role.Count(ctx, db)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	if n == 0 {
		return Seed(ctx, db, cfg)
	}

	if err := permission.EnsureKeys(ctx, db, auth.KeyStrings(auth.AllKeys())); err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}

	checkDefaultRole(ctx, db, cfg.DefaultRole)

	return nil
}

// Seed writes the permission catalog and restores missing stock roles. Existing rows are left
// untouched, so roles edited by an administrator keep their permissions. Demo users are optional.
func Seed(ctx context.Context, db *gorm.DB, cfg config.Seed) error {
	if err := permission.EnsureKeys(ctx, db, auth.KeyStrings(auth.AllKeys())); err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}

	for _, sr := range seedRoles {
		r, err := ensureRole(ctx, db, sr)
		if err != nil {
			return err
		}

		if cfg.DemoUsers {
			if err := ensureDemoUser(ctx, db, sr, r.ID); err != nil {
				return err
			}
		}
	}

	checkDefaultRole(ctx, db, cfg.DefaultRole)

	return nil
}

func checkDefaultRole(ctx context.Context, db *gorm.DB, name string) {
	if _, err := role.GetByName(ctx, db, name); errors.Is(err, role.ErrNotFound) {
		log.Warn().Str("role", name).Msg("default role does not exist, logins of users with a deleted role will fail")
	}
}

func ensureRole(ctx context.Context, db *gorm.DB, sr seedRole) (*models.Role, error) {
	r, err := role.GetByName(ctx, db, sr.name)
	if err == nil {
		return r, nil
	}

	if !errors.Is(err, role.ErrNotFound) {
		return nil, fmt.Errorf("seed role %s: %w", sr.name, err)
	}

	perms, err := permission.FindByKeys(ctx, db, auth.KeyStrings(sr.keys))
	if err != nil {
		return nil, fmt.Errorf("seed role %s: %w", sr.name, err)
	}

	ids := make([]uint, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}

	r, err = role.Create(ctx, db, sr.name, ids)
	if err != nil {
		return nil, fmt.Errorf("seed role %s: %w", sr.name, err)
	}

	log.Info().Str("role", r.Name).Strs("permissions", r.PermissionKeys()).Msg("seeded role")

	return r, nil
}

func ensureDemoUser(ctx context.Context, db *gorm.DB, sr seedRole, roleID uint) error {
	if _, err := user.GetByEmail(ctx, db, sr.demoEmail); err == nil {
		return nil
	} else if !errors.Is(err, user.ErrNotFound) {
		return fmt.Errorf("seed user %s: %w", sr.demoEmail, err)
	}

	hash, err := models.HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("seed user %s: %w", sr.demoEmail, err)
	}

	u := &models.User{
		FullName: sr.name + " Demo",
		Email:    sr.demoEmail,
		Password: hash,
		RoleID:   roleID,
	}

	if err := user.Create(ctx, db, u); err != nil {
		return fmt.Errorf("seed user %s: %w", sr.demoEmail, err)
	}

	log.Info().Str("email", u.Email).Str("role", sr.name).Msg("seeded demo user")

	return nil
}
