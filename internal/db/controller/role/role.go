// Package role provides CRUD operations for roles and their permission sets.
package role

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/articlegate/articlegate/internal/db/controller/permission"
	"github.com/articlegate/articlegate/internal/db/models"
)

const permissionsAssociation = "Permissions"

var (
	// ErrNotFound is returned when a role is not found.
	ErrNotFound = errors.New("role not found")
	// ErrNameExists is returned when another role already uses the name.
	ErrNameExists = errors.New("role with this name already exists")
	// ErrNameEmpty is returned when attempting to store a role without a name.
	ErrNameEmpty = errors.New("role name cannot be empty")
)

// Update carries a partial role update. Nil fields are left untouched.
type Update struct {
	Name          *string
	PermissionIDs *[]uint
}

func withPermissions(db *gorm.DB) *gorm.DB {
	return db.Preload(permissionsAssociation, func(tx *gorm.DB) *gorm.DB {
		return tx.Order("permissions.key ASC")
	})
}

// List returns all roles ordered by name with their permissions ordered by key.
func List(ctx context.Context, db *gorm.DB) ([]models.Role, error) {
	var roles []models.Role
	if err := withPermissions(db.WithContext(ctx)).Order("name ASC").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	return roles, nil
}

// Count returns the number of roles.
func Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&models.Role{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count roles: %w", err)
	}

	return n, nil
}

// Get retrieves a role with its permissions by ID.
func Get(ctx context.Context, db *gorm.DB, id uint) (*models.Role, error) {
	var r models.Role
	if err := withPermissions(db.WithContext(ctx)).First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("get role %d: %w", id, err)
	}

	return &r, nil
}

// GetByName retrieves a role with its permissions by its exact name.
func GetByName(ctx context.Context, db *gorm.DB, name string) (*models.Role, error) {
	var r models.Role
	if err := withPermissions(db.WithContext(ctx)).Where("name = ?", name).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("get role %q: %w", name, err)
	}

	return &r, nil
}

// Create stores a new role granting the given permission ids.
// Unknown permission ids fail with permission.ErrUnknown.
func Create(ctx context.Context, db *gorm.DB, name string, permissionIDs []uint) (*models.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameEmpty
	}

	db = db.WithContext(ctx)

	if err := ensureNameFree(db, name, 0); err != nil {
		return nil, err
	}

	perms, err := permission.FindByIDs(ctx, db, permissionIDs)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	r := models.Role{Name: name, Permissions: perms}
	if err := db.Omit("Permissions.*").Create(&r).Error; err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}

	return Get(ctx, db, r.ID)
}

// Save applies a partial update to a role.
func Save(ctx context.Context, db *gorm.DB, id uint, upd Update) (*models.Role, error) {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r models.Role
		if err := tx.First(&r, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}

			return fmt.Errorf("get role %d: %w", id, err)
		}

		if upd.Name != nil {
			name := strings.TrimSpace(*upd.Name)
			if name == "" {
				return ErrNameEmpty
			}

			if err := ensureNameFree(tx, name, r.ID); err != nil {
				return err
			}

			if err := tx.Model(&r).Update("name", name).Error; err != nil {
				return fmt.Errorf("rename role %d: %w", id, err)
			}
		}

		if upd.PermissionIDs != nil {
			return replacePermissions(ctx, tx, &r, *upd.PermissionIDs)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return Get(ctx, db, id)
}

// Delete removes a role and its permission grants. Users referencing the role keep the dangling id.
func Delete(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r models.Role
		if err := tx.First(&r, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}

			return fmt.Errorf("get role %d: %w", id, err)
		}

		if err := tx.Model(&r).Association(permissionsAssociation).Clear(); err != nil {
			return fmt.Errorf("clear role %d permissions: %w", id, err)
		}

		if err := tx.Delete(&r).Error; err != nil {
			return fmt.Errorf("delete role %d: %w", id, err)
		}

		return nil
	})
}

func replacePermissions(ctx context.Context, tx *gorm.DB, r *models.Role, ids []uint) error {
	perms, err := permission.FindByIDs(ctx, tx, ids)
	if err != nil {
		return err //nolint:wrapcheck
	}

	assoc := tx.Model(r).Omit("Permissions.*").Association(permissionsAssociation)

	if len(perms) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(perms)
	}

	if err != nil {
		return fmt.Errorf("replace role %d permissions: %w", r.ID, err)
	}

	return nil
}

// ensureNameFree fails with ErrNameExists when a role other than self uses name.
func ensureNameFree(db *gorm.DB, name string, self uint) error {
	var count int64
	if err := db.Model(&models.Role{}).Where("name = ? AND id <> ?", name, self).Count(&count).Error; err != nil {
		return fmt.Errorf("check role name: %w", err)
	}

	if count > 0 {
		return ErrNameExists
	}

	return nil
}
