// Package permission provides read access to the permission catalog.
package permission

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/articlegate/articlegate/internal/db/models"
)

var (
	// ErrNotFound is returned when a permission id does not exist.
	ErrNotFound = errors.New("permission not found")
	// ErrUnknown is returned when a list of ids references permissions that do not exist.
	ErrUnknown = errors.New("one or more invalid permission IDs provided")
)

// List returns the full catalog ordered by key.
func List(ctx context.Context, db *gorm.DB) ([]models.Permission, error) {
	var perms []models.Permission
	if err := db.WithContext(ctx).Order("permissions.key ASC").Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}

	return perms, nil
}

// Get retrieves a permission by its ID.
func Get(ctx context.Context, db *gorm.DB, id uint) (*models.Permission, error) {
	var p models.Permission
	if err := db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("get permission %d: %w", id, err)
	}

	return &p, nil
}

// FindByIDs resolves every id to a permission. Duplicate ids are collapsed.
// If any id is unknown ErrUnknown is returned and nothing else.
func FindByIDs(ctx context.Context, db *gorm.DB, ids []uint) ([]models.Permission, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return []models.Permission{}, nil
	}

	var perms []models.Permission
	if err := db.WithContext(ctx).Where("id IN ?", unique).Order("permissions.key ASC").Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("find permissions: %w", err)
	}

	if len(perms) != len(unique) {
		return nil, ErrUnknown
	}

	return perms, nil
}

// FindByKeys returns the permissions with the given keys, ignoring unknown keys.
func FindByKeys(ctx context.Context, db *gorm.DB, keys []string) ([]models.Permission, error) {
	var perms []models.Permission
	if err := db.WithContext(ctx).Where("permissions.key IN ?", keys).Order("permissions.key ASC").Find(&perms).Error; err != nil {
		return nil, fmt.Errorf("find permissions by key: %w", err)
	}

	return perms, nil
}

// EnsureKeys creates the missing catalog entries. Existing rows are left untouched.
func EnsureKeys(ctx context.Context, db *gorm.DB, keys []string) error {
	for _, k := range keys {
		p := models.Permission{Key: k}
		if err := db.WithContext(ctx).Where(models.Permission{Key: k}).FirstOrCreate(&p).Error; err != nil {
			return fmt.Errorf("ensure permission %q: %w", k, err)
		}
	}

	return nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
