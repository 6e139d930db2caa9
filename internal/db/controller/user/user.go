// Package user provides persistence for local user accounts.
package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/articlegate/articlegate/internal/db/models"
)

var (
	// ErrNotFound is returned when a user is not found.
	ErrNotFound = errors.New("user not found")
	// ErrEmailExists is returned when the email is already registered.
	ErrEmailExists = errors.New("user with this email already exists")
)

// GetByID retrieves a user by its ID.
func GetByID(ctx context.Context, db *gorm.DB, id uint) (*models.User, error) {
	var u models.User
	if err := db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("get user %d: %w", id, err)
	}

	return &u, nil
}

// GetByEmail retrieves a user by email. The lookup is case-insensitive.
func GetByEmail(ctx context.Context, db *gorm.DB, email string) (*models.User, error) {
	var u models.User
	if err := db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &u, nil
}

// List returns all users, newest first.
func List(ctx context.Context, db *gorm.DB) ([]models.User, error) {
	var users []models.User
	if err := db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

// Create stores a new user. The email is normalized before the uniqueness check.
// The caller is responsible for hashing the password. The gorm.DB must be opened
// with TranslateError so duplicate inserts map to ErrEmailExists.
func Create(ctx context.Context, db *gorm.DB, u *models.User) error {
	u.Email = models.NormalizeEmail(u.Email)
	db = db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("check user email: %w", err)
	}

	if count > 0 {
		return ErrEmailExists
	}

	// the unique index catches a registration racing the count above
	if err := db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailExists
		}

		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// UpdateRole assigns a new role to the user.
func UpdateRole(ctx context.Context, db *gorm.DB, id, roleID uint) (*models.User, error) {
	u, err := GetByID(ctx, db, id)
	if err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Model(u).Update("role_id", roleID).Error; err != nil {
		return nil, fmt.Errorf("update user %d role: %w", id, err)
	}

	return u, nil
}
