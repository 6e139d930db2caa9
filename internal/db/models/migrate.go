package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema of all models.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Role{}, "Permissions", &RolePermission{}); err != nil {
		return fmt.Errorf("setup role permissions join table: %w", err)
	}

	if err := db.AutoMigrate(
		&Permission{},
		&Role{},
		&RolePermission{},
		&User{},
		&Article{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return nil
}
