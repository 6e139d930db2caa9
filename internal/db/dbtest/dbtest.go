// Package dbtest provides an in-memory database for package tests.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/articlegate/articlegate/internal/db/models"
)

// New creates a migrated in-memory SQLite database for testing.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to create test database")

	// every connection gets its own memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.Migrate(db), "failed to migrate test database")

	return db
}

// SeedPermissions inserts the given permission keys and returns them by key.
func SeedPermissions(t *testing.T, db *gorm.DB, keys ...string) map[string]models.Permission {
	t.Helper()

	out := make(map[string]models.Permission, len(keys))

	for _, k := range keys {
		p := models.Permission{Key: k}
		require.NoError(t, db.Create(&p).Error, "failed to seed permission")
		out[k] = p
	}

	return out
}

// SeedRole inserts a role with the given permissions.
func SeedRole(t *testing.T, db *gorm.DB, name string, perms ...models.Permission) models.Role {
	t.Helper()

	r := models.Role{Name: name, Permissions: perms}
	require.NoError(t, db.Create(&r).Error, "failed to seed role")

	return r
}

// SeedUser inserts a user with the given role and plaintext password.
func SeedUser(t *testing.T, db *gorm.DB, email, password string, roleID uint) models.User {
	t.Helper()

	hash, err := models.HashPassword(password)
	require.NoError(t, err)

	u := models.User{FullName: email, Email: email, Password: hash, RoleID: roleID}
	require.NoError(t, db.Create(&u).Error, "failed to seed user")

	return u
}
