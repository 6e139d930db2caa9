package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/articlegate/articlegate/internal/db/controller/user"
	"github.com/articlegate/articlegate/internal/db/dbtest"
	"github.com/articlegate/articlegate/internal/db/models"
)

func TestCreateNormalizesEmail(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	u := models.User{FullName: "Jane", Email: "  Jane@Example.COM ", Password: "hash", RoleID: 1}
	require.NoError(t, user.Create(ctx, db, &u))
	assert.Equal(t, "jane@example.com", u.Email)

	found, err := user.GetByEmail(ctx, db, "JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	dup := models.User{FullName: "Other", Email: "jane@example.com", Password: "hash", RoleID: 1}
	require.ErrorIs(t, user.Create(ctx, db, &dup), user.ErrEmailExists)
}

func TestCreateRacingDuplicate(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	// a competing registration lands between the email check and the insert
	competed := false
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:competing_insert", func(tx *gorm.DB) {
		if competed {
			return
		}

		competed = true
		now := time.Now()
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO users (full_name, email, password, role_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			"First", "race@example.com", "hash", 1, now, now,
		).Error)
	}))

	u := models.User{FullName: "Second", Email: "Race@Example.com", Password: "hash", RoleID: 1}
	require.ErrorIs(t, user.Create(ctx, db, &u), user.ErrEmailExists)
	assert.True(t, competed)
}

func TestGetNotFound(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	_, err := user.GetByID(ctx, db, 42)
	require.ErrorIs(t, err, user.ErrNotFound)

	_, err = user.GetByEmail(ctx, db, "nobody@test.com")
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	older := models.User{FullName: "Old", Email: "old@test.com", Password: "h", RoleID: 1, CreatedAt: time.Now().Add(-time.Hour)}
	newer := models.User{FullName: "New", Email: "new@test.com", Password: "h", RoleID: 1}
	require.NoError(t, user.Create(ctx, db, &older))
	require.NoError(t, user.Create(ctx, db, &newer))

	users, err := user.List(ctx, db)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "New", users[0].FullName)
	assert.Equal(t, "Old", users[1].FullName)
}

func TestUpdateRole(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	u := dbtest.SeedUser(t, db, "a@test.com", "pw", 1)

	updated, err := user.UpdateRole(ctx, db, u.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, uint(7), updated.RoleID)

	stored, err := user.GetByID(ctx, db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(7), stored.RoleID)

	_, err = user.UpdateRole(ctx, db, 999, 1)
	require.ErrorIs(t, err, user.ErrNotFound)
}
