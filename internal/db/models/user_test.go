package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/articlegate/articlegate/internal/db/models"
)

func TestVerifyPassword(t *testing.T) {
	argonHash, err := models.HashPassword("password123")
	require.NoError(t, err)

	bcryptHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	testCases := []struct {
		name     string
		hash     string
		password string
		want     bool
	}{
		{name: "argon2id match", hash: argonHash, password: "password123", want: true},
		{name: "argon2id mismatch", hash: argonHash, password: "wrong", want: false},
		{name: "legacy bcrypt match", hash: string(bcryptHash), password: "password123", want: true},
		{name: "legacy bcrypt mismatch", hash: string(bcryptHash), password: "wrong", want: false},
		{name: "garbage hash", hash: "not-a-hash", password: "password123", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u := models.User{Password: tc.hash}
			assert.Equal(t, tc.want, u.VerifyPassword(tc.password))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", models.NormalizeEmail("  A@B.Com\t"))
}
