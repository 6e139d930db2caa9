package auth_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/articlegate/articlegate/internal/auth"
	"github.com/articlegate/articlegate/internal/db/controller/role"
	"github.com/articlegate/articlegate/internal/db/dbtest"
)

type gateResponse struct {
	Success            bool     `json:"success"`
	Message            string   `json:"message"`
	RequiredPermission string   `json:"requiredPermission"`
	UserPermissions    []string `json:"userPermissions"`
	UserRole           string   `json:"userRole"`
}

func do(t *testing.T, app *fiber.App, path, token string) (int, gateResponse) {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out gateResponse
	if len(body) > 0 && body[0] == '{' {
		require.NoError(t, json.Unmarshal(body, &out))
	}

	return resp.StatusCode, out
}

// subsets enumerates every subset of the catalog.
func subsets() [][]auth.Key {
	all := auth.AllKeys()
	out := make([][]auth.Key, 0, 1<<len(all))

	for mask := range 1 << len(all) {
		var s []auth.Key

		for i, k := range all {
			if mask&(1<<i) != 0 {
				s = append(s, k)
			}
		}

		out = append(out, s)
	}

	return out
}

func principalApp(p *auth.Principal, gate fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if p != nil {
			auth.WithPrincipal(c, p)
		}

		return c.Next()
	}, gate, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	return app
}

func TestRequirePermissionProperty(t *testing.T) {
	for _, perms := range subsets() {
		for _, roleName := range []string{auth.RoleSuperAdmin, "Manager", auth.RoleViewer, "Custom"} {
			p := &auth.Principal{UserID: 1, Role: auth.RoleRef{ID: 1, Name: roleName}, Permissions: perms}

			for _, key := range auth.AllKeys() {
				status, body := do(t, principalApp(p, auth.RequirePermission(key)), "/", "")

				if p.Has(key) {
					assert.Equal(t, fiber.StatusOK, status, "role %s perms %v key %s", roleName, perms, key)

					continue
				}

				assert.Equal(t, fiber.StatusForbidden, status, "role %s perms %v key %s", roleName, perms, key)
				assert.Equal(t, "Access denied. You do not have the '"+string(key)+"' permission.", body.Message)
				assert.Equal(t, string(key), body.RequiredPermission)
				assert.ElementsMatch(t, auth.KeyStrings(perms), body.UserPermissions)
			}
		}
	}
}

func TestRequireRoleProperty(t *testing.T) {
	for _, perms := range subsets() {
		for _, roleName := range []string{auth.RoleSuperAdmin, "superadmin", "Manager", auth.RoleViewer} {
			p := &auth.Principal{UserID: 1, Role: auth.RoleRef{ID: 1, Name: roleName}, Permissions: perms}

			status, body := do(t, principalApp(p, auth.RequireRole(auth.RoleSuperAdmin)), "/", "")

			if roleName == auth.RoleSuperAdmin {
				assert.Equal(t, fiber.StatusOK, status)

				continue
			}

			assert.Equal(t, fiber.StatusForbidden, status)
			assert.Equal(t, auth.MsgSuperAdminOnly, body.Message)
			assert.Equal(t, roleName, body.UserRole)
		}
	}
}

func TestGatesWithoutPrincipal(t *testing.T) {
	for name, gate := range map[string]fiber.Handler{
		"permission": auth.RequirePermission(auth.KeyView),
		"role":       auth.RequireRole(auth.RoleSuperAdmin),
	} {
		t.Run(name, func(t *testing.T) {
			status, body := do(t, principalApp(nil, gate), "/", "")
			assert.Equal(t, fiber.StatusUnauthorized, status)
			assert.Equal(t, auth.MsgAuthRequired, body.Message)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	db := dbtest.New(t)
	perms := dbtest.SeedPermissions(t, db, "view", "edit")
	editor := dbtest.SeedRole(t, db, "Editor", perms["view"], perms["edit"])
	doomed := dbtest.SeedRole(t, db, "Doomed", perms["view"])
	alice := dbtest.SeedUser(t, db, "alice@test.com", "pw", editor.ID)
	bob := dbtest.SeedUser(t, db, "bob@test.com", "pw", doomed.ID)

	c := &clock{t: time.Now()}
	tokens := newTokens(c)

	app := fiber.New()
	app.Get("/me", auth.Authenticate(tokens, auth.NewService(db)), func(c *fiber.Ctx) error {
		p := auth.PrincipalFrom(c)

		return c.JSON(fiber.Map{"message": p.Email, "userPermissions": auth.KeyStrings(p.Permissions), "userRole": p.Role.Name})
	})

	aliceToken, err := tokens.IssueAccessToken(alice.ID, editor.ID)
	require.NoError(t, err)

	bobToken, err := tokens.IssueAccessToken(bob.ID, doomed.ID)
	require.NoError(t, err)

	ghostToken, err := tokens.IssueAccessToken(999, editor.ID)
	require.NoError(t, err)

	refresh, err := tokens.IssueRefreshToken(alice.ID, editor.ID)
	require.NoError(t, err)

	t.Run("valid token resolves principal", func(t *testing.T) {
		status, body := do(t, app, "/me", aliceToken)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "alice@test.com", body.Message)
		assert.Equal(t, []string{"edit", "view"}, body.UserPermissions)
		assert.Equal(t, "Editor", body.UserRole)
	})

	t.Run("missing token", func(t *testing.T) {
		status, body := do(t, app, "/me", "")
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, auth.MsgNoToken, body.Message)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		status, body := do(t, app, "/me", refresh)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, auth.MsgInvalidToken, body.Message)
	})

	t.Run("unknown user", func(t *testing.T) {
		status, body := do(t, app, "/me", ghostToken)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, auth.MsgUserNotFound, body.Message)
	})

	t.Run("permission edits apply immediately", func(t *testing.T) {
		_, err := role.Save(t.Context(), db, editor.ID, role.Update{PermissionIDs: &[]uint{perms["view"].ID}})
		require.NoError(t, err)

		status, body := do(t, app, "/me", aliceToken)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, []string{"view"}, body.UserPermissions)
	})

	t.Run("deleted role", func(t *testing.T) {
		require.NoError(t, role.Delete(t.Context(), db, doomed.ID))

		status, body := do(t, app, "/me", bobToken)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, auth.MsgRoleNotFound, body.Message)
	})

	t.Run("expired token", func(t *testing.T) {
		c.t = c.t.Add(time.Hour)
		defer func() { c.t = c.t.Add(-time.Hour) }()

		status, body := do(t, app, "/me", aliceToken)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, auth.MsgTokenExpired, body.Message)
	})
}
