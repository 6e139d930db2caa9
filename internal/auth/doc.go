// Package auth provides authentication and authorization for the article API.
//
// # Permission model
//
// The permission catalog is the closed set of Key values (create, edit, delete,
// publish, view). A user references exactly one role and a role grants a subset of
// the catalog. Free-form strings from the wire or the database are validated with
// ParseKey.
//
// # Tokens
//
// TokenService issues HS256 access and refresh tokens signed with separate secrets.
// Tokens carry only the user id and the role id. Permissions are never cached in a
// token: Authenticate resolves the Principal from storage on every request, so
// permission changes on a role apply immediately. A role reassignment becomes
// visible after the next login or refresh.
//
// # Providers
//
// LocalProvider implements login, registration, refresh and logout. When a user's
// role was deleted, login moves the user to the default role (Viewer). If that role
// is missing too, login fails with ErrNoDefaultRole and nothing is written.
//
// # Middleware
//
//   - Authenticate: verifies the bearer access token and stores the Principal
//   - RequirePermission: requires a catalog key
//   - RequireRole: requires a role name, used with RoleSuperAdmin
//
// Example usage:
//
//	tokens := auth.NewTokenService(cfg.JWT)
//	authn := auth.Authenticate(tokens, auth.NewService(db))
//
//	api.Patch("/articles/:id/publish",
//	    authn,
//	    auth.RequirePermission(auth.KeyPublish),
//	    handler,
//	)
package auth
