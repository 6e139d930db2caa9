package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const localsPrincipal = "principal"

// Client messages of the gates.
const (
	MsgNoToken           = "No token provided. Authorization denied."
	MsgInvalidToken      = "Invalid token. Authorization denied."
	MsgTokenExpired      = "Token expired. Please login again."
	MsgUserNotFound      = "User not found. Authorization denied."
	MsgRoleNotFound      = "Role not found. Please login again."
	MsgAuthServerError   = "Server error during authentication"
	MsgAuthRequired      = "Authentication required"
	MsgSuperAdminOnly    = "Access denied. Only SuperAdmin can perform this action."
	msgPermissionDeniedF = "Access denied. You do not have the '%s' permission."
)

func deny(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// Authenticate verifies the bearer access token and stores the resolved principal in the context.
// The role named by the token and its permissions are read from storage on every request.
func Authenticate(tokens *TokenService, service *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c)
		if !ok {
			observe(gateAuthenticate, outcomeDeny)

			return deny(c, fiber.StatusUnauthorized, MsgNoToken)
		}

		claims, err := tokens.Verify(raw, TokenAccess)
		if err != nil {
			observe(gateAuthenticate, outcomeDeny)

			if errors.Is(err, ErrTokenExpired) {
				return deny(c, fiber.StatusUnauthorized, MsgTokenExpired)
			}

			log.Debug().Err(err).Str("ip", c.IP()).Msg("rejected access token")

			return deny(c, fiber.StatusUnauthorized, MsgInvalidToken)
		}

		principal, err := service.ResolvePrincipal(c.UserContext(), claims.UserID, claims.RoleID)

		switch {
		case errors.Is(err, ErrUserNotFound):
			observe(gateAuthenticate, outcomeDeny)

			return deny(c, fiber.StatusUnauthorized, MsgUserNotFound)
		case errors.Is(err, ErrRoleNotFound):
			observe(gateAuthenticate, outcomeDeny)
			log.Warn().Uint("user_id", claims.UserID).Msg("token of a user without role")

			return deny(c, fiber.StatusUnauthorized, MsgRoleNotFound)
		case err != nil:
			observe(gateAuthenticate, outcomeError)
			log.Error().Err(err).Uint("user_id", claims.UserID).Msg("failed to resolve principal")

			return deny(c, fiber.StatusInternalServerError, MsgAuthServerError)
		}

		observe(gateAuthenticate, outcomeAllow)
		c.Locals(localsPrincipal, principal)

		return c.Next()
	}
}

// RequirePermission creates Fiber middleware that requires a specific permission.
// It must run after Authenticate.
func RequirePermission(key Key) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := PrincipalFrom(c)
		if principal == nil {
			observe(gatePermission, outcomeDeny)

			return deny(c, fiber.StatusUnauthorized, MsgAuthRequired)
		}

		if !principal.Has(key) {
			observe(gatePermission, outcomeDeny)
			log.Warn().Uint("user_id", principal.UserID).Str("permission", key.String()).
				Msg("User lacks required permission")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success":            false,
				"message":            fmt.Sprintf(msgPermissionDeniedF, key),
				"requiredPermission": key,
				"userPermissions":    KeyStrings(principal.Permissions),
			})
		}

		observe(gatePermission, outcomeAllow)

		return c.Next()
	}
}

// RequireRole creates Fiber middleware that requires the principal to act as the named role.
// It must run after Authenticate.
func RequireRole(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := PrincipalFrom(c)
		if principal == nil {
			observe(gateRole, outcomeDeny)

			return deny(c, fiber.StatusUnauthorized, MsgAuthRequired)
		}

		if principal.Role.Name != name {
			observe(gateRole, outcomeDeny)
			log.Warn().Uint("user_id", principal.UserID).Str("role", principal.Role.Name).Str("required_role", name).
				Msg("User lacks required role")

			message := MsgSuperAdminOnly
			if name != RoleSuperAdmin {
				message = fmt.Sprintf("Access denied. Only %s can perform this action.", name)
			}

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success":  false,
				"message":  message,
				"userRole": principal.Role.Name,
			})
		}

		observe(gateRole, outcomeAllow)

		return c.Next()
	}
}

// PrincipalFrom returns the principal stored by Authenticate, or nil.
func PrincipalFrom(c *fiber.Ctx) *Principal {
	p, _ := c.Locals(localsPrincipal).(*Principal)

	return p
}

// WithPrincipal stores a principal in the context.
func WithPrincipal(c *fiber.Ctx, p *Principal) {
	c.Locals(localsPrincipal, p)
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}
