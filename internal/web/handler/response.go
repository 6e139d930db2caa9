package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/articlegate/articlegate/internal/auth"
	"github.com/articlegate/articlegate/internal/db/controller/article"
	"github.com/articlegate/articlegate/internal/db/controller/permission"
	"github.com/articlegate/articlegate/internal/db/controller/role"
	"github.com/articlegate/articlegate/internal/db/controller/user"
	"github.com/articlegate/articlegate/internal/validation"
)

// Client messages shared by several handlers.
const (
	MsgArticleNotFound    = "Article not found"
	MsgRoleNotFound       = "Role not found"
	MsgUserNotFound       = "User not found"
	MsgPermissionNotFound = "Permission not found"
	MsgInternalError      = "internal server error"
	MsgNoDefaultRole      = "System configuration error: No default role available. Please contact administrator."
	MsgTokenRevoked       = "Refresh token has been revoked. Please login again."
)

type failure struct {
	err     error
	status  int
	message string
}

// failures maps sentinel errors to their HTTP status and client message.
// Order matters, the first match wins.
var failures = []failure{ //nolint:gochecknoglobals
	{auth.ErrEmailExists, fiber.StatusBadRequest, "User with this email already exists"},
	{role.ErrNameExists, fiber.StatusBadRequest, "Role with this name already exists"},
	{role.ErrNameEmpty, fiber.StatusBadRequest, "Please provide role name"},
	{permission.ErrUnknown, fiber.StatusBadRequest, "One or more invalid permission IDs provided"},

	{auth.ErrInvalidCredentials, fiber.StatusUnauthorized, "Invalid email or password"},
	{auth.ErrTokenExpired, fiber.StatusUnauthorized, auth.MsgTokenExpired},
	{auth.ErrTokenInvalid, fiber.StatusUnauthorized, auth.MsgInvalidToken},
	{auth.ErrTokenRevoked, fiber.StatusUnauthorized, MsgTokenRevoked},
	{auth.ErrUserNotFound, fiber.StatusUnauthorized, auth.MsgUserNotFound},
	{auth.ErrRoleNotFound, fiber.StatusUnauthorized, auth.MsgRoleNotFound},

	{article.ErrNotFound, fiber.StatusNotFound, MsgArticleNotFound},
	{role.ErrNotFound, fiber.StatusNotFound, MsgRoleNotFound},
	{user.ErrNotFound, fiber.StatusNotFound, MsgUserNotFound},
	{permission.ErrNotFound, fiber.StatusNotFound, MsgPermissionNotFound},

	{auth.ErrNoDefaultRole, fiber.StatusInternalServerError, MsgNoDefaultRole},
}

// OK sends a success envelope. Fields are merged into the body.
func OK(c *fiber.Ctx, status int, fields fiber.Map) error {
	body := fiber.Map{"success": true}
	for k, v := range fields {
		body[k] = v
	}

	return c.Status(status).JSON(body)
}

// Error sends a failure envelope.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// Fail classifies err and sends the matching failure envelope.
// Unknown errors are logged and answered with 500 and the fallback message.
func Fail(c *fiber.Ctx, err error, fallback string) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return Error(c, fiber.StatusBadRequest, verr.Message)
	}

	for _, f := range failures {
		if errors.Is(err, f.err) {
			return Error(c, f.status, f.message)
		}
	}

	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg(fallback)

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": fallback,
		"error":   MsgInternalError,
	})
}

// ErrorHandler renders errors escaping the handlers (body parser, routing) in the failure envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return Error(c, fe.Code, fe.Message)
	}

	return Fail(c, err, "Server error")
}
