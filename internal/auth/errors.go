package auth

import (
	"errors"

	"github.com/articlegate/articlegate/internal/validation"
)

var (
	// ErrUnknownKey is returned when a string is not a catalog permission key.
	ErrUnknownKey = errors.New("unknown permission key")

	// ErrTokenExpired is returned when a token is past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid is returned for malformed tokens, bad signatures and wrong token kinds.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenRevoked is returned when a refresh token was revoked by logout or rotation.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrUserNotFound is returned when the user referenced by a token does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrRoleNotFound is returned when the user's role does not exist anymore.
	ErrRoleNotFound = errors.New("role not found")

	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailExists is returned when registering an email that is already taken.
	ErrEmailExists = errors.New("user with this email already exists")

	// ErrNoDefaultRole is returned when a user's role is gone and the fallback role does not exist either.
	// This needs an operator to seed the roles.
	ErrNoDefaultRole = errors.New("no default role available")

	// ErrMissingCredentials is returned when login is called without email or password.
	ErrMissingCredentials = validation.New("Please provide email and password", "email", "password")

	// ErrInvalidRole is returned when registering with a role id that does not exist.
	ErrInvalidRole = validation.New("Invalid role provided", "role")

	// ErrMissingRefreshToken is returned when refresh or logout is called without a token.
	ErrMissingRefreshToken = validation.New("Please provide refreshToken", "refreshToken")
)
