// Package logout provides the refresh token revocation endpoint.
package logout

import (
	"github.com/gofiber/fiber/v2"

	"github.com/articlegate/articlegate/internal/auth"
	"github.com/articlegate/articlegate/internal/web/handler"
	"github.com/articlegate/articlegate/internal/web/handler/login"
)

// Route is the logout route below the auth group.
const Route = login.Path + "/logout"

// Service is the logout handler service.
type Service struct {
	provider *auth.LocalProvider
}

// Handler is the logout handler.
var Handler = Service{}

type logoutInput struct {
	RefreshToken string `json:"refreshToken"`
}

// Init initializes the logout handler.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.provider = deps.Provider

	router.Post(Route, s.Logout)

	return nil
}

// Logout revokes the posted refresh token. Access tokens stay valid until they expire.
func (s *Service) Logout(c *fiber.Ctx) error {
	var in logoutInput
	if err := c.BodyParser(&in); err != nil {
		return handler.Fail(c, auth.ErrMissingRefreshToken, "")
	}

	if err := s.provider.Logout(c.UserContext(), in.RefreshToken); err != nil {
		return handler.Fail(c, err, "Error logging out")
	}

	return handler.OK(c, fiber.StatusOK, fiber.Map{"message": "Logged out successfully"})
}
