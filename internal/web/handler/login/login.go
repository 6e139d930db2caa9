// Package login provides the registration, login, refresh and identity endpoints.
package login

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/articlegate/articlegate/internal/auth"
	"github.com/articlegate/articlegate/internal/web/handler"
)

const (
	// Path is the route group of the auth endpoints.
	Path = "/auth"

	// RouteRegister creates an account.
	RouteRegister = "/register"
	// RouteLogin exchanges credentials for tokens.
	RouteLogin = "/login"
	// RouteRefresh exchanges a refresh token for a new pair.
	RouteRefresh = "/refresh"
	// RouteMe returns the current principal.
	RouteMe = "/me"

	msgRateLimited = "Too many requests. Please try again later."
)

// Service is the login handler service.
type Service struct {
	provider *auth.LocalProvider
}

// Handler is the login handler.
var Handler = Service{}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

// UserView is the client representation of a principal.
type UserView struct {
	ID           uint     `json:"id"`
	FullName     string   `json:"fullName"`
	Email        string   `json:"email"`
	ProfilePhoto *string  `json:"profilePhoto"`
	Role         string   `json:"role"`
	RoleID       uint     `json:"roleId"`
	Permissions  []string `json:"permissions"`
}

// NewUserView converts a principal.
func NewUserView(p *auth.Principal) UserView {
	return UserView{
		ID:           p.UserID,
		FullName:     p.FullName,
		Email:        p.Email,
		ProfilePhoto: p.ProfilePhoto,
		Role:         p.Role.Name,
		RoleID:       p.Role.ID,
		Permissions:  auth.KeyStrings(p.Permissions),
	}
}

// Init initializes the login handler.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.provider = deps.Provider

	router.Route(Path, func(r fiber.Router) {
		throttle := rateLimit(deps.Cfg.Webserver.LoginRateLimit)

		r.Post(RouteRegister, throttle, s.Register)
		r.Post(RouteLogin, throttle, s.Login)
		r.Post(RouteRefresh, throttle, s.Refresh)
		r.Get(RouteMe, deps.Authenticate, s.Me)
	})

	return nil
}

// rateLimit limits requests per ip and minute, max <= 0 disables it.
func rateLimit(maxPerMinute int) fiber.Handler {
	if maxPerMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return limiter.New(limiter.Config{
		Max:        maxPerMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return handler.Error(c, fiber.StatusTooManyRequests, msgRateLimited)
		},
	})
}

// Register handles account creation.
func (s *Service) Register(c *fiber.Ctx) error {
	var in auth.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "Please provide all required fields: fullName, email, password, role")
	}

	grant, err := s.provider.Register(c.UserContext(), in)
	if err != nil {
		return handler.Fail(c, err, "Error registering user")
	}

	return respondGrant(c, fiber.StatusCreated, "User registered successfully", grant)
}

// Login handles credential login.
func (s *Service) Login(c *fiber.Ctx) error {
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return handler.Fail(c, auth.ErrMissingCredentials, "")
	}

	grant, err := s.provider.Login(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return handler.Fail(c, err, "Error logging in")
	}

	return respondGrant(c, fiber.StatusOK, "Login successful", grant)
}

// Refresh rotates the refresh token.
func (s *Service) Refresh(c *fiber.Ctx) error {
	var in refreshInput
	if err := c.BodyParser(&in); err != nil {
		return handler.Fail(c, auth.ErrMissingRefreshToken, "")
	}

	grant, err := s.provider.Refresh(c.UserContext(), in.RefreshToken)
	if err != nil {
		return handler.Fail(c, err, "Error refreshing token")
	}

	return respondGrant(c, fiber.StatusOK, "Token refreshed successfully", grant)
}

// Me returns the authenticated principal.
func (s *Service) Me(c *fiber.Ctx) error {
	return handler.OK(c, fiber.StatusOK, fiber.Map{
		"user": NewUserView(auth.PrincipalFrom(c)),
	})
}

func respondGrant(c *fiber.Ctx, status int, message string, grant *auth.Grant) error {
	return handler.OK(c, status, fiber.Map{
		"message":      message,
		"accessToken":  grant.Tokens.AccessToken,
		"refreshToken": grant.Tokens.RefreshToken,
		"user":         NewUserView(grant.Principal),
	})
}
