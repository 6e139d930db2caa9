package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/articlegate/articlegate/internal/auth"
	"github.com/articlegate/articlegate/internal/config"
)

// Deps bundles the shared services handed to every handler.
type Deps struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Auth     *auth.Service
	Tokens   *auth.TokenService
	Provider *auth.LocalProvider

	// Authenticate is the bearer token gate, built once from Tokens and Auth.
	Authenticate fiber.Handler
}

// Valid reports whether all dependencies are set.
func (d *Deps) Valid() bool {
	return d != nil && d.Cfg != nil && d.DB != nil && d.Auth != nil &&
		d.Tokens != nil && d.Provider != nil && d.Authenticate != nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, deps *Deps) error
}
