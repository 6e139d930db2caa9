// Package permission provides read access to the permission catalog.
package permission

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	store "github.com/articlegate/articlegate/internal/db/controller/permission"
	"github.com/articlegate/articlegate/internal/web/handler"
)

// Path is the route group of the permission endpoints.
const Path = "/permissions"

// Service is the permission handler service.
type Service struct {
	db *gorm.DB
}

// Handler is the permission handler.
var Handler = Service{}

// Init initializes the permission handler.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.db = deps.DB

	g := router.Group(Path, deps.Authenticate)
	g.Get(handler.RootPath, s.List)
	g.Get("/:"+handler.ParamID, s.Get)

	return nil
}

// List returns all permissions ordered by key.
func (s *Service) List(c *fiber.Ctx) error {
	perms, err := store.List(c.UserContext(), s.db)
	if err != nil {
		return handler.Fail(c, err, "Error fetching permissions")
	}

	return handler.OK(c, fiber.StatusOK, fiber.Map{
		"count":       len(perms),
		"permissions": perms,
	})
}

// Get returns a single permission.
func (s *Service) Get(c *fiber.Ctx) error {
	id, ok := handler.IDParam(c)
	if !ok {
		return handler.Error(c, fiber.StatusNotFound, handler.MsgPermissionNotFound)
	}

	p, err := store.Get(c.UserContext(), s.db, id)
	if err != nil {
		return handler.Fail(c, err, "Error fetching permission")
	}

	return handler.OK(c, fiber.StatusOK, fiber.Map{"permission": p})
}
