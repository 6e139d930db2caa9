// Package role provides the role listing, access matrix and SuperAdmin role management endpoints.
package role

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/articlegate/articlegate/internal/auth"
	"github.com/articlegate/articlegate/internal/db/controller/permission"
	store "github.com/articlegate/articlegate/internal/db/controller/role"
	"github.com/articlegate/articlegate/internal/db/models"
	"github.com/articlegate/articlegate/internal/validation"
	"github.com/articlegate/articlegate/internal/web/handler"
)

const (
	// Path is the route group of the role endpoints.
	Path = "/roles"

	// RouteAccessMatrix lists every role with its permission keys.
	RouteAccessMatrix = "/access-matrix"
	// RouteItem addresses a single role.
	RouteItem = "/:" + handler.ParamID

	msgMissingFields = "Please provide role name and permissions"
)

// Service is the role handler service.
type Service struct {
	db *gorm.DB
}

// Handler is the role handler.
var Handler = Service{}

// Init initializes the role handler. Listing is public, the registration form needs it.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.db = deps.DB

	superAdmin := auth.RequireRole(auth.RoleSuperAdmin)

	g := router.Group(Path)
	g.Get(handler.RootPath, s.List)
	g.Get(RouteAccessMatrix, deps.Authenticate, s.AccessMatrix)
	g.Post(handler.RootPath, deps.Authenticate, superAdmin, s.Create)
	g.Put(RouteItem, deps.Authenticate, superAdmin, s.Update)
	g.Delete(RouteItem, deps.Authenticate, superAdmin, s.Delete)

	return nil
}

// List returns all roles with their permissions, ordered by name.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := store.List(c.UserContext(), s.db)
	if err != nil {
		return handler.Fail(c, err, "Error fetching roles")
	}

	return handler.OK(c, fiber.StatusOK, fiber.Map{
		"count": len(roles),
		"roles": roles,
	})
}

// AccessMatrix returns every role with its permissions plus the full permission catalog.
func (s *Service) AccessMatrix(c *fiber.Ctx) error {
	roles, err := store.List(c.UserContext(), s.db)
	if err != nil {
		return handler.Fail(c, err, "Error fetching access matrix")
	}

	perms, err := permission.List(c.UserContext(), s.db)
	if err != nil {
		return handler.Fail(c, err, "Error fetching access matrix")
	}

	matrix := make([]matrixRow, 0, len(roles))
	for _, r := range roles {
		matrix = append(matrix, matrixRow{
			RoleID:      r.ID,
			RoleName:    r.Name,
			Permissions: refs(r.Permissions),
		})
	}

	return handler.OK(c, fiber.StatusOK, fiber.Map{
		"accessMatrix":         matrix,
		"availablePermissions": refs(perms),
	})
}

// Create stores a role with the given permission ids.
func (s *Service) Create(c *fiber.Ctx) error {
	var in createInput
	if err := c.BodyParser(&in); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, msgMissingFields)
	}

	in.Name = strings.TrimSpace(in.Name)

	if err := validation.Struct(in, msgMissingFields); err != nil {
		return handler.Fail(c, err, "")
	}

	r, err := store.Create(c.UserContext(), s.db, in.Name, *in.Permissions)
	if err != nil {
		return handler.Fail(c, err, "Error creating role")
	}

	return handler.OK(c, fiber.StatusCreated, fiber.Map{
		"message": "Role created successfully",
		"role":    r,
	})
}

// Update renames a role and/or replaces its permissions. A blank name is ignored.
func (s *Service) Update(c *fiber.Ctx) error {
	id, ok := handler.IDParam(c)
	if !ok {
		return handler.Error(c, fiber.StatusNotFound, handler.MsgRoleNotFound)
	}

	var in updateInput
	if err := c.BodyParser(&in); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		in.Name = nil
	}

	if err := validation.Struct(in, msgMissingFields); err != nil {
		return handler.Fail(c, err, "")
	}

	r, err := store.Save(c.UserContext(), s.db, id, store.Update{
		Name:          in.Name,
		PermissionIDs: in.Permissions,
	})
	if err != nil {
		return handler.Fail(c, err, "Error updating role")
	}

	return handler.OK(c, fiber.StatusOK, fiber.Map{
		"message": "Role updated successfully",
		"role":    r,
	})
}

// Delete removes a role. Users holding it are reassigned at their next login.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, ok := handler.IDParam(c)
	if !ok {
		return handler.Error(c, fiber.StatusNotFound, handler.MsgRoleNotFound)
	}

	if err := store.Delete(c.UserContext(), s.db, id); err != nil {
		return handler.Fail(c, err, "Error deleting role")
	}

	return handler.OK(c, fiber.StatusOK, fiber.Map{"message": "Role deleted successfully"})
}

func refs(perms []models.Permission) []permissionRef {
	out := make([]permissionRef, 0, len(perms))
	for _, p := range perms {
		out = append(out, permissionRef{Key: p.Key, ID: p.ID})
	}

	return out
}
