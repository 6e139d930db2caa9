// Package user provides the user listing and SuperAdmin role assignment endpoints.
package user

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/articlegate/articlegate/internal/auth"
	"github.com/articlegate/articlegate/internal/db/controller/role"
	store "github.com/articlegate/articlegate/internal/db/controller/user"
	"github.com/articlegate/articlegate/internal/db/models"
	"github.com/articlegate/articlegate/internal/web/handler"
)

const (
	// Path is the route group of the user endpoints.
	Path = "/users"

	// RouteRole assigns a role to a user.
	RouteRole = "/:" + handler.ParamID + "/role"
)

// Service is the user handler service.
type Service struct {
	db *gorm.DB
}

// Handler is the user handler.
var Handler = Service{}

type assignInput struct {
	RoleID uint `json:"roleId"`
}

// listEntry is a user with its resolved role. Role is nil while the role reference dangles.
type listEntry struct {
	ID           uint      `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	ProfilePhoto *string   `json:"profilePhoto"`
	Role         *string   `json:"role"`
	RoleID       uint      `json:"roleId"`
	Permissions  []string  `json:"permissions"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Init initializes the user handler.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.db = deps.DB

	g := router.Group(Path, deps.Authenticate)
	g.Get(handler.RootPath, s.List)
	g.Put(RouteRole, auth.RequireRole(auth.RoleSuperAdmin), s.AssignRole)

	return nil
}

// List returns all users newest first with role name and permission keys.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := store.List(c.UserContext(), s.db)
	if err != nil {
		return handler.Fail(c, err, "Error fetching users")
	}

	roles, err := role.List(c.UserContext(), s.db)
	if err != nil {
		return handler.Fail(c, err, "Error fetching users")
	}

	byID := make(map[uint]*models.Role, len(roles))
	for i := range roles {
		byID[roles[i].ID] = &roles[i]
	}

	out := make([]listEntry, 0, len(users))
	for _, u := range users {
		e := listEntry{
			ID:           u.ID,
			FullName:     u.FullName,
			Email:        u.Email,
			ProfilePhoto: u.ProfilePhoto,
			RoleID:       u.RoleID,
			Permissions:  []string{},
			CreatedAt:    u.CreatedAt,
		}

		if r, ok := byID[u.RoleID]; ok {
			e.Role = &r.Name
			e.Permissions = r.PermissionKeys()
		}

		out = append(out, e)
	}

	return handler.OK(c, fiber.StatusOK, fiber.Map{
		"count": len(out),
		"users": out,
	})
}

// AssignRole moves a user to another role. Tokens issued before keep the old role until the next login or refresh.
func (s *Service) AssignRole(c *fiber.Ctx) error {
	var in assignInput
	if err := c.BodyParser(&in); err != nil || in.RoleID == 0 {
		return handler.Error(c, fiber.StatusBadRequest, "Please provide roleId")
	}

	id, ok := handler.IDParam(c)
	if !ok {
		return handler.Error(c, fiber.StatusNotFound, handler.MsgUserNotFound)
	}

	ctx := c.UserContext()

	if _, err := store.GetByID(ctx, s.db, id); err != nil {
		return handler.Fail(c, err, "Error assigning role")
	}

	r, err := role.Get(ctx, s.db, in.RoleID)
	if err != nil {
		return handler.Fail(c, err, "Error assigning role")
	}

	u, err := store.UpdateRole(ctx, s.db, id, r.ID)
	if err != nil {
		return handler.Fail(c, err, "Error assigning role")
	}

	return handler.OK(c, fiber.StatusOK, fiber.Map{
		"message": "Role assigned successfully",
		"user": fiber.Map{
			"id":           u.ID,
			"fullName":     u.FullName,
			"email":        u.Email,
			"profilePhoto": u.ProfilePhoto,
			"role":         r.Name,
			"permissions":  r.PermissionKeys(),
		},
	})
}
