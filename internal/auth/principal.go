package auth

import (
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/articlegate/articlegate/internal/db/models"
)

// RoleRef identifies the role a principal acts as.
type RoleRef struct {
	ID   uint
	Name string
}

// Principal is the authenticated, permission-resolved identity of a request.
type Principal struct {
	UserID       uint
	FullName     string
	Email        string
	ProfilePhoto *string
	Role         RoleRef
	Permissions  []Key
}

// NewPrincipal builds a principal from a user and its loaded role.
// Permissions are sorted and unique; keys outside the catalog are dropped.
func NewPrincipal(u *models.User, r *models.Role) *Principal {
	keys := make([]Key, 0, len(r.Permissions))

	for _, p := range r.Permissions {
		k, err := ParseKey(p.Key)
		if err != nil {
			log.Warn().Err(err).Uint("role_id", r.ID).Msg("ignoring permission outside the catalog")

			continue
		}

		keys = append(keys, k)
	}

	slices.Sort(keys)

	return &Principal{
		UserID:       u.ID,
		FullName:     u.FullName,
		Email:        u.Email,
		ProfilePhoto: u.ProfilePhoto,
		Role:         RoleRef{ID: r.ID, Name: r.Name},
		Permissions:  slices.Compact(keys),
	}
}

// Has reports whether the principal holds the permission key.
func (p *Principal) Has(k Key) bool {
	return slices.Contains(p.Permissions, k)
}

// IsViewOnly reports whether the permission set is exactly {view}.
func (p *Principal) IsViewOnly() bool {
	return len(p.Permissions) == 1 && p.Permissions[0] == KeyView
}

// IsSuperAdmin reports whether the principal acts as the SuperAdmin role.
func (p *Principal) IsSuperAdmin() bool {
	return p.Role.Name == RoleSuperAdmin
}
