package models

import "time"

// Role is a named set of permissions. Every user references exactly one role.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the unique name of the role (e.g. "SuperAdmin", "Viewer").
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	// Permissions granted by this role, joined through role_permissions.
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

// PermissionKeys returns the keys of the loaded permissions in their current order.
func (r *Role) PermissionKeys() []string {
	keys := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		keys = append(keys, p.Key)
	}

	return keys
}
