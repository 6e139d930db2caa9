package models

import "time"

// Permission is one entry of the fixed permission catalog.
// Rows are seeded once and never updated or deleted.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey" json:"id"`
	// Key is the lowercase permission key, e.g. "publish".
	Key string `gorm:"uniqueIndex;size:32;not null" json:"key"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}
