package client

import (
	"fmt"
	"time"
)

// User is the signed in user as returned by the auth endpoints.
type User struct {
	ID           uint     `json:"id"`
	FullName     string   `json:"fullName"`
	Email        string   `json:"email"`
	ProfilePhoto *string  `json:"profilePhoto"`
	Role         string   `json:"role"`
	RoleID       uint     `json:"roleId"`
	Permissions  []string `json:"permissions"`
}

// Author is the article author.
type Author struct {
	ID           uint    `json:"id"`
	FullName     string  `json:"fullName"`
	Email        string  `json:"email"`
	ProfilePhoto *string `json:"profilePhoto"`
}

// Article is an article as returned by the API.
type Article struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Image       *string   `json:"image"`
	IsPublished bool      `json:"isPublished"`
	Author      Author    `json:"author"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RegisterRequest carries a new account.
type RegisterRequest struct {
	FullName     string  `json:"fullName"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	RoleID       uint    `json:"role"`
	ProfilePhoto *string `json:"profilePhoto,omitempty"`
}

// ArticleUpdate is a partial update. Nil fields are not sent, ClearImage sends an explicit null.
type ArticleUpdate struct {
	Title      *string
	Body       *string
	Image      *string
	ClearImage bool
}

func (u ArticleUpdate) body() map[string]any {
	out := map[string]any{}

	if u.Title != nil {
		out["title"] = *u.Title
	}

	if u.Body != nil {
		out["body"] = *u.Body
	}

	switch {
	case u.ClearImage:
		out["image"] = nil
	case u.Image != nil:
		out["image"] = *u.Image
	}

	return out
}

// PermissionRef names a permission in the access matrix.
type PermissionRef struct {
	Key string `json:"key"`
	ID  uint   `json:"id"`
}

// RoleAccess is one row of the access matrix.
type RoleAccess struct {
	RoleID      uint            `json:"roleId"`
	RoleName    string          `json:"roleName"`
	Permissions []PermissionRef `json:"permissions"`
}

// AccessMatrix lists every role with its permissions.
type AccessMatrix struct {
	Roles                []RoleAccess    `json:"accessMatrix"`
	AvailablePermissions []PermissionRef `json:"availablePermissions"`
}

// APIError is a non 2xx response.
type APIError struct {
	Status             int      `json:"-"`
	Message            string   `json:"message"`
	RequiredPermission string   `json:"requiredPermission"`
	UserPermissions    []string `json:"userPermissions"`
	UserRole           string   `json:"userRole"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("articlegate: %d %s", e.Status, e.Message)
}
