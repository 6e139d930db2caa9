package auth

import (
	"fmt"
	"strings"
)

// Key is a permission key of the fixed catalog.
type Key string

// The permission catalog.
const (
	KeyCreate  Key = "create"
	KeyEdit    Key = "edit"
	KeyDelete  Key = "delete"
	KeyPublish Key = "publish"
	KeyView    Key = "view"
)

// Role names with built-in meaning.
const (
	// RoleSuperAdmin is the only role allowed to manage roles and user assignments.
	RoleSuperAdmin = "SuperAdmin"
	// RoleViewer is the default fallback role for users whose role was deleted.
	RoleViewer = "Viewer"
)

// AllKeys returns the full catalog.
func AllKeys() []Key {
	return []Key{KeyCreate, KeyEdit, KeyDelete, KeyPublish, KeyView}
}

// Valid reports whether k is part of the catalog.
func (k Key) Valid() bool {
	switch k {
	case KeyCreate, KeyEdit, KeyDelete, KeyPublish, KeyView:
		return true
	default:
		return false
	}
}

func (k Key) String() string {
	return string(k)
}

// ParseKey validates a free-form key coming from the wire or the database.
func ParseKey(s string) (Key, error) {
	k := Key(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, s)
	}

	return k, nil
}

// KeyStrings converts keys to their wire form.
func KeyStrings(keys []Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}

	return out
}
