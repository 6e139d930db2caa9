package role

type createInput struct {
	Name        string  `json:"name"        validate:"required,max=100"`
	Permissions *[]uint `json:"permissions" validate:"required"`
}

type updateInput struct {
	Name        *string `json:"name"        validate:"omitempty,max=100"`
	Permissions *[]uint `json:"permissions"`
}

// permissionRef is a permission as shown in the access matrix.
type permissionRef struct {
	Key string `json:"key"`
	ID  uint   `json:"id"`
}

// matrixRow is one role of the access matrix.
type matrixRow struct {
	RoleID      uint            `json:"roleId"`
	RoleName    string          `json:"roleName"`
	Permissions []permissionRef `json:"permissions"`
}
