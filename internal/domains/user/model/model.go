package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Role gates what a principal may do. Mutating inventory routes require
// ADMIN or MANAGER.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleManager   Role = "MANAGER"
	RoleSales     Role = "SALES"
	RoleWarehouse Role = "WAREHOUSE"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSales, RoleWarehouse:
		return true
	}
	return false
}

// User is an operator account. PasswordHash never serializes.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest is the POST /auth/login body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginResponse carries the principal and its bearer token.
type LoginResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name"`
	Role     Role      `json:"role"`
	Token    string    `json:"token"`
}

// CreateUserRequest is the POST /users body.
type CreateUserRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 64)),
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
	)
}

// UpdateUserRequest is the PATCH /users/:id body. Nil fields stay unchanged.
type UpdateUserRequest struct {
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
	Role     *Role   `json:"role"`
	IsActive *bool   `json:"is_active"`
}
