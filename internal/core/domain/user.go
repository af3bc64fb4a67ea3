package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleAdministrator Role = "ADMINISTRATOR"
	RoleCustomer      Role = "CUSTOMER"
)

// ParseRole converts s into a Role. Only the exact enumeration values are accepted.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.TrimSpace(s)); r {
	case RoleAdministrator, RoleCustomer:
		return r, nil
	default:
		return "", NewValidationError(fmt.Sprintf("role must be one of: %s %s", RoleAdministrator, RoleCustomer))
	}
}

func (r Role) Valid() bool {
	return r == RoleAdministrator || r == RoleCustomer
}

func (r Role) String() string { return string(r) }

// User models a registered account. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the verified caller of a protected operation.
type Identity struct {
	Subject string
	Role    Role
}

// IssuedToken is a signed session token together with the claims it carries.
type IssuedToken struct {
	Token     string
	Subject   string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
