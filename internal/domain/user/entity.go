package user

import "time"

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleHR         Role = "hr"
	RoleEmployee   Role = "employee"
)

// IsHR reports whether the role may manage leave types, holidays and
// other employees' requests.
func (r Role) IsHR() bool {
	return r == RoleHR || r == RoleSuperAdmin
}

// User entity
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
