package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin          = "admin"
	RoleEngineer       = "engineer"
	RoleProjectManager = "project_manager"
	RoleForeman        = "foreman"
	RoleStaff          = "staff"
)

// Estados de cuenta.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User representa a un miembro del personal de obra.
// Status controla si la cuenta puede iniciar sesión; IsActive indica si tiene una sesión vigente.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Phone        string
	Role         string
	Status       string
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEngineer, RoleProjectManager, RoleForeman, RoleStaff:
		return true
	}
	return false
}
