package entity

import (
	"time"

	"github.com/jhoicas/stocktransfer-api/internal/domain/rbac"
)

// Estados válidos para User.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema. WarehouseID nil = alcance global.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         rbac.Role
	WarehouseID  *string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor construye la identidad de autorización del usuario.
func (u *User) Actor() rbac.Actor {
	return rbac.Actor{UserID: u.ID, Email: u.Email, Role: u.Role, WarehouseID: u.WarehouseID}
}

// IsActive indica si la cuenta puede autenticarse.
func (u *User) IsActive() bool { return u.Status == UserStatusActive }
