package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
// WarehouseID vacío: se autoasigna la bodega del actor si éste es WAREHOUSE_MANAGER.
type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Role        string `json:"role" validate:"required,role"`
	WarehouseID string `json:"warehouse_id" validate:"omitempty,uuid"`
}

// UpdateUserRequest campos opcionales; nil = sin cambio. WarehouseID "" desasigna la bodega.
type UpdateUserRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Role        *string `json:"role" validate:"omitempty,role"`
	WarehouseID *string `json:"warehouse_id" validate:"omitempty,len=0|uuid"`
	Status      *string `json:"status" validate:"omitempty,oneof=active inactive"`
	Password    *string `json:"password" validate:"omitempty,min=8"`
}

// UserListRequest filtros de GET /api/users.
type UserListRequest struct {
	PageRequest
	WarehouseID string `query:"warehouse_id" validate:"omitempty,uuid"`
	Role        string `query:"role" validate:"omitempty,role"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	WarehouseID *string   `json:"warehouse_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // segundos
	User      UserResponse `json:"user"`
}

// RouteDTO sección navegable.
type RouteDTO struct {
	Section string `json:"section"`
	Path    string `json:"path"`
}

// MeResponse salida de GET /api/me: actor, permisos y rutas accesibles.
type MeResponse struct {
	User        UserResponse `json:"user"`
	Permissions []string     `json:"permissions"`
	Routes      []RouteDTO   `json:"routes"`
}
