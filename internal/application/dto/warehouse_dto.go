package dto

import "time"

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Location  string `json:"location" validate:"max=300"`
	Capacity  int    `json:"capacity" validate:"required,min=1"`
	Status    string `json:"status" validate:"omitempty,warehouse_status"`
	ManagerID string `json:"manager_id" validate:"omitempty,uuid"`
}

// UpdateWarehouseRequest entrada para actualizar una bodega.
type UpdateWarehouseRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	Location  *string `json:"location" validate:"omitempty,max=300"`
	Capacity  *int    `json:"capacity" validate:"omitempty,min=1"`
	Status    *string `json:"status" validate:"omitempty,warehouse_status"`
	ManagerID *string `json:"manager_id" validate:"omitempty,len=0|uuid"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Capacity  int       `json:"capacity"`
	Status    string    `json:"status"`
	ManagerID *string   `json:"manager_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
