package entity

import "time"

// Estados de una bodega.
const (
	WarehouseStatusActive      = "ACTIVE"
	WarehouseStatusMaintenance = "MAINTENANCE"
	WarehouseStatusInactive    = "INACTIVE"
)

// Warehouse representa una bodega donde se almacena inventario (multi-bodega).
type Warehouse struct {
	ID        string
	Name      string // único en el sistema
	Location  string
	Capacity  int // >= 1
	Status    string
	ManagerID *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidWarehouseStatus indica si el estado pertenece a la enumeración.
func ValidWarehouseStatus(s string) bool {
	switch s {
	case WarehouseStatusActive, WarehouseStatusMaintenance, WarehouseStatusInactive:
		return true
	}
	return false
}
