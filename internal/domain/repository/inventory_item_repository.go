package repository

import (
	"context"

	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
)

// ItemFilter filtros de listado de inventario.
type ItemFilter struct {
	WarehouseID *string
	Status      string
	Search      string // coincide con nombre o SKU
	Limit       int
	Offset      int
}

// InventoryItemRepository define el puerto de persistencia para InventoryItem (DIP).
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	GetBySKU(ctx context.Context, sku string) (*entity.InventoryItem, error)
	// Update modifica los atributos del ítem; nunca cambia su bodega.
	Update(ctx context.Context, item *entity.InventoryItem) error
	List(ctx context.Context, f ItemFilter) ([]*entity.InventoryItem, error)
	CountByWarehouse(ctx context.Context, warehouseID string) (int, error)
	// MoveToWarehouse reasigna el ítem sólo si sigue en fromWarehouseID y fija su estado.
	// Devuelve domain.ErrConflict si no se actualizó ninguna fila.
	MoveToWarehouse(ctx context.Context, itemID, fromWarehouseID, toWarehouseID, status string) error
	Delete(ctx context.Context, id string) error
}
