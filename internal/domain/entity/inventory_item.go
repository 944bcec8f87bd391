package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de stock de un ítem (derivados de Quantity vs MinStock/MaxStock).
const (
	StockStatusInStock    = "IN_STOCK"
	StockStatusLowStock   = "LOW_STOCK"
	StockStatusOutOfStock = "OUT_OF_STOCK"
)

// InventoryItem representa un SKU del inventario. Pertenece a exactamente una bodega;
// la propiedad cambia sólo al aprobar un traslado.
type InventoryItem struct {
	ID          string
	SKU         string // único en todo el sistema
	Name        string
	Description string
	Category    string
	Quantity    int
	MinStock    int
	MaxStock    int
	UnitCost    decimal.Decimal
	Status      string
	WarehouseID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
