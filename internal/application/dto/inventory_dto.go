package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/inventory. WarehouseID vacío = bodega del actor.
type CreateItemRequest struct {
	SKU         string          `json:"sku" validate:"required,min=1,max=64"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"max=1000"`
	Category    string          `json:"category" validate:"max=100"`
	Quantity    int             `json:"quantity" validate:"min=0"`
	MinStock    int             `json:"min_stock" validate:"min=0"`
	MaxStock    int             `json:"max_stock" validate:"min=0"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	WarehouseID string          `json:"warehouse_id" validate:"omitempty,uuid"`
}

// UpdateItemRequest body para PUT /api/inventory/:id. La bodega sólo cambia por traslado.
type UpdateItemRequest struct {
	SKU         *string          `json:"sku" validate:"omitempty,min=1,max=64"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Category    *string          `json:"category" validate:"omitempty,max=100"`
	Quantity    *int             `json:"quantity" validate:"omitempty,min=0"`
	MinStock    *int             `json:"min_stock" validate:"omitempty,min=0"`
	MaxStock    *int             `json:"max_stock" validate:"omitempty,min=0"`
	UnitCost    *decimal.Decimal `json:"unit_cost"`
}

// ItemListRequest filtros de GET /api/inventory.
type ItemListRequest struct {
	PageRequest
	WarehouseID string `query:"warehouse_id" validate:"omitempty,uuid"`
	Status      string `query:"status" validate:"omitempty,oneof=IN_STOCK LOW_STOCK OUT_OF_STOCK"`
	Search      string `query:"q"`
}

// ItemResponse salida de un ítem de inventario.
type ItemResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	MinStock    int             `json:"min_stock"`
	MaxStock    int             `json:"max_stock"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Status      string          `json:"status"`
	WarehouseID string          `json:"warehouse_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
