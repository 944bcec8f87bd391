package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
)

// StockSummary resultado crudo del resumen de stock. Lo produce la DB; el use case lo
// convierte en DTO.
type StockSummary struct {
	TotalItems    int
	InStock       int
	LowStock      int
	OutOfStock    int
	TotalQuantity int
	StockValue    decimal.Decimal // Σ quantity * unit_cost
}

// AnalyticsRepository consultas de lectura para el dashboard. Las implementaciones son read-only.
// warehouseID nil = todas las bodegas.
type AnalyticsRepository interface {
	GetStockSummary(ctx context.Context, warehouseID *string) (StockSummary, error)

	// GetLowStockItems ítems en LOW_STOCK u OUT_OF_STOCK, los de menor cantidad primero.
	GetLowStockItems(ctx context.Context, warehouseID *string, limit int) ([]*entity.InventoryItem, error)

	CountWarehouses(ctx context.Context) (int, error)
}
