package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
	"github.com/jhoicas/stocktransfer-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetStockSummary totales por estado, cantidad total y valor del stock (Σ quantity × unit_cost).
func (r *AnalyticsRepo) GetStockSummary(ctx context.Context, warehouseID *string) (repository.StockSummary, error) {
	const query = `
	SELECT
	    COUNT(*)                                                    AS total_items,
	    COUNT(*) FILTER (WHERE status = 'IN_STOCK')                 AS in_stock,
	    COUNT(*) FILTER (WHERE status = 'LOW_STOCK')                AS low_stock,
	    COUNT(*) FILTER (WHERE status = 'OUT_OF_STOCK')             AS out_of_stock,
	    COALESCE(SUM(quantity), 0)                                  AS total_quantity,
	    ROUND(COALESCE(SUM(quantity * unit_cost), 0), 2)            AS stock_value
	FROM inventory_items
	WHERE ($1::uuid IS NULL OR warehouse_id = $1)`

	var s repository.StockSummary
	err := r.q.QueryRow(ctx, query, warehouseID).Scan(
		&s.TotalItems,
		&s.InStock,
		&s.LowStock,
		&s.OutOfStock,
		&s.TotalQuantity,
		&s.StockValue,
	)
	if err != nil {
		return repository.StockSummary{}, fmt.Errorf("analytics.GetStockSummary: %w", err)
	}
	return s, nil
}

// GetLowStockItems ítems en LOW_STOCK u OUT_OF_STOCK, los de menor cantidad primero.
func (r *AnalyticsRepo) GetLowStockItems(ctx context.Context, warehouseID *string, limit int) ([]*entity.InventoryItem, error) {
	lim, _ := pageArgs(limit, 0)
	query := `
	SELECT ` + itemColumns + `
	FROM inventory_items
	WHERE ($1::uuid IS NULL OR warehouse_id = $1)
	  AND status IN ('LOW_STOCK', 'OUT_OF_STOCK')
	ORDER BY quantity ASC, sku
	LIMIT $2`
	rows, err := r.q.Query(ctx, query, warehouseID, lim)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetLowStockItems: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// CountWarehouses número total de bodegas.
func (r *AnalyticsRepo) CountWarehouses(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM warehouses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.CountWarehouses: %w", err)
	}
	return n, nil
}
