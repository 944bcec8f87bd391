// Package inventory contiene servicios de dominio puros sobre el stock.
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
)

// StockStatus deriva el estado de un ítem a partir de su cantidad y umbrales.
// Cantidad 0 → OUT_OF_STOCK; cantidad <= MinStock → LOW_STOCK; resto IN_STOCK.
func StockStatus(quantity, minStock int) string {
	switch {
	case quantity <= 0:
		return entity.StockStatusOutOfStock
	case quantity <= minStock:
		return entity.StockStatusLowStock
	default:
		return entity.StockStatusInStock
	}
}

// ValidThresholds comprueba 0 <= MinStock <= MaxStock (MaxStock 0 = sin tope).
func ValidThresholds(minStock, maxStock int) bool {
	if minStock < 0 || maxStock < 0 {
		return false
	}
	return maxStock == 0 || minStock <= maxStock
}

// StockValue valor total del stock: Σ Quantity * UnitCost.
func StockValue(items []*entity.InventoryItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.Round(2)
}
