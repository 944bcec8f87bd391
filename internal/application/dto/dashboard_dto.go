package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard. El alcance depende del rol:
// roles globales ven todas las bodegas, los restringidos sólo la suya.
type DashboardSummaryDTO struct {
	Role        string  `json:"role"`
	WarehouseID *string `json:"warehouse_id"` // nil = todas

	Warehouses    int             `json:"warehouses"`
	TotalItems    int             `json:"total_items"`
	InStock       int             `json:"in_stock"`
	LowStock      int             `json:"low_stock"`
	OutOfStock    int             `json:"out_of_stock"`
	TotalQuantity int             `json:"total_quantity"`
	StockValue    decimal.Decimal `json:"stock_value"` // Σ quantity * unit_cost

	PendingTransfers  int `json:"pending_transfers"`
	ApprovedTransfers int `json:"approved_transfers"`

	LowStockItems []ItemResponse `json:"low_stock_items"`
	Routes        []RouteDTO     `json:"routes"`
}
