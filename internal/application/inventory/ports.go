package inventory

import (
	"context"

	"github.com/jhoicas/stocktransfer-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback completo; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		transferRepo repository.StockTransferRepository,
		itemRepo repository.InventoryItemRepository,
		auditRepo repository.AuditLogRepository,
		warehouseRepo repository.WarehouseRepository,
	) error) error
}
