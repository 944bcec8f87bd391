package repository

import (
	"context"

	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
)

// TransferFilter filtros de listado de traslados. WarehouseID coincide con origen o destino.
type TransferFilter struct {
	WarehouseID *string
	Status      entity.TransferStatus
	ItemID      string
	Limit       int
	Offset      int
}

// StockTransferRepository define el puerto de persistencia para StockTransfer (DIP).
type StockTransferRepository interface {
	Create(ctx context.Context, t *entity.StockTransfer) error
	GetByID(ctx context.Context, id string) (*entity.StockTransfer, error)
	List(ctx context.Context, f TransferFilter) ([]*entity.StockTransfer, error)
	// HasOpenForItem true si el ítem tiene un traslado PENDING o APPROVED.
	HasOpenForItem(ctx context.Context, itemID string) (bool, error)
	// HasOpenForWarehouse true si algún traslado abierto sale de o llega a la bodega.
	HasOpenForWarehouse(ctx context.Context, warehouseID string) (bool, error)
	// UpdateStatusIf persiste la transición sólo si el estado almacenado sigue siendo expected.
	// Devuelve domain.ErrConflict si no se actualizó ninguna fila.
	UpdateStatusIf(ctx context.Context, t *entity.StockTransfer, expected entity.TransferStatus) error
	CountByStatus(ctx context.Context, warehouseID *string) (map[entity.TransferStatus]int, error)
}
