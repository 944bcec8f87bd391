package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
)

// AuditFilter filtros de consulta de la bitácora.
type AuditFilter struct {
	WarehouseID *string
	EntityType  string
	EntityID    string
	ActorID     string
	From, To    *time.Time
	Limit       int
	Offset      int
}

// AuditLogRepository puerto de la bitácora (sólo inserción y lectura).
type AuditLogRepository interface {
	Create(ctx context.Context, entry *entity.AuditLog) error
	List(ctx context.Context, f AuditFilter) ([]*entity.AuditLog, error)
}
