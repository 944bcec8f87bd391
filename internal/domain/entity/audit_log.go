package entity

import (
	"encoding/json"
	"time"
)

// Acciones registradas en la bitácora de auditoría.
const (
	AuditTransferCreate   = "transfer.create"
	AuditTransferApprove  = "transfer.approve"
	AuditTransferReject   = "transfer.reject"
	AuditTransferComplete = "transfer.complete"
	AuditItemCreate       = "item.create"
	AuditItemUpdate       = "item.update"
	AuditItemDelete       = "item.delete"
	AuditWarehouseCreate  = "warehouse.create"
	AuditWarehouseUpdate  = "warehouse.update"
	AuditWarehouseDelete  = "warehouse.delete"
	AuditUserCreate       = "user.create"
	AuditUserUpdate       = "user.update"
	AuditUserDelete       = "user.delete"
)

// AuditLog entrada inmutable de la bitácora (recurso "audits").
// RelatedWarehouseID es la segunda bodega afectada (destino de un traslado); el filtro por
// bodega coincide con cualquiera de las dos.
type AuditLog struct {
	ID                 string
	ActorID            string
	Action             string
	EntityType         string
	EntityID           string
	WarehouseID        *string
	RelatedWarehouseID *string
	Detail             json.RawMessage
	CreatedAt          time.Time
}
