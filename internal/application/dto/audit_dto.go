package dto

import (
	"encoding/json"
	"time"
)

// AuditListRequest filtros de GET /api/audits. From/To en RFC3339.
type AuditListRequest struct {
	PageRequest
	WarehouseID string `query:"warehouse_id" validate:"omitempty,uuid"`
	EntityType  string `query:"entity_type"`
	EntityID    string `query:"entity_id"`
	ActorID     string `query:"actor_id"`
	From        string `query:"from" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To          string `query:"to" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// AuditLogResponse entrada de la bitácora.
type AuditLogResponse struct {
	ID                 string          `json:"id"`
	ActorID            string          `json:"actor_id"`
	Action             string          `json:"action"`
	EntityType         string          `json:"entity_type"`
	EntityID           string          `json:"entity_id"`
	WarehouseID        *string         `json:"warehouse_id"`
	RelatedWarehouseID *string         `json:"related_warehouse_id,omitempty"`
	Detail             json.RawMessage `json:"detail,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// AuditListResponse lista paginada de la bitácora.
type AuditListResponse struct {
	Items []AuditLogResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
