package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stocktransfer-api/internal/application/dto"
	"github.com/jhoicas/stocktransfer-api/internal/domain"
	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
	"github.com/jhoicas/stocktransfer-api/internal/domain/rbac"
	"github.com/jhoicas/stocktransfer-api/internal/domain/repository"
)

// AuditUseCase consulta la bitácora (recurso "audits").
type AuditUseCase struct {
	repo repository.AuditLogRepository
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(repo repository.AuditLogRepository) *AuditUseCase {
	return &AuditUseCase{repo: repo}
}

// List devuelve entradas de la bitácora, las más recientes primero.
func (uc *AuditUseCase) List(ctx context.Context, actor rbac.Actor, in dto.AuditListRequest) (*dto.AuditListResponse, error) {
	if err := rbac.Authorize(actor, rbac.ResourceAudits, rbac.ActionRead, nil); err != nil {
		return nil, err
	}
	scope, err := rbac.ScopeWarehouse(actor, rbac.ResourceAudits, optional(in.WarehouseID))
	if err != nil {
		return nil, err
	}
	from, err := parseTime(in.From)
	if err != nil {
		return nil, err
	}
	to, err := parseTime(in.To)
	if err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.AuditFilter{
		WarehouseID: scope,
		EntityType:  in.EntityType,
		EntityID:    in.EntityID,
		ActorID:     in.ActorID,
		From:        from,
		To:          to,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditLogResponse, 0, len(list))
	for _, e := range list {
		items = append(items, dto.AuditLogResponse{
			ID:                 e.ID,
			ActorID:            e.ActorID,
			Action:             e.Action,
			EntityType:         e.EntityType,
			EntityID:           e.EntityID,
			WarehouseID:        e.WarehouseID,
			RelatedWarehouseID: e.RelatedWarehouseID,
			Detail:             e.Detail,
			CreatedAt:          e.CreatedAt,
		})
	}
	return &dto.AuditListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}

// recorder escribe en la bitácora sin interrumpir la operación principal: un fallo al
// registrar se loguea pero no revierte la mutación ya persistida.
type recorder struct {
	repo repository.AuditLogRepository
}

func (r recorder) record(ctx context.Context, actor rbac.Actor, action, entityType, entityID string, warehouseID *string, detail map[string]any) {
	if r.repo == nil {
		return
	}
	var raw json.RawMessage
	if detail != nil {
		if b, err := json.Marshal(detail); err == nil {
			raw = b
		}
	}
	entry := &entity.AuditLog{
		ID:          uuid.New().String(),
		ActorID:     actor.UserID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		WarehouseID: warehouseID,
		Detail:      raw,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.repo.Create(ctx, entry); err != nil {
		log.Error().Err(err).Str("action", action).Str("entity_id", entityID).Msg("audit log write failed")
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, domain.NewError(domain.ErrInvalidInput, "INVALID_DATE", "dates must be RFC3339")
	}
	return &t, nil
}
