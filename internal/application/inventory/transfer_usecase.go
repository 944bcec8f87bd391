package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stocktransfer-api/internal/application/dto"
	"github.com/jhoicas/stocktransfer-api/internal/domain"
	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
	"github.com/jhoicas/stocktransfer-api/internal/domain/rbac"
	"github.com/jhoicas/stocktransfer-api/internal/domain/repository"
	"github.com/jhoicas/stocktransfer-api/pkg/logger"
	"github.com/jhoicas/stocktransfer-api/pkg/metrics"
)

// TransferUseCase gestiona el ciclo de vida de los traslados entre bodegas
// (PENDING → APPROVED → COMPLETED, PENDING → REJECTED).
//
// Modelo de unidad única: al aprobar, el ítem completo cambia de bodega; no hay
// aritmética de cantidades ni ítems duplicados en destino.
type TransferUseCase struct {
	txRunner      TxRunner
	transferRepo  repository.StockTransferRepository
	itemRepo      repository.InventoryItemRepository
	warehouseRepo repository.WarehouseRepository
	log           *logger.Logger
	metrics       *metrics.Metrics
	now           func() time.Time
}

// NewTransferUseCase construye el caso de uso. metrics puede ser nil.
func NewTransferUseCase(
	txRunner TxRunner,
	transferRepo repository.StockTransferRepository,
	itemRepo repository.InventoryItemRepository,
	warehouseRepo repository.WarehouseRepository,
	log *logger.Logger,
	m *metrics.Metrics,
) *TransferUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &TransferUseCase{
		txRunner:      txRunner,
		transferRepo:  transferRepo,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		log:           log.Component("transfers"),
		metrics:       m,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Create registra una solicitud de traslado en estado PENDING.
func (uc *TransferUseCase) Create(ctx context.Context, actor rbac.Actor, in dto.CreateTransferRequest) (res *dto.TransferResponse, err error) {
	defer func() { uc.metrics.Transfer("create", outcome(err)) }()

	if err := rbac.Authorize(actor, rbac.ResourceTransfers, rbac.ActionCreate, nil); err != nil {
		return nil, err
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, domain.ErrSameWarehouse
	}
	if !rbac.CanAccessWarehouse(actor.Role, actor.WarehouseID, in.FromWarehouseID) {
		return nil, domain.ErrCrossWarehouse
	}
	if in.Quantity < 0 {
		return nil, domain.ErrInsufficientQty
	}

	for _, id := range []string{in.FromWarehouseID, in.ToWarehouseID} {
		wh, err := uc.warehouseRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if wh == nil {
			return nil, domain.ErrWarehouseNotFound
		}
	}

	now := uc.now()
	t := &entity.StockTransfer{
		ID:              uuid.New().String(),
		ItemID:          in.ItemID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		Status:          entity.TransferPending,
		Notes:           in.Notes,
		RequestedByID:   actor.UserID,
		RequestDate:     now,
		UpdatedAt:       now,
	}

	err = uc.txRunner.Run(ctx, func(
		transferRepo repository.StockTransferRepository,
		itemRepo repository.InventoryItemRepository,
		auditRepo repository.AuditLogRepository,
		_ repository.WarehouseRepository,
	) error {
		item, err := itemRepo.GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrItemNotFound
		}
		if item.WarehouseID != in.FromWarehouseID {
			return domain.ErrItemNotInSource
		}
		if t.Quantity == 0 {
			t.Quantity = item.Quantity
		}
		if t.Quantity < 1 || t.Quantity > item.Quantity {
			return domain.ErrInsufficientQty
		}
		open, err := transferRepo.HasOpenForItem(ctx, item.ID)
		if err != nil {
			return err
		}
		if open {
			return domain.ErrTransferInProgress
		}
		if err := transferRepo.Create(ctx, t); err != nil {
			return err
		}
		return auditRepo.Create(ctx, auditEntry(actor, entity.AuditTransferCreate, t, now, map[string]any{
			"item_id": t.ItemID, "from": t.FromWarehouseID, "to": t.ToWarehouseID, "quantity": t.Quantity,
		}))
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("transfer_id", t.ID).Str("item_id", t.ItemID).Str("actor", actor.UserID).Msg("transfer requested")
	out := toTransferResponse(t)
	return &out, nil
}

// Approve aplica PENDING → APPROVED y mueve el ítem a la bodega destino en una sola transacción.
// El ítem y la bodega destino se releen dentro de la transacción: ítem borrado (404), fuera de
// la bodega origen (409), con menos cantidad que la solicitada (400) o destino eliminado (404)
// hacen fallar la aprobación completa.
func (uc *TransferUseCase) Approve(ctx context.Context, actor rbac.Actor, transferID string) (res *dto.TransferResponse, err error) {
	defer func() { uc.metrics.Transfer("approve", outcome(err)) }()

	t, err := uc.loadForTransition(ctx, actor, transferID, rbac.ActionApprove)
	if err != nil {
		return nil, err
	}
	if !rbac.CanAccessWarehouse(actor.Role, actor.WarehouseID, t.FromWarehouseID) {
		return nil, domain.ErrApproveOutside
	}

	err = uc.txRunner.Run(ctx, func(
		transferRepo repository.StockTransferRepository,
		itemRepo repository.InventoryItemRepository,
		auditRepo repository.AuditLogRepository,
		warehouseRepo repository.WarehouseRepository,
	) error {
		current, err := rereadTransfer(ctx, transferRepo, transferID)
		if err != nil {
			return err
		}
		if current.Status != entity.TransferPending {
			return domain.ErrInvalidTransition
		}
		item, err := itemRepo.GetByID(ctx, current.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrItemNotFound
		}
		if item.WarehouseID != current.FromWarehouseID {
			return domain.ErrItemMoved
		}
		if item.Quantity < 1 || item.Quantity < current.Quantity {
			return domain.ErrInsufficientQty
		}
		dest, err := warehouseRepo.GetByID(ctx, current.ToWarehouseID)
		if err != nil {
			return err
		}
		if dest == nil {
			return domain.ErrWarehouseNotFound
		}

		now := uc.now()
		if !current.Approve(actor.UserID, now) {
			return domain.ErrInvalidTransition
		}
		if err := transferRepo.UpdateStatusIf(ctx, current, entity.TransferPending); err != nil {
			return conflictAs(err, domain.ErrInvalidTransition)
		}
		if err := itemRepo.MoveToWarehouse(ctx, item.ID, current.FromWarehouseID, current.ToWarehouseID, entity.StockStatusInStock); err != nil {
			return conflictAs(err, domain.ErrItemMoved)
		}
		if err := auditRepo.Create(ctx, auditEntry(actor, entity.AuditTransferApprove, current, now, map[string]any{
			"item_id": item.ID, "from": current.FromWarehouseID, "to": current.ToWarehouseID,
		})); err != nil {
			return err
		}
		t = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("transfer_id", t.ID).Str("item_id", t.ItemID).Str("to", t.ToWarehouseID).Str("actor", actor.UserID).Msg("transfer approved")
	out := toTransferResponse(t)
	return &out, nil
}

// Reject aplica PENDING → REJECTED. No toca inventario.
func (uc *TransferUseCase) Reject(ctx context.Context, actor rbac.Actor, transferID, reason string) (res *dto.TransferResponse, err error) {
	defer func() { uc.metrics.Transfer("reject", outcome(err)) }()

	t, err := uc.loadForTransition(ctx, actor, transferID, rbac.ActionApprove)
	if err != nil {
		return nil, err
	}
	if !rbac.CanAccessWarehouse(actor.Role, actor.WarehouseID, t.FromWarehouseID) {
		return nil, domain.ErrApproveOutside
	}

	t, err = uc.transition(ctx, actor, transferID, entity.TransferPending, entity.AuditTransferReject,
		func(cur *entity.StockTransfer, now time.Time) bool { return cur.Reject(actor.UserID, reason, now) })
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transfer_id", t.ID).Str("actor", actor.UserID).Msg("transfer rejected")
	out := toTransferResponse(t)
	return &out, nil
}

// Complete aplica APPROVED → COMPLETED. El inventario ya se movió al aprobar.
// Un actor restringido sólo puede completar traslados hacia su propia bodega.
func (uc *TransferUseCase) Complete(ctx context.Context, actor rbac.Actor, transferID string) (res *dto.TransferResponse, err error) {
	defer func() { uc.metrics.Transfer("complete", outcome(err)) }()

	t, err := uc.loadForTransition(ctx, actor, transferID, rbac.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if !rbac.CanAccessWarehouse(actor.Role, actor.WarehouseID, t.ToWarehouseID) {
		return nil, domain.ErrCompleteOutside
	}

	t, err = uc.transition(ctx, actor, transferID, entity.TransferApproved, entity.AuditTransferComplete,
		func(cur *entity.StockTransfer, now time.Time) bool { return cur.Complete(actor.UserID, now) })
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transfer_id", t.ID).Str("actor", actor.UserID).Msg("transfer completed")
	out := toTransferResponse(t)
	return &out, nil
}

// Get devuelve un traslado si el actor puede verlo (origen o destino en su bodega).
func (uc *TransferUseCase) Get(ctx context.Context, actor rbac.Actor, transferID string) (*dto.TransferResponse, error) {
	if err := rbac.Authorize(actor, rbac.ResourceTransfers, rbac.ActionRead, nil); err != nil {
		return nil, err
	}
	t, err := uc.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTransferNotFound
	}
	if !canSee(actor, t) {
		return nil, &rbac.DeniedError{
			Permission: rbac.Permission{Resource: rbac.ResourceTransfers, Action: rbac.ActionRead},
			Reason:     "outside your warehouse",
		}
	}
	out := toTransferResponse(t)
	return &out, nil
}

// List lista traslados. Los actores restringidos sólo ven los de su bodega; pedir otra es 403.
func (uc *TransferUseCase) List(ctx context.Context, actor rbac.Actor, in dto.TransferListRequest) (*dto.TransferListResponse, error) {
	if err := rbac.Authorize(actor, rbac.ResourceTransfers, rbac.ActionRead, nil); err != nil {
		return nil, err
	}
	var requested *string
	if in.WarehouseID != "" {
		requested = &in.WarehouseID
	}
	scope, err := rbac.ScopeWarehouse(actor, rbac.ResourceTransfers, requested)
	if err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, err := uc.transferRepo.List(ctx, repository.TransferFilter{
		WarehouseID: scope,
		Status:      entity.TransferStatus(in.Status),
		ItemID:      in.ItemID,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, toTransferResponse(t))
	}
	return &dto.TransferListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}

func (uc *TransferUseCase) loadForTransition(ctx context.Context, actor rbac.Actor, id string, action rbac.Action) (*entity.StockTransfer, error) {
	if err := rbac.Authorize(actor, rbac.ResourceTransfers, action, nil); err != nil {
		return nil, err
	}
	t, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTransferNotFound
	}
	return t, nil
}

// transition relee el traslado en la transacción, aplica apply y persiste condicionado a expected.
func (uc *TransferUseCase) transition(
	ctx context.Context,
	actor rbac.Actor,
	id string,
	expected entity.TransferStatus,
	auditAction string,
	apply func(*entity.StockTransfer, time.Time) bool,
) (*entity.StockTransfer, error) {
	var out *entity.StockTransfer
	err := uc.txRunner.Run(ctx, func(
		transferRepo repository.StockTransferRepository,
		_ repository.InventoryItemRepository,
		auditRepo repository.AuditLogRepository,
		_ repository.WarehouseRepository,
	) error {
		current, err := rereadTransfer(ctx, transferRepo, id)
		if err != nil {
			return err
		}
		now := uc.now()
		if current.Status != expected || !apply(current, now) {
			return domain.ErrInvalidTransition
		}
		if err := transferRepo.UpdateStatusIf(ctx, current, expected); err != nil {
			return conflictAs(err, domain.ErrInvalidTransition)
		}
		detail := map[string]any{"status": string(current.Status)}
		if current.RejectReason != "" {
			detail["reason"] = current.RejectReason
		}
		if err := auditRepo.Create(ctx, auditEntry(actor, auditAction, current, now, detail)); err != nil {
			return err
		}
		out = current
		return nil
	})
	return out, err
}

func rereadTransfer(ctx context.Context, repo repository.StockTransferRepository, id string) (*entity.StockTransfer, error) {
	t, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTransferNotFound
	}
	return t, nil
}

// conflictAs sustituye un domain.ErrConflict genérico por el error específico de la operación.
func conflictAs(err, specific error) error {
	if errors.Is(err, domain.ErrConflict) {
		return specific
	}
	return err
}

func canSee(actor rbac.Actor, t *entity.StockTransfer) bool {
	return rbac.CanAccessWarehouse(actor.Role, actor.WarehouseID, t.FromWarehouseID) ||
		rbac.CanAccessWarehouse(actor.Role, actor.WarehouseID, t.ToWarehouseID)
}

func auditEntry(actor rbac.Actor, action string, t *entity.StockTransfer, at time.Time, detail map[string]any) *entity.AuditLog {
	raw, err := json.Marshal(detail)
	if err != nil {
		raw = nil
	}
	from, to := t.FromWarehouseID, t.ToWarehouseID
	return &entity.AuditLog{
		ID:                 uuid.New().String(),
		ActorID:            actor.UserID,
		Action:             action,
		EntityType:         "transfer",
		EntityID:           t.ID,
		WarehouseID:        &from,
		RelatedWarehouseID: &to,
		Detail:             raw,
		CreatedAt:          at,
	}
}

// outcome etiqueta de métricas para el resultado de una operación.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrForbidden):
		return "denied"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}

func toTransferResponse(t *entity.StockTransfer) dto.TransferResponse {
	return dto.TransferResponse{
		ID:              t.ID,
		ItemID:          t.ItemID,
		FromWarehouseID: t.FromWarehouseID,
		ToWarehouseID:   t.ToWarehouseID,
		Quantity:        t.Quantity,
		Status:          string(t.Status),
		Notes:           t.Notes,
		RejectReason:    t.RejectReason,
		RequestedByID:   t.RequestedByID,
		ApprovedByID:    t.ApprovedByID,
		RejectedByID:    t.RejectedByID,
		CompletedByID:   t.CompletedByID,
		RequestDate:     t.RequestDate,
		ApprovedDate:    t.ApprovedDate,
		RejectedDate:    t.RejectedDate,
		CompletedDate:   t.CompletedDate,
	}
}
