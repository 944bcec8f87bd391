package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stocktransfer-api/internal/application/dto"
	"github.com/jhoicas/stocktransfer-api/internal/domain"
	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
	"github.com/jhoicas/stocktransfer-api/internal/domain/inventory"
	"github.com/jhoicas/stocktransfer-api/internal/domain/rbac"
	"github.com/jhoicas/stocktransfer-api/internal/domain/repository"
)

// InventoryItemUseCase CRUD de ítems de inventario con alcance por bodega.
// La bodega de un ítem sólo cambia al aprobar un traslado.
type InventoryItemUseCase struct {
	repo          repository.InventoryItemRepository
	warehouseRepo repository.WarehouseRepository
	transferRepo  repository.StockTransferRepository
	audit         recorder
}

// NewInventoryItemUseCase construye el caso de uso.
func NewInventoryItemUseCase(
	repo repository.InventoryItemRepository,
	warehouseRepo repository.WarehouseRepository,
	transferRepo repository.StockTransferRepository,
	auditRepo repository.AuditLogRepository,
) *InventoryItemUseCase {
	return &InventoryItemUseCase{repo: repo, warehouseRepo: warehouseRepo, transferRepo: transferRepo, audit: recorder{auditRepo}}
}

// Create da de alta un ítem. Sin warehouse_id, un actor restringido lo crea en su bodega.
func (uc *InventoryItemUseCase) Create(ctx context.Context, actor rbac.Actor, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if err := rbac.Authorize(actor, rbac.ResourceInventory, rbac.ActionCreate, nil); err != nil {
		return nil, err
	}
	warehouseID := in.WarehouseID
	if warehouseID == "" {
		if actor.WarehouseID == nil || rbac.IsGlobalScoped(actor.Role) {
			return nil, domain.ErrWarehouseRequired
		}
		warehouseID = *actor.WarehouseID
	}
	if err := rbac.Authorize(actor, rbac.ResourceInventory, rbac.ActionCreate, &warehouseID); err != nil {
		return nil, err
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrWarehouseNotFound
	}

	sku := strings.TrimSpace(in.SKU)
	if sku == "" || strings.TrimSpace(in.Name) == "" || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if !inventory.ValidThresholds(in.MinStock, in.MaxStock) {
		return nil, domain.ErrInvalidThresholds
	}
	if in.UnitCost.IsNegative() {
		return nil, domain.ErrNegativeCost
	}
	if err := uc.ensureSKUFree(ctx, sku, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &entity.InventoryItem{
		ID:          uuid.New().String(),
		SKU:         sku,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Category:    in.Category,
		Quantity:    in.Quantity,
		MinStock:    in.MinStock,
		MaxStock:    in.MaxStock,
		UnitCost:    in.UnitCost,
		Status:      inventory.StockStatus(in.Quantity, in.MinStock),
		WarehouseID: warehouseID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	uc.audit.record(ctx, actor, entity.AuditItemCreate, "item", item.ID, &item.WarehouseID, map[string]any{"sku": item.SKU})
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem si el actor puede ver su bodega.
func (uc *InventoryItemUseCase) GetByID(ctx context.Context, actor rbac.Actor, id string) (*dto.ItemResponse, error) {
	item, err := uc.loadAuthorized(ctx, actor, id, rbac.ActionRead)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Update modifica atributos y cantidades; el estado se recalcula.
func (uc *InventoryItemUseCase) Update(ctx context.Context, actor rbac.Actor, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.loadAuthorized(ctx, actor, id, rbac.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		if sku == "" {
			return nil, domain.ErrInvalidInput
		}
		if sku != item.SKU {
			if err := uc.ensureSKUFree(ctx, sku, item.ID); err != nil {
				return nil, err
			}
		}
		item.SKU = sku
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		item.Quantity = *in.Quantity
	}
	if in.MinStock != nil {
		item.MinStock = *in.MinStock
	}
	if in.MaxStock != nil {
		item.MaxStock = *in.MaxStock
	}
	if in.UnitCost != nil {
		if in.UnitCost.IsNegative() {
			return nil, domain.ErrNegativeCost
		}
		item.UnitCost = *in.UnitCost
	}
	if !inventory.ValidThresholds(item.MinStock, item.MaxStock) {
		return nil, domain.ErrInvalidThresholds
	}
	item.Status = inventory.StockStatus(item.Quantity, item.MinStock)
	item.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	uc.audit.record(ctx, actor, entity.AuditItemUpdate, "item", item.ID, &item.WarehouseID, map[string]any{"quantity": item.Quantity, "status": item.Status})
	return toItemResponse(item), nil
}

// List lista ítems dentro del alcance del actor.
func (uc *InventoryItemUseCase) List(ctx context.Context, actor rbac.Actor, in dto.ItemListRequest) (*dto.ItemListResponse, error) {
	if err := rbac.Authorize(actor, rbac.ResourceInventory, rbac.ActionRead, nil); err != nil {
		return nil, err
	}
	scope, err := rbac.ScopeWarehouse(actor, rbac.ResourceInventory, optional(in.WarehouseID))
	if err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ItemFilter{
		WarehouseID: scope,
		Status:      in.Status,
		Search:      in.Search,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it))
	}
	return &dto.ItemListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}

// Delete elimina un ítem que no tenga traslados abiertos.
func (uc *InventoryItemUseCase) Delete(ctx context.Context, actor rbac.Actor, id string) error {
	item, err := uc.loadAuthorized(ctx, actor, id, rbac.ActionDelete)
	if err != nil {
		return err
	}
	open, err := uc.transferRepo.HasOpenForItem(ctx, id)
	if err != nil {
		return err
	}
	if open {
		return domain.ErrItemInTransfer
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.audit.record(ctx, actor, entity.AuditItemDelete, "item", id, &item.WarehouseID, map[string]any{"sku": item.SKU})
	return nil
}

// loadAuthorized verifica el permiso base, carga el ítem y verifica el alcance sobre su bodega.
func (uc *InventoryItemUseCase) loadAuthorized(ctx context.Context, actor rbac.Actor, id string, action rbac.Action) (*entity.InventoryItem, error) {
	if err := rbac.Authorize(actor, rbac.ResourceInventory, action, nil); err != nil {
		return nil, err
	}
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	if err := rbac.Authorize(actor, rbac.ResourceInventory, action, &item.WarehouseID); err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *InventoryItemUseCase) ensureSKUFree(ctx context.Context, sku, selfID string) error {
	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.ErrSKUExists
	}
	return nil
}

func toItemResponse(it *entity.InventoryItem) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:          it.ID,
		SKU:         it.SKU,
		Name:        it.Name,
		Description: it.Description,
		Category:    it.Category,
		Quantity:    it.Quantity,
		MinStock:    it.MinStock,
		MaxStock:    it.MaxStock,
		UnitCost:    it.UnitCost,
		Status:      it.Status,
		WarehouseID: it.WarehouseID,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

// ToItemResponse expone el mapeo para otros casos de uso (dashboard).
func ToItemResponse(it *entity.InventoryItem) dto.ItemResponse { return *toItemResponse(it) }
