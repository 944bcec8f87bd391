package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stocktransfer-api/internal/application/dto"
	"github.com/jhoicas/stocktransfer-api/internal/domain"
	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
	"github.com/jhoicas/stocktransfer-api/internal/domain/rbac"
	"github.com/jhoicas/stocktransfer-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas.
type WarehouseUseCase struct {
	repo         repository.WarehouseRepository
	itemRepo     repository.InventoryItemRepository
	userRepo     repository.UserRepository
	transferRepo repository.StockTransferRepository
	audit        recorder
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(
	repo repository.WarehouseRepository,
	itemRepo repository.InventoryItemRepository,
	userRepo repository.UserRepository,
	transferRepo repository.StockTransferRepository,
	auditRepo repository.AuditLogRepository,
) *WarehouseUseCase {
	return &WarehouseUseCase{
		repo:         repo,
		itemRepo:     itemRepo,
		userRepo:     userRepo,
		transferRepo: transferRepo,
		audit:        recorder{auditRepo},
	}
}

// Create crea una nueva bodega. El nombre es único.
func (uc *WarehouseUseCase) Create(ctx context.Context, actor rbac.Actor, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if err := rbac.Authorize(actor, rbac.ResourceWarehouses, rbac.ActionCreate, nil); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Capacity < 1 {
		return nil, domain.ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = entity.WarehouseStatusActive
	}
	if !entity.ValidWarehouseStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}
	if err := uc.ensureManager(ctx, optional(in.ManagerID)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	w := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      name,
		Location:  in.Location,
		Capacity:  in.Capacity,
		Status:    status,
		ManagerID: optional(in.ManagerID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	uc.audit.record(ctx, actor, entity.AuditWarehouseCreate, "warehouse", w.ID, &w.ID, map[string]any{"name": w.Name})
	return toWarehouseResponse(w), nil
}

// GetByID obtiene una bodega; los roles restringidos sólo la suya.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, actor rbac.Actor, id string) (*dto.WarehouseResponse, error) {
	if err := rbac.Authorize(actor, rbac.ResourceWarehouses, rbac.ActionRead, &id); err != nil {
		return nil, err
	}
	w, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(w), nil
}

// Update actualiza una bodega.
func (uc *WarehouseUseCase) Update(ctx context.Context, actor rbac.Actor, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if err := rbac.Authorize(actor, rbac.ResourceWarehouses, rbac.ActionUpdate, &id); err != nil {
		return nil, err
	}
	w, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		if err := uc.ensureNameFree(ctx, name, w.ID); err != nil {
			return nil, err
		}
		w.Name = name
	}
	if in.Location != nil {
		w.Location = *in.Location
	}
	if in.Capacity != nil {
		if *in.Capacity < 1 {
			return nil, domain.ErrInvalidInput
		}
		w.Capacity = *in.Capacity
	}
	if in.Status != nil {
		if !entity.ValidWarehouseStatus(*in.Status) {
			return nil, domain.ErrInvalidInput
		}
		w.Status = *in.Status
	}
	if in.ManagerID != nil {
		if err := uc.ensureManager(ctx, optional(*in.ManagerID)); err != nil {
			return nil, err
		}
		w.ManagerID = optional(*in.ManagerID)
	}
	w.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	uc.audit.record(ctx, actor, entity.AuditWarehouseUpdate, "warehouse", w.ID, &w.ID, nil)
	return toWarehouseResponse(w), nil
}

// List lista bodegas. Los roles restringidos sólo ven la suya.
func (uc *WarehouseUseCase) List(ctx context.Context, actor rbac.Actor, page dto.PageRequest) (*dto.WarehouseListResponse, error) {
	if err := rbac.Authorize(actor, rbac.ResourceWarehouses, rbac.ActionRead, nil); err != nil {
		return nil, err
	}
	scope, err := rbac.ScopeWarehouse(actor, rbac.ResourceWarehouses, nil)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, scope, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina una bodega vacía: sin ítems, sin usuarios asignados y sin traslados abiertos
// que salgan de ella o lleguen a ella.
func (uc *WarehouseUseCase) Delete(ctx context.Context, actor rbac.Actor, id string) error {
	if err := rbac.Authorize(actor, rbac.ResourceWarehouses, rbac.ActionDelete, &id); err != nil {
		return err
	}
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	items, err := uc.itemRepo.CountByWarehouse(ctx, id)
	if err != nil {
		return err
	}
	if items > 0 {
		return domain.ErrWarehouseNotEmpty
	}
	users, err := uc.userRepo.CountByWarehouse(ctx, id)
	if err != nil {
		return err
	}
	if users > 0 {
		return domain.ErrWarehouseHasUsers
	}
	open, err := uc.transferRepo.HasOpenForWarehouse(ctx, id)
	if err != nil {
		return err
	}
	if open {
		return domain.ErrWarehouseBusy
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.audit.record(ctx, actor, entity.AuditWarehouseDelete, "warehouse", id, nil, nil)
	return nil
}

func (uc *WarehouseUseCase) load(ctx context.Context, id string) (*entity.Warehouse, error) {
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrWarehouseNotFound
	}
	return w, nil
}

func (uc *WarehouseUseCase) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.ErrWarehouseNameTaken
	}
	return nil
}

func (uc *WarehouseUseCase) ensureManager(ctx context.Context, managerID *string) error {
	if managerID == nil {
		return nil
	}
	u, err := uc.userRepo.GetByID(ctx, *managerID)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrUserNotFound
	}
	return nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Location:  w.Location,
		Capacity:  w.Capacity,
		Status:    w.Status,
		ManagerID: w.ManagerID,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
