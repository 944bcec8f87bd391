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
	"github.com/jhoicas/stocktransfer-api/pkg/password"
)

// ActorInvalidator descarta identidades cacheadas cuando cambia un usuario.
type ActorInvalidator interface {
	Invalidate(userID string)
}

// UserUseCase aplica reglas de negocio para usuarios: jerarquía de roles y alcance por bodega.
type UserUseCase struct {
	repo          repository.UserRepository
	warehouseRepo repository.WarehouseRepository
	audit         recorder
	cache         ActorInvalidator
}

// NewUserUseCase construye el caso de uso. cache puede ser nil.
func NewUserUseCase(
	repo repository.UserRepository,
	warehouseRepo repository.WarehouseRepository,
	auditRepo repository.AuditLogRepository,
	cache ActorInvalidator,
) *UserUseCase {
	return &UserUseCase{repo: repo, warehouseRepo: warehouseRepo, audit: recorder{auditRepo}, cache: cache}
}

// Create crea un usuario. Sólo ADMIN crea ADMIN; WAREHOUSE_MANAGER sólo crea
// INVENTORY_CLERK/TECHNICIAN en su propia bodega (autoasignada si se omite).
func (uc *UserUseCase) Create(ctx context.Context, actor rbac.Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := rbac.Authorize(actor, rbac.ResourceUsers, rbac.ActionCreate, nil); err != nil {
		return nil, err
	}
	role := rbac.Role(in.Role)
	if !role.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if !rbac.CanAssignRole(actor.Role, role) {
		return nil, domain.ErrRoleEscalation
	}
	warehouseID, err := uc.resolveWarehouse(ctx, actor, role, optional(in.WarehouseID))
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, domain.NewError(domain.ErrInvalidInput, "WEAK_PASSWORD", err.Error())
	}

	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         in.Name,
		Role:         role,
		WarehouseID:  warehouseID,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.audit.record(ctx, actor, entity.AuditUserCreate, "user", user.ID, user.WarehouseID, map[string]any{"role": string(role)})
	return toUserResponse(user), nil
}

// GetByID obtiene un usuario dentro del alcance del actor.
func (uc *UserUseCase) GetByID(ctx context.Context, actor rbac.Actor, id string) (*dto.UserResponse, error) {
	if actor.UserID == id {
		u, err := uc.load(ctx, id)
		if err != nil {
			return nil, err
		}
		return toUserResponse(u), nil
	}
	u, err := uc.loadAuthorized(ctx, actor, id, rbac.ActionRead)
	if err != nil {
		return nil, err
	}
	return toUserResponse(u), nil
}

// Update modifica un usuario. Cambios de rol se validan contra el rol actual y el nuevo.
// Un usuario puede cambiar su propio nombre y contraseña, no su rol, estado ni bodega.
func (uc *UserUseCase) Update(ctx context.Context, actor rbac.Actor, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var (
		u   *entity.User
		err error
	)
	self := actor.UserID == id
	if self {
		if in.Role != nil || in.Status != nil || in.WarehouseID != nil {
			return nil, domain.ErrRoleEscalation
		}
		u, err = uc.load(ctx, id)
	} else {
		u, err = uc.loadAuthorized(ctx, actor, id, rbac.ActionUpdate)
		if err == nil && !rbac.CanAssignRole(actor.Role, u.Role) {
			err = domain.ErrRoleEscalation
		}
	}
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Password != nil {
		hash, err := password.Hash(*in.Password)
		if err != nil {
			return nil, domain.NewError(domain.ErrInvalidInput, "WEAK_PASSWORD", err.Error())
		}
		u.PasswordHash = hash
	}
	if in.Status != nil {
		if *in.Status != entity.UserStatusActive && *in.Status != entity.UserStatusInactive {
			return nil, domain.ErrInvalidInput
		}
		u.Status = *in.Status
	}
	if in.Role != nil {
		role := rbac.Role(*in.Role)
		if !role.Valid() {
			return nil, domain.ErrInvalidInput
		}
		if !rbac.CanAssignRole(actor.Role, role) {
			return nil, domain.ErrRoleEscalation
		}
		u.Role = role
	}
	if in.WarehouseID != nil || in.Role != nil {
		requested := u.WarehouseID
		if in.WarehouseID != nil {
			requested = optional(*in.WarehouseID)
		}
		wh, err := uc.resolveWarehouse(ctx, actor, u.Role, requested)
		if err != nil {
			return nil, err
		}
		u.WarehouseID = wh
	}
	u.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	uc.invalidate(u.ID)
	uc.audit.record(ctx, actor, entity.AuditUserUpdate, "user", u.ID, u.WarehouseID, map[string]any{"role": string(u.Role), "status": u.Status})
	return toUserResponse(u), nil
}

// List lista usuarios; los roles restringidos sólo ven los de su bodega.
func (uc *UserUseCase) List(ctx context.Context, actor rbac.Actor, in dto.UserListRequest) (*dto.UserListResponse, error) {
	if err := rbac.Authorize(actor, rbac.ResourceUsers, rbac.ActionRead, nil); err != nil {
		return nil, err
	}
	scope, err := rbac.ScopeWarehouse(actor, rbac.ResourceUsers, optional(in.WarehouseID))
	if err != nil {
		return nil, err
	}
	var role *rbac.Role
	if in.Role != "" {
		r := rbac.Role(in.Role)
		role = &r
	}
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.UserFilter{WarehouseID: scope, Role: role, Limit: in.Limit, Offset: in.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}

// Delete elimina un usuario de rango gestionable. No se permite borrarse a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, actor rbac.Actor, id string) error {
	if actor.UserID == id {
		return domain.ErrSelfDelete
	}
	u, err := uc.loadAuthorized(ctx, actor, id, rbac.ActionDelete)
	if err != nil {
		return err
	}
	if !rbac.CanAssignRole(actor.Role, u.Role) {
		return domain.ErrRoleEscalation
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate(id)
	uc.audit.record(ctx, actor, entity.AuditUserDelete, "user", id, u.WarehouseID, map[string]any{"email": u.Email})
	return nil
}

// resolveWarehouse aplica las reglas de asignación de bodega según el actor y el rol destino.
func (uc *UserUseCase) resolveWarehouse(ctx context.Context, actor rbac.Actor, role rbac.Role, requested *string) (*string, error) {
	if !rbac.IsGlobalScoped(actor.Role) {
		if actor.WarehouseID == nil {
			return nil, &rbac.DeniedError{Permission: rbac.Permission{Resource: rbac.ResourceUsers, Action: rbac.ActionCreate}, Reason: "no warehouse assigned"}
		}
		if requested == nil {
			requested = actor.WarehouseID
		} else if *requested != *actor.WarehouseID {
			return nil, &rbac.DeniedError{Permission: rbac.Permission{Resource: rbac.ResourceUsers, Action: rbac.ActionCreate}, Reason: "outside your warehouse"}
		}
	}
	if requested == nil {
		if !rbac.IsGlobalScoped(role) {
			return nil, domain.ErrWarehouseRequired
		}
		return nil, nil
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, *requested)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrWarehouseNotFound
	}
	id := *requested
	return &id, nil
}

func (uc *UserUseCase) load(ctx context.Context, id string) (*entity.User, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// loadAuthorized: permiso base + el usuario destino debe estar en la bodega del actor restringido.
func (uc *UserUseCase) loadAuthorized(ctx context.Context, actor rbac.Actor, id string, action rbac.Action) (*entity.User, error) {
	if err := rbac.Authorize(actor, rbac.ResourceUsers, action, nil); err != nil {
		return nil, err
	}
	u, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rbac.IsGlobalScoped(actor.Role) {
		if u.WarehouseID == nil || actor.WarehouseID == nil || *u.WarehouseID != *actor.WarehouseID {
			return nil, &rbac.DeniedError{Permission: rbac.Permission{Resource: rbac.ResourceUsers, Action: action}, Reason: "outside your warehouse"}
		}
	}
	return u, nil
}

func (uc *UserUseCase) invalidate(id string) {
	if uc.cache != nil {
		uc.cache.Invalidate(id)
	}
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		WarehouseID: u.WarehouseID,
		Status:      u.Status,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
