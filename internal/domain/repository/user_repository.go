package repository

import (
	"context"

	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
	"github.com/jhoicas/stocktransfer-api/internal/domain/rbac"
)

// UserFilter filtros de listado de usuarios. Campos nil no filtran.
type UserFilter struct {
	WarehouseID *string
	Role        *rbac.Role
	Limit       int
	Offset      int
}

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, f UserFilter) ([]*entity.User, error)
	// CountByWarehouse usuarios asignados a la bodega (bloquea su borrado).
	CountByWarehouse(ctx context.Context, warehouseID string) (int, error)
	Delete(ctx context.Context, id string) error
}
