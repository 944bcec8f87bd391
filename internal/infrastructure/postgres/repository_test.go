package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocktransfer-api/internal/domain"
	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func approved() *entity.StockTransfer {
	now := time.Now().UTC()
	by := "u-mgr"
	return &entity.StockTransfer{
		ID: "t1", ItemID: "i1", FromWarehouseID: "w1", ToWarehouseID: "w2", Quantity: 1,
		Status: entity.TransferApproved, ApprovedByID: &by, ApprovedDate: &now, UpdatedAt: now,
	}
}

// El UPDATE condicional es el que decide al único ganador entre aprobaciones concurrentes.
func TestUpdateStatusIf(t *testing.T) {
	ctx := context.Background()
	mock := newMock(t)
	repo := NewStockTransferRepository(mock)

	args := append([]any{"t1", "PENDING", "APPROVED"}, anyArgs(8)...)
	mock.ExpectExec("UPDATE stock_transfers").WithArgs(args...).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE stock_transfers").WithArgs(args...).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.UpdateStatusIf(ctx, approved(), entity.TransferPending))
	assert.ErrorIs(t, repo.UpdateStatusIf(ctx, approved(), entity.TransferPending), domain.ErrConflict)
}

func TestMoveToWarehouse(t *testing.T) {
	ctx := context.Background()
	mock := newMock(t)
	repo := NewInventoryItemRepository(mock)

	mock.ExpectExec("UPDATE inventory_items").WithArgs("i1", "w1", "w2", entity.StockStatusInStock).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE inventory_items").WithArgs("i1", "w1", "w2", entity.StockStatusInStock).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec("UPDATE inventory_items").WithArgs("i1", "w1", "w2", entity.StockStatusInStock).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "inventory_items_warehouse_id_fkey"})
	mock.ExpectExec("UPDATE inventory_items").WithArgs("i1", "w1", "w2", entity.StockStatusInStock).
		WillReturnError(errors.New("connection reset"))

	require.NoError(t, repo.MoveToWarehouse(ctx, "i1", "w1", "w2", entity.StockStatusInStock))

	err := repo.MoveToWarehouse(ctx, "i1", "w1", "w2", entity.StockStatusInStock)
	assert.ErrorIs(t, err, domain.ErrConflict, "el ítem ya no está en la bodega origen")

	err = repo.MoveToWarehouse(ctx, "i1", "w1", "w2", entity.StockStatusInStock)
	assert.ErrorIs(t, err, domain.ErrWarehouseNotFound, "la bodega destino fue eliminada")

	err = repo.MoveToWarehouse(ctx, "i1", "w1", "w2", entity.StockStatusInStock)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "move inventory item")
}

func TestStockTransferCreate_TrasladoAbierto(t *testing.T) {
	ctx := context.Background()
	mock := newMock(t)
	repo := NewStockTransferRepository(mock)

	mock.ExpectExec("INSERT INTO stock_transfers").WithArgs(anyArgs(17)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "stock_transfers_open_item_key"})

	err := repo.Create(ctx, approved())
	assert.ErrorIs(t, err, domain.ErrTransferInProgress)
}

func TestHasOpenForWarehouse(t *testing.T) {
	ctx := context.Background()
	mock := newMock(t)
	repo := NewStockTransferRepository(mock)

	mock.ExpectQuery("SELECT EXISTS").WithArgs("w2").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("w3").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	open, err := repo.HasOpenForWarehouse(ctx, "w2")
	require.NoError(t, err)
	assert.True(t, open)

	open, err = repo.HasOpenForWarehouse(ctx, "w3")
	require.NoError(t, err)
	assert.False(t, open)
}

func TestAuditLogCreate_AmbasBodegas(t *testing.T) {
	ctx := context.Background()
	mock := newMock(t)
	repo := NewAuditLogRepository(mock)

	from, to := "w1", "w2"
	entry := &entity.AuditLog{
		ID: "a1", ActorID: "u1", Action: entity.AuditTransferApprove, EntityType: "transfer", EntityID: "t1",
		WarehouseID: &from, RelatedWarehouseID: &to, CreatedAt: time.Now().UTC(),
	}
	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs("a1", "u1", entity.AuditTransferApprove, "transfer", "t1", &from, &to, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(ctx, entry))
}

func TestViolaciones(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503"}
	uniq := &pgconn.PgError{Code: "23505", ConstraintName: "inventory_items_sku_key"}

	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isForeignKeyViolation(uniq))
	assert.True(t, isUniqueViolation(uniq))
	assert.Equal(t, "inventory_items_sku_key", violatedConstraint(uniq))
	assert.Equal(t, "", violatedConstraint(errors.New("otro")))
}
