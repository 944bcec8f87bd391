package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocktransfer-api/internal/domain"
	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
	"github.com/jhoicas/stocktransfer-api/internal/domain/repository"
)

func seed(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	for _, id := range []string{"w1", "w2"} {
		require.NoError(t, s.Warehouses().Create(ctx, &entity.Warehouse{ID: id, Name: "bodega " + id}))
	}
	require.NoError(t, s.Items().Create(ctx, &entity.InventoryItem{ID: "i1", SKU: "SKU-1", Quantity: 5, WarehouseID: "w1", Status: entity.StockStatusInStock}))
	require.NoError(t, s.Transfers().Create(ctx, &entity.StockTransfer{ID: "t1", ItemID: "i1", FromWarehouseID: "w1", ToWarehouseID: "w2", Status: entity.TransferPending, RequestDate: time.Now()}))
}

func TestRun_RollbackDescartaCambios(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(tr repository.StockTransferRepository, ir repository.InventoryItemRepository, ar repository.AuditLogRepository, _ repository.WarehouseRepository) error {
		cur, _ := tr.GetByID(ctx, "t1")
		cur.Status = entity.TransferApproved
		require.NoError(t, tr.UpdateStatusIf(ctx, cur, entity.TransferPending))
		require.NoError(t, ir.MoveToWarehouse(ctx, "i1", "w1", "w2", entity.StockStatusInStock))
		require.NoError(t, ar.Create(ctx, &entity.AuditLog{ID: "a1"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	tr, _ := s.Transfers().GetByID(ctx, "t1")
	it, _ := s.Items().GetByID(ctx, "i1")
	audits, _ := s.Audits().List(ctx, repository.AuditFilter{})
	assert.Equal(t, entity.TransferPending, tr.Status)
	assert.Equal(t, "w1", it.WarehouseID)
	assert.Empty(t, audits)
}

func TestRun_CommitPublicaCambios(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, func(_ repository.StockTransferRepository, ir repository.InventoryItemRepository, _ repository.AuditLogRepository, _ repository.WarehouseRepository) error {
		return ir.MoveToWarehouse(ctx, "i1", "w1", "w2", entity.StockStatusInStock)
	}))
	it, _ := s.Items().GetByID(ctx, "i1")
	assert.Equal(t, "w2", it.WarehouseID)
}

func TestActualizacionesCondicionales(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()

	err := s.Items().MoveToWarehouse(ctx, "i1", "w9", "w2", entity.StockStatusInStock)
	assert.ErrorIs(t, err, domain.ErrConflict)
	err = s.Items().MoveToWarehouse(ctx, "missing", "w1", "w2", entity.StockStatusInStock)
	assert.ErrorIs(t, err, domain.ErrConflict)

	tr := &entity.StockTransfer{ID: "t1", Status: entity.TransferCompleted}
	assert.ErrorIs(t, s.Transfers().UpdateStatusIf(ctx, tr, entity.TransferApproved), domain.ErrConflict)

	open, err := s.Transfers().HasOpenForItem(ctx, "i1")
	require.NoError(t, err)
	assert.True(t, open)
}

func TestMoveToWarehouse_DestinoInexistente(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()
	require.NoError(t, s.Warehouses().Delete(ctx, "w2"))

	err := s.Items().MoveToWarehouse(ctx, "i1", "w1", "w2", entity.StockStatusInStock)
	assert.ErrorIs(t, err, domain.ErrWarehouseNotFound)
	it, _ := s.Items().GetByID(ctx, "i1")
	assert.Equal(t, "w1", it.WarehouseID)
}

func TestHasOpenForWarehouse(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()

	for _, id := range []string{"w1", "w2"} {
		open, err := s.Transfers().HasOpenForWarehouse(ctx, id)
		require.NoError(t, err)
		assert.True(t, open, "origen y destino cuentan: %s", id)
	}
	open, err := s.Transfers().HasOpenForWarehouse(ctx, "w3")
	require.NoError(t, err)
	assert.False(t, open)

	tr, _ := s.Transfers().GetByID(ctx, "t1")
	tr.Status = entity.TransferRejected
	require.NoError(t, s.Transfers().UpdateStatusIf(ctx, tr, entity.TransferPending))
	open, err = s.Transfers().HasOpenForWarehouse(ctx, "w2")
	require.NoError(t, err)
	assert.False(t, open, "un traslado cerrado no bloquea")
}

func TestAuditList_BodegaRelacionada(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	from, to := "w1", "w2"
	require.NoError(t, s.Audits().Create(ctx, &entity.AuditLog{ID: "a1", EntityType: "transfer", WarehouseID: &from, RelatedWarehouseID: &to}))
	require.NoError(t, s.Audits().Create(ctx, &entity.AuditLog{ID: "a2", EntityType: "item", WarehouseID: &from}))

	list, err := s.Audits().List(ctx, repository.AuditFilter{WarehouseID: &to})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a1", list[0].ID)

	list, err = s.Audits().List(ctx, repository.AuditFilter{WarehouseID: &from})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUnicidad(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Items().Create(ctx, &entity.InventoryItem{ID: "a", SKU: "ETH-CAT6-100"}))
	assert.ErrorIs(t, s.Items().Create(ctx, &entity.InventoryItem{ID: "b", SKU: "ETH-CAT6-100"}), domain.ErrSKUExists)

	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "u1", Email: "a@x.io"}))
	assert.ErrorIs(t, s.Users().Create(ctx, &entity.User{ID: "u2", Email: "A@X.io"}), domain.ErrEmailAlreadyExists)

	require.NoError(t, s.Warehouses().Create(ctx, &entity.Warehouse{ID: "w1", Name: "Central"}))
	assert.ErrorIs(t, s.Warehouses().Create(ctx, &entity.Warehouse{ID: "w2", Name: "central"}), domain.ErrWarehouseNameTaken)
}

func TestItemUpdate_NoCambiaBodega(t *testing.T) {
	s := NewStore()
	seed(t, s)
	ctx := context.Background()

	require.NoError(t, s.Items().Update(ctx, &entity.InventoryItem{ID: "i1", SKU: "SKU-1", Name: "renamed", WarehouseID: "w7"}))
	it, _ := s.Items().GetByID(ctx, "i1")
	assert.Equal(t, "renamed", it.Name)
	assert.Equal(t, "w1", it.WarehouseID)
}

func TestPage(t *testing.T) {
	assert.Equal(t, []int{2, 3}, page([]int{1, 2, 3, 4}, 2, 1))
	assert.Equal(t, []int{}, page([]int{1}, 5, 3))
	assert.Equal(t, []int{1, 2}, page([]int{1, 2}, 0, 0))
}
