package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocktransfer-api/internal/application/dto"
	"github.com/jhoicas/stocktransfer-api/internal/application/inventory"
	"github.com/jhoicas/stocktransfer-api/internal/domain"
	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
	"github.com/jhoicas/stocktransfer-api/internal/domain/rbac"
	"github.com/jhoicas/stocktransfer-api/internal/domain/repository"
	"github.com/jhoicas/stocktransfer-api/internal/infrastructure/memory"
	"github.com/jhoicas/stocktransfer-api/pkg/metrics"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: dos bodegas (A, B), un ítem en A y un actor por rol.
// ──────────────────────────────────────────────────────────────────────────────

const (
	whA   = "wh-a"
	whB   = "wh-b"
	whC   = "wh-c"
	itemX = "item-x"
)

type fixture struct {
	store   *memory.Store
	uc      *inventory.TransferUseCase
	metrics *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	for _, id := range []string{whA, whB, whC} {
		require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{ID: id, Name: id, Capacity: 10, Status: entity.WarehouseStatusActive}))
	}
	require.NoError(t, store.Items().Create(ctx, &entity.InventoryItem{
		ID: itemX, SKU: "RTR-AX3000", Name: "Router AX3000", Quantity: 4, MinStock: 1,
		UnitCost: decimal.NewFromInt(120), Status: entity.StockStatusInStock, WarehouseID: whA,
	}))
	m := metrics.New("test")
	uc := inventory.NewTransferUseCase(store, store.Transfers(), store.Items(), store.Warehouses(), nil, m)
	return &fixture{store: store, uc: uc, metrics: m}
}

func wh(id string) *string { return &id }

var (
	admin      = rbac.Actor{UserID: "u-admin", Role: rbac.RoleAdmin}
	managerA   = rbac.Actor{UserID: "u-mgr-a", Role: rbac.RoleWarehouseManager, WarehouseID: wh(whA)}
	managerB   = rbac.Actor{UserID: "u-mgr-b", Role: rbac.RoleWarehouseManager, WarehouseID: wh(whB)}
	clerkA     = rbac.Actor{UserID: "u-clerk-a", Role: rbac.RoleInventoryClerk, WarehouseID: wh(whA)}
	clerkB     = rbac.Actor{UserID: "u-clerk-b", Role: rbac.RoleInventoryClerk, WarehouseID: wh(whB)}
	technician = rbac.Actor{UserID: "u-tech", Role: rbac.RoleTechnician}
	auditor    = rbac.Actor{UserID: "u-aud", Role: rbac.RoleAuditor}
)

func (f *fixture) create(t *testing.T, actor rbac.Actor) *dto.TransferResponse {
	t.Helper()
	tr, err := f.uc.Create(context.Background(), actor, dto.CreateTransferRequest{
		ItemID: itemX, FromWarehouseID: whA, ToWarehouseID: whB,
	})
	require.NoError(t, err)
	return tr
}

func (f *fixture) item(t *testing.T) *entity.InventoryItem {
	t.Helper()
	it, err := f.store.Items().GetByID(context.Background(), itemX)
	require.NoError(t, err)
	return it
}

func codeOf(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_Pendiente(t *testing.T) {
	f := newFixture(t)
	tr := f.create(t, managerA)

	assert.Equal(t, string(entity.TransferPending), tr.Status)
	assert.Equal(t, 4, tr.Quantity, "cantidad 0 toma la cantidad completa del ítem")
	assert.Equal(t, managerA.UserID, tr.RequestedByID)
	assert.False(t, tr.RequestDate.IsZero())
	assert.Nil(t, tr.ApprovedByID)

	audits, _ := f.store.Audits().List(context.Background(), repository.AuditFilter{EntityID: tr.ID})
	require.Len(t, audits, 1)
	assert.Equal(t, entity.AuditTransferCreate, audits[0].Action)
}

func TestCreate_MismaBodegaFallaParaTodoRol(t *testing.T) {
	f := newFixture(t)
	for _, actor := range []rbac.Actor{admin, managerA, clerkA, technician} {
		_, err := f.uc.Create(context.Background(), actor, dto.CreateTransferRequest{
			ItemID: itemX, FromWarehouseID: whA, ToWarehouseID: whA,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, actor.Role)
		assert.Equal(t, "SAME_WAREHOUSE", codeOf(err), actor.Role)
	}
	// AUDITOR no tiene transfers:create: el permiso se evalúa primero.
	_, err := f.uc.Create(context.Background(), auditor, dto.CreateTransferRequest{ItemID: itemX, FromWarehouseID: whA, ToWarehouseID: whA})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Escenario A: gerente de W1 pide un traslado con origen W2.
func TestCreate_CrossWarehouse(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), managerB, dto.CreateTransferRequest{
		ItemID: itemX, FromWarehouseID: whA, ToWarehouseID: whC,
	})
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "cross-warehouse transfer creation denied", err.Error())

	// Los roles globales no tienen esa restricción.
	_, err = f.uc.Create(context.Background(), technician, dto.CreateTransferRequest{
		ItemID: itemX, FromWarehouseID: whA, ToWarehouseID: whC,
	})
	assert.NoError(t, err)
}

func TestCreate_Validaciones(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		in   dto.CreateTransferRequest
		kind error
		code string
	}{
		{"ítem inexistente", dto.CreateTransferRequest{ItemID: "nope", FromWarehouseID: whA, ToWarehouseID: whB}, domain.ErrNotFound, "ITEM_NOT_FOUND"},
		{"ítem fuera del origen", dto.CreateTransferRequest{ItemID: itemX, FromWarehouseID: whB, ToWarehouseID: whC}, domain.ErrInvalidInput, "ITEM_NOT_IN_SOURCE"},
		{"bodega destino inexistente", dto.CreateTransferRequest{ItemID: itemX, FromWarehouseID: whA, ToWarehouseID: "wh-zzz"}, domain.ErrNotFound, "WAREHOUSE_NOT_FOUND"},
		{"cantidad excesiva", dto.CreateTransferRequest{ItemID: itemX, FromWarehouseID: whA, ToWarehouseID: whB, Quantity: 5}, domain.ErrInvalidInput, "INSUFFICIENT_QUANTITY"},
		{"cantidad negativa", dto.CreateTransferRequest{ItemID: itemX, FromWarehouseID: whA, ToWarehouseID: whB, Quantity: -1}, domain.ErrInvalidInput, "INSUFFICIENT_QUANTITY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.uc.Create(ctx, admin, tc.in)
			require.ErrorIs(t, err, tc.kind)
			assert.Equal(t, tc.code, codeOf(err))

			list, _ := f.store.Transfers().List(ctx, repository.TransferFilter{})
			assert.Empty(t, list, "no se persiste nada")
		})
	}
}

func TestCreate_UnTrasladoAbiertoPorItem(t *testing.T) {
	f := newFixture(t)
	f.create(t, managerA)

	_, err := f.uc.Create(context.Background(), managerA, dto.CreateTransferRequest{ItemID: itemX, FromWarehouseID: whA, ToWarehouseID: whC})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "TRANSFER_IN_PROGRESS", codeOf(err))
}

// ──────────────────────────────────────────────────────────────────────────────
// Approve
// ──────────────────────────────────────────────────────────────────────────────

// Escenario C: tras aprobar, el ítem queda en B con IN_STOCK y el traslado registra aprobador y fecha.
func TestApprove_MueveItem(t *testing.T) {
	f := newFixture(t)
	tr := f.create(t, clerkA)

	out, err := f.uc.Approve(context.Background(), managerA, tr.ID)
	require.NoError(t, err)

	assert.Equal(t, string(entity.TransferApproved), out.Status)
	require.NotNil(t, out.ApprovedByID)
	assert.Equal(t, managerA.UserID, *out.ApprovedByID)
	require.NotNil(t, out.ApprovedDate)

	it := f.item(t)
	assert.Equal(t, whB, it.WarehouseID)
	assert.Equal(t, entity.StockStatusInStock, it.Status)
	assert.Equal(t, 4, it.Quantity, "modelo de unidad única: sin aritmética de cantidades")

	stored, _ := f.store.Transfers().GetByID(context.Background(), tr.ID)
	assert.Equal(t, entity.TransferApproved, stored.Status)
}

func TestApprove_FueraDeSuBodega(t *testing.T) {
	f := newFixture(t)
	tr := f.create(t, admin)

	_, err := f.uc.Approve(context.Background(), managerB, tr.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "cannot approve transfers outside your warehouse", err.Error())

	_, err = f.uc.Approve(context.Background(), clerkA, tr.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "INVENTORY_CLERK no tiene transfers:approve")

	assert.Equal(t, whA, f.item(t).WarehouseID)
}

func TestApprove_NoPendiente(t *testing.T) {
	f := newFixture(t)
	tr := f.create(t, managerA)
	_, err := f.uc.Approve(context.Background(), managerA, tr.ID)
	require.NoError(t, err)

	_, err = f.uc.Approve(context.Background(), managerA, tr.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "INVALID_STATE", codeOf(err))

	_, err = f.uc.Approve(context.Background(), admin, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApprove_ItemMovidoOBorrado(t *testing.T) {
	ctx := context.Background()

	t.Run("movido", func(t *testing.T) {
		f := newFixture(t)
		tr := f.create(t, managerA)
		require.NoError(t, f.store.Items().MoveToWarehouse(ctx, itemX, whA, whC, entity.StockStatusInStock))

		_, err := f.uc.Approve(ctx, admin, tr.ID)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, "ITEM_MOVED", codeOf(err))

		stored, _ := f.store.Transfers().GetByID(ctx, tr.ID)
		assert.Equal(t, entity.TransferPending, stored.Status, "la aprobación no se aplica parcialmente")
		assert.Nil(t, stored.ApprovedByID)
	})

	t.Run("borrado", func(t *testing.T) {
		f := newFixture(t)
		tr := f.create(t, managerA)
		require.NoError(t, f.store.Items().Delete(ctx, itemX))

		_, err := f.uc.Approve(ctx, admin, tr.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		stored, _ := f.store.Transfers().GetByID(ctx, tr.ID)
		assert.Equal(t, entity.TransferPending, stored.Status)
	})
}

// Una bodega destino eliminada después de la solicitud no puede recibir el ítem.
func TestApprove_DestinoEliminado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.create(t, admin)
	require.NoError(t, f.store.Warehouses().Delete(ctx, whB))

	_, err := f.uc.Approve(ctx, admin, tr.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "WAREHOUSE_NOT_FOUND", codeOf(err))

	assert.Equal(t, whA, f.item(t).WarehouseID, "el ítem sigue en una bodega existente")
	stored, _ := f.store.Transfers().GetByID(ctx, tr.ID)
	assert.Equal(t, entity.TransferPending, stored.Status)
}

// La cantidad se vuelve a validar al aprobar: el ítem pudo quedar sin existencias.
func TestApprove_CantidadReducida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.create(t, managerA)
	require.Equal(t, 4, tr.Quantity)

	it := f.item(t)
	it.Quantity = 0
	it.Status = entity.StockStatusOutOfStock
	require.NoError(t, f.store.Items().Update(ctx, it))

	_, err := f.uc.Approve(ctx, managerA, tr.ID)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "INSUFFICIENT_QUANTITY", codeOf(err))

	after := f.item(t)
	assert.Equal(t, whA, after.WarehouseID)
	assert.Equal(t, entity.StockStatusOutOfStock, after.Status)
	stored, _ := f.store.Transfers().GetByID(ctx, tr.ID)
	assert.Equal(t, entity.TransferPending, stored.Status)
}

// Las entradas de bitácora de un traslado son visibles desde ambas bodegas.
func TestAuditoria_OrigenYDestino(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.create(t, managerA)
	_, err := f.uc.Approve(ctx, managerA, tr.ID)
	require.NoError(t, err)

	for _, id := range []string{whA, whB} {
		audits, err := f.store.Audits().List(ctx, repository.AuditFilter{WarehouseID: wh(id), EntityID: tr.ID})
		require.NoError(t, err)
		require.Len(t, audits, 2, "create + approve vistos desde %s", id)
		assert.Equal(t, whA, *audits[0].WarehouseID)
		assert.Equal(t, whB, *audits[0].RelatedWarehouseID)
	}
}

func TestApprove_ConcurrenteUnSoloGanador(t *testing.T) {
	f := newFixture(t)
	tr := f.create(t, managerA)

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Approve(context.Background(), admin, tr.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
	assert.Equal(t, whB, f.item(t).WarehouseID)

	items, _ := f.store.Items().List(context.Background(), repository.ItemFilter{})
	assert.Len(t, items, 1, "el ítem no se duplica ni se pierde")

	audits, _ := f.store.Audits().List(context.Background(), repository.AuditFilter{EntityID: tr.ID})
	assert.Len(t, audits, 2, "create + un único approve")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reject / Complete
// ──────────────────────────────────────────────────────────────────────────────

func TestReject_SinEfectosEnInventario(t *testing.T) {
	f := newFixture(t)
	tr := f.create(t, managerA)

	out, err := f.uc.Reject(context.Background(), managerA, tr.ID, "no hay transporte")
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransferRejected), out.Status)
	require.NotNil(t, out.RejectedByID)
	assert.Equal(t, "no hay transporte", out.RejectReason)
	assert.Equal(t, whA, f.item(t).WarehouseID)

	// Reintentos sobre un traslado rechazado fallan limpio y no lo modifican.
	before, _ := f.store.Transfers().GetByID(context.Background(), tr.ID)
	_, err = f.uc.Reject(context.Background(), managerA, tr.ID, "otra vez")
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.uc.Approve(context.Background(), managerA, tr.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	after, _ := f.store.Transfers().GetByID(context.Background(), tr.ID)
	assert.Equal(t, before, after)

	// Rechazado libera el ítem para un nuevo traslado.
	_, err = f.uc.Create(context.Background(), managerA, dto.CreateTransferRequest{ItemID: itemX, FromWarehouseID: whA, ToWarehouseID: whC})
	assert.NoError(t, err)
}

func TestComplete(t *testing.T) {
	f := newFixture(t)
	tr := f.create(t, managerA)
	ctx := context.Background()

	_, err := f.uc.Complete(ctx, clerkB, tr.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "PENDING no se puede completar")

	_, err = f.uc.Approve(ctx, managerA, tr.ID)
	require.NoError(t, err)

	_, err = f.uc.Complete(ctx, clerkA, tr.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "sólo la bodega destino completa")
	_, err = f.uc.Complete(ctx, technician, tr.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "TECHNICIAN no tiene transfers:update")

	out, err := f.uc.Complete(ctx, clerkB, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.TransferCompleted), out.Status)
	require.NotNil(t, out.CompletedDate)
	assert.Equal(t, whB, f.item(t).WarehouseID)

	_, err = f.uc.Complete(ctx, clerkB, tr.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// List / Get
// ──────────────────────────────────────────────────────────────────────────────

func TestList_AlcancePorBodega(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tr := f.create(t, managerA)

	res, err := f.uc.List(ctx, clerkB, dto.TransferListRequest{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1, "B es destino")

	managerC := rbac.Actor{UserID: "u-mgr-c", Role: rbac.RoleWarehouseManager, WarehouseID: wh(whC)}
	res, err = f.uc.List(ctx, managerC, dto.TransferListRequest{})
	require.NoError(t, err)
	assert.Empty(t, res.Items)

	_, err = f.uc.List(ctx, managerC, dto.TransferListRequest{WarehouseID: whA})
	assert.ErrorIs(t, err, domain.ErrForbidden, "filtro explícito fuera de alcance")

	res, err = f.uc.List(ctx, auditor, dto.TransferListRequest{WarehouseID: whA, Status: "PENDING"})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	_, err = f.uc.Get(ctx, managerC, tr.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	got, err := f.uc.Get(ctx, auditor, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.ID)
}

func TestMetricas(t *testing.T) {
	f := newFixture(t)
	tr := f.create(t, managerA)
	_, _ = f.uc.Approve(context.Background(), managerB, tr.ID)

	assert.Equal(t, 1.0, counter(f.metrics, "create", "ok"))
	assert.Equal(t, 1.0, counter(f.metrics, "approve", "denied"))
}
