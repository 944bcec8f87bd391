package rbac_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocktransfer-api/internal/domain"
	"github.com/jhoicas/stocktransfer-api/internal/domain/rbac"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de permisos esperada (fixture independiente de la implementación).
// ──────────────────────────────────────────────────────────────────────────────

const (
	c = rbac.ActionCreate
	r = rbac.ActionRead
	u = rbac.ActionUpdate
	d = rbac.ActionDelete
	a = rbac.ActionApprove
)

var expectedGrants = map[rbac.Role]map[rbac.Resource][]rbac.Action{
	rbac.RoleWarehouseManager: {
		rbac.ResourceDashboard:       {r},
		rbac.ResourceWarehouses:      {r, u},
		rbac.ResourceInventory:       {c, r, u, d},
		rbac.ResourceTransfers:       {c, r, u, a},
		rbac.ResourceUsers:           {c, r, u, d},
		rbac.ResourceAudits:          {r},
		rbac.ResourceReports:         {r},
		rbac.ResourceUserWarnings:    {c, r},
		rbac.ResourceWarehouseImages: {c, r, d},
	},
	rbac.RoleInventoryClerk: {
		rbac.ResourceDashboard:       {r},
		rbac.ResourceWarehouses:      {r},
		rbac.ResourceInventory:       {c, r, u},
		rbac.ResourceTransfers:       {c, r, u},
		rbac.ResourceReports:         {r},
		rbac.ResourceWarehouseImages: {r},
	},
	rbac.RoleTechnician: {
		rbac.ResourceDashboard:  {r},
		rbac.ResourceWarehouses: {r},
		rbac.ResourceInventory:  {r, u},
		rbac.ResourceTransfers:  {c, r},
	},
	rbac.RoleAuditor: {
		rbac.ResourceDashboard:  {r},
		rbac.ResourceWarehouses: {r},
		rbac.ResourceInventory:  {r},
		rbac.ResourceTransfers:  {r},
		rbac.ResourceAudits:     {c, r, u},
		rbac.ResourceUsers:      {r},
		rbac.ResourceReports:    {r},
	},
}

func expected(role rbac.Role, res rbac.Resource, act rbac.Action) bool {
	if role == rbac.RoleAdmin {
		return true
	}
	for _, x := range expectedGrants[role][res] {
		if x == act {
			return true
		}
	}
	return false
}

func ptr(s string) *string { return &s }

func TestHasPermission_TablaCompleta(t *testing.T) {
	for _, role := range rbac.Roles() {
		for _, res := range rbac.Resources() {
			for _, act := range rbac.Actions() {
				want := expected(role, res, act)
				got := rbac.HasPermission(role, res, act, nil, nil)
				assert.Equal(t, want, got, "%s %s:%s", role, res, act)
			}
		}
	}
}

func TestHasPermission_FallaCerrado(t *testing.T) {
	assert.False(t, rbac.HasPermission("JANITOR", rbac.ResourceInventory, rbac.ActionRead, nil, nil))
	assert.False(t, rbac.HasPermission(rbac.RoleAdmin, "spaceships", rbac.ActionRead, nil, nil))
	assert.False(t, rbac.HasPermission(rbac.RoleAdmin, rbac.ResourceInventory, "launch", nil, nil))
	assert.False(t, rbac.HasPermission("", "", "", nil, nil))
}

func TestHasPermission_AlcancePorBodega(t *testing.T) {
	w1, w2 := ptr("w1"), ptr("w2")

	assert.True(t, rbac.HasPermission(rbac.RoleWarehouseManager, rbac.ResourceInventory, r, w1, w1))
	assert.False(t, rbac.HasPermission(rbac.RoleWarehouseManager, rbac.ResourceInventory, r, w1, w2))
	assert.False(t, rbac.HasPermission(rbac.RoleInventoryClerk, rbac.ResourceInventory, r, nil, w2),
		"rol restringido sin bodega asignada no accede a ninguna bodega")

	for _, role := range []rbac.Role{rbac.RoleAdmin, rbac.RoleAuditor, rbac.RoleTechnician} {
		assert.True(t, rbac.HasPermission(role, rbac.ResourceInventory, r, w1, w2), role)
		assert.True(t, rbac.HasPermission(role, rbac.ResourceInventory, r, nil, w2), role)
	}
}

func TestCanAccessWarehouse(t *testing.T) {
	warehouses := []string{"w1", "w2", "w3"}

	t.Run("roles restringidos", func(t *testing.T) {
		for _, role := range []rbac.Role{rbac.RoleWarehouseManager, rbac.RoleInventoryClerk} {
			for _, w1 := range warehouses {
				for _, w2 := range warehouses {
					assert.Equal(t, w1 == w2, rbac.CanAccessWarehouse(role, ptr(w1), w2), "%s %s→%s", role, w1, w2)
				}
				assert.False(t, rbac.CanAccessWarehouse(role, nil, w1))
			}
		}
	})

	t.Run("roles globales", func(t *testing.T) {
		for _, role := range []rbac.Role{rbac.RoleAdmin, rbac.RoleAuditor, rbac.RoleTechnician} {
			for _, w := range warehouses {
				assert.True(t, rbac.CanAccessWarehouse(role, nil, w))
				assert.True(t, rbac.CanAccessWarehouse(role, ptr("other"), w))
			}
		}
	})

	assert.False(t, rbac.CanAccessWarehouse("GHOST", ptr("w1"), "w1"))
}

func TestAccessibleRoutes_OrdenFijo(t *testing.T) {
	sections := func(routes []rbac.Route) []rbac.Resource {
		out := make([]rbac.Resource, 0, len(routes))
		for _, rt := range routes {
			out = append(out, rt.Section)
		}
		return out
	}

	assert.Equal(t, []rbac.Resource{
		rbac.ResourceDashboard, rbac.ResourceWarehouses, rbac.ResourceInventory, rbac.ResourceTransfers,
		rbac.ResourceAudits, rbac.ResourceUsers, rbac.ResourceReports, rbac.ResourceSettings,
	}, sections(rbac.AccessibleRoutes(rbac.RoleAdmin, nil)))

	assert.Equal(t, []rbac.Resource{
		rbac.ResourceDashboard, rbac.ResourceWarehouses, rbac.ResourceInventory, rbac.ResourceTransfers,
	}, sections(rbac.AccessibleRoutes(rbac.RoleTechnician, nil)))

	assert.Equal(t, []rbac.Resource{
		rbac.ResourceDashboard, rbac.ResourceWarehouses, rbac.ResourceInventory, rbac.ResourceTransfers,
		rbac.ResourceReports,
	}, sections(rbac.AccessibleRoutes(rbac.RoleInventoryClerk, ptr("w1"))))

	assert.Empty(t, rbac.AccessibleRoutes("NOBODY", nil))
	assert.Equal(t, "/dashboard", rbac.AccessibleRoutes(rbac.RoleAuditor, nil)[0].Path)
}

func TestCanManageRole_Jerarquia(t *testing.T) {
	for _, actor := range rbac.Roles() {
		for _, target := range rbac.Roles() {
			assert.Equal(t, rbac.Rank(actor) > rbac.Rank(target), rbac.CanManageRole(actor, target), "%s→%s", actor, target)
		}
	}
	assert.False(t, rbac.CanManageRole(rbac.RoleAdmin, "UNKNOWN"))
}

func TestCanAssignRole_Excepciones(t *testing.T) {
	// Sólo ADMIN crea ADMIN.
	assert.True(t, rbac.CanAssignRole(rbac.RoleAdmin, rbac.RoleAdmin))
	for _, role := range rbac.Roles()[1:] {
		assert.False(t, rbac.CanAssignRole(role, rbac.RoleAdmin), role)
	}

	// WAREHOUSE_MANAGER sólo crea INVENTORY_CLERK o TECHNICIAN.
	assert.True(t, rbac.CanAssignRole(rbac.RoleWarehouseManager, rbac.RoleInventoryClerk))
	assert.True(t, rbac.CanAssignRole(rbac.RoleWarehouseManager, rbac.RoleTechnician))
	assert.False(t, rbac.CanAssignRole(rbac.RoleWarehouseManager, rbac.RoleAuditor))
	assert.False(t, rbac.CanAssignRole(rbac.RoleWarehouseManager, rbac.RoleWarehouseManager))

	assert.False(t, rbac.CanAssignRole(rbac.RoleAdmin, "ROOT"))
}

func TestAuthorize(t *testing.T) {
	manager := rbac.Actor{UserID: "u1", Role: rbac.RoleWarehouseManager, WarehouseID: ptr("w1")}

	require.NoError(t, rbac.Authorize(manager, rbac.ResourceTransfers, a, ptr("w1")))

	err := rbac.Authorize(manager, rbac.ResourceTransfers, a, ptr("w2"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Contains(t, err.Error(), "transfers:approve")

	auditor := rbac.Actor{UserID: "u2", Role: rbac.RoleAuditor}
	err = rbac.Authorize(auditor, rbac.ResourceInventory, c, nil)
	var denied *rbac.DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "inventory:create", denied.Permission.String())
}

func TestScopeWarehouse(t *testing.T) {
	admin := rbac.Actor{Role: rbac.RoleAdmin}
	got, err := rbac.ScopeWarehouse(admin, rbac.ResourceInventory, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = rbac.ScopeWarehouse(admin, rbac.ResourceInventory, ptr("w9"))
	require.NoError(t, err)
	assert.Equal(t, "w9", *got)

	clerk := rbac.Actor{Role: rbac.RoleInventoryClerk, WarehouseID: ptr("w1")}
	got, err = rbac.ScopeWarehouse(clerk, rbac.ResourceInventory, nil)
	require.NoError(t, err)
	assert.Equal(t, "w1", *got)

	_, err = rbac.ScopeWarehouse(clerk, rbac.ResourceInventory, ptr("w2"))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = rbac.ScopeWarehouse(rbac.Actor{Role: rbac.RoleInventoryClerk}, rbac.ResourceInventory, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGrants_DevuelveCopia(t *testing.T) {
	first := rbac.Grants(rbac.RoleTechnician)
	require.NotEmpty(t, first)
	first[0] = rbac.Permission{Resource: rbac.ResourceSettings, Action: d}

	assert.False(t, rbac.HasPermission(rbac.RoleTechnician, rbac.ResourceSettings, d, nil, nil))
	assert.NotEqual(t, first[0], rbac.Grants(rbac.RoleTechnician)[0])
	assert.Nil(t, rbac.Grants("UNKNOWN"))
}
