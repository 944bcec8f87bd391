package rbac

import (
	"fmt"

	"github.com/jhoicas/stocktransfer-api/internal/domain"
)

// IsGlobalScoped indica si el rol puede operar sobre cualquier bodega.
// Es la única definición del conjunto de roles privilegiados.
func IsGlobalScoped(role Role) bool {
	switch role {
	case RoleAdmin, RoleAuditor, RoleTechnician:
		return true
	}
	return false
}

// HasPermission decide si el rol tiene la acción sobre el recurso. Si se indica una bodega
// destino y el rol está restringido a su bodega, además exige que ambas coincidan.
// Falla cerrado: rol o recurso desconocido devuelve false.
func HasPermission(role Role, resource Resource, action Action, actorWarehouseID, targetWarehouseID *string) bool {
	if !granted(role, resource, action) {
		return false
	}
	if targetWarehouseID == nil || IsGlobalScoped(role) {
		return true
	}
	return actorWarehouseID != nil && *actorWarehouseID == *targetWarehouseID
}

// CanAccessWarehouse indica si el rol (con su bodega asignada) puede actuar sobre la bodega destino.
func CanAccessWarehouse(role Role, actorWarehouseID *string, targetWarehouseID string) bool {
	if IsGlobalScoped(role) {
		return true
	}
	if !role.Valid() || actorWarehouseID == nil {
		return false
	}
	return *actorWarehouseID == targetWarehouseID
}

// routeOrder orden fijo de prioridad de las secciones navegables.
var routeOrder = []Resource{
	ResourceDashboard, ResourceWarehouses, ResourceInventory, ResourceTransfers,
	ResourceAudits, ResourceUsers, ResourceReports, ResourceSettings,
}

// AccessibleRoutes lista las secciones que el rol puede leer. Sólo sirve para navegación;
// los handlers vuelven a verificar permisos.
func AccessibleRoutes(role Role, warehouseID *string) []Route {
	routes := make([]Route, 0, len(routeOrder))
	for _, section := range routeOrder {
		if HasPermission(role, section, ActionRead, warehouseID, nil) {
			routes = append(routes, Route{Section: section, Path: "/" + string(section)})
		}
	}
	return routes
}

// Rank jerarquía del rol; 0 para roles desconocidos.
func Rank(role Role) int {
	switch role {
	case RoleAdmin:
		return 5
	case RoleWarehouseManager:
		return 4
	case RoleInventoryClerk:
		return 3
	case RoleTechnician:
		return 2
	case RoleAuditor:
		return 1
	}
	return 0
}

// CanManageRole true sólo si el actor tiene rango estrictamente mayor que el destino.
func CanManageRole(actorRole, targetRole Role) bool {
	return Rank(actorRole) > Rank(targetRole) && Rank(targetRole) > 0
}

// CanAssignRole aplica las excepciones sobre la jerarquía al crear o gestionar usuarios:
// ADMIN puede asignar cualquier rol (incluido ADMIN); WAREHOUSE_MANAGER sólo
// INVENTORY_CLERK o TECHNICIAN; el resto sigue CanManageRole.
func CanAssignRole(actorRole, targetRole Role) bool {
	if !targetRole.Valid() {
		return false
	}
	switch actorRole {
	case RoleAdmin:
		return true
	case RoleWarehouseManager:
		return targetRole == RoleInventoryClerk || targetRole == RoleTechnician
	}
	return CanManageRole(actorRole, targetRole)
}

// DeniedError describe una autorización denegada. Envuelve domain.ErrForbidden.
type DeniedError struct {
	Permission Permission
	Reason     string
}

func (e *DeniedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("forbidden: %s (%s)", e.Permission, e.Reason)
	}
	return fmt.Sprintf("forbidden: requires %s", e.Permission)
}

// Unwrap permite errors.Is(err, domain.ErrForbidden).
func (e *DeniedError) Unwrap() error { return domain.ErrForbidden }

// Authorize es el chequeo único de capacidad (recurso, acción, alcance) que usan todos
// los casos de uso. Devuelve nil si está permitido o un *DeniedError.
func Authorize(actor Actor, resource Resource, action Action, targetWarehouseID *string) error {
	perm := Permission{Resource: resource, Action: action}
	if !granted(actor.Role, resource, action) {
		return &DeniedError{Permission: perm}
	}
	if !HasPermission(actor.Role, resource, action, actor.WarehouseID, targetWarehouseID) {
		return &DeniedError{Permission: perm, Reason: "outside your warehouse"}
	}
	return nil
}

// ScopeWarehouse resuelve el filtro de bodega de un listado. Los actores globales conservan
// el filtro pedido (nil = todas); los restringidos reciben siempre su bodega y pedir otra
// es un error de autorización.
func ScopeWarehouse(actor Actor, resource Resource, requested *string) (*string, error) {
	if IsGlobalScoped(actor.Role) {
		return requested, nil
	}
	if actor.WarehouseID == nil {
		return nil, &DeniedError{Permission: Permission{Resource: resource, Action: ActionRead}, Reason: "no warehouse assigned"}
	}
	if requested != nil && *requested != *actor.WarehouseID {
		return nil, &DeniedError{Permission: Permission{Resource: resource, Action: ActionRead}, Reason: "outside your warehouse"}
	}
	own := *actor.WarehouseID
	return &own, nil
}
