// Package rbac contiene el modelo de autorización: roles, recursos, acciones,
// la tabla estática de permisos y el motor de decisiones (funciones puras).
package rbac

// Role rol de un usuario. Conjunto cerrado.
type Role string

const (
	RoleAdmin            Role = "ADMIN"
	RoleWarehouseManager Role = "WAREHOUSE_MANAGER"
	RoleInventoryClerk   Role = "INVENTORY_CLERK"
	RoleTechnician       Role = "TECHNICIAN"
	RoleAuditor          Role = "AUDITOR"
)

// Roles devuelve todos los roles conocidos, de mayor a menor jerarquía.
func Roles() []Role {
	return []Role{RoleAdmin, RoleWarehouseManager, RoleInventoryClerk, RoleTechnician, RoleAuditor}
}

// Valid indica si el rol pertenece a la enumeración.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleWarehouseManager, RoleInventoryClerk, RoleTechnician, RoleAuditor:
		return true
	}
	return false
}

// Resource categoría de entidad sujeta a chequeo de permisos.
type Resource string

const (
	ResourceUsers           Resource = "users"
	ResourceWarehouses      Resource = "warehouses"
	ResourceInventory       Resource = "inventory"
	ResourceTransfers       Resource = "transfers"
	ResourceAudits          Resource = "audits"
	ResourceReports         Resource = "reports"
	ResourceSettings        Resource = "settings"
	ResourceDashboard       Resource = "dashboard"
	ResourceUserWarnings    Resource = "user-warnings"
	ResourceWarehouseImages Resource = "warehouse-images"
)

// Resources devuelve todos los recursos conocidos.
func Resources() []Resource {
	return []Resource{
		ResourceUsers, ResourceWarehouses, ResourceInventory, ResourceTransfers, ResourceAudits,
		ResourceReports, ResourceSettings, ResourceDashboard, ResourceUserWarnings, ResourceWarehouseImages,
	}
}

// Action operación sobre un recurso.
type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
)

// Actions devuelve todas las acciones conocidas.
func Actions() []Action {
	return []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionApprove}
}

// Permission par recurso + acción.
type Permission struct {
	Resource Resource `json:"resource"`
	Action   Action   `json:"action"`
}

// String devuelve la forma "resource:action".
func (p Permission) String() string {
	return string(p.Resource) + ":" + string(p.Action)
}

// Actor identidad autenticada que ejecuta una petición.
// WarehouseID nil = actor de alcance global.
type Actor struct {
	UserID      string
	Email       string
	Role        Role
	WarehouseID *string
}

// Route sección navegable de la aplicación.
type Route struct {
	Section Resource `json:"section"`
	Path    string   `json:"path"`
}
