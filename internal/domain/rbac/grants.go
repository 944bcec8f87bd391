package rbac

// grantTable es la configuración Role → Resource → {Action}.
// Se construye una sola vez al iniciar el proceso y no se modifica nunca; sólo se
// expone a través de funciones de lectura que devuelven copias.
var grantTable = buildGrants()

type actionSet map[Action]struct{}

func set(actions ...Action) actionSet {
	s := make(actionSet, len(actions))
	for _, a := range actions {
		s[a] = struct{}{}
	}
	return s
}

func buildGrants() map[Role]map[Resource]actionSet {
	crud := []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}

	admin := make(map[Resource]actionSet, len(Resources()))
	for _, res := range Resources() {
		admin[res] = set(Actions()...)
	}

	return map[Role]map[Resource]actionSet{
		RoleAdmin: admin,
		RoleWarehouseManager: {
			ResourceDashboard:       set(ActionRead),
			ResourceWarehouses:      set(ActionRead, ActionUpdate),
			ResourceInventory:       set(crud...),
			ResourceTransfers:       set(ActionCreate, ActionRead, ActionUpdate, ActionApprove),
			ResourceUsers:           set(crud...),
			ResourceAudits:          set(ActionRead),
			ResourceReports:         set(ActionRead),
			ResourceUserWarnings:    set(ActionCreate, ActionRead),
			ResourceWarehouseImages: set(ActionCreate, ActionRead, ActionDelete),
		},
		RoleInventoryClerk: {
			ResourceDashboard:       set(ActionRead),
			ResourceWarehouses:      set(ActionRead),
			ResourceInventory:       set(ActionCreate, ActionRead, ActionUpdate),
			ResourceTransfers:       set(ActionCreate, ActionRead, ActionUpdate),
			ResourceReports:         set(ActionRead),
			ResourceWarehouseImages: set(ActionRead),
		},
		RoleTechnician: {
			ResourceDashboard:  set(ActionRead),
			ResourceWarehouses: set(ActionRead),
			ResourceInventory:  set(ActionRead, ActionUpdate),
			ResourceTransfers:  set(ActionCreate, ActionRead),
		},
		RoleAuditor: {
			ResourceDashboard:  set(ActionRead),
			ResourceWarehouses: set(ActionRead),
			ResourceInventory:  set(ActionRead),
			ResourceTransfers:  set(ActionRead),
			ResourceAudits:     set(ActionCreate, ActionRead, ActionUpdate),
			ResourceUsers:      set(ActionRead),
			ResourceReports:    set(ActionRead),
		},
	}
}

// Grants devuelve una copia de los permisos del rol, ordenados por recurso y acción.
func Grants(role Role) []Permission {
	byResource, ok := grantTable[role]
	if !ok {
		return nil
	}
	var out []Permission
	for _, res := range Resources() {
		actions, ok := byResource[res]
		if !ok {
			continue
		}
		for _, a := range Actions() {
			if _, ok := actions[a]; ok {
				out = append(out, Permission{Resource: res, Action: a})
			}
		}
	}
	return out
}

func granted(role Role, resource Resource, action Action) bool {
	byResource, ok := grantTable[role]
	if !ok {
		return false
	}
	actions, ok := byResource[resource]
	if !ok {
		return false
	}
	_, ok = actions[action]
	return ok
}
