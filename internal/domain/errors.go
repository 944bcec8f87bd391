package domain

import "errors"

// Errores de dominio (sin dependencias externas). Cada uno define una clase de fallo
// que la capa HTTP traduce a un código de estado.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicate    = errors.New("duplicate resource")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict with current state")
)

// Error es un error de dominio con código legible por máquina.
// Envuelve una de las clases anteriores para que errors.Is siga funcionando.
type Error struct {
	Code    string
	Message string
	Kind    error
}

func (e *Error) Error() string { return e.Message }

// Unwrap devuelve la clase del error.
func (e *Error) Unwrap() error { return e.Kind }

// NewError construye un error de dominio.
func NewError(kind error, code, message string) *Error {
	return &Error{Code: code, Message: message, Kind: kind}
}

// Errores específicos del negocio.
var (
	ErrUserNotFound       = NewError(ErrNotFound, "USER_NOT_FOUND", "user not found")
	ErrWarehouseNotFound  = NewError(ErrNotFound, "WAREHOUSE_NOT_FOUND", "warehouse not found")
	ErrItemNotFound       = NewError(ErrNotFound, "ITEM_NOT_FOUND", "inventory item not found")
	ErrTransferNotFound   = NewError(ErrNotFound, "TRANSFER_NOT_FOUND", "transfer not found")
	ErrEmailAlreadyExists = NewError(ErrDuplicate, "EMAIL_EXISTS", "email already exists")
	ErrSKUExists          = NewError(ErrDuplicate, "SKU_EXISTS", "SKU already exists")
	ErrWarehouseNameTaken = NewError(ErrDuplicate, "WAREHOUSE_NAME_EXISTS", "warehouse name already exists")
	ErrWarehouseNotEmpty  = NewError(ErrInvalidInput, "WAREHOUSE_NOT_EMPTY", "cannot delete warehouse with inventory items")
	ErrWarehouseHasUsers  = NewError(ErrInvalidInput, "WAREHOUSE_HAS_USERS", "cannot delete warehouse with assigned users")
	ErrSameWarehouse      = NewError(ErrInvalidInput, "SAME_WAREHOUSE", "same-warehouse transfer")
	ErrItemNotInSource    = NewError(ErrInvalidInput, "ITEM_NOT_IN_SOURCE", "item not in source warehouse")
	ErrInsufficientQty    = NewError(ErrInvalidInput, "INSUFFICIENT_QUANTITY", "insufficient quantity")
	ErrCrossWarehouse     = NewError(ErrForbidden, "CROSS_WAREHOUSE", "cross-warehouse transfer creation denied")
	ErrApproveOutside     = NewError(ErrForbidden, "CROSS_WAREHOUSE", "cannot approve transfers outside your warehouse")
	ErrCompleteOutside    = NewError(ErrForbidden, "CROSS_WAREHOUSE", "cannot complete transfers for another warehouse")
	ErrRoleEscalation     = NewError(ErrForbidden, "ROLE_ESCALATION", "cannot manage users with this role")
	ErrInvalidTransition  = NewError(ErrConflict, "INVALID_STATE", "transfer is not in a valid state for this operation")
	ErrItemMoved          = NewError(ErrConflict, "ITEM_MOVED", "item is no longer in the source warehouse")
	ErrTransferInProgress = NewError(ErrConflict, "TRANSFER_IN_PROGRESS", "item already has an open transfer")
	ErrInvalidCredentials = NewError(ErrUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	ErrInactiveAccount    = NewError(ErrForbidden, "ACCOUNT_INACTIVE", "account is inactive")
	ErrSelfDelete         = NewError(ErrInvalidInput, "SELF_DELETE", "cannot delete your own account")
	ErrWarehouseRequired  = NewError(ErrInvalidInput, "WAREHOUSE_REQUIRED", "warehouse_id is required")
	ErrInvalidThresholds  = NewError(ErrInvalidInput, "INVALID_THRESHOLDS", "min_stock must not exceed max_stock")
	ErrNegativeCost       = NewError(ErrInvalidInput, "INVALID_UNIT_COST", "unit_cost must not be negative")
	ErrItemInTransfer     = NewError(ErrConflict, "ITEM_IN_TRANSFER", "item has an open transfer")
	ErrInvalidID          = NewError(ErrInvalidInput, "INVALID_ID", "id must be a UUID")
	ErrWarehouseBusy      = NewError(ErrConflict, "WAREHOUSE_IN_TRANSFER", "warehouse has open transfers")
)
