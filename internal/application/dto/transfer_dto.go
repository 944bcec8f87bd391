package dto

import "time"

// CreateTransferRequest body para POST /api/transfers. Quantity 0 = cantidad completa del ítem.
type CreateTransferRequest struct {
	ItemID          string `json:"item_id" validate:"required,uuid"`
	FromWarehouseID string `json:"from_warehouse_id" validate:"required,uuid"`
	ToWarehouseID   string `json:"to_warehouse_id" validate:"required,uuid"`
	Quantity        int    `json:"quantity" validate:"min=0"`
	Notes           string `json:"notes" validate:"max=1000"`
}

// RejectTransferRequest body opcional para POST /api/transfers/:id/reject.
type RejectTransferRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// TransferListRequest filtros de GET /api/transfers.
type TransferListRequest struct {
	PageRequest
	WarehouseID string `query:"warehouse_id" validate:"omitempty,uuid"`
	Status      string `query:"status" validate:"omitempty,transfer_status"`
	ItemID      string `query:"item_id" validate:"omitempty,uuid"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID              string     `json:"id"`
	ItemID          string     `json:"item_id"`
	FromWarehouseID string     `json:"from_warehouse_id"`
	ToWarehouseID   string     `json:"to_warehouse_id"`
	Quantity        int        `json:"quantity"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	RejectReason    string     `json:"reject_reason,omitempty"`
	RequestedByID   string     `json:"requested_by_id"`
	ApprovedByID    *string    `json:"approved_by_id"`
	RejectedByID    *string    `json:"rejected_by_id"`
	CompletedByID   *string    `json:"completed_by_id"`
	RequestDate     time.Time  `json:"request_date"`
	ApprovedDate    *time.Time `json:"approved_date"`
	RejectedDate    *time.Time `json:"rejected_date"`
	CompletedDate   *time.Time `json:"completed_date"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
