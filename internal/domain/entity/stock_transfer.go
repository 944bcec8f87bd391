package entity

import "time"

// TransferStatus estado del ciclo de vida de un traslado entre bodegas.
type TransferStatus string

const (
	TransferPending   TransferStatus = "PENDING"
	TransferApproved  TransferStatus = "APPROVED"
	TransferRejected  TransferStatus = "REJECTED"
	TransferCompleted TransferStatus = "COMPLETED"
)

// transitions PENDING → {APPROVED, REJECTED}; APPROVED → COMPLETED. Los estados terminales no salen.
var transitions = map[TransferStatus][]TransferStatus{
	TransferPending:  {TransferApproved, TransferRejected},
	TransferApproved: {TransferCompleted},
}

// CanTransitionTo indica si el cambio de estado está permitido.
func (s TransferStatus) CanTransitionTo(next TransferStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal true para REJECTED y COMPLETED.
func (s TransferStatus) IsTerminal() bool {
	return s == TransferRejected || s == TransferCompleted
}

// IsOpen true mientras el traslado bloquea el ítem (PENDING o APPROVED).
func (s TransferStatus) IsOpen() bool {
	return s == TransferPending || s == TransferApproved
}

// Valid indica si el estado pertenece a la enumeración.
func (s TransferStatus) Valid() bool {
	switch s {
	case TransferPending, TransferApproved, TransferRejected, TransferCompleted:
		return true
	}
	return false
}

// StockTransfer solicitud de traslado de un ítem de una bodega a otra.
type StockTransfer struct {
	ID              string
	ItemID          string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        int
	Status          TransferStatus
	Notes           string
	RejectReason    string
	RequestedByID   string
	ApprovedByID    *string
	RejectedByID    *string
	CompletedByID   *string
	RequestDate     time.Time
	ApprovedDate    *time.Time
	RejectedDate    *time.Time
	CompletedDate   *time.Time
	UpdatedAt       time.Time
}

// Approve aplica PENDING → APPROVED registrando quién y cuándo.
func (t *StockTransfer) Approve(actorID string, at time.Time) bool {
	if !t.Status.CanTransitionTo(TransferApproved) {
		return false
	}
	t.Status = TransferApproved
	t.ApprovedByID = &actorID
	t.ApprovedDate = &at
	t.UpdatedAt = at
	return true
}

// Reject aplica PENDING → REJECTED.
func (t *StockTransfer) Reject(actorID, reason string, at time.Time) bool {
	if !t.Status.CanTransitionTo(TransferRejected) {
		return false
	}
	t.Status = TransferRejected
	t.RejectedByID = &actorID
	t.RejectedDate = &at
	t.RejectReason = reason
	t.UpdatedAt = at
	return true
}

// Complete aplica APPROVED → COMPLETED.
func (t *StockTransfer) Complete(actorID string, at time.Time) bool {
	if !t.Status.CanTransitionTo(TransferCompleted) {
		return false
	}
	t.Status = TransferCompleted
	t.CompletedByID = &actorID
	t.CompletedDate = &at
	t.UpdatedAt = at
	return true
}
