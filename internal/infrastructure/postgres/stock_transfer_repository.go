package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stocktransfer-api/internal/domain"
	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
	"github.com/jhoicas/stocktransfer-api/internal/domain/repository"
)

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

// StockTransferRepo implementación de StockTransferRepository sobre PostgreSQL (usable con pool o tx).
type StockTransferRepo struct {
	q Querier
}

// NewStockTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransferRepository(q Querier) *StockTransferRepo {
	return &StockTransferRepo{q: q}
}

const transferColumns = `id, item_id, from_warehouse_id, to_warehouse_id, quantity, status, notes, reject_reason,
	requested_by_id, approved_by_id, rejected_by_id, completed_by_id,
	request_date, approved_date, rejected_date, completed_date, updated_at`

// Create persiste un traslado. El índice parcial de traslados abiertos rechaza un
// segundo traslado PENDING/APPROVED del mismo ítem.
func (r *StockTransferRepo) Create(ctx context.Context, t *entity.StockTransfer) error {
	query := `
		INSERT INTO stock_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.ItemID, t.FromWarehouseID, t.ToWarehouseID, t.Quantity, string(t.Status), t.Notes, t.RejectReason,
		t.RequestedByID, t.ApprovedByID, t.RejectedByID, t.CompletedByID,
		t.RequestDate, t.ApprovedDate, t.RejectedDate, t.CompletedDate, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) && violatedConstraint(err) == "stock_transfers_open_item_key" {
			return domain.ErrTransferInProgress
		}
		return fmt.Errorf("insert stock transfer: %w", err)
	}
	return nil
}

// GetByID obtiene un traslado por ID.
func (r *StockTransferRepo) GetByID(ctx context.Context, id string) (*entity.StockTransfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, `SELECT `+transferColumns+` FROM stock_transfers WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get stock transfer: %w", err)
	}
	return t, nil
}

// List lista traslados, los más recientes primero.
func (r *StockTransferRepo) List(ctx context.Context, f repository.TransferFilter) ([]*entity.StockTransfer, error) {
	limit, offset := pageArgs(f.Limit, f.Offset)
	query := `
		SELECT ` + transferColumns + `
		FROM stock_transfers
		WHERE ($1::uuid IS NULL OR from_warehouse_id = $1 OR to_warehouse_id = $1)
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR item_id::text = $3)
		ORDER BY request_date DESC, id
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, f.WarehouseID, string(f.Status), f.ItemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock transfers: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// HasOpenForItem true si el ítem tiene un traslado PENDING o APPROVED.
func (r *StockTransferRepo) HasOpenForItem(ctx context.Context, itemID string) (bool, error) {
	var open bool
	query := `SELECT EXISTS (SELECT 1 FROM stock_transfers WHERE item_id = $1 AND status IN ('PENDING', 'APPROVED'))`
	if err := r.q.QueryRow(ctx, query, itemID).Scan(&open); err != nil {
		return false, fmt.Errorf("check open transfer: %w", err)
	}
	return open, nil
}

// HasOpenForWarehouse true si hay traslados PENDING o APPROVED con origen o destino en la bodega.
func (r *StockTransferRepo) HasOpenForWarehouse(ctx context.Context, warehouseID string) (bool, error) {
	var open bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM stock_transfers
			WHERE (from_warehouse_id = $1 OR to_warehouse_id = $1) AND status IN ('PENDING', 'APPROVED')
		)`
	if err := r.q.QueryRow(ctx, query, warehouseID).Scan(&open); err != nil {
		return false, fmt.Errorf("check open transfers for warehouse: %w", err)
	}
	return open, nil
}

// UpdateStatusIf persiste la transición con un UPDATE condicionado al estado esperado;
// dos aprobaciones concurrentes no pueden ganar ambas.
func (r *StockTransferRepo) UpdateStatusIf(ctx context.Context, t *entity.StockTransfer, expected entity.TransferStatus) error {
	query := `
		UPDATE stock_transfers
		SET status = $3, reject_reason = $4,
		    approved_by_id = $5, rejected_by_id = $6, completed_by_id = $7,
		    approved_date = $8, rejected_date = $9, completed_date = $10, updated_at = $11
		WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(ctx, query,
		t.ID, string(expected), string(t.Status), t.RejectReason,
		t.ApprovedByID, t.RejectedByID, t.CompletedByID,
		t.ApprovedDate, t.RejectedDate, t.CompletedDate, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock transfer status: %w", err)
	}
	return expectOneRow(tag)
}

// CountByStatus cuenta traslados por estado; con bodega cuenta los que salen o llegan a ella.
func (r *StockTransferRepo) CountByStatus(ctx context.Context, warehouseID *string) (map[entity.TransferStatus]int, error) {
	query := `
		SELECT status, count(*)
		FROM stock_transfers
		WHERE ($1::uuid IS NULL OR from_warehouse_id = $1 OR to_warehouse_id = $1)
		GROUP BY status`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("count stock transfers: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.TransferStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan transfer count: %w", err)
		}
		counts[entity.TransferStatus(status)] = n
	}
	return counts, rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.StockTransfer, error) {
	var (
		t      entity.StockTransfer
		status string
	)
	err := row.Scan(
		&t.ID, &t.ItemID, &t.FromWarehouseID, &t.ToWarehouseID, &t.Quantity, &status, &t.Notes, &t.RejectReason,
		&t.RequestedByID, &t.ApprovedByID, &t.RejectedByID, &t.CompletedByID,
		&t.RequestDate, &t.ApprovedDate, &t.RejectedDate, &t.CompletedDate, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	t.Status = entity.TransferStatus(status)
	return &t, nil
}
