package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
	"github.com/jhoicas/stocktransfer-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo bitácora append-only sobre PostgreSQL.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Create inserta una entrada.
func (r *AuditLogRepo) Create(ctx context.Context, e *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, actor_id, action, entity_type, entity_id, warehouse_id, related_warehouse_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	var detail any
	if len(e.Detail) > 0 {
		detail = string(e.Detail)
	}
	_, err := r.q.Exec(ctx, query, e.ID, e.ActorID, e.Action, e.EntityType, e.EntityID, e.WarehouseID, e.RelatedWarehouseID, detail, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List devuelve entradas filtradas, las más recientes primero.
func (r *AuditLogRepo) List(ctx context.Context, f repository.AuditFilter) ([]*entity.AuditLog, error) {
	limit, offset := pageArgs(f.Limit, f.Offset)
	query := `
		SELECT id, actor_id, action, entity_type, entity_id, warehouse_id, related_warehouse_id, detail, created_at
		FROM audit_logs
		WHERE ($1::uuid IS NULL OR warehouse_id = $1 OR related_warehouse_id = $1)
		  AND ($2 = '' OR entity_type = $2)
		  AND ($3 = '' OR entity_id = $3)
		  AND ($4 = '' OR actor_id = $4)
		  AND ($5::timestamptz IS NULL OR created_at >= $5)
		  AND ($6::timestamptz IS NULL OR created_at <= $6)
		ORDER BY created_at DESC, id
		LIMIT $7 OFFSET $8`
	rows, err := r.q.Query(ctx, query, f.WarehouseID, f.EntityType, f.EntityID, f.ActorID, f.From, f.To, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditLog
	for rows.Next() {
		var (
			e      entity.AuditLog
			detail []byte
		)
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.EntityType, &e.EntityID, &e.WarehouseID, &e.RelatedWarehouseID, &detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		e.Detail = detail
		list = append(list, &e)
	}
	return list, rows.Err()
}
