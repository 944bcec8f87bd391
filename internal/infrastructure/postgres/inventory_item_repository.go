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

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo implementación de InventoryItemRepository sobre PostgreSQL (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

const itemColumns = `id, sku, name, description, category, quantity, min_stock, max_stock,
	unit_cost, status, warehouse_id, created_at, updated_at`

// Create persiste un nuevo ítem.
func (r *InventoryItemRepo) Create(ctx context.Context, it *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.SKU, it.Name, it.Description, it.Category, it.Quantity, it.MinStock, it.MaxStock,
		it.UnitCost, it.Status, it.WarehouseID, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSKUExists
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *InventoryItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return it, nil
}

// GetBySKU obtiene un ítem por SKU exacto.
func (r *InventoryItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.InventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE sku = $1`, sku))
	if err != nil {
		return nil, fmt.Errorf("get inventory item by sku: %w", err)
	}
	return it, nil
}

// Update actualiza atributos y cantidades. warehouse_id no se toca.
func (r *InventoryItemRepo) Update(ctx context.Context, it *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET sku = $2, name = $3, description = $4, category = $5, quantity = $6,
		    min_stock = $7, max_stock = $8, unit_cost = $9, status = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		it.ID, it.SKU, it.Name, it.Description, it.Category, it.Quantity,
		it.MinStock, it.MaxStock, it.UnitCost, it.Status, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSKUExists
		}
		return fmt.Errorf("update inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// List lista ítems por SKU. Search busca en nombre y SKU sin distinguir mayúsculas.
func (r *InventoryItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.InventoryItem, error) {
	limit, offset := pageArgs(f.Limit, f.Offset)
	query := `
		SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE ($1::uuid IS NULL OR warehouse_id = $1)
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR name ILIKE '%' || $3 || '%' OR sku ILIKE '%' || $3 || '%')
		ORDER BY sku
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, f.WarehouseID, f.Status, f.Search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// CountByWarehouse ítems en la bodega.
func (r *InventoryItemRepo) CountByWarehouse(ctx context.Context, warehouseID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM inventory_items WHERE warehouse_id = $1`, warehouseID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count inventory items: %w", err)
	}
	return n, nil
}

// MoveToWarehouse reasigna el ítem sólo si sigue en la bodega de origen.
// Si la bodega destino fue eliminada entre tanto, la FK falla y se devuelve ErrWarehouseNotFound.
func (r *InventoryItemRepo) MoveToWarehouse(ctx context.Context, itemID, from, to, status string) error {
	query := `
		UPDATE inventory_items
		SET warehouse_id = $3, status = $4, updated_at = now()
		WHERE id = $1 AND warehouse_id = $2`
	tag, err := r.q.Exec(ctx, query, itemID, from, to, status)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrWarehouseNotFound
		}
		return fmt.Errorf("move inventory item: %w", err)
	}
	return expectOneRow(tag)
}

// Delete elimina un ítem.
func (r *InventoryItemRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := row.Scan(
		&it.ID, &it.SKU, &it.Name, &it.Description, &it.Category, &it.Quantity, &it.MinStock, &it.MaxStock,
		&it.UnitCost, &it.Status, &it.WarehouseID, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func collectItems(rows pgx.Rows) ([]*entity.InventoryItem, error) {
	var list []*entity.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
