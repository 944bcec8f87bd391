package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/stocktransfer-api/internal/domain"
	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
	"github.com/jhoicas/stocktransfer-api/internal/domain/inventory"
	"github.com/jhoicas/stocktransfer-api/internal/domain/repository"
)

var (
	_ repository.UserRepository          = (*UserRepository)(nil)
	_ repository.WarehouseRepository     = (*WarehouseRepository)(nil)
	_ repository.InventoryItemRepository = (*ItemRepository)(nil)
	_ repository.StockTransferRepository = (*TransferRepository)(nil)
	_ repository.AuditLogRepository      = (*AuditRepository)(nil)
	_ repository.AnalyticsRepository     = (*AnalyticsRepository)(nil)
)

// ── Users ─────────────────────────────────────────────────────────────────────

type UserRepository struct{ base }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	return r.write(func(st *state) error {
		for _, other := range st.users {
			if strings.EqualFold(other.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepository) GetByID(_ context.Context, id string) (out *entity.User, _ error) {
	r.read(func(st *state) {
		if u, ok := st.users[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (out *entity.User, _ error) {
	r.read(func(st *state) {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				out = &u
				return
			}
		}
	})
	return out, nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	return r.write(func(st *state) error {
		if _, ok := st.users[u.ID]; !ok {
			return domain.ErrUserNotFound
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepository) List(_ context.Context, f repository.UserFilter) ([]*entity.User, error) {
	var list []*entity.User
	r.read(func(st *state) {
		for _, u := range st.users {
			if f.WarehouseID != nil && (u.WarehouseID == nil || *u.WarehouseID != *f.WarehouseID) {
				continue
			}
			if f.Role != nil && u.Role != *f.Role {
				continue
			}
			list = append(list, &u)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Email < list[j].Email })
	return page(list, f.Limit, f.Offset), nil
}

func (r *UserRepository) CountByWarehouse(_ context.Context, warehouseID string) (n int, _ error) {
	r.read(func(st *state) {
		for _, u := range st.users {
			if u.WarehouseID != nil && *u.WarehouseID == warehouseID {
				n++
			}
		}
	})
	return n, nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	return r.write(func(st *state) error {
		delete(st.users, id)
		return nil
	})
}

// ── Warehouses ────────────────────────────────────────────────────────────────

type WarehouseRepository struct{ base }

func (r *WarehouseRepository) Create(_ context.Context, w *entity.Warehouse) error {
	return r.write(func(st *state) error {
		for _, other := range st.warehouses {
			if strings.EqualFold(other.Name, w.Name) {
				return domain.ErrWarehouseNameTaken
			}
		}
		st.warehouses[w.ID] = *w
		return nil
	})
}

func (r *WarehouseRepository) GetByID(_ context.Context, id string) (out *entity.Warehouse, _ error) {
	r.read(func(st *state) {
		if w, ok := st.warehouses[id]; ok {
			out = &w
		}
	})
	return out, nil
}

func (r *WarehouseRepository) GetByName(_ context.Context, name string) (out *entity.Warehouse, _ error) {
	r.read(func(st *state) {
		for _, w := range st.warehouses {
			if strings.EqualFold(w.Name, name) {
				out = &w
				return
			}
		}
	})
	return out, nil
}

func (r *WarehouseRepository) Update(_ context.Context, w *entity.Warehouse) error {
	return r.write(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; !ok {
			return domain.ErrWarehouseNotFound
		}
		for _, other := range st.warehouses {
			if other.ID != w.ID && strings.EqualFold(other.Name, w.Name) {
				return domain.ErrWarehouseNameTaken
			}
		}
		st.warehouses[w.ID] = *w
		return nil
	})
}

func (r *WarehouseRepository) List(_ context.Context, onlyID *string, limit, offset int) ([]*entity.Warehouse, error) {
	var list []*entity.Warehouse
	r.read(func(st *state) {
		for _, w := range st.warehouses {
			if onlyID != nil && w.ID != *onlyID {
				continue
			}
			list = append(list, &w)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

func (r *WarehouseRepository) Delete(_ context.Context, id string) error {
	return r.write(func(st *state) error {
		delete(st.warehouses, id)
		return nil
	})
}

// ── Inventory items ───────────────────────────────────────────────────────────

type ItemRepository struct{ base }

func (r *ItemRepository) Create(_ context.Context, it *entity.InventoryItem) error {
	return r.write(func(st *state) error {
		for _, other := range st.items {
			if other.SKU == it.SKU {
				return domain.ErrSKUExists
			}
		}
		st.items[it.ID] = *it
		return nil
	})
}

func (r *ItemRepository) GetByID(_ context.Context, id string) (out *entity.InventoryItem, _ error) {
	r.read(func(st *state) {
		if it, ok := st.items[id]; ok {
			out = &it
		}
	})
	return out, nil
}

func (r *ItemRepository) GetBySKU(_ context.Context, sku string) (out *entity.InventoryItem, _ error) {
	r.read(func(st *state) {
		for _, it := range st.items {
			if it.SKU == sku {
				out = &it
				return
			}
		}
	})
	return out, nil
}

func (r *ItemRepository) Update(_ context.Context, it *entity.InventoryItem) error {
	return r.write(func(st *state) error {
		cur, ok := st.items[it.ID]
		if !ok {
			return domain.ErrItemNotFound
		}
		for _, other := range st.items {
			if other.ID != it.ID && other.SKU == it.SKU {
				return domain.ErrSKUExists
			}
		}
		updated := *it
		updated.WarehouseID = cur.WarehouseID
		st.items[it.ID] = updated
		return nil
	})
}

func (r *ItemRepository) List(_ context.Context, f repository.ItemFilter) ([]*entity.InventoryItem, error) {
	var list []*entity.InventoryItem
	search := strings.ToLower(f.Search)
	r.read(func(st *state) {
		for _, it := range st.items {
			if f.WarehouseID != nil && it.WarehouseID != *f.WarehouseID {
				continue
			}
			if f.Status != "" && it.Status != f.Status {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(it.Name), search) && !strings.Contains(strings.ToLower(it.SKU), search) {
				continue
			}
			list = append(list, &it)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return page(list, f.Limit, f.Offset), nil
}

func (r *ItemRepository) CountByWarehouse(_ context.Context, warehouseID string) (n int, _ error) {
	r.read(func(st *state) {
		for _, it := range st.items {
			if it.WarehouseID == warehouseID {
				n++
			}
		}
	})
	return n, nil
}

func (r *ItemRepository) MoveToWarehouse(_ context.Context, itemID, from, to, status string) error {
	return r.write(func(st *state) error {
		it, ok := st.items[itemID]
		if !ok || it.WarehouseID != from {
			return domain.ErrConflict
		}
		if _, ok := st.warehouses[to]; !ok {
			return domain.ErrWarehouseNotFound
		}
		it.WarehouseID = to
		it.Status = status
		st.items[itemID] = it
		return nil
	})
}

func (r *ItemRepository) Delete(_ context.Context, id string) error {
	return r.write(func(st *state) error {
		delete(st.items, id)
		return nil
	})
}

// ── Transfers ─────────────────────────────────────────────────────────────────

type TransferRepository struct{ base }

func (r *TransferRepository) Create(_ context.Context, t *entity.StockTransfer) error {
	return r.write(func(st *state) error {
		st.transfers[t.ID] = *t
		return nil
	})
}

func (r *TransferRepository) GetByID(_ context.Context, id string) (out *entity.StockTransfer, _ error) {
	r.read(func(st *state) {
		if t, ok := st.transfers[id]; ok {
			out = &t
		}
	})
	return out, nil
}

func (r *TransferRepository) List(_ context.Context, f repository.TransferFilter) ([]*entity.StockTransfer, error) {
	var list []*entity.StockTransfer
	r.read(func(st *state) {
		for _, t := range st.transfers {
			if f.WarehouseID != nil && t.FromWarehouseID != *f.WarehouseID && t.ToWarehouseID != *f.WarehouseID {
				continue
			}
			if f.Status != "" && t.Status != f.Status {
				continue
			}
			if f.ItemID != "" && t.ItemID != f.ItemID {
				continue
			}
			list = append(list, &t)
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].RequestDate.Equal(list[j].RequestDate) {
			return list[i].ID < list[j].ID
		}
		return list[i].RequestDate.After(list[j].RequestDate)
	})
	return page(list, f.Limit, f.Offset), nil
}

func (r *TransferRepository) HasOpenForItem(_ context.Context, itemID string) (open bool, _ error) {
	r.read(func(st *state) {
		for _, t := range st.transfers {
			if t.ItemID == itemID && t.Status.IsOpen() {
				open = true
				return
			}
		}
	})
	return open, nil
}

func (r *TransferRepository) HasOpenForWarehouse(_ context.Context, warehouseID string) (open bool, _ error) {
	r.read(func(st *state) {
		for _, t := range st.transfers {
			if t.Status.IsOpen() && (t.FromWarehouseID == warehouseID || t.ToWarehouseID == warehouseID) {
				open = true
				return
			}
		}
	})
	return open, nil
}

func (r *TransferRepository) UpdateStatusIf(_ context.Context, t *entity.StockTransfer, expected entity.TransferStatus) error {
	return r.write(func(st *state) error {
		cur, ok := st.transfers[t.ID]
		if !ok || cur.Status != expected {
			return domain.ErrConflict
		}
		st.transfers[t.ID] = *t
		return nil
	})
}

func (r *TransferRepository) CountByStatus(_ context.Context, warehouseID *string) (map[entity.TransferStatus]int, error) {
	counts := map[entity.TransferStatus]int{}
	r.read(func(st *state) {
		for _, t := range st.transfers {
			if warehouseID != nil && t.FromWarehouseID != *warehouseID && t.ToWarehouseID != *warehouseID {
				continue
			}
			counts[t.Status]++
		}
	})
	return counts, nil
}

// ── Audit log ─────────────────────────────────────────────────────────────────

type AuditRepository struct{ base }

func (r *AuditRepository) Create(_ context.Context, e *entity.AuditLog) error {
	return r.write(func(st *state) error {
		st.audits = append(st.audits, *e)
		return nil
	})
}

func (r *AuditRepository) List(_ context.Context, f repository.AuditFilter) ([]*entity.AuditLog, error) {
	var list []*entity.AuditLog
	r.read(func(st *state) {
		for i := len(st.audits) - 1; i >= 0; i-- {
			e := st.audits[i]
			if f.WarehouseID != nil && !sameID(e.WarehouseID, *f.WarehouseID) && !sameID(e.RelatedWarehouseID, *f.WarehouseID) {
				continue
			}
			if f.EntityType != "" && e.EntityType != f.EntityType {
				continue
			}
			if f.EntityID != "" && e.EntityID != f.EntityID {
				continue
			}
			if f.ActorID != "" && e.ActorID != f.ActorID {
				continue
			}
			if f.From != nil && e.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && e.CreatedAt.After(*f.To) {
				continue
			}
			list = append(list, &e)
		}
	})
	return page(list, f.Limit, f.Offset), nil
}

// ── Analytics ─────────────────────────────────────────────────────────────────

type AnalyticsRepository struct{ base }

func (r *AnalyticsRepository) scoped(st *state, warehouseID *string) []*entity.InventoryItem {
	var list []*entity.InventoryItem
	for _, it := range st.items {
		if warehouseID != nil && it.WarehouseID != *warehouseID {
			continue
		}
		list = append(list, &it)
	}
	return list
}

func (r *AnalyticsRepository) GetStockSummary(_ context.Context, warehouseID *string) (out repository.StockSummary, _ error) {
	r.read(func(st *state) {
		items := r.scoped(st, warehouseID)
		for _, it := range items {
			out.TotalItems++
			out.TotalQuantity += it.Quantity
			switch it.Status {
			case entity.StockStatusInStock:
				out.InStock++
			case entity.StockStatusLowStock:
				out.LowStock++
			case entity.StockStatusOutOfStock:
				out.OutOfStock++
			}
		}
		out.StockValue = inventory.StockValue(items)
	})
	return out, nil
}

func (r *AnalyticsRepository) GetLowStockItems(_ context.Context, warehouseID *string, limit int) ([]*entity.InventoryItem, error) {
	var list []*entity.InventoryItem
	r.read(func(st *state) {
		for _, it := range r.scoped(st, warehouseID) {
			if it.Status == entity.StockStatusLowStock || it.Status == entity.StockStatusOutOfStock {
				list = append(list, it)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].Quantity == list[j].Quantity {
			return list[i].SKU < list[j].SKU
		}
		return list[i].Quantity < list[j].Quantity
	})
	return page(list, limit, 0), nil
}

func (r *AnalyticsRepository) CountWarehouses(_ context.Context) (n int, _ error) {
	r.read(func(st *state) { n = len(st.warehouses) })
	return n, nil
}

func sameID(p *string, id string) bool {
	return p != nil && *p == id
}
