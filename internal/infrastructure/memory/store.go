// Package memory implementa los puertos de persistencia en memoria. Se usa en tests y
// en el modo STORAGE=memory para entornos efímeros.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
	"github.com/jhoicas/stocktransfer-api/internal/domain/repository"
)

type state struct {
	users      map[string]entity.User
	warehouses map[string]entity.Warehouse
	items      map[string]entity.InventoryItem
	transfers  map[string]entity.StockTransfer
	audits     []entity.AuditLog
}

func newState() state {
	return state{
		users:      map[string]entity.User{},
		warehouses: map[string]entity.Warehouse{},
		items:      map[string]entity.InventoryItem{},
		transfers:  map[string]entity.StockTransfer{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.transfers {
		c.transfers[k] = v
	}
	c.audits = append([]entity.AuditLog(nil), s.audits...)
	return c
}

// Store estado compartido protegido por un mutex. Las transacciones trabajan sobre una
// copia y la publican sólo si fn termina sin error.
type Store struct {
	mu    sync.RWMutex
	state state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

// base lo comparten todos los repositorios: tx != nil significa "dentro de una transacción"
// (el mutex ya lo tiene Run).
type base struct {
	store *Store
	tx    *state
}

func (b base) read(fn func(st *state)) {
	if b.tx != nil {
		fn(b.tx)
		return
	}
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	fn(&b.store.state)
}

func (b base) write(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return fn(&b.store.state)
}

// Run ejecuta fn sobre una copia del estado; si fn devuelve error la copia se descarta.
// Las transacciones se serializan.
func (s *Store) Run(ctx context.Context, fn func(
	transferRepo repository.StockTransferRepository,
	itemRepo repository.InventoryItemRepository,
	auditRepo repository.AuditLogRepository,
	warehouseRepo repository.WarehouseRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.state.clone()
	b := base{store: s, tx: &tx}
	if err := fn(&TransferRepository{b}, &ItemRepository{b}, &AuditRepository{b}, &WarehouseRepository{b}); err != nil {
		return err
	}
	s.state = tx
	return nil
}

// Repositorios fuera de transacción.
func (s *Store) Users() *UserRepository           { return &UserRepository{base{store: s}} }
func (s *Store) Warehouses() *WarehouseRepository { return &WarehouseRepository{base{store: s}} }
func (s *Store) Items() *ItemRepository           { return &ItemRepository{base{store: s}} }
func (s *Store) Transfers() *TransferRepository   { return &TransferRepository{base{store: s}} }
func (s *Store) Audits() *AuditRepository         { return &AuditRepository{base{store: s}} }
func (s *Store) Analytics() *AnalyticsRepository  { return &AnalyticsRepository{base{store: s}} }

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
