// seed prepara una base nueva: aplica el esquema, crea el usuario ADMIN inicial y,
// opcionalmente, importa bodegas e ítems desde un CSV exportado del sistema anterior.
//
// Uso: go run ./cmd/seed -admin-email admin@empresa.com -admin-password secreto123 [-csv inventario.csv]
// El CSV usa ';' como separador y por defecto se lee como ISO-8859-1 (exportación de Excel).
// Columnas: sku;nombre;categoria;cantidad;stock_minimo;stock_maximo;costo_unitario;bodega
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
	"github.com/jhoicas/stocktransfer-api/internal/domain/inventory"
	"github.com/jhoicas/stocktransfer-api/internal/domain/rbac"
	"github.com/jhoicas/stocktransfer-api/internal/domain/repository"
	"github.com/jhoicas/stocktransfer-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stocktransfer-api/pkg/config"
	"github.com/jhoicas/stocktransfer-api/pkg/logger"
	"github.com/jhoicas/stocktransfer-api/pkg/password"
)

func main() {
	adminEmail := flag.String("admin-email", "", "email del ADMIN inicial")
	adminPassword := flag.String("admin-password", "", "password del ADMIN inicial (mín. 8)")
	csvPath := flag.String("csv", "", "CSV de inventario a importar")
	charset := flag.String("charset", "latin1", "codificación del CSV: latin1 o utf8")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	users := postgres.NewUserRepository(pool)
	if *adminEmail != "" {
		created, err := ensureAdmin(ctx, users, *adminEmail, *adminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("crear ADMIN")
		}
		log.Info().Str("email", *adminEmail).Bool("created", created).Msg("usuario ADMIN")
	}

	if *csvPath == "" {
		return
	}
	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := readItems(f, *charset)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}
	stats, err := importItems(ctx, postgres.NewWarehouseRepository(pool), postgres.NewInventoryItemRepository(pool), rows)
	if err != nil {
		log.Fatal().Err(err).Msg("importar inventario")
	}
	log.Info().
		Int("rows", len(rows)).
		Int("warehouses_created", stats.warehouses).
		Int("items_created", stats.created).
		Int("items_skipped", stats.skipped).
		Msg("importación terminada")
}

// ensureAdmin crea el ADMIN si el email no existe. Devuelve false si ya existía.
func ensureAdmin(ctx context.Context, users repository.UserRepository, email, plain string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	hash, err := password.Hash(plain)
	if err != nil {
		return false, err
	}
	now := time.Now().UTC()
	return true, users.Create(ctx, &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrador",
		Role:         rbac.RoleAdmin,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

type importStats struct {
	warehouses int
	created    int
	skipped    int
}

// importItems crea las bodegas que falten (por nombre) y los ítems cuyo SKU no exista.
func importItems(ctx context.Context, warehouses repository.WarehouseRepository, items repository.InventoryItemRepository, rows []itemRow) (importStats, error) {
	var stats importStats
	byName := map[string]string{}
	now := time.Now().UTC()

	for _, r := range rows {
		key := strings.ToLower(r.Warehouse)
		whID, ok := byName[key]
		if !ok {
			wh, err := warehouses.GetByName(ctx, r.Warehouse)
			if err != nil {
				return stats, err
			}
			if wh == nil {
				wh = &entity.Warehouse{
					ID: uuid.New().String(), Name: r.Warehouse, Capacity: 1000,
					Status: entity.WarehouseStatusActive, CreatedAt: now, UpdatedAt: now,
				}
				if err := warehouses.Create(ctx, wh); err != nil {
					return stats, err
				}
				stats.warehouses++
			}
			whID = wh.ID
			byName[key] = whID
		}

		existing, err := items.GetBySKU(ctx, r.SKU)
		if err != nil {
			return stats, err
		}
		if existing != nil {
			stats.skipped++
			continue
		}
		if err := items.Create(ctx, &entity.InventoryItem{
			ID:          uuid.New().String(),
			SKU:         r.SKU,
			Name:        r.Name,
			Category:    r.Category,
			Quantity:    r.Quantity,
			MinStock:    r.MinStock,
			MaxStock:    r.MaxStock,
			UnitCost:    r.UnitCost,
			Status:      inventory.StockStatus(r.Quantity, r.MinStock),
			WarehouseID: whID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}); err != nil {
			return stats, fmt.Errorf("sku %s: %w", r.SKU, err)
		}
		stats.created++
	}
	return stats, nil
}
