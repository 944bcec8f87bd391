package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stocktransfer-api/internal/application/analytics"
	"github.com/jhoicas/stocktransfer-api/internal/application/auth"
	"github.com/jhoicas/stocktransfer-api/internal/application/inventory"
	"github.com/jhoicas/stocktransfer-api/internal/application/usecase"
	"github.com/jhoicas/stocktransfer-api/internal/domain/repository"
	"github.com/jhoicas/stocktransfer-api/internal/infrastructure/cache"
	"github.com/jhoicas/stocktransfer-api/internal/infrastructure/memory"
	"github.com/jhoicas/stocktransfer-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stocktransfer-api/internal/interfaces/http"
	"github.com/jhoicas/stocktransfer-api/pkg/config"
	"github.com/jhoicas/stocktransfer-api/pkg/logger"
	"github.com/jhoicas/stocktransfer-api/pkg/metrics"
)

// stores repositorios del backend elegido (postgres o memory).
type stores struct {
	users      repository.UserRepository
	warehouses repository.WarehouseRepository
	items      repository.InventoryItemRepository
	transfers  repository.StockTransferRepository
	audits     repository.AuditLogRepository
	analytics  repository.AnalyticsRepository
	tx         inventory.TxRunner
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	m := metrics.New("stocktransfer")

	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	actors := cache.NewActorCache(authUC, cfg.Cache.ActorSize, cfg.Cache.ActorTTL, m)

	transferUC := inventory.NewTransferUseCase(st.tx, st.transfers, st.items, st.warehouses, log, m)
	itemUC := usecase.NewInventoryItemUseCase(st.items, st.warehouses, st.transfers, st.audits)
	warehouseUC := usecase.NewWarehouseUseCase(st.warehouses, st.items, st.users, st.transfers, st.audits)
	userUC := usecase.NewUserUseCase(st.users, st.warehouses, st.audits, actors)
	auditUC := usecase.NewAuditUseCase(st.audits)
	dashboardUC := analytics.NewDashboardUseCase(st.analytics, st.transfers)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http"), m))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.Swagger.Enabled {
		if _, err := os.Stat(cfg.Swagger.FilePath); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.Swagger.FilePath,
				Path:     "docs",
				Title:    "Stock Transfer API",
			}))
		} else {
			log.Warn().Str("file", cfg.Swagger.FilePath).Msg("swagger deshabilitado: archivo no encontrado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.App.Storage})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	if err := httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		Actors:      actors,
		TransferUC:  transferUC,
		ItemUC:      itemUC,
		WarehouseUC: warehouseUC,
		UserUC:      userUC,
		AuditUC:     auditUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
		Metrics:     m,
		LoginRate:   cfg.RateLimit.Login,
		APIRate:     cfg.RateLimit.API,
	}); err != nil {
		log.Fatal().Err(err).Msg("registrar rutas")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.App.Storage == "memory" {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &stores{
			users:      s.Users(),
			warehouses: s.Warehouses(),
			items:      s.Items(),
			transfers:  s.Transfers(),
			audits:     s.Audits(),
			analytics:  s.Analytics(),
			tx:         s,
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.EnsureSchema {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &stores{
		users:      postgres.NewUserRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		items:      postgres.NewInventoryItemRepository(pool),
		transfers:  postgres.NewStockTransferRepository(pool),
		audits:     postgres.NewAuditLogRepository(pool),
		analytics:  postgres.NewAnalyticsRepository(pool),
		tx:         postgres.NewTxRunner(pool),
		close:      pool.Close,
	}, nil
}
