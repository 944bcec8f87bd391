package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocktransfer-api/internal/application/analytics"
	"github.com/jhoicas/stocktransfer-api/internal/application/auth"
	"github.com/jhoicas/stocktransfer-api/internal/application/inventory"
	"github.com/jhoicas/stocktransfer-api/internal/application/usecase"
	"github.com/jhoicas/stocktransfer-api/internal/domain/rbac"
	"github.com/jhoicas/stocktransfer-api/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	Actors      ActorResolver // AuthUC o la caché que lo envuelve
	TransferUC  *inventory.TransferUseCase
	ItemUC      *usecase.InventoryItemUseCase
	WarehouseUC *usecase.WarehouseUseCase
	UserUC      *usecase.UserUseCase
	AuditUC     *usecase.AuditUseCase
	DashboardUC *analytics.DashboardUseCase
	JWTSecret   string
	Metrics     *metrics.Metrics
	LoginRate   string // formato ulule/limiter; vacío = sin límite
	APIRate     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) error {
	if deps.Actors == nil {
		deps.Actors = deps.AuthUC
	}
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	loginChain := []fiber.Handler{}
	if deps.LoginRate != "" {
		limit, err := RateLimit(deps.LoginRate, KeyByIP)
		if err != nil {
			return err
		}
		loginChain = append(loginChain, limit)
	}
	api.Post("/auth/login", append(loginChain, authHandler.Login)...)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.Actors))
	if deps.APIRate != "" {
		limit, err := RateLimit(deps.APIRate, KeyByActor)
		if err != nil {
			return err
		}
		protected.Use(limit)
	}
	can := func(res rbac.Resource, act rbac.Action) fiber.Handler {
		return RequirePermission(res, act, deps.Metrics)
	}

	protected.Get("/me", authHandler.Me)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", can(rbac.ResourceDashboard, rbac.ActionRead), dashboardHandler.GetSummary)

	// Transfers
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Get("/", can(rbac.ResourceTransfers, rbac.ActionRead), transferHandler.List)
	transfers.Post("/", can(rbac.ResourceTransfers, rbac.ActionCreate), transferHandler.Create)
	transfers.Get("/:id", can(rbac.ResourceTransfers, rbac.ActionRead), transferHandler.GetByID)
	transfers.Post("/:id/approve", can(rbac.ResourceTransfers, rbac.ActionApprove), transferHandler.Approve)
	transfers.Post("/:id/reject", can(rbac.ResourceTransfers, rbac.ActionApprove), transferHandler.Reject)
	transfers.Post("/:id/complete", can(rbac.ResourceTransfers, rbac.ActionUpdate), transferHandler.Complete)

	// Inventory
	items := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.ItemUC)
	items.Get("/", can(rbac.ResourceInventory, rbac.ActionRead), inventoryHandler.List)
	items.Post("/", can(rbac.ResourceInventory, rbac.ActionCreate), inventoryHandler.Create)
	items.Get("/:id", can(rbac.ResourceInventory, rbac.ActionRead), inventoryHandler.GetByID)
	items.Put("/:id", can(rbac.ResourceInventory, rbac.ActionUpdate), inventoryHandler.Update)
	items.Delete("/:id", can(rbac.ResourceInventory, rbac.ActionDelete), inventoryHandler.Delete)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Get("/", can(rbac.ResourceWarehouses, rbac.ActionRead), warehouseHandler.List)
	warehouses.Post("/", can(rbac.ResourceWarehouses, rbac.ActionCreate), warehouseHandler.Create)
	warehouses.Get("/:id", can(rbac.ResourceWarehouses, rbac.ActionRead), warehouseHandler.GetByID)
	warehouses.Put("/:id", can(rbac.ResourceWarehouses, rbac.ActionUpdate), warehouseHandler.Update)
	warehouses.Delete("/:id", can(rbac.ResourceWarehouses, rbac.ActionDelete), warehouseHandler.Delete)

	// Users
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", can(rbac.ResourceUsers, rbac.ActionRead), userHandler.List)
	users.Post("/", can(rbac.ResourceUsers, rbac.ActionCreate), userHandler.Create)
	users.Get("/:id", can(rbac.ResourceUsers, rbac.ActionRead), userHandler.GetByID)
	users.Put("/:id", can(rbac.ResourceUsers, rbac.ActionUpdate), userHandler.Update)
	users.Delete("/:id", can(rbac.ResourceUsers, rbac.ActionDelete), userHandler.Delete)

	// Audits
	auditHandler := NewAuditHandler(deps.AuditUC)
	protected.Get("/audits", can(rbac.ResourceAudits, rbac.ActionRead), auditHandler.List)

	return nil
}
