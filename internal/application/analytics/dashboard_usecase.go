// Package analytics contiene el caso de uso del dashboard: resumen de stock y de
// traslados dentro del alcance del actor.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/stocktransfer-api/internal/application/auth"
	"github.com/jhoicas/stocktransfer-api/internal/application/dto"
	"github.com/jhoicas/stocktransfer-api/internal/application/usecase"
	"github.com/jhoicas/stocktransfer-api/internal/domain/entity"
	"github.com/jhoicas/stocktransfer-api/internal/domain/rbac"
	"github.com/jhoicas/stocktransfer-api/internal/domain/repository"
)

const dashboardLowStockItems = 5 // número de ítems en el widget de stock bajo

// DashboardUseCase genera el resumen del dashboard.
//
// Fuente de datos: AnalyticsRepository (consultas read-only) y el conteo de
// traslados por estado. No modifica nada.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	transferRepo  repository.StockTransferRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, transferRepo repository.StockTransferRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, transferRepo: transferRepo}
}

// GetSummary construye el DashboardSummaryDTO del actor. Los roles globales pueden
// pedir una bodega concreta (nil = todas); los restringidos reciben siempre la suya.
//
// Cuatro llamadas en paralelo:
//  1. GetStockSummary        → totales y valor del stock
//  2. GetLowStockItems(top 5) → LowStockItems
//  3. CountByStatus          → PendingTransfers + ApprovedTransfers
//  4. CountWarehouses        → Warehouses (sólo roles globales sin filtro)
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor rbac.Actor, warehouseID *string) (*dto.DashboardSummaryDTO, error) {
	if err := rbac.Authorize(actor, rbac.ResourceDashboard, rbac.ActionRead, nil); err != nil {
		return nil, err
	}
	scope, err := rbac.ScopeWarehouse(actor, rbac.ResourceDashboard, warehouseID)
	if err != nil {
		return nil, err
	}

	// ── Goroutines para paralelizar las consultas ─────────────────────────────
	type summaryResult struct {
		summary repository.StockSummary
		err     error
	}
	type lowStockResult struct {
		items []*entity.InventoryItem
		err   error
	}
	type countsResult struct {
		counts map[entity.TransferStatus]int
		err    error
	}
	type warehousesResult struct {
		n   int
		err error
	}

	summaryCh := make(chan summaryResult, 1)
	lowCh := make(chan lowStockResult, 1)
	countsCh := make(chan countsResult, 1)
	whCh := make(chan warehousesResult, 1)

	go func() {
		s, err := uc.analyticsRepo.GetStockSummary(ctx, scope)
		summaryCh <- summaryResult{s, err}
	}()
	go func() {
		items, err := uc.analyticsRepo.GetLowStockItems(ctx, scope, dashboardLowStockItems)
		lowCh <- lowStockResult{items, err}
	}()
	go func() {
		counts, err := uc.transferRepo.CountByStatus(ctx, scope)
		countsCh <- countsResult{counts, err}
	}()
	go func() {
		if scope != nil {
			whCh <- warehousesResult{n: 1}
			return
		}
		n, err := uc.analyticsRepo.CountWarehouses(ctx)
		whCh <- warehousesResult{n, err}
	}()

	summary := <-summaryCh
	low := <-lowCh
	counts := <-countsCh
	wh := <-whCh

	if summary.err != nil {
		return nil, fmt.Errorf("dashboard: resumen de stock: %w", summary.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}
	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: traslados: %w", counts.err)
	}
	if wh.err != nil {
		return nil, fmt.Errorf("dashboard: bodegas: %w", wh.err)
	}

	lowItems := make([]dto.ItemResponse, 0, len(low.items))
	for _, it := range low.items {
		lowItems = append(lowItems, usecase.ToItemResponse(it))
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	return &dto.DashboardSummaryDTO{
		Role:              string(actor.Role),
		WarehouseID:       scope,
		Warehouses:        wh.n,
		TotalItems:        summary.summary.TotalItems,
		InStock:           summary.summary.InStock,
		LowStock:          summary.summary.LowStock,
		OutOfStock:        summary.summary.OutOfStock,
		TotalQuantity:     summary.summary.TotalQuantity,
		StockValue:        summary.summary.StockValue.Round(2),
		PendingTransfers:  counts.counts[entity.TransferPending],
		ApprovedTransfers: counts.counts[entity.TransferApproved],
		LowStockItems:     lowItems,
		Routes:            auth.Routes(actor.Role, actor.WarehouseID),
	}, nil
}
