package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/stocktransfer-api/internal/application/analytics"
	"github.com/jhoicas/stocktransfer-api/internal/domain"
)

// DashboardHandler expone el resumen del dashboard.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen del dashboard según rol y bodega
// @Description  Conteos de ítems por estado, traslados pendientes/aprobados, valor del stock,
// @Description  ítems con stock bajo y rutas navegables. Los roles restringidos ven sólo su bodega.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega (roles globales)"
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	actor, _ := GetActor(c)
	var warehouseID *string
	if wh := c.Query("warehouse_id"); wh != "" {
		if _, err := uuid.Parse(wh); err != nil {
			return respondError(c, domain.ErrInvalidID)
		}
		warehouseID = &wh
	}
	out, err := h.uc.GetSummary(c.UserContext(), actor, warehouseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
