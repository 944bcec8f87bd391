package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocktransfer-api/internal/application/dto"
	"github.com/jhoicas/stocktransfer-api/internal/application/usecase"
)

// AuditHandler consulta de la bitácora.
type AuditHandler struct {
	uc *usecase.AuditUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *usecase.AuditUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Listar bitácora de auditoría
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        entity_type   query  string  false  "transfer, item, warehouse, user"
// @Param        entity_id     query  string  false  "ID de la entidad"
// @Param        actor_id      query  string  false  "Usuario que ejecutó la acción"
// @Param        from          query  string  false  "Desde (RFC3339)"
// @Param        to            query  string  false  "Hasta (RFC3339)"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.AuditListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/audits [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var in dto.AuditListRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	actor, _ := GetActor(c)
	out, err := h.uc.List(c.UserContext(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
