package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocktransfer-api/internal/application/dto"
	"github.com/jhoicas/stocktransfer-api/internal/domain/rbac"
	"github.com/jhoicas/stocktransfer-api/pkg/metrics"
)

// RequirePermission devuelve un middleware Fiber que verifica que el rol del actor tenga
// la acción sobre el recurso. Debe usarse DESPUÉS de AuthMiddleware (necesita LocalActor).
// El alcance por bodega no se decide aquí: lo verifican los casos de uso con el recurso cargado.
//
// Comportamiento:
//   - 401 Unauthorized → no hay actor en el contexto.
//   - 403 Forbidden    → el rol no tiene el permiso.
func RequirePermission(resource rbac.Resource, action rbac.Action, m *metrics.Metrics) fiber.Handler {
	perm := rbac.Permission{Resource: resource, Action: action}
	return func(c *fiber.Ctx) error {
		actor, ok := GetActor(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "actor no encontrado en el contexto",
			})
		}
		if !rbac.HasPermission(actor.Role, resource, action, actor.WarehouseID, nil) {
			m.Denied(string(resource), string(action))
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "requires " + perm.String(),
			})
		}
		return c.Next()
	}
}
