package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocktransfer-api/internal/application/dto"
	"github.com/jhoicas/stocktransfer-api/internal/domain"
	"github.com/jhoicas/stocktransfer-api/internal/domain/rbac"
	"github.com/jhoicas/stocktransfer-api/pkg/jwt"
)

// Locals keys del actor autenticado en Fiber.
const (
	LocalUserID = "user_id"
	LocalActor  = "actor"
)

// ActorResolver resuelve el userID del token al actor vigente (rol y bodega actuales).
// Lo implementan *auth.AuthUseCase y *cache.ActorCache.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID string) (rbac.Actor, error)
}

// AuthMiddleware valida el Bearer Token JWT, resuelve el actor contra el almacén de usuarios
// y lo deja en c.Locals. Token ausente, inválido o de un usuario inexistente → 401.
func AuthMiddleware(jwtSecret string, resolver ActorResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil || claims.UserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		actor, err := resolver.ResolveActor(c.UserContext(), claims.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "usuario no encontrado"})
			}
			return respondError(c, err)
		}
		c.Locals(LocalUserID, actor.UserID)
		c.Locals(LocalActor, actor)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetActor devuelve el actor autenticado. ok=false si AuthMiddleware no corrió.
func GetActor(c *fiber.Ctx) (rbac.Actor, bool) {
	a, ok := c.Locals(LocalActor).(rbac.Actor)
	return a, ok
}

// GetRole devuelve el rol del actor autenticado ("" sin actor).
func GetRole(c *fiber.Ctx) string {
	a, _ := GetActor(c)
	return string(a.Role)
}
