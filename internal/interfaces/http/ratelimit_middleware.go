package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/jhoicas/stocktransfer-api/internal/application/dto"
)

// RateLimit limita peticiones por clave (IP o actor) con un store en memoria.
// rate usa el formato de ulule/limiter: "5-M", "300-M", "1000-H".
func RateLimit(rate string, key func(*fiber.Ctx) string) (fiber.Handler, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("rate limit %q: %w", rate, err)
	}
	instance := limiter.New(memory.NewStore(), r)

	return func(c *fiber.Ctx) error {
		lc, err := instance.Get(c.UserContext(), key(c))
		if err != nil {
			// Sin store no hay límite que aplicar; se deja pasar.
			log.Warn().Err(err).Msg("rate limiter unavailable")
			return c.Next()
		}
		c.Set("X-RateLimit-Limit", strconv.FormatInt(lc.Limit, 10))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(lc.Remaining, 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(lc.Reset, 10))
		if lc.Reached {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "demasiadas peticiones, intente más tarde",
			})
		}
		return c.Next()
	}, nil
}

// KeyByIP clave de rate limit por IP de origen.
func KeyByIP(c *fiber.Ctx) string { return c.IP() }

// KeyByActor clave por usuario autenticado; sin actor cae a la IP.
func KeyByActor(c *fiber.Ctx) string {
	if id := GetUserID(c); id != "" {
		return "user:" + id
	}
	return "ip:" + c.IP()
}
