package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocktransfer-api/pkg/logger"
	"github.com/jhoicas/stocktransfer-api/pkg/metrics"
)

// RequestLogger registra cada petición (método, ruta, estado, latencia, actor) y la cuenta en métricas.
// La ruta de métricas es el patrón registrado (/api/transfers/:id), no el path concreto.
func RequestLogger(log *logger.Logger, m *metrics.Metrics) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Deja que el ErrorHandler escriba la respuesta antes de leer el estado.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()

		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		m.ObserveHTTP(c.Method(), route, status, elapsed)

		ev := log.Info()
		if status >= 500 {
			ev = log.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", elapsed).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return nil
	}
}
