package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stocktransfer-api/internal/application/dto"
	"github.com/jhoicas/stocktransfer-api/internal/domain"
	"github.com/jhoicas/stocktransfer-api/internal/domain/rbac"
	"github.com/jhoicas/stocktransfer-api/pkg/validator"
)

// kindStatus traduce la clase de un error de dominio a código HTTP y código por defecto.
var kindStatus = []struct {
	kind   error
	status int
	code   string
}{
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
	{domain.ErrDuplicate, fiber.StatusBadRequest, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

// respondError es el único punto que convierte errores de casos de uso en respuestas HTTP.
// Un error desconocido se loguea completo y se responde 500 con un mensaje genérico.
func respondError(c *fiber.Ctx, err error) error {
	var derr *domain.Error
	var denied *rbac.DeniedError
	for _, k := range kindStatus {
		if !errors.Is(err, k.kind) {
			continue
		}
		switch {
		case errors.As(err, &derr):
			return c.Status(k.status).JSON(dto.ErrorResponse{Code: derr.Code, Message: derr.Message})
		case errors.As(err, &denied):
			return c.Status(k.status).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: denied.Error()})
		default:
			return c.Status(k.status).JSON(dto.ErrorResponse{Code: k.code, Message: err.Error()})
		}
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "internal server error"})
}

// ErrorHandler para fiber.Config: errores de Fiber conservan su código, el resto pasa por respondError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return c.Status(ferr.Code).JSON(dto.ErrorResponse{Code: codeForStatus(ferr.Code), Message: ferr.Message})
	}
	return respondError(c, err)
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusTooManyRequests:
		return "RATE_LIMITED"
	}
	if status >= 500 {
		return "INTERNAL"
	}
	return "ERROR"
}

// bindBody parsea y valida el body JSON. Si devuelve false la respuesta de error ya se escribió.
func bindBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return validate(c, out)
}

// bindQuery parsea y valida los parámetros de query.
func bindQuery(c *fiber.Ctx, out any) (bool, error) {
	if err := c.QueryParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	return validate(c, out)
}

func validate(c *fiber.Ctx, out any) (bool, error) {
	if errs := validator.ValidateStruct(out); len(errs) > 0 {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION_ERROR", Message: validator.Message(errs)})
	}
	return true, nil
}

// pathID lee el parámetro :id; un valor que no es UUID nunca identifica un recurso.
func pathID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", domain.ErrInvalidID
	}
	return id, nil
}
