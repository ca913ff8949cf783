package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/domain"
)

// statusFor traduce la categoría del error de dominio a código HTTP y código de respuesta.
func statusFor(err error) (int, string) {
	switch domain.Kind(err) {
	case "NOT_FOUND":
		return fiber.StatusNotFound, "NOT_FOUND"
	case "CONFLICT":
		return fiber.StatusConflict, "CONFLICT"
	case "FORBIDDEN":
		return fiber.StatusForbidden, "FORBIDDEN"
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case "VALIDATION":
		return fiber.StatusBadRequest, "VALIDATION"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// writeError responde con {code, message}. Los errores internos se registran y no se exponen.
func writeError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		msg = "error interno del servidor"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// ErrorHandler manejador global de Fiber para errores no respondidos por los handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: codeForStatus(fe.Code), Message: fe.Message})
	}
	return writeError(c, err)
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	default:
		if status >= fiber.StatusInternalServerError {
			return "INTERNAL"
		}
		return "ERROR"
	}
}
