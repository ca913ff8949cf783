package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/marketplace-api/pkg/logger"
)

// RequestLogger registra cada petición: método, ruta, estado, latencia, request id y usuario.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev = ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start))
		if rid, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
			ev = ev.Str("request_id", rid)
		}
		if u := CurrentUser(c); u != nil {
			ev = ev.Str("user_id", u.ID)
		}
		ev.Msg("http")
		return err
	}
}
