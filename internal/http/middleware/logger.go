package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"docclean/internal/logging"
)

// Logger emits one structured entry per request with request_id, method,
// path, status and latency (milliseconds). 5xx responses log at error level.
func Logger(log logging.Logger) fiber.Handler {
	log = log.WithField(logging.FieldComponent, "http")

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		rid, _ := c.Locals(RequestIDLocalKey).(string)

		fields := []logging.Field{
			logging.F(logging.FieldRequestID, rid),
			logging.F("method", c.Method()),
			logging.F("path", c.Path()),
			logging.F("status", status),
			logging.F("latency", float64(time.Since(start).Microseconds())/1000),
		}
		if status >= fiber.StatusInternalServerError {
			log.Error("request", fields...)
		} else {
			log.Info("request", fields...)
		}

		return err
	}
}
