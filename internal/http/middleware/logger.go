package middleware

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"gradia/internal/logging"
)

// ErrorLocalKey holds an internal error a handler hid from the client, so
// that it still reaches the access log.
const ErrorLocalKey = "error"

// Logger writes one http_request entry per request with request_id, method,
// path, status, latency in milliseconds and the authenticated user when known.
func Logger(logger *slog.Logger) fiber.Handler {
	log := logging.Component(logger, "http")

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		attrs := []any{
			"request_id", rid,
			"method", c.Method(),
			"path", c.Path(),
			"status", statusOf(c, err),
			"latency", float64(time.Since(start).Microseconds()) / 1000,
		}
		if u := CurrentUser(c); u != nil {
			attrs = append(attrs, "user_id", u.ID)
		}
		if cause, ok := c.Locals(ErrorLocalKey).(error); ok {
			attrs = append(attrs, "error", cause.Error())
			log.ErrorContext(c.UserContext(), "http_request", attrs...)
			return err
		}
		log.InfoContext(c.UserContext(), "http_request", attrs...)

		return err
	}
}

// LoggerWithWriter is Logger over a JSON logger writing to w with
// timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logging.New(w, "info", loc))
}

// statusOf predicts the status the error handler will send for err.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
