package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gradia/internal/http/middleware"
	"gradia/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(middleware.RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}

// writeError writes a standardized JSON error response. message must be safe
// to show to clients.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

type errorMapping struct {
	target error
	status int
	code   string
}

// serviceErrors maps service sentinels to responses. The first match wins.
var serviceErrors = []errorMapping{
	{service.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
	{service.ErrReaderNil, fiber.StatusBadRequest, "FILE_REQUIRED"},

	{service.ErrPeriodNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrCycleNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrCategoryNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrRecordNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrAttachmentNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrNothingToCopy, fiber.StatusNotFound, "NOTHING_TO_COPY"},

	{service.ErrPeriodExists, fiber.StatusBadRequest, "PERIOD_EXISTS"},
	{service.ErrCategoryExists, fiber.StatusBadRequest, "CATEGORY_EXISTS"},
	{service.ErrDefaultCategory, fiber.StatusBadRequest, "DEFAULT_CATEGORY"},
	{service.ErrPeriodMismatch, fiber.StatusBadRequest, "PERIOD_MISMATCH"},
	{service.ErrSameCycle, fiber.StatusBadRequest, "SAME_CYCLE"},
	{service.ErrDifferentPeriods, fiber.StatusBadRequest, "DIFFERENT_PERIODS"},

	{service.ErrCategoryCodeConflict, fiber.StatusConflict, "CATEGORY_CODE_CONFLICT"},

	{service.ErrCategoryForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{service.ErrCycleForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// writeServiceError translates a service error. Unknown errors become a
// generic 500 and are handed to the access log instead of the client.
func writeServiceError(c *fiber.Ctx, err error) error {
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			return writeError(c, m.status, m.code, err.Error())
		}
	}
	c.Locals(middleware.ErrorLocalKey, err)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", fe.Message)
		case fiber.StatusForbidden:
			return writeError(c, status, "FORBIDDEN", "forbidden")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusConflict:
			return writeError(c, status, "CONFLICT", "conflict")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
