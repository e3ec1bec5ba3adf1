package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradia/internal/model"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/finance/periods", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(RequestIDLocalKey).(string))
	})

	tests := []struct {
		name     string
		incoming string
	}{
		{"generated when missing", ""},
		{"incoming id kept", "test-id-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/finance/periods", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)

			header := resp.Header.Get(RequestIDHeader)
			if tt.incoming != "" {
				assert.Equal(t, tt.incoming, header)
			} else {
				assert.Len(t, header, 36)
			}
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, header, string(body))
		})
	}
}

func TestRequestIDFrom(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/ctx", func(c *fiber.Ctx) error {
		return c.SendString(RequestIDFrom(c.UserContext()))
	})

	req := httptest.NewRequest("GET", "/ctx", nil)
	req.Header.Set(RequestIDHeader, "abc")
	resp, _ := app.Test(req)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "abc", string(body))
}

// logEntry runs one request through Logger and decodes the single log line.
func logEntry(t *testing.T, handler fiber.Handler, setup fiber.Handler) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf, time.UTC))
	if setup != nil {
		app.Use(setup)
	}
	app.Get("/finance/report-data", handler)

	_, err := app.Test(httptest.NewRequest("GET", "/finance/report-data", nil))
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogger(t *testing.T) {
	entry := logEntry(t, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	}, nil)

	assert.NotEmpty(t, entry["request_id"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/finance/report-data", entry["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), entry["status"])
	assert.NotNil(t, entry["latency"])
	assert.NotEmpty(t, entry["ts"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "http_request", entry["msg"])
	assert.Equal(t, "http", entry["component"])
	assert.NotContains(t, entry, "user_id")
}

func TestLogger_Fields(t *testing.T) {
	tests := []struct {
		name       string
		handler    fiber.Handler
		setup      fiber.Handler
		wantStatus float64
		wantLevel  string
		wantUser   string
		wantError  string
	}{
		{
			name:       "fiber error status",
			handler:    func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusConflict, "conflict") },
			wantStatus: fiber.StatusConflict,
			wantLevel:  "INFO",
		},
		{
			name: "authenticated user",
			handler: func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			},
			setup: func(c *fiber.Ctx) error {
				c.Locals(UserLocalKey, &model.User{ID: "user-1"})
				return c.Next()
			},
			wantStatus: fiber.StatusOK,
			wantLevel:  "INFO",
			wantUser:   "user-1",
		},
		{
			name: "hidden internal error",
			handler: func(c *fiber.Ctx) error {
				c.Locals(ErrorLocalKey, errors.New("pq: deadlock detected"))
				return c.SendStatus(fiber.StatusInternalServerError)
			},
			wantStatus: fiber.StatusInternalServerError,
			wantLevel:  "ERROR",
			wantError:  "pq: deadlock detected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := logEntry(t, tt.handler, tt.setup)

			assert.Equal(t, tt.wantStatus, entry["status"])
			assert.Equal(t, tt.wantLevel, entry["level"])
			if tt.wantUser != "" {
				assert.Equal(t, tt.wantUser, entry["user_id"])
			}
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, entry["error"])
			} else {
				assert.NotContains(t, entry, "error")
			}
		})
	}
}
