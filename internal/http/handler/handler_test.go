package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradia/internal/auth"
	authMocks "gradia/internal/auth/mocks"
	"gradia/internal/http/middleware"
	"gradia/internal/model"
	"gradia/internal/service"
)

const testUserID = "user-1"

// newTestApp returns an app that behaves as if middleware.Auth had accepted
// testUserID.
func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.UserLocalKey, &model.User{ID: testUserID})
		return c.Next()
	})
	return app
}

func jsonRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"unauthorized keeps message", fiber.NewError(fiber.StatusUnauthorized, "Invalid Firebase token."), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"not found", fiber.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"too large", fiber.ErrRequestEntityTooLarge, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)

			assert.Equal(t, tt.wantCode, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, tt.wantBody, body.Error.Code)
			if tt.wantCode == http.StatusUnauthorized {
				assert.Equal(t, "Invalid Firebase token.", body.Error.Message)
			}
		})
	}
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{fmt.Errorf("%w: title is required", service.ErrInvalidInput), http.StatusBadRequest, "INVALID_INPUT"},
		{service.ErrRecordNotFound, http.StatusNotFound, "NOT_FOUND"},
		{service.ErrNothingToCopy, http.StatusNotFound, "NOTHING_TO_COPY"},
		{service.ErrPeriodExists, http.StatusBadRequest, "PERIOD_EXISTS"},
		{service.ErrDefaultCategory, http.StatusBadRequest, "DEFAULT_CATEGORY"},
		{service.ErrCategoryCodeConflict, http.StatusConflict, "CATEGORY_CODE_CONFLICT"},
		{service.ErrCycleForbidden, http.StatusForbidden, "FORBIDDEN"},
		{errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			var logged any
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				err := writeServiceError(c, tt.err)
				logged = c.Locals(middleware.ErrorLocalKey)
				return err
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", body.Error.Message)
				assert.Equal(t, tt.err, logged)
			} else {
				assert.Equal(t, tt.err.Error(), body.Error.Message)
				assert.Nil(t, logged)
			}
		})
	}
}

func TestUnauthenticated(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/periods", ListPeriods(nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/periods", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
}

func TestVerifyToken(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		verifyErr  error
		wantStatus int
		wantCode   string
	}{
		{"valid", "Bearer good", nil, http.StatusOK, ""},
		{"missing header", "", nil, http.StatusBadRequest, "INVALID_AUTH_HEADER"},
		{"expired", "Bearer old", auth.ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"invalid", "Bearer bad", auth.ErrTokenInvalid, http.StatusUnauthorized, "INVALID_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := new(authMocks.MockVerifier)
			if tt.header != "" {
				token := strings.TrimPrefix(tt.header, "Bearer ")
				if tt.verifyErr != nil {
					v.On("Verify", anyCtx, token).Return(nil, tt.verifyErr).Once()
				} else {
					v.On("Verify", anyCtx, token).Return(&auth.Token{UID: "uid-1"}, nil).Once()
				}
			}

			app := fiber.New()
			app.Post("/verify-token", VerifyToken(v))

			req := httptest.NewRequest(http.MethodPost, "/verify-token", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, resp).Error.Code)
			} else {
				var body map[string]string
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, "uid-1", body["uid"])
				assert.Equal(t, "Token is valid.", body["message"])
			}
			v.AssertExpectations(t)
		})
	}
}

func TestPathAndQueryHelpers(t *testing.T) {
	id := uuid.NewString()
	app := fiber.New()
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		got, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		ids, ok := queryIDs(c, "category")
		if !ok {
			return invalidFilter(c, "category")
		}
		archived, ok := queryBool(c, "is_archived")
		if !ok {
			return invalidFilter(c, "is_archived")
		}
		return c.JSON(fiber.Map{"id": got, "categories": ids, "archived": archived})
	})

	t.Run("valid", func(t *testing.T) {
		a, b := uuid.NewString(), uuid.NewString()
		target := fmt.Sprintf("/items/%s?category=%s&category=%s&is_archived=true", id, a, b)
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			ID         string   `json:"id"`
			Categories []string `json:"categories"`
			Archived   *bool    `json:"archived"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, id, body.ID)
		assert.Equal(t, []string{a, b}, body.Categories)
		require.NotNil(t, body.Archived)
		assert.True(t, *body.Archived)
	})

	t.Run("non uuid path", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/items/42", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("bad filter", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/items/"+id+"?category=nope", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_FILTER", decodeError(t, resp).Error.Code)
	})

	t.Run("bad bool", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/items/"+id+"?is_archived=maybe", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
