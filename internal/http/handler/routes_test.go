package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gradia/internal/auth"
	authMocks "gradia/internal/auth/mocks"
	"gradia/internal/model"
	"gradia/internal/service"
	serviceMocks "gradia/internal/service/mocks"
)

type routeMocks struct {
	verifier *authMocks.MockVerifier
	users    *serviceMocks.MockUserService
	periods  *serviceMocks.MockPeriodService
	records  *serviceMocks.MockRecordService
}

func newRoutedApp(t *testing.T) (*fiber.App, routeMocks) {
	t.Helper()
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	dbMock.ExpectPing()

	m := routeMocks{
		verifier: new(authMocks.MockVerifier),
		users:    new(serviceMocks.MockUserService),
		periods:  new(serviceMocks.MockPeriodService),
		records:  new(serviceMocks.MockRecordService),
	}
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, Deps{
		DB:          db,
		Verifier:    m.verifier,
		Users:       m.users,
		Periods:     m.periods,
		Cycles:      new(serviceMocks.MockCycleService),
		Categories:  new(serviceMocks.MockCategoryService),
		Records:     m.records,
		Attachments: new(serviceMocks.MockAttachmentService),
		Reports:     new(serviceMocks.MockReportService),
		Summaries:   new(serviceMocks.MockSummaryService),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return app, m
}

// signIn makes "Bearer good" resolve to testUserID.
func (m routeMocks) signIn() {
	m.verifier.On("Verify", anyCtx, "good").Return(&auth.Token{UID: "uid-1", Email: "a@b.c"}, nil)
	m.users.On("EnsureUser", anyCtx, "uid-1", "a@b.c").Return(&model.User{ID: testUserID}, nil)
}

func TestRouting(t *testing.T) {
	t.Run("verify-token skips the user lookup", func(t *testing.T) {
		app, m := newRoutedApp(t)
		m.verifier.On("Verify", anyCtx, "good").Return(&auth.Token{UID: "uid-1"}, nil).Once()

		req := jsonRequest(http.MethodPost, "/finance/verify-token/", "")
		req.Header.Set("Authorization", "Bearer good")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		m.verifier.AssertExpectations(t)
		m.users.AssertNotCalled(t, "EnsureUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("finance routes require a token", func(t *testing.T) {
		app, m := newRoutedApp(t)

		resp, err := app.Test(jsonRequest(http.MethodGet, "/finance/periods/", ""))
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
		m.periods.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("health stays public", func(t *testing.T) {
		app, _ := newRoutedApp(t)

		resp, err := app.Test(jsonRequest(http.MethodGet, "/health", ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("copy-previous-month is not taken for a record id", func(t *testing.T) {
		app, m := newRoutedApp(t)
		m.signIn()
		current, previous := uuid.NewString(), uuid.NewString()
		m.records.On("Copy", anyCtx, testUserID, service.CopyRequest{CurrentCycleID: current, PreviousCycleID: previous}, service.CopyPreviousMonth).
			Return([]service.RecordView{}, nil).Once()

		req := jsonRequest(http.MethodPost, "/finance/financial_records/copy-previous-month/",
			`{"current_cycle_id":"`+current+`","previous_cycle_id":"`+previous+`"}`)
		req.Header.Set("Authorization", "Bearer good")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		m.records.AssertExpectations(t)
	})

	t.Run("record id route with trailing slash", func(t *testing.T) {
		app, m := newRoutedApp(t)
		m.signIn()
		id := uuid.NewString()
		m.records.On("Get", anyCtx, testUserID, id).
			Return(&service.RecordView{FinancialRecord: model.FinancialRecord{ID: id}}, nil).Once()

		req := jsonRequest(http.MethodGet, "/finance/financial_records/"+id+"/", "")
		req.Header.Set("Authorization", "Bearer good")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		m.records.AssertExpectations(t)
	})
}
