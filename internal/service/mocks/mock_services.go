package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gradia/internal/model"
	"gradia/internal/repository"
	"gradia/internal/service"
)

type MockPeriodService struct {
	mock.Mock
}

func (m *MockPeriodService) Create(ctx context.Context, userID, title string) (*service.PeriodView, error) {
	args := m.Called(ctx, userID, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PeriodView), args.Error(1)
}

func (m *MockPeriodService) StartCurrent(ctx context.Context, userID string) (*service.PeriodView, bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*service.PeriodView), args.Bool(1), args.Error(2)
}

func (m *MockPeriodService) List(ctx context.Context, userID string, f repository.PeriodFilter) ([]service.PeriodView, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.PeriodView), args.Error(1)
}

func (m *MockPeriodService) Get(ctx context.Context, userID, id string) (*service.PeriodView, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PeriodView), args.Error(1)
}

func (m *MockPeriodService) Update(ctx context.Context, userID, id string, in service.PeriodUpdate) (*service.PeriodView, error) {
	args := m.Called(ctx, userID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PeriodView), args.Error(1)
}

func (m *MockPeriodService) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockPeriodService) Summary(ctx context.Context, userID, id string) (*service.PeriodSummary, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PeriodSummary), args.Error(1)
}

type MockCycleService struct {
	mock.Mock
}

func (m *MockCycleService) List(ctx context.Context, userID, periodID string) ([]service.CycleView, error) {
	args := m.Called(ctx, userID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.CycleView), args.Error(1)
}

func (m *MockCycleService) Get(ctx context.Context, userID, id string) (*service.CycleView, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CycleView), args.Error(1)
}

func (m *MockCycleService) Rename(ctx context.Context, userID, id, name string) (*service.CycleView, error) {
	args := m.Called(ctx, userID, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CycleView), args.Error(1)
}

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context, userID string) ([]model.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryService) Get(ctx context.Context, userID, id string) (*model.Category, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, userID string, in service.CategoryInput) (*model.Category, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, userID, id string, in service.CategoryUpdate) (*model.Category, error) {
	args := m.Called(ctx, userID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockCategoryService) EnsureDefault(ctx context.Context, userID string) (*model.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) List(ctx context.Context, userID string, f repository.RecordFilter) ([]service.RecordView, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.RecordView), args.Error(1)
}

func (m *MockRecordService) Get(ctx context.Context, userID, id string) (*service.RecordView, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecordView), args.Error(1)
}

func (m *MockRecordService) Create(ctx context.Context, userID string, in service.RecordInput) (*service.RecordView, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecordView), args.Error(1)
}

func (m *MockRecordService) Update(ctx context.Context, userID, id string, in service.RecordUpdate) (*service.RecordView, error) {
	args := m.Called(ctx, userID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecordView), args.Error(1)
}

func (m *MockRecordService) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockRecordService) Copy(ctx context.Context, userID string, req service.CopyRequest, opts service.CopyOptions) ([]service.RecordView, error) {
	args := m.Called(ctx, userID, req, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.RecordView), args.Error(1)
}

type MockAttachmentService struct {
	mock.Mock
}

func (m *MockAttachmentService) Upload(ctx context.Context, userID, recordID string, in service.UploadInput) (*service.AttachmentView, error) {
	args := m.Called(ctx, userID, recordID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AttachmentView), args.Error(1)
}

func (m *MockAttachmentService) List(ctx context.Context, userID, recordID string) ([]service.AttachmentView, error) {
	args := m.Called(ctx, userID, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.AttachmentView), args.Error(1)
}

func (m *MockAttachmentService) Delete(ctx context.Context, userID, recordID, id string) error {
	args := m.Called(ctx, userID, recordID, id)
	return args.Error(0)
}

func (m *MockAttachmentService) DeleteAll(ctx context.Context, recordID string) error {
	args := m.Called(ctx, recordID)
	return args.Error(0)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Report(ctx context.Context, userID string) (*service.Report, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Report), args.Error(1)
}

type MockSummaryService struct {
	mock.Mock
}

func (m *MockSummaryService) RefreshCycle(ctx context.Context, cycleID string) error {
	args := m.Called(ctx, cycleID)
	return args.Error(0)
}

func (m *MockSummaryService) RefreshAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockSummaryService) ListForPeriod(ctx context.Context, userID, periodID string) ([]model.FinancialSummary, error) {
	args := m.Called(ctx, userID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FinancialSummary), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) EnsureUser(ctx context.Context, uid, email string) (*model.User, error) {
	args := m.Called(ctx, uid, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
