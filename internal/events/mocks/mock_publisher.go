package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishSummaryRefresh(ctx context.Context, reason string, cycleIDs ...string) error {
	args := m.Called(ctx, reason, cycleIDs)
	return args.Error(0)
}
