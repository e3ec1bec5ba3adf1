package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gradia/internal/model"
	"gradia/internal/repository"
	repoMocks "gradia/internal/repository/mocks"
)

func TestCycleService_List(t *testing.T) {
	ctx := context.Background()
	mPeriods := new(repoMocks.MockPeriodRepository)
	mCycles := new(repoMocks.MockCycleRepository)
	mCycles.On("List", ctx, "u1", "").Return([]model.Cycle{
		{ID: "c1", PeriodID: "p1", Month: 1, Name: "January"},
		{ID: "c2", PeriodID: "p2", Month: 1, Name: "January"},
	}, nil)
	mPeriods.On("List", ctx, "u1", repository.PeriodFilter{PeriodIDs: []string{"p1", "p2"}}).
		Return([]model.Period{{ID: "p1", Title: "2023"}, {ID: "p2", Title: "2024"}}, nil)
	mCycles.On("Totals", mock.Anything, "p1").Return(map[string]model.Totals{
		"c1": {Incomes: dec("10"), Expenses: dec("3"), PlannedIncomes: dec("0"), PlannedExpenses: dec("0")},
	}, nil)
	mCycles.On("Totals", mock.Anything, "p2").Return(map[string]model.Totals{}, nil)
	svc := NewCycleService(mPeriods, mCycles)

	views, err := svc.List(ctx, "u1", "")

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, PeriodRef{ID: "p1", Title: "2023"}, views[0].Period)
	assert.True(t, views[0].NetIncome.Equal(dec("7")))
	assert.Equal(t, "2024", views[1].Period.Title)
	assert.True(t, views[1].NetIncome.IsZero())
}

func TestCycleService_List_Empty(t *testing.T) {
	ctx := context.Background()
	mCycles := new(repoMocks.MockCycleRepository)
	mCycles.On("List", ctx, "u1", "p1").Return([]model.Cycle{}, nil)
	svc := NewCycleService(new(repoMocks.MockPeriodRepository), mCycles)

	views, err := svc.List(ctx, "u1", "p1")

	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestCycleService_Rename(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		input    string
		wantName string
		wantErr  error
	}{
		{name: "custom name", input: " Holidays ", wantName: "Holidays"},
		{name: "blank restores month name", input: "  ", wantName: "March"},
		{name: "too long", input: strings.Repeat("x", maxCycleNameLen+1), wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mPeriods := new(repoMocks.MockPeriodRepository)
			mCycles := new(repoMocks.MockCycleRepository)
			mCycles.On("FindByID", ctx, "u1", "c3").Return(&model.Cycle{ID: "c3", PeriodID: "p1", Month: 3, Name: "Old"}, nil)
			mCycles.On("UpdateName", ctx, mock.MatchedBy(func(c *model.Cycle) bool { return c.Name == tt.wantName })).
				Return(&model.Cycle{ID: "c3", PeriodID: "p1", Month: 3, Name: tt.wantName}, nil).Maybe()
			mPeriods.On("FindByID", ctx, "u1", "p1").Return(&model.Period{ID: "p1", Title: "2024"}, nil).Maybe()
			mCycles.On("Totals", ctx, "p1").Return(map[string]model.Totals{}, nil).Maybe()
			svc := NewCycleService(mPeriods, mCycles)

			v, err := svc.Rename(ctx, "u1", "c3", tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				mCycles.AssertNotCalled(t, "UpdateName", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, v.Name)
			assert.Equal(t, "2024", v.Period.Title)
		})
	}
}

func TestCycleService_Get_NotFound(t *testing.T) {
	ctx := context.Background()
	mCycles := new(repoMocks.MockCycleRepository)
	mCycles.On("FindByID", ctx, "u1", "c9").Return(nil, sql.ErrNoRows)
	svc := NewCycleService(new(repoMocks.MockPeriodRepository), mCycles)

	_, err := svc.Get(ctx, "u1", "c9")

	assert.ErrorIs(t, err, ErrCycleNotFound)
}
