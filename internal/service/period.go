package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"gradia/internal/finance"
	"gradia/internal/model"
	"gradia/internal/repository"
)

// viewConcurrency bounds the parallel queries issued while building list views.
const viewConcurrency = 4

// PeriodUpdate carries the editable period fields. Nil fields are left unchanged.
type PeriodUpdate struct {
	Title      *string
	IsArchived *bool
}

// PeriodService manages a user's yearly periods and their twelve cycles.
type PeriodService interface {
	// Create adds the period for a year together with its cycles.
	Create(ctx context.Context, userID, title string) (*PeriodView, error)
	// StartCurrent returns the current year's period, creating it when missing.
	StartCurrent(ctx context.Context, userID string) (*PeriodView, bool, error)
	List(ctx context.Context, userID string, f repository.PeriodFilter) ([]PeriodView, error)
	Get(ctx context.Context, userID, id string) (*PeriodView, error)
	Update(ctx context.Context, userID, id string, in PeriodUpdate) (*PeriodView, error)
	Delete(ctx context.Context, userID, id string) error
	Summary(ctx context.Context, userID, id string) (*PeriodSummary, error)
}

type periodService struct {
	tx      repository.Transactor
	periods repository.PeriodRepository
	cycles  repository.CycleRepository
	now     func() time.Time
}

// NewPeriodService constructs a PeriodService. now supplies the clock used
// to pick the current year.
func NewPeriodService(tx repository.Transactor, periods repository.PeriodRepository, cycles repository.CycleRepository, now func() time.Time) PeriodService {
	if now == nil {
		now = time.Now
	}
	return &periodService{tx: tx, periods: periods, cycles: cycles, now: now}
}

func (s *periodService) Create(ctx context.Context, userID, title string) (*PeriodView, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("year (title) is required")
	}
	if !finance.ValidPeriodTitle(title) {
		return nil, invalid("title must be a four digit year")
	}

	var view PeriodView
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.periods.FindByTitle(ctx, userID, title); err == nil {
			return ErrPeriodExists
		} else if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		p, err := s.periods.Create(ctx, &model.Period{
			ID:        uuid.New().String(),
			UserID:    userID,
			Title:     title,
			CreatedAt: s.now().UTC(),
		})
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrPeriodExists
			}
			return fmt.Errorf("create period: %w", err)
		}

		cycles, err := s.cycles.CreateBatch(ctx, newCycles(p.ID))
		if err != nil {
			return fmt.Errorf("create cycles: %w", err)
		}
		view = buildPeriodView(*p, cycles, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func newCycles(periodID string) []model.Cycle {
	cycles := make([]model.Cycle, 0, finance.MonthsPerPeriod)
	for m := 1; m <= finance.MonthsPerPeriod; m++ {
		name, _ := finance.MonthName(m)
		cycles = append(cycles, model.Cycle{
			ID:       uuid.New().String(),
			PeriodID: periodID,
			Month:    m,
			Name:     name,
		})
	}
	return cycles
}

func (s *periodService) StartCurrent(ctx context.Context, userID string) (*PeriodView, bool, error) {
	title := strconv.Itoa(s.now().Year())

	p, err := s.periods.FindByTitle(ctx, userID, title)
	if err == nil {
		view, err := s.view(ctx, userID, *p)
		return view, false, err
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	view, err := s.Create(ctx, userID, title)
	if errors.Is(err, ErrPeriodExists) {
		// Lost a race with a concurrent request.
		p, err := s.periods.FindByTitle(ctx, userID, title)
		if err != nil {
			return nil, false, err
		}
		view, err := s.view(ctx, userID, *p)
		return view, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return view, true, nil
}

func (s *periodService) List(ctx context.Context, userID string, f repository.PeriodFilter) ([]PeriodView, error) {
	periods, err := s.periods.List(ctx, userID, f)
	if err != nil {
		return nil, err
	}

	views := make([]PeriodView, len(periods))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(viewConcurrency)
	for i, p := range periods {
		g.Go(func() error {
			v, err := s.view(gctx, userID, p)
			if err != nil {
				return err
			}
			views[i] = *v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

func (s *periodService) Get(ctx context.Context, userID, id string) (*PeriodView, error) {
	p, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, userID, *p)
}

func (s *periodService) Update(ctx context.Context, userID, id string, in PeriodUpdate) (*PeriodView, error) {
	p, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if !finance.ValidPeriodTitle(title) {
			return nil, invalid("title must be a four digit year")
		}
		p.Title = title
	}
	if in.IsArchived != nil {
		p.IsArchived = *in.IsArchived
	}

	updated, err := s.periods.Update(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPeriodExists
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPeriodNotFound
		}
		return nil, err
	}
	return s.view(ctx, userID, *updated)
}

func (s *periodService) Delete(ctx context.Context, userID, id string) error {
	if err := s.periods.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPeriodNotFound
		}
		return err
	}
	return nil
}

func (s *periodService) Summary(ctx context.Context, userID, id string) (*PeriodSummary, error) {
	p, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	totals, err := s.cycles.Totals(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	parts := make([]model.Totals, 0, len(totals))
	for _, t := range totals {
		parts = append(parts, t)
	}
	sum := finance.Summarize(finance.Rollup(parts...))
	return &PeriodSummary{
		Period:               p.Title,
		TotalIncomes:         sum.TotalIncomes,
		TotalExpenses:        sum.TotalExpenses,
		NetIncome:            sum.NetIncome,
		PlannedTotalIncomes:  sum.PlannedTotalIncomes,
		PlannedTotalExpenses: sum.PlannedTotalExpenses,
		PlannedNetIncome:     sum.PlannedNetIncome,
	}, nil
}

func (s *periodService) find(ctx context.Context, userID, id string) (*model.Period, error) {
	p, err := s.periods.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPeriodNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *periodService) view(ctx context.Context, userID string, p model.Period) (*PeriodView, error) {
	cycles, err := s.cycles.List(ctx, userID, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	totals, err := s.cycles.Totals(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("cycle totals: %w", err)
	}
	v := buildPeriodView(p, cycles, totals)
	return &v, nil
}
