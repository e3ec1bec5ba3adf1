package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"gradia/internal/finance"
	"gradia/internal/model"
	"gradia/internal/repository"
)

const maxCycleNameLen = 20

// CycleService exposes the monthly cycles of a user's periods.
type CycleService interface {
	// List returns the user's cycles; a non-empty periodID narrows to one period.
	List(ctx context.Context, userID, periodID string) ([]CycleView, error)
	Get(ctx context.Context, userID, id string) (*CycleView, error)
	// Rename changes the display name. An empty name restores the month name.
	Rename(ctx context.Context, userID, id, name string) (*CycleView, error)
}

type cycleService struct {
	periods repository.PeriodRepository
	cycles  repository.CycleRepository
}

// NewCycleService constructs a CycleService.
func NewCycleService(periods repository.PeriodRepository, cycles repository.CycleRepository) CycleService {
	return &cycleService{periods: periods, cycles: cycles}
}

func (s *cycleService) List(ctx context.Context, userID, periodID string) ([]CycleView, error) {
	cycles, err := s.cycles.List(ctx, userID, periodID)
	if err != nil {
		return nil, err
	}
	if len(cycles) == 0 {
		return []CycleView{}, nil
	}

	periodIDs := make([]string, 0)
	seen := make(map[string]struct{})
	for _, c := range cycles {
		if _, ok := seen[c.PeriodID]; !ok {
			seen[c.PeriodID] = struct{}{}
			periodIDs = append(periodIDs, c.PeriodID)
		}
	}

	periods, err := s.periods.List(ctx, userID, repository.PeriodFilter{PeriodIDs: periodIDs})
	if err != nil {
		return nil, err
	}
	refs := make(map[string]PeriodRef, len(periods))
	for _, p := range periods {
		refs[p.ID] = PeriodRef{ID: p.ID, Title: p.Title}
	}

	totals := make([]map[string]model.Totals, len(periodIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(viewConcurrency)
	for i, pid := range periodIDs {
		g.Go(func() error {
			t, err := s.cycles.Totals(gctx, pid)
			if err != nil {
				return err
			}
			totals[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	merged := make(map[string]model.Totals)
	for _, t := range totals {
		for k, v := range t {
			merged[k] = v
		}
	}

	views := make([]CycleView, 0, len(cycles))
	for _, c := range cycles {
		views = append(views, CycleView{
			Cycle:   c,
			Period:  refs[c.PeriodID],
			Summary: finance.Summarize(cycleTotals(merged, c.ID)),
		})
	}
	return views, nil
}

func (s *cycleService) Get(ctx context.Context, userID, id string) (*CycleView, error) {
	c, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, userID, *c)
}

func (s *cycleService) Rename(ctx context.Context, userID, id, name string) (*CycleView, error) {
	c, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > maxCycleNameLen {
		return nil, invalid("name must be at most %d characters", maxCycleNameLen)
	}
	if name == "" {
		name, err = finance.MonthName(c.Month)
		if err != nil {
			return nil, err
		}
	}
	c.Name = name

	updated, err := s.cycles.UpdateName(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, userID, *updated)
}

func (s *cycleService) find(ctx context.Context, userID, id string) (*model.Cycle, error) {
	c, err := s.cycles.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCycleNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *cycleService) view(ctx context.Context, userID string, c model.Cycle) (*CycleView, error) {
	p, err := s.periods.FindByID(ctx, userID, c.PeriodID)
	if err != nil {
		return nil, err
	}
	totals, err := s.cycles.Totals(ctx, c.PeriodID)
	if err != nil {
		return nil, err
	}
	return &CycleView{
		Cycle:   c,
		Period:  PeriodRef{ID: p.ID, Title: p.Title},
		Summary: finance.Summarize(cycleTotals(totals, c.ID)),
	}, nil
}
