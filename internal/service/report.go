package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"gradia/internal/finance"
	"gradia/internal/model"
	"gradia/internal/repository"
)

// ReportService assembles the report data of a user.
type ReportService interface {
	Report(ctx context.Context, userID string) (*Report, error)
}

type reportService struct {
	periods    repository.PeriodRepository
	cycles     repository.CycleRepository
	categories repository.CategoryRepository
	limit      int
}

// NewReportService constructs a ReportService issuing at most limit queries at once.
func NewReportService(periods repository.PeriodRepository, cycles repository.CycleRepository, categories repository.CategoryRepository, limit int) ReportService {
	if limit <= 0 {
		limit = viewConcurrency
	}
	return &reportService{periods: periods, cycles: cycles, categories: categories, limit: limit}
}

func (s *reportService) Report(ctx context.Context, userID string) (*Report, error) {
	periods, err := s.periods.List(ctx, userID, repository.PeriodFilter{})
	if err != nil {
		return nil, err
	}
	cycles, err := s.cycles.List(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	totals := make([]map[string]model.Totals, len(periods))
	breakdown := make([][]model.CategoryTotals, len(cycles))
	var categories []model.CategoryTotals

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i, p := range periods {
		g.Go(func() error {
			t, err := s.cycles.Totals(gctx, p.ID)
			totals[i] = t
			return err
		})
	}
	for i, c := range cycles {
		g.Go(func() error {
			ct, err := s.cycles.CategoryTotals(gctx, c.ID)
			breakdown[i] = ct
			return err
		})
	}
	g.Go(func() error {
		ct, err := s.categories.Totals(gctx, userID)
		categories = ct
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byCycle := make(map[string]model.Totals)
	titles := make(map[string]string, len(periods))
	for _, t := range totals {
		for k, v := range t {
			byCycle[k] = v
		}
	}

	// Period totals roll up from their cycles.
	periodParts := make(map[string][]model.Totals, len(periods))
	report := &Report{
		Periods:    make([]ReportPeriod, 0, len(periods)),
		Cycles:     make([]ReportCycle, 0, len(cycles)),
		Categories: categories,
	}
	for _, p := range periods {
		titles[p.ID] = p.Title
	}
	for i, c := range cycles {
		t := cycleTotals(byCycle, c.ID)
		periodParts[c.PeriodID] = append(periodParts[c.PeriodID], t)
		report.Cycles = append(report.Cycles, ReportCycle{
			ID:          c.ID,
			Name:        c.Name,
			Month:       c.Month,
			PeriodTitle: titles[c.PeriodID],
			Summary:     finance.Summarize(t),
			Categories:  breakdown[i],
		})
	}
	for _, p := range periods {
		report.Periods = append(report.Periods, ReportPeriod{
			ID:      p.ID,
			Title:   p.Title,
			Summary: finance.Summarize(finance.Rollup(periodParts[p.ID]...)),
		})
	}
	if report.Categories == nil {
		report.Categories = []model.CategoryTotals{}
	}
	return report, nil
}
