package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"gradia/internal/model"
	"gradia/internal/repository"
)

// SummaryService maintains the materialized per-cycle totals.
type SummaryService interface {
	// RefreshCycle rebuilds the rows of one cycle: one per category of the
	// owner, zero when unused, plus the all-categories row. A deleted cycle is
	// skipped.
	RefreshCycle(ctx context.Context, cycleID string) error
	// RefreshAll rebuilds every cycle and returns how many were processed.
	RefreshAll(ctx context.Context) (int, error)
	ListForPeriod(ctx context.Context, userID, periodID string) ([]model.FinancialSummary, error)
}

type summaryService struct {
	tx        repository.Transactor
	periods   repository.PeriodRepository
	cycles    repository.CycleRepository
	summaries repository.SummaryRepository
	limit     int
	logger    *slog.Logger
}

// NewSummaryService constructs a SummaryService refreshing at most limit cycles at once.
func NewSummaryService(tx repository.Transactor, periods repository.PeriodRepository, cycles repository.CycleRepository, summaries repository.SummaryRepository, limit int, logger *slog.Logger) SummaryService {
	if limit <= 0 {
		limit = 1
	}
	return &summaryService{tx: tx, periods: periods, cycles: cycles, summaries: summaries, limit: limit, logger: logger}
}

func (s *summaryService) RefreshCycle(ctx context.Context, cycleID string) error {
	c, err := s.cycles.Get(ctx, cycleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.InfoContext(ctx, "summary_refresh_skipped", "cycle_id", cycleID, "reason", "cycle not found")
			return nil
		}
		return err
	}

	totals, err := s.cycles.SummaryTotals(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("category totals: %w", err)
	}
	rows := SummaryRows(*c, totals, time.Now().UTC())

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.summaries.ReplaceForCycle(ctx, c.ID, rows)
	})
}

// SummaryRows turns per-category totals of a cycle into summary rows, the
// all-categories row first.
func SummaryRows(c model.Cycle, totals []model.CategoryTotals, now time.Time) []model.FinancialSummary {
	all := model.FinancialSummary{PeriodID: c.PeriodID, CycleID: c.ID, UpdatedAt: now}
	rows := make([]model.FinancialSummary, 0, len(totals)+1)
	rows = append(rows, all)
	for _, t := range totals {
		id := t.CategoryID
		rows[0].TotalIncomes = rows[0].TotalIncomes.Add(t.TotalIncome)
		rows[0].TotalExpenses = rows[0].TotalExpenses.Add(t.TotalExpense)
		rows = append(rows, model.FinancialSummary{
			PeriodID:      c.PeriodID,
			CycleID:       c.ID,
			CategoryID:    &id,
			TotalIncomes:  t.TotalIncome,
			TotalExpenses: t.TotalExpense,
			NetIncome:     t.TotalIncome.Sub(t.TotalExpense),
			UpdatedAt:     now,
		})
	}
	rows[0].NetIncome = rows[0].TotalIncomes.Sub(rows[0].TotalExpenses)
	return rows
}

func (s *summaryService) RefreshAll(ctx context.Context) (int, error) {
	ids, err := s.cycles.AllIDs(ctx)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for _, id := range ids {
		g.Go(func() error {
			if err := s.RefreshCycle(gctx, id); err != nil {
				return fmt.Errorf("refresh cycle %s: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (s *summaryService) ListForPeriod(ctx context.Context, userID, periodID string) ([]model.FinancialSummary, error) {
	if _, err := s.periods.FindByID(ctx, userID, periodID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPeriodNotFound
		}
		return nil, err
	}
	return s.summaries.ListByPeriod(ctx, periodID)
}
