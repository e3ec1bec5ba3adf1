package postgres

import (
	"context"
	"database/sql"

	"gradia/internal/model"
	"gradia/internal/repository"
)

// SummaryPostgres is a PostgreSQL implementation of repository.SummaryRepository.
type SummaryPostgres struct {
	db *sql.DB
}

// NewSummaryPostgres creates a new SummaryPostgres repository.
func NewSummaryPostgres(db *sql.DB) *SummaryPostgres {
	return &SummaryPostgres{db: db}
}

var _ repository.SummaryRepository = (*SummaryPostgres)(nil)

// ReplaceForCycle deletes the cycle's rows and inserts rows. Run it inside a transaction.
func (r *SummaryPostgres) ReplaceForCycle(ctx context.Context, cycleID string, rows []model.FinancialSummary) error {
	q := conn(ctx, r.db)
	if _, err := q.ExecContext(ctx, `DELETE FROM financial_summaries WHERE cycle_id = $1`, cycleID); err != nil {
		return err
	}

	const ins = `
		INSERT INTO financial_summaries
			(period_id, cycle_id, category_id, total_incomes, total_expenses, net_income, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, s := range rows {
		var categoryID sql.NullString
		if s.CategoryID != nil {
			categoryID = sql.NullString{String: *s.CategoryID, Valid: true}
		}
		if _, err := q.ExecContext(ctx, ins,
			s.PeriodID,
			cycleID,
			categoryID,
			s.TotalIncomes,
			s.TotalExpenses,
			s.NetIncome,
			s.UpdatedAt,
		); err != nil {
			return mapError(err)
		}
	}
	return nil
}

// ListByPeriod returns the period's summary rows, the all-categories row of each cycle first.
func (r *SummaryPostgres) ListByPeriod(ctx context.Context, periodID string) ([]model.FinancialSummary, error) {
	const q = `
		SELECT s.period_id, s.cycle_id, s.category_id, s.total_incomes, s.total_expenses, s.net_income, s.updated_at
		FROM financial_summaries s
		JOIN cycles c ON c.id = s.cycle_id
		WHERE s.period_id = $1
		ORDER BY c.month, s.category_id NULLS FIRST
	`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.FinancialSummary, 0)
	for rows.Next() {
		var (
			s          model.FinancialSummary
			categoryID sql.NullString
		)
		if err := rows.Scan(
			&s.PeriodID,
			&s.CycleID,
			&categoryID,
			&s.TotalIncomes,
			&s.TotalExpenses,
			&s.NetIncome,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if categoryID.Valid {
			id := categoryID.String
			s.CategoryID = &id
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
