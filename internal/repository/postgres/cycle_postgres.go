package postgres

import (
	"context"
	"database/sql"

	"gradia/internal/model"
	"gradia/internal/repository"
)

const cycleColumns = `c.id, c.period_id, c.month, c.name`

// sumColumns aggregates financial_records aliased fr into the four Totals components.
const sumColumns = `
	COALESCE(SUM(fr.current_amount) FILTER (WHERE fr.type_choice = 'income'), 0),
	COALESCE(SUM(fr.current_amount) FILTER (WHERE fr.type_choice = 'expenses'), 0),
	COALESCE(SUM(fr.planned_amount) FILTER (WHERE fr.type_choice = 'income'), 0),
	COALESCE(SUM(fr.planned_amount) FILTER (WHERE fr.type_choice = 'expenses'), 0)`

// actualSumColumns aggregates only the current amounts of fr.
const actualSumColumns = `
	COALESCE(SUM(fr.current_amount) FILTER (WHERE fr.type_choice = 'income'), 0),
	COALESCE(SUM(fr.current_amount) FILTER (WHERE fr.type_choice = 'expenses'), 0)`

// CyclePostgres is a PostgreSQL implementation of repository.CycleRepository.
type CyclePostgres struct {
	db *sql.DB
}

// NewCyclePostgres creates a new CyclePostgres repository.
func NewCyclePostgres(db *sql.DB) *CyclePostgres {
	return &CyclePostgres{db: db}
}

var _ repository.CycleRepository = (*CyclePostgres)(nil)

func scanCycle(s rowScanner) (*model.Cycle, error) {
	var c model.Cycle
	if err := s.Scan(&c.ID, &c.PeriodID, &c.Month, &c.Name); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateBatch inserts all cycles in one statement and returns them in input
// order.
func (r *CyclePostgres) CreateBatch(ctx context.Context, cycles []model.Cycle) ([]model.Cycle, error) {
	if len(cycles) == 0 {
		return []model.Cycle{}, nil
	}
	q := `
		INSERT INTO cycles AS c (id, period_id, month, name)
		VALUES ` + valuesList(len(cycles), 4) + `
		RETURNING ` + cycleColumns
	args := make([]any, 0, len(cycles)*4)
	ids := make([]string, 0, len(cycles))
	for _, c := range cycles {
		args = append(args, c.ID, c.PeriodID, c.Month, c.Name)
		ids = append(ids, c.ID)
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]model.Cycle, 0, len(cycles))
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return inInputOrder(ids, out, func(c model.Cycle) string { return c.ID }), nil
}

// FindByID fetches a cycle whose period belongs to the user.
func (r *CyclePostgres) FindByID(ctx context.Context, userID, id string) (*model.Cycle, error) {
	const q = `
		SELECT ` + cycleColumns + `
		FROM cycles c
		JOIN periods p ON p.id = c.period_id
		WHERE c.id = $1 AND p.user_id = $2
	`
	return scanCycle(conn(ctx, r.db).QueryRowContext(ctx, q, id, userID))
}

// Get fetches a cycle by ID only.
func (r *CyclePostgres) Get(ctx context.Context, id string) (*model.Cycle, error) {
	const q = `SELECT ` + cycleColumns + ` FROM cycles c WHERE c.id = $1`
	return scanCycle(conn(ctx, r.db).QueryRowContext(ctx, q, id))
}

// List returns the user's cycles, optionally limited to one period.
func (r *CyclePostgres) List(ctx context.Context, userID, periodID string) ([]model.Cycle, error) {
	w := &where{}
	w.add("p.user_id = ?", userID)
	if periodID != "" {
		w.add("c.period_id = ?", periodID)
	}
	q := `SELECT ` + cycleColumns + ` FROM cycles c JOIN periods p ON p.id = c.period_id` +
		w.String() + ` ORDER BY p.title, c.month`

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Cycle, 0)
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateName renames a cycle.
func (r *CyclePostgres) UpdateName(ctx context.Context, c *model.Cycle) (*model.Cycle, error) {
	const q = `UPDATE cycles AS c SET name = $1 WHERE c.id = $2 RETURNING ` + cycleColumns
	return scanCycle(conn(ctx, r.db).QueryRowContext(ctx, q, c.Name, c.ID))
}

// Totals sums the records of every cycle of a period.
func (r *CyclePostgres) Totals(ctx context.Context, periodID string) (map[string]model.Totals, error) {
	const q = `
		SELECT fr.cycle_id,` + sumColumns + `
		FROM financial_records fr
		JOIN cycles c ON c.id = fr.cycle_id
		WHERE c.period_id = $1
		GROUP BY fr.cycle_id
	`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]model.Totals)
	for rows.Next() {
		var (
			cycleID string
			t       model.Totals
		)
		if err := rows.Scan(&cycleID, &t.Incomes, &t.Expenses, &t.PlannedIncomes, &t.PlannedExpenses); err != nil {
			return nil, err
		}
		out[cycleID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SummaryTotals returns actual sums of one cycle for every category of the
// cycle's owner, zero for categories without records in it.
func (r *CyclePostgres) SummaryTotals(ctx context.Context, cycleID string) ([]model.CategoryTotals, error) {
	const q = `
		SELECT cat.id, cat.name, cat.code,` + actualSumColumns + `
		FROM cycles c
		JOIN periods p ON p.id = c.period_id
		JOIN categories cat ON cat.user_id = p.user_id
		LEFT JOIN financial_records fr ON fr.category_id = cat.id AND fr.cycle_id = c.id
		WHERE c.id = $1
		GROUP BY cat.id, cat.name, cat.code
		ORDER BY cat.name
	`
	return queryCategoryTotals(ctx, conn(ctx, r.db), q, cycleID)
}

// CategoryTotals returns per-category actual sums of one cycle.
func (r *CyclePostgres) CategoryTotals(ctx context.Context, cycleID string) ([]model.CategoryTotals, error) {
	const q = `
		SELECT cat.id, cat.name, cat.code,` + actualSumColumns + `
		FROM financial_records fr
		JOIN categories cat ON cat.id = fr.category_id
		WHERE fr.cycle_id = $1
		GROUP BY cat.id, cat.name, cat.code
		ORDER BY cat.name
	`
	return queryCategoryTotals(ctx, conn(ctx, r.db), q, cycleID)
}

// AllIDs lists the IDs of every cycle.
func (r *CyclePostgres) AllIDs(ctx context.Context) ([]string, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `SELECT id FROM cycles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func queryCategoryTotals(ctx context.Context, q querier, query string, args ...any) ([]model.CategoryTotals, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.CategoryTotals, 0)
	for rows.Next() {
		var ct model.CategoryTotals
		if err := rows.Scan(&ct.CategoryID, &ct.Name, &ct.Code, &ct.TotalIncome, &ct.TotalExpense); err != nil {
			return nil, err
		}
		items = append(items, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
