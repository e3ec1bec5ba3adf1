package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"gradia/internal/model"
	"gradia/internal/repository"
)

const periodColumns = `p.id, p.user_id, p.title, p.is_archived, p.created_at`

// PeriodPostgres is a PostgreSQL implementation of repository.PeriodRepository.
type PeriodPostgres struct {
	db *sql.DB
}

// NewPeriodPostgres creates a new PeriodPostgres repository.
func NewPeriodPostgres(db *sql.DB) *PeriodPostgres {
	return &PeriodPostgres{db: db}
}

var _ repository.PeriodRepository = (*PeriodPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPeriod(s rowScanner) (*model.Period, error) {
	var p model.Period
	if err := s.Scan(&p.ID, &p.UserID, &p.Title, &p.IsArchived, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new period row.
func (r *PeriodPostgres) Create(ctx context.Context, p *model.Period) (*model.Period, error) {
	const q = `
		INSERT INTO periods AS p (id, user_id, title, is_archived, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + periodColumns
	out, err := scanPeriod(conn(ctx, r.db).QueryRowContext(ctx, q,
		p.ID, p.UserID, p.Title, p.IsArchived, p.CreatedAt,
	))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByID fetches one of the user's periods.
func (r *PeriodPostgres) FindByID(ctx context.Context, userID, id string) (*model.Period, error) {
	const q = `SELECT ` + periodColumns + ` FROM periods p WHERE p.id = $1 AND p.user_id = $2`
	return scanPeriod(conn(ctx, r.db).QueryRowContext(ctx, q, id, userID))
}

// FindByTitle fetches the user's period for a year.
func (r *PeriodPostgres) FindByTitle(ctx context.Context, userID, title string) (*model.Period, error) {
	const q = `SELECT ` + periodColumns + ` FROM periods p WHERE p.user_id = $1 AND p.title = $2`
	return scanPeriod(conn(ctx, r.db).QueryRowContext(ctx, q, userID, title))
}

// List returns the user's periods, newest year first.
func (r *PeriodPostgres) List(ctx context.Context, userID string, f repository.PeriodFilter) ([]model.Period, error) {
	w := &where{}
	w.add("p.user_id = ?", userID)
	if f.IsArchived != nil {
		w.add("p.is_archived = ?", *f.IsArchived)
	}
	if len(f.PeriodIDs) > 0 {
		w.add("p.id = ANY(?::uuid[])", pq.Array(f.PeriodIDs))
	}
	if len(f.CategoryIDs) > 0 {
		w.add(`EXISTS (
			SELECT 1 FROM cycles c
			JOIN financial_records fr ON fr.cycle_id = c.id
			WHERE c.period_id = p.id AND fr.category_id = ANY(?::uuid[]))`, pq.Array(f.CategoryIDs))
	}

	q := `SELECT ` + periodColumns + ` FROM periods p` + w.String() + ` ORDER BY p.title DESC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Period, 0)
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update writes the editable fields of a period.
func (r *PeriodPostgres) Update(ctx context.Context, p *model.Period) (*model.Period, error) {
	const q = `
		UPDATE periods AS p SET title = $1, is_archived = $2
		WHERE p.id = $3 AND p.user_id = $4
		RETURNING ` + periodColumns
	out, err := scanPeriod(conn(ctx, r.db).QueryRowContext(ctx, q, p.Title, p.IsArchived, p.ID, p.UserID))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// Delete removes one of the user's periods. Cycles and records cascade.
func (r *PeriodPostgres) Delete(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM periods WHERE id = $1 AND user_id = $2`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, id, userID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
