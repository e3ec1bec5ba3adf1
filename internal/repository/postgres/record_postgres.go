package postgres

import (
	"context"
	"database/sql"

	"gradia/internal/model"
	"gradia/internal/repository"
)

const recordColumns = `fr.id, fr.period_id, fr.cycle_id, fr.category_id, cat.name, cat.code,
	fr.type_choice, fr.current_amount, fr.planned_amount, fr.created_at, fr.updated_at`

// RecordPostgres is a PostgreSQL implementation of repository.RecordRepository.
// Every read joins the category so responses carry its name and code.
type RecordPostgres struct {
	db *sql.DB
}

// NewRecordPostgres creates a new RecordPostgres repository.
func NewRecordPostgres(db *sql.DB) *RecordPostgres {
	return &RecordPostgres{db: db}
}

var _ repository.RecordRepository = (*RecordPostgres)(nil)

func scanRecord(s rowScanner) (*model.FinancialRecord, error) {
	var r model.FinancialRecord
	if err := s.Scan(
		&r.ID,
		&r.PeriodID,
		&r.CycleID,
		&r.CategoryID,
		&r.CategoryName,
		&r.CategoryCode,
		&r.Type,
		&r.CurrentAmount,
		&r.PlannedAmount,
		&r.CreatedAt,
		&r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a record and returns it joined with its category.
func (r *RecordPostgres) Create(ctx context.Context, rec *model.FinancialRecord) (*model.FinancialRecord, error) {
	const q = `
		WITH fr AS (
			INSERT INTO financial_records
				(id, period_id, cycle_id, category_id, type_choice, current_amount, planned_amount, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING *
		)
		SELECT ` + recordColumns + `
		FROM fr JOIN categories cat ON cat.id = fr.category_id
	`
	out, err := scanRecord(conn(ctx, r.db).QueryRowContext(ctx, q,
		rec.ID,
		rec.PeriodID,
		rec.CycleID,
		rec.CategoryID,
		rec.Type,
		rec.CurrentAmount,
		rec.PlannedAmount,
		rec.CreatedAt,
		rec.UpdatedAt,
	))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// CreateBatch inserts records with one multi-row statement per chunk and
// returns them in input order. Run it inside a transaction when it may span
// chunks.
func (r *RecordPostgres) CreateBatch(ctx context.Context, records []model.FinancialRecord) ([]model.FinancialRecord, error) {
	out := make([]model.FinancialRecord, 0, len(records))
	for start := 0; start < len(records); start += maxBatchRows {
		end := min(start+maxBatchRows, len(records))
		stored, err := r.insertChunk(ctx, records[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, stored...)
	}
	return out, nil
}

func (r *RecordPostgres) insertChunk(ctx context.Context, records []model.FinancialRecord) ([]model.FinancialRecord, error) {
	q := `
		WITH fr AS (
			INSERT INTO financial_records
				(id, period_id, cycle_id, category_id, type_choice, current_amount, planned_amount, created_at, updated_at)
			VALUES ` + valuesList(len(records), 9) + `
			RETURNING *
		)
		SELECT ` + recordColumns + `
		FROM fr JOIN categories cat ON cat.id = fr.category_id
	`
	args := make([]any, 0, len(records)*9)
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		args = append(args, rec.ID, rec.PeriodID, rec.CycleID, rec.CategoryID, rec.Type,
			rec.CurrentAmount, rec.PlannedAmount, rec.CreatedAt, rec.UpdatedAt)
		ids = append(ids, rec.ID)
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	stored := make([]model.FinancialRecord, 0, len(records))
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		stored = append(stored, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return inInputOrder(ids, stored, func(r model.FinancialRecord) string { return r.ID }), nil
}

// FindByID fetches a record whose category belongs to the user.
func (r *RecordPostgres) FindByID(ctx context.Context, userID, id string) (*model.FinancialRecord, error) {
	const q = `
		SELECT ` + recordColumns + `
		FROM financial_records fr JOIN categories cat ON cat.id = fr.category_id
		WHERE fr.id = $1 AND cat.user_id = $2
	`
	return scanRecord(conn(ctx, r.db).QueryRowContext(ctx, q, id, userID))
}

// List returns the user's records in creation order.
func (r *RecordPostgres) List(ctx context.Context, userID string, f repository.RecordFilter) ([]model.FinancialRecord, error) {
	w := &where{}
	w.add("cat.user_id = ?", userID)
	if f.CycleID != "" {
		w.add("fr.cycle_id = ?", f.CycleID)
	}
	if f.PeriodID != "" {
		w.add("fr.period_id = ?", f.PeriodID)
	}
	if f.CategoryID != "" {
		w.add("fr.category_id = ?", f.CategoryID)
	}
	q := `SELECT ` + recordColumns + ` FROM financial_records fr JOIN categories cat ON cat.id = fr.category_id` +
		w.String() + ` ORDER BY fr.created_at, fr.id`

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.FinancialRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update writes every mutable column of a record.
func (r *RecordPostgres) Update(ctx context.Context, rec *model.FinancialRecord) (*model.FinancialRecord, error) {
	const q = `
		WITH fr AS (
			UPDATE financial_records
			SET category_id = $1, cycle_id = $2, period_id = $3, type_choice = $4,
				current_amount = $5, planned_amount = $6, updated_at = $7
			WHERE id = $8
			RETURNING *
		)
		SELECT ` + recordColumns + `
		FROM fr JOIN categories cat ON cat.id = fr.category_id
	`
	out, err := scanRecord(conn(ctx, r.db).QueryRowContext(ctx, q,
		rec.CategoryID,
		rec.CycleID,
		rec.PeriodID,
		rec.Type,
		rec.CurrentAmount,
		rec.PlannedAmount,
		rec.UpdatedAt,
		rec.ID,
	))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// Delete removes one of the user's records.
func (r *RecordPostgres) Delete(ctx context.Context, userID, id string) error {
	const q = `
		DELETE FROM financial_records fr
		USING categories cat
		WHERE fr.id = $1 AND cat.id = fr.category_id AND cat.user_id = $2
	`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, id, userID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

// ReassignCategory moves records between categories and reports the touched cycles.
func (r *RecordPostgres) ReassignCategory(ctx context.Context, fromID, toID string) ([]string, error) {
	const q = `
		WITH moved AS (
			UPDATE financial_records SET category_id = $1, updated_at = now()
			WHERE category_id = $2
			RETURNING cycle_id
		)
		SELECT DISTINCT cycle_id FROM moved
	`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, toID, fromID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	cycleIDs := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		cycleIDs = append(cycleIDs, id)
	}
	return cycleIDs, rows.Err()
}
