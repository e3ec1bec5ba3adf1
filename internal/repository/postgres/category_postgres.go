package postgres

import (
	"context"
	"database/sql"
	"errors"

	"gradia/internal/model"
	"gradia/internal/repository"
)

const categoryColumns = `cat.id, cat.user_id, cat.name, cat.code, cat.description, cat.created_at`

// CategoryPostgres is a PostgreSQL implementation of repository.CategoryRepository.
type CategoryPostgres struct {
	db *sql.DB
}

// NewCategoryPostgres creates a new CategoryPostgres repository.
func NewCategoryPostgres(db *sql.DB) *CategoryPostgres {
	return &CategoryPostgres{db: db}
}

var _ repository.CategoryRepository = (*CategoryPostgres)(nil)

func scanCategory(s rowScanner) (*model.Category, error) {
	var c model.Category
	if err := s.Scan(&c.ID, &c.UserID, &c.Name, &c.Code, &c.Description, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a category row.
func (r *CategoryPostgres) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	const q = `
		INSERT INTO categories AS cat (id, user_id, name, code, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + categoryColumns
	out, err := scanCategory(conn(ctx, r.db).QueryRowContext(ctx, q,
		c.ID, c.UserID, c.Name, c.Code, c.Description, c.CreatedAt,
	))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// CreateIfAbsent inserts c unless the user already has a category with its
// code, in which case the existing row is returned. The insert never raises a
// unique violation, so it is safe inside a transaction.
func (r *CategoryPostgres) CreateIfAbsent(ctx context.Context, c *model.Category) (*model.Category, error) {
	const q = `
		INSERT INTO categories AS cat (id, user_id, name, code, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, code) DO NOTHING
		RETURNING ` + categoryColumns
	out, err := scanCategory(conn(ctx, r.db).QueryRowContext(ctx, q,
		c.ID, c.UserID, c.Name, c.Code, c.Description, c.CreatedAt,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return r.FindByCode(ctx, c.UserID, c.Code)
	}
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByID fetches one of the user's categories.
func (r *CategoryPostgres) FindByID(ctx context.Context, userID, id string) (*model.Category, error) {
	const q = `SELECT ` + categoryColumns + ` FROM categories cat WHERE cat.id = $1 AND cat.user_id = $2`
	return scanCategory(conn(ctx, r.db).QueryRowContext(ctx, q, id, userID))
}

// FindByCode fetches the user's category with the given code.
func (r *CategoryPostgres) FindByCode(ctx context.Context, userID, code string) (*model.Category, error) {
	const q = `SELECT ` + categoryColumns + ` FROM categories cat WHERE cat.user_id = $1 AND cat.code = $2`
	return scanCategory(conn(ctx, r.db).QueryRowContext(ctx, q, userID, code))
}

// List returns the user's categories ordered by name descending.
func (r *CategoryPostgres) List(ctx context.Context, userID string) ([]model.Category, error) {
	const q = `SELECT ` + categoryColumns + ` FROM categories cat WHERE cat.user_id = $1 ORDER BY cat.name DESC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
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

// NameExists reports whether another category of the user already uses name.
func (r *CategoryPostgres) NameExists(ctx context.Context, userID, name, excludeID string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM categories
			WHERE user_id = $1 AND lower(name) = lower($2) AND ($3 = '' OR id::text <> $3)
		)
	`
	var exists bool
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, userID, name, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// CodesWithPrefix lists the user's codes starting with prefix.
func (r *CategoryPostgres) CodesWithPrefix(ctx context.Context, userID, prefix string) ([]string, error) {
	const q = `SELECT code FROM categories WHERE user_id = $1 AND code LIKE $2`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, userID, likeEscaper.Replace(prefix)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := make([]string, 0)
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// Update writes name, code and description.
func (r *CategoryPostgres) Update(ctx context.Context, c *model.Category) (*model.Category, error) {
	const q = `
		UPDATE categories AS cat SET name = $1, code = $2, description = $3
		WHERE cat.id = $4 AND cat.user_id = $5
		RETURNING ` + categoryColumns
	out, err := scanCategory(conn(ctx, r.db).QueryRowContext(ctx, q,
		c.Name, c.Code, c.Description, c.ID, c.UserID,
	))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// Delete removes a category. Records must have been reassigned first.
func (r *CategoryPostgres) Delete(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM categories WHERE id = $1 AND user_id = $2`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, id, userID)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(res)
}

// Totals sums actual incomes and expenses per category, including empty ones.
func (r *CategoryPostgres) Totals(ctx context.Context, userID string) ([]model.CategoryTotals, error) {
	const q = `
		SELECT cat.id, cat.name, cat.code,` + actualSumColumns + `
		FROM categories cat
		LEFT JOIN financial_records fr ON fr.category_id = cat.id
		WHERE cat.user_id = $1
		GROUP BY cat.id, cat.name, cat.code
		ORDER BY cat.name
	`
	return queryCategoryTotals(ctx, conn(ctx, r.db), q, userID)
}
