// Package repository declares the data access contracts of the finance domain.
// Implementations live in subpackages (postgres) and hold no business logic.
// Lookups that miss return sql.ErrNoRows; lookups scoped by a user ID miss for
// rows owned by someone else.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gradia/internal/model"
)

// Transactor runs fn inside a database transaction carried by the context it
// passes to fn. Repositories called with that context join the transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository maps Firebase identities to local users.
type UserRepository interface {
	FindByFirebaseUID(ctx context.Context, uid string) (*model.User, error)
	Create(ctx context.Context, u *model.User) (*model.User, error)
}

// PeriodFilter narrows period listings. Empty fields do not filter.
type PeriodFilter struct {
	IsArchived *bool
	// CategoryIDs keeps periods with at least one record in any of these categories.
	CategoryIDs []string
	PeriodIDs   []string
}

// PeriodRepository persists periods.
type PeriodRepository interface {
	Create(ctx context.Context, p *model.Period) (*model.Period, error)
	FindByID(ctx context.Context, userID, id string) (*model.Period, error)
	FindByTitle(ctx context.Context, userID, title string) (*model.Period, error)
	List(ctx context.Context, userID string, f PeriodFilter) ([]model.Period, error)
	Update(ctx context.Context, p *model.Period) (*model.Period, error)
	// Delete removes the period with its cycles and records.
	Delete(ctx context.Context, userID, id string) error
}

// CycleRepository persists cycles and aggregates their records.
type CycleRepository interface {
	CreateBatch(ctx context.Context, cycles []model.Cycle) ([]model.Cycle, error)
	FindByID(ctx context.Context, userID, id string) (*model.Cycle, error)
	// Get looks a cycle up without user scoping; reserved for background jobs.
	Get(ctx context.Context, id string) (*model.Cycle, error)
	// List returns the user's cycles ordered by period then month.
	// An empty periodID lists every cycle of the user.
	List(ctx context.Context, userID, periodID string) ([]model.Cycle, error)
	UpdateName(ctx context.Context, c *model.Cycle) (*model.Cycle, error)
	// Totals sums the records of every cycle of a period, keyed by cycle ID.
	// Cycles without records are absent from the map.
	Totals(ctx context.Context, periodID string) (map[string]model.Totals, error)
	// CategoryTotals returns actual income and expense sums per category of one cycle.
	CategoryTotals(ctx context.Context, cycleID string) ([]model.CategoryTotals, error)
	// SummaryTotals is CategoryTotals over every category of the cycle's
	// owner, categories without records included.
	SummaryTotals(ctx context.Context, cycleID string) ([]model.CategoryTotals, error)
	// AllIDs lists every cycle in the database.
	AllIDs(ctx context.Context) ([]string, error)
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) (*model.Category, error)
	// CreateIfAbsent returns the existing category when the code is taken.
	CreateIfAbsent(ctx context.Context, c *model.Category) (*model.Category, error)
	FindByID(ctx context.Context, userID, id string) (*model.Category, error)
	FindByCode(ctx context.Context, userID, code string) (*model.Category, error)
	// List returns the user's categories ordered by name descending.
	List(ctx context.Context, userID string) ([]model.Category, error)
	// NameExists matches names case-insensitively, ignoring excludeID when set.
	NameExists(ctx context.Context, userID, name, excludeID string) (bool, error)
	CodesWithPrefix(ctx context.Context, userID, prefix string) ([]string, error)
	Update(ctx context.Context, c *model.Category) (*model.Category, error)
	Delete(ctx context.Context, userID, id string) error
	// Totals returns actual income and expense sums of every user category.
	Totals(ctx context.Context, userID string) ([]model.CategoryTotals, error)
}

// RecordFilter narrows record listings. Empty fields do not filter.
type RecordFilter struct {
	CycleID    string
	PeriodID   string
	CategoryID string
}

// RecordRepository persists financial records.
type RecordRepository interface {
	Create(ctx context.Context, r *model.FinancialRecord) (*model.FinancialRecord, error)
	// CreateBatch inserts all records; callers wrap it in a transaction.
	CreateBatch(ctx context.Context, records []model.FinancialRecord) ([]model.FinancialRecord, error)
	FindByID(ctx context.Context, userID, id string) (*model.FinancialRecord, error)
	List(ctx context.Context, userID string, f RecordFilter) ([]model.FinancialRecord, error)
	Update(ctx context.Context, r *model.FinancialRecord) (*model.FinancialRecord, error)
	Delete(ctx context.Context, userID, id string) error
	// ReassignCategory moves every record of one category to another and
	// returns the IDs of the cycles that held moved records.
	ReassignCategory(ctx context.Context, fromID, toID string) ([]string, error)
}

// AttachmentRepository persists attachment metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error)
	FindByID(ctx context.Context, recordID, id string) (*model.Attachment, error)
	ListByRecord(ctx context.Context, recordID string) ([]model.Attachment, error)
	Delete(ctx context.Context, id string) error
}

// SummaryRepository persists materialized cycle totals.
type SummaryRepository interface {
	// ReplaceForCycle swaps every summary row of a cycle for rows.
	ReplaceForCycle(ctx context.Context, cycleID string, rows []model.FinancialSummary) error
	ListByPeriod(ctx context.Context, periodID string) ([]model.FinancialSummary, error)
}

// Names of the unique constraints services react to.
const (
	ConstraintCategoryCode = "unique_user_category_code"
	ConstraintCategoryName = "idx_categories_user_name"
	ConstraintPeriodTitle  = "unique_user_period_title"
)

// ErrDuplicate matches writes rejected by a unique constraint.
var ErrDuplicate = errors.New("duplicate key")

// ErrReferenced matches writes rejected by a foreign key constraint.
var ErrReferenced = errors.New("foreign key violation")

// DuplicateError carries the name of the unique constraint that rejected a write.
type DuplicateError struct {
	Constraint string
	Err        error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate key violates %q: %v", e.Constraint, e.Err)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

func (e *DuplicateError) Unwrap() error { return e.Err }
