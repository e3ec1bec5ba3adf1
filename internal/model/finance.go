package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the local account mapped to a Firebase identity.
type User struct {
	ID          string    `json:"id"`
	FirebaseUID string    `json:"firebase_uid"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}

// Period is a user's financial year. Title holds the year, e.g. "2024".
type Period struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user"`
	Title      string    `json:"title"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
}

// Cycle is one calendar month of a Period. Month is 1-based.
type Cycle struct {
	ID       string `json:"id"`
	PeriodID string `json:"-"`
	Month    int    `json:"month"`
	Name     string `json:"name"`
}

// DefaultCategoryCode marks the per-user category that receives the records
// of deleted categories.
const DefaultCategoryCode = "DEFAULT"

// Category is a user-scoped label with a generated short code.
type Category struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"-"`
}

// IsDefault reports whether c is the user's DEFAULT category.
func (c Category) IsDefault() bool {
	return c.Code == DefaultCategoryCode
}

// RecordType distinguishes incomes from expenses.
type RecordType string

const (
	RecordTypeIncome   RecordType = "income"
	RecordTypeExpenses RecordType = "expenses"
)

// Valid reports whether t is one of the known record types.
func (t RecordType) Valid() bool {
	return t == RecordTypeIncome || t == RecordTypeExpenses
}

// FinancialRecord is a single income or expense entry of a Cycle.
// CategoryName and CategoryCode are read-only projections of the category.
type FinancialRecord struct {
	ID            string          `json:"id"`
	PeriodID      string          `json:"period"`
	CycleID       string          `json:"cycle"`
	CategoryID    string          `json:"category"`
	CategoryName  string          `json:"category_name"`
	CategoryCode  string          `json:"category_code"`
	Type          RecordType      `json:"type_choice"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	PlannedAmount decimal.Decimal `json:"planned_amount"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Attachment is a file stored in object storage for a FinancialRecord.
type Attachment struct {
	ID          string    `json:"id"`
	RecordID    string    `json:"financial_record"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// Totals holds the four raw sums every aggregation level is built on.
type Totals struct {
	Incomes         decimal.Decimal
	Expenses        decimal.Decimal
	PlannedIncomes  decimal.Decimal
	PlannedExpenses decimal.Decimal
}

// Add returns the component-wise sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Incomes:         t.Incomes.Add(o.Incomes),
		Expenses:        t.Expenses.Add(o.Expenses),
		PlannedIncomes:  t.PlannedIncomes.Add(o.PlannedIncomes),
		PlannedExpenses: t.PlannedExpenses.Add(o.PlannedExpenses),
	}
}

// CategoryTotals are the actual income and expense sums of one category.
type CategoryTotals struct {
	CategoryID   string          `json:"category_id"`
	Name         string          `json:"name"`
	Code         string          `json:"code"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
}

// FinancialSummary is a materialized per-cycle total. A nil CategoryID is the
// row covering every category of the cycle.
type FinancialSummary struct {
	PeriodID      string          `json:"period"`
	CycleID       string          `json:"cycle"`
	CategoryID    *string         `json:"category"`
	TotalIncomes  decimal.Decimal `json:"total_incomes"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetIncome     decimal.Decimal `json:"net_income"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
