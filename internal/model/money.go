package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money is an amount rendered in JSON as a string with exactly two decimal
// places, matching the NUMERIC(13,2) columns. Arithmetic goes through the
// embedded decimal.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps d.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}

// MarshalJSON renders the totals with two decimal places.
func (c CategoryTotals) MarshalJSON() ([]byte, error) {
	type plain CategoryTotals
	return json.Marshal(struct {
		plain
		TotalIncome  Money `json:"total_income"`
		TotalExpense Money `json:"total_expense"`
	}{plain(c), NewMoney(c.TotalIncome), NewMoney(c.TotalExpense)})
}

// MarshalJSON renders the totals with two decimal places.
func (s FinancialSummary) MarshalJSON() ([]byte, error) {
	type plain FinancialSummary
	return json.Marshal(struct {
		plain
		TotalIncomes  Money `json:"total_incomes"`
		TotalExpenses Money `json:"total_expenses"`
		NetIncome     Money `json:"net_income"`
	}{plain(s), NewMoney(s.TotalIncomes), NewMoney(s.TotalExpenses), NewMoney(s.NetIncome)})
}
