// Package finance holds the aggregation arithmetic shared by records, cycles and periods.
package finance

import (
	"github.com/shopspring/decimal"

	"gradia/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Summary is the derived view of a Totals value. It is embedded in cycle and
// period responses so its fields flatten into the parent JSON object, which
// is why the fields carry the two-place rendering rather than the struct.
type Summary struct {
	TotalIncomes                  model.Money `json:"total_incomes"`
	TotalExpenses                 model.Money `json:"total_expenses"`
	NetIncome                     model.Money `json:"net_income"`
	PlannedTotalIncomes           model.Money `json:"planned_total_incomes"`
	PlannedTotalExpenses          model.Money `json:"planned_total_expenses"`
	PlannedNetIncome              model.Money `json:"planned_net_income"`
	IncomeDifferenceValue         model.Money `json:"income_difference_value"`
	IncomeDifferencePercentage    model.Money `json:"income_difference_percentage"`
	ExpenseDifferenceValue        model.Money `json:"expense_difference_value"`
	ExpenseDifferencePercentage   model.Money `json:"expense_difference_percentage"`
	NetIncomeDifferenceValue      model.Money `json:"net_income_difference_value"`
	NetIncomeDifferencePercentage model.Money `json:"net_income_difference_percentage"`
}

// Tally sums a set of records into Totals. Records with an unknown type are ignored.
func Tally(records []model.FinancialRecord) model.Totals {
	t := Zero()
	for _, r := range records {
		switch r.Type {
		case model.RecordTypeIncome:
			t.Incomes = t.Incomes.Add(r.CurrentAmount)
			t.PlannedIncomes = t.PlannedIncomes.Add(r.PlannedAmount)
		case model.RecordTypeExpenses:
			t.Expenses = t.Expenses.Add(r.CurrentAmount)
			t.PlannedExpenses = t.PlannedExpenses.Add(r.PlannedAmount)
		}
	}
	return t
}

// Rollup adds lower-level totals together, e.g. cycles into their period.
func Rollup(parts ...model.Totals) model.Totals {
	t := Zero()
	for _, p := range parts {
		t = t.Add(p)
	}
	return t
}

// Zero returns Totals with every component set to 0.
func Zero() model.Totals {
	return model.Totals{
		Incomes:         decimal.Zero,
		Expenses:        decimal.Zero,
		PlannedIncomes:  decimal.Zero,
		PlannedExpenses: decimal.Zero,
	}
}

// Summarize computes net incomes and planned-vs-actual variances for t.
func Summarize(t model.Totals) Summary {
	net := t.Incomes.Sub(t.Expenses)
	plannedNet := t.PlannedIncomes.Sub(t.PlannedExpenses)

	incVal, incPct := Variance(t.PlannedIncomes, t.Incomes)
	expVal, expPct := Variance(t.PlannedExpenses, t.Expenses)
	netVal, netPct := Variance(plannedNet, net)

	return Summary{
		TotalIncomes:                  model.NewMoney(t.Incomes),
		TotalExpenses:                 model.NewMoney(t.Expenses),
		NetIncome:                     model.NewMoney(net),
		PlannedTotalIncomes:           model.NewMoney(t.PlannedIncomes),
		PlannedTotalExpenses:          model.NewMoney(t.PlannedExpenses),
		PlannedNetIncome:              model.NewMoney(plannedNet),
		IncomeDifferenceValue:         model.NewMoney(incVal),
		IncomeDifferencePercentage:    model.NewMoney(incPct),
		ExpenseDifferenceValue:        model.NewMoney(expVal),
		ExpenseDifferencePercentage:   model.NewMoney(expPct),
		NetIncomeDifferenceValue:      model.NewMoney(netVal),
		NetIncomeDifferencePercentage: model.NewMoney(netPct),
	}
}

// Variance returns planned-actual and that difference as a percentage of
// planned, rounded to two places. The percentage is 0 when planned is 0.
func Variance(planned, actual decimal.Decimal) (value, percentage decimal.Decimal) {
	value = planned.Sub(actual)
	if planned.IsZero() {
		return value, decimal.Zero
	}
	return value, value.Div(planned).Mul(hundred).Round(2)
}

// RecordDifference is planned minus current for a single record.
func RecordDifference(r model.FinancialRecord) decimal.Decimal {
	return r.PlannedAmount.Sub(r.CurrentAmount)
}

// NormalizeAmount rounds an amount to the two decimal places stored in the database.
func NormalizeAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
