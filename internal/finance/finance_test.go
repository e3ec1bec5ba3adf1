package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradia/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

func record(typ model.RecordType, current, planned string) model.FinancialRecord {
	return model.FinancialRecord{Type: typ, CurrentAmount: dec(current), PlannedAmount: dec(planned)}
}

func TestTally(t *testing.T) {
	records := []model.FinancialRecord{
		record(model.RecordTypeIncome, "800.00", "1000.00"),
		record(model.RecordTypeIncome, "0.50", "0"),
		record(model.RecordTypeExpenses, "600.00", "500.00"),
		record("transfer", "999", "999"),
	}

	got := Tally(records)

	assertDec(t, "800.50", got.Incomes, "incomes")
	assertDec(t, "1000", got.PlannedIncomes, "planned incomes")
	assertDec(t, "600", got.Expenses, "expenses")
	assertDec(t, "500", got.PlannedExpenses, "planned expenses")
}

func TestTally_Empty(t *testing.T) {
	got := Tally(nil)
	assert.True(t, got.Incomes.IsZero())
	assert.True(t, got.PlannedExpenses.IsZero())
}

func TestRollup(t *testing.T) {
	jan := model.Totals{Incomes: dec("10"), Expenses: dec("4"), PlannedIncomes: dec("12"), PlannedExpenses: dec("5")}
	feb := model.Totals{Incomes: dec("20"), Expenses: dec("6"), PlannedIncomes: dec("18"), PlannedExpenses: dec("5")}

	got := Rollup(jan, feb, Zero())

	assertDec(t, "30", got.Incomes, "incomes")
	assertDec(t, "10", got.Expenses, "expenses")
	assertDec(t, "30", got.PlannedIncomes, "planned incomes")
	assertDec(t, "10", got.PlannedExpenses, "planned expenses")
}

func TestSummarize(t *testing.T) {
	s := Summarize(model.Totals{
		Incomes:         dec("800"),
		Expenses:        dec("600"),
		PlannedIncomes:  dec("1000"),
		PlannedExpenses: dec("500"),
	})

	assertDec(t, "800", s.TotalIncomes.Decimal, "total incomes")
	assertDec(t, "600", s.TotalExpenses.Decimal, "total expenses")
	assertDec(t, "200", s.NetIncome.Decimal, "net income")
	assertDec(t, "1000", s.PlannedTotalIncomes.Decimal, "planned incomes")
	assertDec(t, "500", s.PlannedTotalExpenses.Decimal, "planned expenses")
	assertDec(t, "500", s.PlannedNetIncome.Decimal, "planned net")
	assertDec(t, "200", s.IncomeDifferenceValue.Decimal, "income diff")
	assertDec(t, "20", s.IncomeDifferencePercentage.Decimal, "income diff pct")
	assertDec(t, "-100", s.ExpenseDifferenceValue.Decimal, "expense diff")
	assertDec(t, "-20", s.ExpenseDifferencePercentage.Decimal, "expense diff pct")
	assertDec(t, "300", s.NetIncomeDifferenceValue.Decimal, "net diff")
	assertDec(t, "60", s.NetIncomeDifferencePercentage.Decimal, "net diff pct")
}

func TestSummarize_ZeroPlanned(t *testing.T) {
	s := Summarize(model.Totals{
		Incomes:         dec("50"),
		Expenses:        dec("20"),
		PlannedIncomes:  dec("0"),
		PlannedExpenses: dec("0"),
	})

	assertDec(t, "-50", s.IncomeDifferenceValue.Decimal, "income diff")
	assertDec(t, "0", s.IncomeDifferencePercentage.Decimal, "income diff pct")
	assertDec(t, "0", s.ExpenseDifferencePercentage.Decimal, "expense diff pct")
	assertDec(t, "0", s.NetIncomeDifferencePercentage.Decimal, "net diff pct")
}

func TestVariance(t *testing.T) {
	tests := []struct {
		name      string
		planned   string
		actual    string
		wantValue string
		wantPct   string
	}{
		{"under plan", "1000", "800", "200", "20"},
		{"over plan", "500", "600", "-100", "-20"},
		{"repeating fraction rounds to cents", "3", "2", "1", "33.33"},
		{"negative planned net", "-100", "-50", "-50", "50"},
		{"zero planned", "0", "10", "-10", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, pct := Variance(dec(tt.planned), dec(tt.actual))
			assertDec(t, tt.wantValue, value, "value")
			assertDec(t, tt.wantPct, pct, "percentage")
		})
	}
}

func TestRecordDifference(t *testing.T) {
	assertDec(t, "-25.50", RecordDifference(record(model.RecordTypeExpenses, "125.50", "100")), "diff")
}

func TestNormalizeAmount(t *testing.T) {
	assertDec(t, "10.13", NormalizeAmount(dec("10.125")), "half up")
	assertDec(t, "10", NormalizeAmount(dec("10")), "integral")
}

func TestMonthName(t *testing.T) {
	name, err := MonthName(1)
	require.NoError(t, err)
	assert.Equal(t, "January", name)

	name, err = MonthName(12)
	require.NoError(t, err)
	assert.Equal(t, "December", name)

	_, err = MonthName(0)
	assert.Error(t, err)
	_, err = MonthName(13)
	assert.Error(t, err)
}

func TestValidPeriodTitle(t *testing.T) {
	assert.True(t, ValidPeriodTitle("2024"))
	assert.False(t, ValidPeriodTitle("24"))
	assert.False(t, ValidPeriodTitle("20245"))
	assert.False(t, ValidPeriodTitle("year"))
	assert.False(t, ValidPeriodTitle(""))
}

func TestBaseCode(t *testing.T) {
	assert.Equal(t, "GRO", BaseCode("groceries"))
	assert.Equal(t, "TV", BaseCode("tv"))
	assert.Equal(t, "REN", BaseCode("  Rent "))
	assert.Equal(t, "ÉPI", BaseCode("épicerie"))
	assert.Equal(t, "", BaseCode("   "))
}

func TestNextCode(t *testing.T) {
	assert.Equal(t, "GRO01", NextCode("GRO", nil))
	assert.Equal(t, "GRO02", NextCode("GRO", []string{"GRO01"}))
	assert.Equal(t, "GRO02", NextCode("GRO", []string{"GRO01", "GRO03"}))
	assert.Equal(t, "GRO01", NextCode("GRO", []string{"GROX1", "GRO1"}))

	var many []string
	for i := 1; i <= 99; i++ {
		many = append(many, NextCode("CAR", many))
	}
	assert.Equal(t, "CAR99", many[98])
	assert.Equal(t, "CAR100", NextCode("CAR", many))
}
