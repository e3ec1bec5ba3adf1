package service

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"gradia/internal/finance"
	"gradia/internal/model"
)

// PeriodRef is the minimal period projection embedded in cycle views.
type PeriodRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// CycleView is a cycle with its period reference and computed summary.
type CycleView struct {
	model.Cycle
	Period PeriodRef `json:"period"`
	finance.Summary
}

// PeriodView is a period with its computed summary and every cycle.
type PeriodView struct {
	model.Period
	finance.Summary
	Cycles []CycleView `json:"cycles"`
}

// RecordView adds the planned-minus-actual difference to a record.
type RecordView struct {
	model.FinancialRecord
	DiffPlannedActual decimal.Decimal `json:"diff_planned_actual"`
}

// AttachmentView is attachment metadata with a temporary download URL.
type AttachmentView struct {
	model.Attachment
	URL string `json:"url"`
}

// PeriodSummary holds the six headline totals of a period.
type PeriodSummary struct {
	Period               string      `json:"period"`
	TotalIncomes         model.Money `json:"total_incomes"`
	TotalExpenses        model.Money `json:"total_expenses"`
	NetIncome            model.Money `json:"net_income"`
	PlannedTotalIncomes  model.Money `json:"planned_total_incomes"`
	PlannedTotalExpenses model.Money `json:"planned_total_expenses"`
	PlannedNetIncome     model.Money `json:"planned_net_income"`
}

// Report is the aggregated data behind the client's charts.
type Report struct {
	Periods    []ReportPeriod         `json:"period_data"`
	Cycles     []ReportCycle          `json:"cycle_data"`
	Categories []model.CategoryTotals `json:"category_data"`
}

type ReportPeriod struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	finance.Summary
}

type ReportCycle struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Month       int    `json:"month"`
	PeriodTitle string `json:"period_title"`
	finance.Summary
	Categories []model.CategoryTotals `json:"categories"`
}

// MarshalJSON renders the amounts with two decimal places.
func (v RecordView) MarshalJSON() ([]byte, error) {
	type record model.FinancialRecord
	return json.Marshal(struct {
		record
		CurrentAmount     model.Money `json:"current_amount"`
		PlannedAmount     model.Money `json:"planned_amount"`
		DiffPlannedActual model.Money `json:"diff_planned_actual"`
	}{
		record:            record(v.FinancialRecord),
		CurrentAmount:     model.NewMoney(v.CurrentAmount),
		PlannedAmount:     model.NewMoney(v.PlannedAmount),
		DiffPlannedActual: model.NewMoney(v.DiffPlannedActual),
	})
}

func newRecordView(r model.FinancialRecord) RecordView {
	return RecordView{FinancialRecord: r, DiffPlannedActual: finance.RecordDifference(r)}
}

func newRecordViews(records []model.FinancialRecord) []RecordView {
	out := make([]RecordView, 0, len(records))
	for _, r := range records {
		out = append(out, newRecordView(r))
	}
	return out
}

// buildPeriodView attaches cycle summaries and rolls them up into the period.
// Cycles missing from totals have no records.
func buildPeriodView(p model.Period, cycles []model.Cycle, totals map[string]model.Totals) PeriodView {
	ref := PeriodRef{ID: p.ID, Title: p.Title}
	views := make([]CycleView, 0, len(cycles))
	parts := make([]model.Totals, 0, len(cycles))
	for _, c := range cycles {
		t := cycleTotals(totals, c.ID)
		parts = append(parts, t)
		views = append(views, CycleView{Cycle: c, Period: ref, Summary: finance.Summarize(t)})
	}
	return PeriodView{
		Period:  p,
		Summary: finance.Summarize(finance.Rollup(parts...)),
		Cycles:  views,
	}
}

func cycleTotals(totals map[string]model.Totals, cycleID string) model.Totals {
	if t, ok := totals[cycleID]; ok {
		return t
	}
	return finance.Zero()
}
