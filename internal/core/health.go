package core

import "math"

// Health score labels, ordered by descending score band.
const (
	LabelExcellent = "Excellent"
	LabelGood      = "Good"
	LabelFair      = "Fair"
	LabelNeedsWork = "Needs Work"
	LabelCritical  = "Critical"
	LabelNoData    = "No Data"
)

// HealthScore is a 0-100 financial health score with its qualitative label.
type HealthScore struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Score derives the health score from income/expense totals. The savings
// rate is doubled before clamping: a 50% savings rate is treated as the
// practical ceiling and maps to a perfect 100. That factor is a deliberate
// product constant and must not change.
//
// The function is total for any finite inputs; negative figures just clamp.
func Score(totalIncome, totalExpense float64) HealthScore {
	if totalIncome == 0 {
		return HealthScore{Value: 0, Label: LabelNoData}
	}
	savingsRate := (totalIncome - totalExpense) / totalIncome * 100
	value := int(math.Round(savingsRate * 2))
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}

	label := LabelCritical
	switch {
	case value >= 80:
		label = LabelExcellent
	case value >= 60:
		label = LabelGood
	case value >= 40:
		label = LabelFair
	case value >= 20:
		label = LabelNeedsWork
	}
	return HealthScore{Value: value, Label: label}
}

// ScoreOverview scores an already-computed overview summary.
func ScoreOverview(o OverviewSummary) HealthScore {
	return Score(o.TotalIncome, o.TotalExpense)
}
