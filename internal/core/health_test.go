package core

import "testing"

func TestScoreBoundaries(t *testing.T) {
	cases := []struct {
		income, expense float64
		value           int
		label           string
	}{
		{0, 0, 0, LabelNoData},
		{0, 500, 0, LabelNoData},
		{1000, 0, 100, LabelExcellent},   // 100% savings, clamped
		{1000, 500, 100, LabelExcellent}, // exactly the 50% ceiling
		{1000, 600, 80, LabelExcellent},
		{1000, 700, 60, LabelGood},
		{1000, 800, 40, LabelFair},
		{1000, 900, 20, LabelNeedsWork},
		{1000, 950, 10, LabelCritical},
		{1000, 1000, 0, LabelCritical},
		{1000, 2000, 0, LabelCritical}, // negative savings clamps to 0
	}
	for _, tc := range cases {
		got := Score(tc.income, tc.expense)
		if got.Value != tc.value || got.Label != tc.label {
			t.Fatalf("Score(%v, %v) = %+v, expected {%d %s}",
				tc.income, tc.expense, got, tc.value, tc.label)
		}
	}
}

func TestScoreMonotonicInExpense(t *testing.T) {
	prev := 101
	for expense := 0.0; expense <= 2000; expense += 50 {
		v := Score(1000, expense).Value
		if v > prev {
			t.Fatalf("score increased from %d to %d at expense %v", prev, v, expense)
		}
		prev = v
	}
}

func TestScoreOverview(t *testing.T) {
	o := OverviewSummary{TotalIncome: 1000, TotalExpense: 700, Balance: 300}
	if got := ScoreOverview(o); got.Value != 60 || got.Label != LabelGood {
		t.Fatalf("unexpected score from overview: %+v", got)
	}
}
