package core

import (
	"math"
	"sort"
)

// categoryColors is the fixed display palette. Colors are assigned by rank
// index modulo the palette size, not by category identity, so a category can
// change color when another overtakes it in rank. That matches the shipped
// dashboard behavior and is kept deliberately.
var categoryColors = [4]string{"#4F46E5", "#F59E0B", "#22C55E", "#EF4444"}

// CategorySummary is one row of a category breakdown. It is recomputed on
// every call and never persisted.
type CategorySummary struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Percentage int     `json:"percentage"`
	Rank       int     `json:"rank"`
	Color      string  `json:"color"`
}

// AggregateByCategory groups transactions of the given type by normalized
// category, sums their amounts and ranks the groups by amount descending.
// Ties keep the order in which the categories were first seen. Percentages
// are rounded; with a zero total every percentage is 0, never NaN. Rounding
// drift of a point or two in the percentage sum is accepted, not corrected.
func AggregateByCategory(transactions []Transaction, typeFilter TransactionType) []CategorySummary {
	sums := make(map[string]float64)
	var order []string
	var total float64

	for _, t := range transactions {
		if t.Type != typeFilter {
			continue
		}
		cat := NormalizeCategory(t.Category)
		if _, seen := sums[cat]; !seen {
			order = append(order, cat)
		}
		amount := t.Amount.Float()
		sums[cat] += amount
		total += amount
	}

	summaries := make([]CategorySummary, 0, len(order))
	for _, cat := range order {
		s := CategorySummary{Name: cat, Amount: sums[cat]}
		if total > 0 {
			s.Percentage = int(math.Round(sums[cat] / total * 100))
		}
		summaries = append(summaries, s)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Amount > summaries[j].Amount
	})
	for i := range summaries {
		summaries[i].Rank = i + 1
		summaries[i].Color = categoryColors[i%len(categoryColors)]
	}
	return summaries
}
