package core

// OverviewSummary is the (totalIncome, totalExpense, balance) triple for one
// user. The overview endpoint, the health scorer and the report builder all
// derive it through ComputeOverview so the arithmetic cannot drift between
// call sites.
type OverviewSummary struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	Balance      float64 `json:"balance"`
}

// ComputeOverview folds a transaction list into income/expense totals.
// Amounts already passed through coercion, so the fold is a plain sum.
func ComputeOverview(transactions []Transaction) OverviewSummary {
	var o OverviewSummary
	for _, t := range transactions {
		switch t.Type {
		case TypeIncome:
			o.TotalIncome += t.Amount.Float()
		case TypeExpense:
			o.TotalExpense += t.Amount.Float()
		}
	}
	o.Balance = o.TotalIncome - o.TotalExpense
	return o
}
