package core

import "strings"

// User is the denormalized profile record kept alongside transactions. The
// identity provider owns authentication; this is just the stored projection.
type User struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"imgUrl"`
}

// Validate guards the user write path.
func (u User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return ErrEmptyEmail
	}
	return nil
}

// CategoryTotal is one row of the pre-aggregated per-user category table.
// The wire shape mirrors the aggregation endpoint it fronts, so the server
// fast path and the local breakdown stay interchangeable.
type CategoryTotal struct {
	Category string  `json:"_id"`
	Total    float64 `json:"total"`
}

// CategoryTotalsOf derives the stored aggregate rows from a transaction
// list. It is the single source of truth the refresh worker writes from:
// the same grouping as AggregateByCategory, without the display fields.
func CategoryTotalsOf(transactions []Transaction, typeFilter TransactionType) []CategoryTotal {
	summaries := AggregateByCategory(transactions, typeFilter)
	totals := make([]CategoryTotal, len(summaries))
	for i, s := range summaries {
		totals[i] = CategoryTotal{Category: s.Name, Total: s.Amount}
	}
	return totals
}
