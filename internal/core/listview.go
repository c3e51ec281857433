package core

import (
	"sort"
	"strings"
)

// PageSize is the fixed number of transactions per list page.
const PageSize = 10

// SortOption selects the ordering of the transaction list view.
type SortOption string

const (
	SortTypeIncome  SortOption = "type-income"
	SortTypeExpense SortOption = "type-expense"
	SortDateNew     SortOption = "date-new"
	SortDateOld     SortOption = "date-old"
	SortAmountHigh  SortOption = "amount-high"
	SortAmountLow   SortOption = "amount-low"
)

// IsValid reports whether the option is one of the known sort modes.
func (o SortOption) IsValid() bool {
	switch o {
	case SortTypeIncome, SortTypeExpense, SortDateNew, SortDateOld, SortAmountHigh, SortAmountLow:
		return true
	}
	return false
}

// ListPage is one page of the filtered, sorted transaction list.
type ListPage struct {
	Items      []Transaction `json:"items"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	TotalCount int           `json:"totalCount"`
}

// ListController holds the view state of the transaction list: a search
// query, a sort order and the current page. It never touches the network;
// callers feed it an already-fetched slice and re-run View after any change.
type ListController struct {
	searchQuery string
	sortOption  SortOption
	currentPage int
}

// NewListController starts on page 1 with the income-first ordering the list
// screen defaults to.
func NewListController() *ListController {
	return &ListController{sortOption: SortTypeIncome, currentPage: 1}
}

// SetSearch updates the filter query. Any filter change invalidates the page
// position, so the page resets to 1.
func (c *ListController) SetSearch(query string) {
	c.searchQuery = query
	c.currentPage = 1
}

// SetSort updates the sort order and resets the page to 1, for the same
// reason as SetSearch. Unknown options are ignored.
func (c *ListController) SetSort(option SortOption) {
	if !option.IsValid() {
		return
	}
	c.sortOption = option
	c.currentPage = 1
}

// SetPage moves to the given page. Pages below 1 clamp to 1; pages past the
// end clamp inside View, where the filtered size is known.
func (c *ListController) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	c.currentPage = page
}

// Page returns the current page position.
func (c *ListController) Page() int {
	return c.currentPage
}

// View applies filter, sort and pagination to the given transactions. An
// out-of-range current page (after a delete shrinks the list, say) clamps to
// the last valid page rather than returning an empty slice; the clamped
// position sticks. Empty input yields zero items and zero pages.
func (c *ListController) View(transactions []Transaction) ListPage {
	filtered := filterTransactions(transactions, c.searchQuery)
	sortForOption(filtered, c.sortOption)

	totalCount := len(filtered)
	totalPages := (totalCount + PageSize - 1) / PageSize
	if c.currentPage > totalPages && totalPages > 0 {
		c.currentPage = totalPages
	}
	if totalPages == 0 {
		return ListPage{Page: c.currentPage, TotalPages: 0, TotalCount: 0}
	}

	start := (c.currentPage - 1) * PageSize
	end := start + PageSize
	if end > totalCount {
		end = totalCount
	}
	return ListPage{
		Items:      filtered[start:end],
		Page:       c.currentPage,
		TotalPages: totalPages,
		TotalCount: totalCount,
	}
}

// filterTransactions keeps transactions whose description or category
// contains the query, case-insensitively. An empty query matches everything.
func filterTransactions(transactions []Transaction, query string) []Transaction {
	out := make([]Transaction, 0, len(transactions))
	if strings.TrimSpace(query) == "" {
		return append(out, transactions...)
	}
	q := strings.ToLower(query)
	for _, t := range transactions {
		if strings.Contains(strings.ToLower(t.Description), q) ||
			strings.Contains(strings.ToLower(t.Category), q) {
			out = append(out, t)
		}
	}
	return out
}

// sortForOption orders rows in place. The type orderings are stable
// partitions: rows of the winning type float up while both partitions keep
// their relative order. Unparseable dates compare as the zero time, so they
// sink to the old end of either date ordering.
func sortForOption(rows []Transaction, option SortOption) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch option {
		case SortTypeIncome:
			return a.Type == TypeIncome && b.Type != TypeIncome
		case SortTypeExpense:
			return a.Type == TypeExpense && b.Type != TypeExpense
		case SortDateNew:
			return ParseDate(a.Date).After(ParseDate(b.Date))
		case SortDateOld:
			return ParseDate(a.Date).Before(ParseDate(b.Date))
		case SortAmountHigh:
			return a.Amount > b.Amount
		case SortAmountLow:
			return a.Amount < b.Amount
		}
		return false
	})
}
