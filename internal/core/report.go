package core

import (
	"math"
	"sort"
)

// FilterAll is the sentinel for an unset year or month filter.
const FilterAll = 0

// Report is the aggregate behind the reports screen: a monthly totals bar
// series, income/expense totals and the category breakdown of expenses, all
// over the same filtered transaction set.
type Report struct {
	MonthlyTotals     [12]float64       `json:"monthlyTotals"`
	IncomeTotal       float64           `json:"incomeTotal"`
	ExpenseTotal      float64           `json:"expenseTotal"`
	Balance           float64           `json:"balance"`
	SavingsRate       int               `json:"savingsRate"`
	CategoryBreakdown []CategorySummary `json:"categoryBreakdown"`
}

// BuildReport aggregates transactions, optionally restricted to a calendar
// year and/or month (1-12); FilterAll skips either restriction.
//
// MonthlyTotals adds income and expense amounts together without netting.
// The monthly bar chart has always shown gross flow per month, so this stays
// as observable behavior rather than being corrected to a net figure.
// Transactions with unparseable dates count toward the unfiltered totals but
// are excluded by any year/month filter and never land in a month bucket.
func BuildReport(transactions []Transaction, year, month int) Report {
	var r Report
	for _, t := range transactions {
		d := ParseDate(t.Date)
		if d.IsZero() {
			if year != FilterAll || month != FilterAll {
				continue
			}
		} else {
			if year != FilterAll && d.Year() != year {
				continue
			}
			if month != FilterAll && int(d.Month()) != month {
				continue
			}
		}

		amount := t.Amount.Float()
		if !d.IsZero() {
			r.MonthlyTotals[int(d.Month())-1] += amount
		}
		switch t.Type {
		case TypeIncome:
			r.IncomeTotal += amount
		case TypeExpense:
			r.ExpenseTotal += amount
		}
	}

	r.Balance = r.IncomeTotal - r.ExpenseTotal
	if r.IncomeTotal > 0 {
		r.SavingsRate = int(math.Round(r.Balance / r.IncomeTotal * 100))
	}
	r.CategoryBreakdown = AggregateByCategory(filterByPeriod(transactions, year, month), TypeExpense)
	return r
}

// AvailableYears returns the distinct calendar years present in the
// transaction set, newest first. The year filter offers exactly these, not a
// fixed range.
func AvailableYears(transactions []Transaction) []int {
	seen := make(map[int]bool)
	var years []int
	for _, t := range transactions {
		d := ParseDate(t.Date)
		if d.IsZero() {
			continue
		}
		if !seen[d.Year()] {
			seen[d.Year()] = true
			years = append(years, d.Year())
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

func filterByPeriod(transactions []Transaction, year, month int) []Transaction {
	if year == FilterAll && month == FilterAll {
		return transactions
	}
	var out []Transaction
	for _, t := range transactions {
		d := ParseDate(t.Date)
		if d.IsZero() {
			continue
		}
		if year != FilterAll && d.Year() != year {
			continue
		}
		if month != FilterAll && int(d.Month()) != month {
			continue
		}
		out = append(out, t)
	}
	return out
}
