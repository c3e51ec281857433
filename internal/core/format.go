// Package core provides the transaction domain model and the pure
// aggregation functions behind the dashboard, reports and profile views.
//
// This file holds display formatting for amounts: the compact K/M notation
// used on stat cards and the denominational breakdown shown on the profile
// page. Callers prepend the currency symbol themselves.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatCompact renders an amount with a K or M suffix.
//
// Examples:
//
//	FormatCompact(999)     -> "999.00"
//	FormatCompact(1500)    -> "1.50K"
//	FormatCompact(2500000) -> "2.50M"
func FormatCompact(amount float64) string {
	switch {
	case math.Abs(amount) >= 1_000_000:
		return strconv.FormatFloat(amount/1_000_000, 'f', 2, 64) + "M"
	case math.Abs(amount) >= 1_000:
		return strconv.FormatFloat(amount/1_000, 'f', 2, 64) + "K"
	default:
		return strconv.FormatFloat(amount, 'f', 2, 64)
	}
}

// AmountBreakdown splits an absolute amount into display denominations.
type AmountBreakdown struct {
	Millions  int64 `json:"millions"`
	Thousands int64 `json:"thousands"`
	Hundreds  int64 `json:"hundreds"`
	Dollars   int64 `json:"dollars"`
	Cents     int64 `json:"cents"`
}

// Breakdown decomposes |amount| into millions, thousands, hundreds, whole
// dollars and rounded cents.
func Breakdown(amount float64) AmountBreakdown {
	a := math.Abs(amount)
	return AmountBreakdown{
		Millions:  int64(math.Floor(a / 1_000_000)),
		Thousands: int64(math.Floor(math.Mod(a, 1_000_000) / 1_000)),
		Hundreds:  int64(math.Floor(math.Mod(a, 1_000) / 100)),
		Dollars:   int64(math.Floor(math.Mod(a, 100))),
		Cents:     int64(math.Round(math.Mod(a, 1) * 100)),
	}
}

// String renders the breakdown joined with " + ", emitting only non-zero
// denominations. Dollars are emitted anyway when every other part is zero,
// so the result is never empty: Breakdown(0).String() == "0$".
func (b AmountBreakdown) String() string {
	var parts []string
	if b.Millions != 0 {
		parts = append(parts, fmt.Sprintf("%dM", b.Millions))
	}
	if b.Thousands != 0 {
		parts = append(parts, fmt.Sprintf("%dK", b.Thousands))
	}
	if b.Hundreds != 0 {
		parts = append(parts, fmt.Sprintf("%dH", b.Hundreds))
	}
	if b.Dollars != 0 || (len(parts) == 0 && b.Cents == 0) {
		parts = append(parts, fmt.Sprintf("%d$", b.Dollars))
	}
	if b.Cents != 0 {
		parts = append(parts, fmt.Sprintf("%d¢", b.Cents))
	}
	return strings.Join(parts, " + ")
}
