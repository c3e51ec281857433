package core

import (
	"math"
	"testing"
)

func TestFormatCompact(t *testing.T) {
	cases := []struct {
		in  float64
		out string
	}{
		{0, "0.00"},
		{999, "999.00"},
		{1000, "1.00K"},
		{1500, "1.50K"},
		{999999, "1000.00K"},
		{2500000, "2.50M"},
		{-1500, "-1.50K"},
		{42.5, "42.50"},
	}
	for _, tc := range cases {
		if got := FormatCompact(tc.in); got != tc.out {
			t.Fatalf("FormatCompact(%v) = %q, expected %q", tc.in, got, tc.out)
		}
	}
}

func TestBreakdown(t *testing.T) {
	cases := []struct {
		in   float64
		want AmountBreakdown
	}{
		{0, AmountBreakdown{}},
		{1234567.89, AmountBreakdown{Millions: 1, Thousands: 234, Hundreds: 5, Dollars: 67, Cents: 89}},
		{250, AmountBreakdown{Hundreds: 2, Dollars: 50}},
		{99.99, AmountBreakdown{Dollars: 99, Cents: 99}},
		{-250, AmountBreakdown{Hundreds: 2, Dollars: 50}},
	}
	for _, tc := range cases {
		if got := Breakdown(tc.in); got != tc.want {
			t.Fatalf("Breakdown(%v) = %+v, expected %+v", tc.in, got, tc.want)
		}
	}
}

func TestBreakdownString(t *testing.T) {
	cases := []struct {
		in  float64
		out string
	}{
		{0, "0$"},
		{250, "2H + 50$"},
		{1234567.89, "1M + 234K + 5H + 67$ + 89¢"},
		{0.5, "50¢"},
		{1000, "1K"},
		{7, "7$"},
	}
	for _, tc := range cases {
		if got := Breakdown(tc.in).String(); got != tc.out {
			t.Fatalf("Breakdown(%v).String() = %q, expected %q", tc.in, got, tc.out)
		}
	}
}

func TestBreakdownReconstruction(t *testing.T) {
	// Reassembling the denominations must give back the amount to the cent.
	for _, amount := range []float64{0, 0.07, 12.34, 999.99, 1500, 250000.5, 1234567.89} {
		b := Breakdown(amount)
		got := float64(b.Millions)*1e6 + float64(b.Thousands)*1e3 +
			float64(b.Hundreds)*100 + float64(b.Dollars) + float64(b.Cents)/100
		want := math.Round(amount*100) / 100
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("reconstruction of %v: got %v, expected %v", amount, got, want)
		}
	}
}
