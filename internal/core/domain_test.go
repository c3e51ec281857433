package core

import (
	"encoding/json"
	"testing"
)

func TestAmountUnmarshalCoercion(t *testing.T) {
	cases := []struct {
		in  string
		out float64
	}{
		{`50`, 50},
		{`50.25`, 50.25},
		{`"50"`, 50},
		{`" 12.5 "`, 12.5},
		{`"-3"`, -3},
		{`"abc"`, 0},
		{`""`, 0},
		{`null`, 0},
		{`true`, 0},
	}
	for _, tc := range cases {
		var a Amount
		if err := json.Unmarshal([]byte(tc.in), &a); err != nil {
			t.Fatalf("%s: unexpected error %v", tc.in, err)
		}
		if a.Float() != tc.out {
			t.Fatalf("%s: expected %v, got %v", tc.in, tc.out, a.Float())
		}
	}
}

func TestAmountUnmarshalInsideTransaction(t *testing.T) {
	raw := `{"_id":"t1","type":"expense","category":"food","amount":"50","date":"2024-03-01","email":"a@b.c"}`
	var tx Transaction
	if err := json.Unmarshal([]byte(raw), &tx); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tx.Amount.Float() != 50 {
		t.Fatalf("string amount not coerced: %v", tx.Amount)
	}
}

func TestNormalizeCategory(t *testing.T) {
	cases := []struct{ in, out string }{
		{"Food", "food"},
		{"  HOME ", "home"},
		{"", "other"},
		{"   ", "other"},
		{"transport", "transport"},
	}
	for _, tc := range cases {
		if got := NormalizeCategory(tc.in); got != tc.out {
			t.Fatalf("%q: expected %q, got %q", tc.in, tc.out, got)
		}
	}
}

func TestParseDate(t *testing.T) {
	if d := ParseDate("2024-03-15"); d.Year() != 2024 || int(d.Month()) != 3 || d.Day() != 15 {
		t.Fatalf("unexpected parse result: %v", d)
	}
	if d := ParseDate("2024-03-15T10:30:00Z"); d.Year() != 2024 {
		t.Fatalf("RFC3339 timestamp should parse, got %v", d)
	}
	if d := ParseDate("not-a-date"); !d.IsZero() {
		t.Fatalf("invalid date must be zero time, got %v", d)
	}
	if d := ParseDate(""); !d.IsZero() {
		t.Fatalf("empty date must be zero time, got %v", d)
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Type:     TypeExpense,
		Category: "food",
		Amount:   12.5,
		Date:     "2024-01-02",
		Email:    "a@b.c",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{"negative amount", func(tx *Transaction) { tx.Amount = -1 }, ErrInvalidAmount},
		{"bad date", func(tx *Transaction) { tx.Date = "soon" }, ErrInvalidDate},
		{"no email", func(tx *Transaction) { tx.Email = " " }, ErrEmptyEmail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := valid
			tc.mutate(&tx)
			if err := tx.Validate(); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
