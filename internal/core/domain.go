package core

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// OtherCategory is the bucket used for transactions whose category label is
// missing or empty.
const OtherCategory = "other"

// DateLayout is the calendar date format used on the wire. There is no
// time-of-day semantics anywhere in the system.
const DateLayout = "2006-01-02"

type (
	TransactionType string

	// Amount is a monetary value in the account currency. The transport
	// layer is loose about types: amounts arrive as JSON numbers or as
	// numeric strings, and a malformed value must degrade to zero rather
	// than poison a whole aggregation.
	Amount float64

	// Transaction is a single income or expense record. It is owned by the
	// backing store; the aggregation code only reads it.
	Transaction struct {
		ID          string          `json:"_id"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Amount      Amount          `json:"amount"`
		Date        string          `json:"date"` // YYYY-MM-DD
		Email       string          `json:"email"`
		Name        string          `json:"name,omitempty"`
	}
)

var (
	ErrInvalidType   = errors.New("transaction type must be income or expense")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyEmail    = errors.New("empty owner email")
)

// UnmarshalJSON coerces numbers and numeric strings; anything else becomes 0.
// It never returns an error so one bad record cannot abort a whole decode.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' {
		var quoted string
		if err := json.Unmarshal(data, &quoted); err != nil {
			*a = 0
			return nil
		}
		s = strings.TrimSpace(quoted)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*a = 0
		return nil
	}
	*a = Amount(v)
	return nil
}

// Float returns the amount as a plain float64 for arithmetic.
func (a Amount) Float() float64 {
	return float64(a)
}

// IsValid reports whether the type is one of the two known values.
func (t TransactionType) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

// NormalizeCategory lowercases a category label and maps missing or blank
// labels to OtherCategory.
func NormalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return OtherCategory
	}
	return c
}

// ParseDate parses a wire date. Unparseable dates come back as the zero time
// so callers get a deterministic ordering and bucketing rule for bad records.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t
	}
	// Some upstream stores serialize full timestamps.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

// Validate checks a transaction submitted for creation or update. The
// coercion rules above cover bad data inside aggregations; this guards the
// write path.
func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if t.Amount < 0 || math.IsNaN(float64(t.Amount)) || math.IsInf(float64(t.Amount), 0) {
		return ErrInvalidAmount
	}
	if ParseDate(t.Date).IsZero() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(t.Email) == "" {
		return ErrEmptyEmail
	}
	return nil
}
