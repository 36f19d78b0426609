package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// DateLayout is the ISO-8601 calendar date format used for Entry.Date.
const DateLayout = "2006-01-02"

type (
	// Kind discriminates income from expense entries.
	Kind string

	// Entry is a single persisted income or expense record.
	Entry struct {
		ID          string
		Amount      decimal.Decimal
		Description string
		Category    string
		Date        string // YYYY-MM-DD
		Kind        Kind
	}

	// FormInput is the raw, string-typed draft of an Entry.
	FormInput struct {
		Amount      string
		Description string
		Category    string
		Date        string
		Kind        Kind
	}
)

var (
	ErrInvalidKind = errors.New("invalid kind")
	ErrInvalidDate = errors.New("invalid date")
)

// String implements fmt.Stringer
func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is income or expense.
func (k Kind) IsValid() bool {
	switch k {
	case Income, Expense:
		return true
	default:
		return false
	}
}

// ParseKind converts user text into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", ErrInvalidKind
	}
	return k, nil
}

// Kinds returns every valid kind, income first.
func Kinds() []Kind {
	return []Kind{Income, Expense}
}

// ParseDate parses a YYYY-MM-DD string. Full RFC 3339 timestamps are accepted
// too, since older payloads may carry them.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}
