package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type (
	// Date is a calendar day entered as YYYY-MM-DD.
	Date struct {
		time.Time
	}

	// Expense is a single recorded expense.
	Expense struct {
		Date        Date
		Category    string
		Amount      decimal.Decimal
		Description string
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyDescription = errors.New("empty description")
)

// ParseDate parses a strict YYYY-MM-DD calendar date. Out-of-range days
// (2024-02-30) fail the parse; real leap days (2024-02-29) pass.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String renders the date back in the same YYYY-MM-DD shape it was entered
// in. A zero date renders empty so never-parsed dates stay empty on disk.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	return nil
}

// WellFormed reports whether the expense has all four fields present and
// usable. Ill-formed rows can enter the store from a hand-edited file; they
// stay in storage but are skipped in totals and listings.
func (e Expense) WellFormed() bool {
	return e.Validate() == nil
}
