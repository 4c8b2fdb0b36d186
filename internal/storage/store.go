// Package storage persists the expense ledger. The CSV adapter is the
// default and defines the on-disk compatibility format; the SQLite adapter
// is an alternate backend with identical snapshot semantics.
package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"expenselog/internal/core"
)

// Store reads and writes full ledger snapshots.
type Store interface {
	// Load returns prior state. A missing file or empty database is not an
	// error: it yields a Fresh result with zero expenses and budget 0.
	Load(ctx context.Context) (LoadResult, error)

	// Save writes the complete expense sequence and budget, replacing any
	// prior state.
	Save(ctx context.Context, expenses []core.Expense, budget decimal.Decimal) error

	Close() error
}

// LoadResult is the outcome of a Load, including partial-success detail.
type LoadResult struct {
	Expenses []core.Expense
	Budget   decimal.Decimal
	Skipped  int  // rows dropped for a missing or non-numeric amount
	Fresh    bool // no prior state existed
}
