package core

import "github.com/shopspring/decimal"

// Ledger is the in-memory record store: an append-only sequence of expenses
// plus a single budget scalar. Zero budget means "no budget set".
type Ledger struct {
	expenses []Expense
	budget   decimal.Decimal
}

func NewLedger(expenses []Expense, budget decimal.Decimal) *Ledger {
	return &Ledger{expenses: expenses, budget: budget}
}

// Append adds an expense to the end of the sequence. Input is assumed to
// have passed validation; no dedup or uniqueness applies.
func (l *Ledger) Append(e Expense) {
	l.expenses = append(l.expenses, e)
}

// SetBudget overwrites the budget unconditionally.
func (l *Ledger) SetBudget(b decimal.Decimal) {
	l.budget = b
}

func (l *Ledger) Budget() decimal.Decimal {
	return l.budget
}

// HasBudget reports whether a budget has been set.
func (l *Ledger) HasBudget() bool {
	return l.budget.IsPositive()
}

// Expenses returns the stored sequence, including any ill-formed entries.
func (l *Ledger) Expenses() []Expense {
	return l.expenses
}

func (l *Ledger) Len() int {
	return len(l.expenses)
}

// Total sums the amounts of well-formed expenses and reports how many
// ill-formed entries were skipped. Skipped entries remain in storage.
func (l *Ledger) Total() (decimal.Decimal, int) {
	total := decimal.Zero
	skipped := 0
	for _, e := range l.expenses {
		if !e.WellFormed() {
			skipped++
			continue
		}
		total = total.Add(e.Amount)
	}
	return total, skipped
}
