package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"expenselog/internal/core"

	_ "modernc.org/sqlite"
)

const budgetKey = "budget"

// SQLiteStore is the alternate persistence backend. It keeps the same
// snapshot semantics as the CSV store: Save replaces the full expense set
// and budget in one transaction.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db, path: dbPath}, nil
}

func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Save(ctx context.Context, expenses []core.Expense, budget decimal.Decimal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	// Amounts stored as TEXT to preserve decimal exactness.
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expenses (spent_on, category, amount, description)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range expenses {
		if _, err := stmt.ExecContext(ctx, e.Date.String(), e.Category, e.Amount.String(), e.Description); err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		budgetKey, budget.String()); err != nil {
		return fmt.Errorf("store budget: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}

	slog.InfoContext(ctx, "Ledger saved to SQLite",
		"path", s.path,
		"expenses", len(expenses),
		"budget", budget.String())
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (LoadResult, error) {
	res := LoadResult{Budget: decimal.Zero}

	var budgetText string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, budgetKey).Scan(&budgetText)
	hadBudgetRow := true
	switch {
	case errors.Is(err, sql.ErrNoRows):
		hadBudgetRow = false
	case err != nil:
		return res, fmt.Errorf("read budget: %w", err)
	default:
		if b, perr := decimal.NewFromString(budgetText); perr == nil {
			res.Budget = b
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT spent_on, category, amount, description
		FROM expenses ORDER BY id`)
	if err != nil {
		return res, fmt.Errorf("read expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var spentOn, category, amountText, description string
		if err := rows.Scan(&spentOn, &category, &amountText, &description); err != nil {
			return res, fmt.Errorf("scan expense row: %w", err)
		}
		amount, err := decimal.NewFromString(amountText)
		if err != nil {
			slog.WarnContext(ctx, "Skipping invalid expense entry", "path", s.path, "amount", amountText)
			res.Skipped++
			continue
		}
		date, _ := core.ParseDate(spentOn) // zero date tolerated, skipped in totals
		res.Expenses = append(res.Expenses, core.Expense{
			Date:        date,
			Category:    category,
			Amount:      amount,
			Description: description,
		})
	}
	if err := rows.Err(); err != nil {
		return res, fmt.Errorf("iterate expenses: %w", err)
	}

	res.Fresh = !hadBudgetRow && len(res.Expenses) == 0 && res.Skipped == 0
	return res, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
