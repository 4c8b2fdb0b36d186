package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"expenselog/internal/core"
)

// budgetPrefix marks the single out-of-band budget line multiplexed into
// the expense file after the tabular block.
const budgetPrefix = "#BUDGET,"

var csvHeader = []string{"date", "category", "amount", "description"}

// CSVStore persists the ledger to one flat delimited file: an optional
// header+rows block followed by exactly one #BUDGET,<value> line.
type CSVStore struct {
	path string
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Path() string {
	return s.path
}

// Save rewrites the whole file. The header and rows are written only when
// at least one expense exists; the budget line is always written last.
func (s *CSVStore) Save(_ context.Context, expenses []core.Expense, budget decimal.Decimal) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("open expense file: %w", err)
	}

	if len(expenses) > 0 {
		w := csv.NewWriter(f)
		if err := w.Write(csvHeader); err != nil {
			f.Close()
			return fmt.Errorf("write header: %w", err)
		}
		for _, e := range expenses {
			row := []string{e.Date.String(), e.Category, e.Amount.String(), e.Description}
			if err := w.Write(row); err != nil {
				f.Close()
				return fmt.Errorf("write expense row: %w", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return fmt.Errorf("flush expense rows: %w", err)
		}
	}

	if _, err := fmt.Fprintf(f, "%s%s\n", budgetPrefix, budget.String()); err != nil {
		f.Close()
		return fmt.Errorf("write budget line: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close expense file: %w", err)
	}
	return nil
}

// Load reads the file, partitions the budget marker from the tabular lines,
// and parses both segments. Rows with a missing or non-numeric amount are
// skipped and counted; a missing file yields a Fresh result, not an error.
func (s *CSVStore) Load(_ context.Context) (LoadResult, error) {
	res := LoadResult{Budget: decimal.Zero}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		res.Fresh = true
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("read expense file: %w", err)
	}

	// Partition: budget marker (last one wins) vs tabular content.
	var budgetLine string
	var tableLines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, budgetPrefix) {
			budgetLine = line
			continue
		}
		if strings.TrimSpace(line) != "" {
			tableLines = append(tableLines, line)
		}
	}

	if budgetLine != "" {
		fields := strings.SplitN(budgetLine, ",", 2)
		if len(fields) == 2 {
			if b, err := decimal.NewFromString(strings.TrimSpace(fields[1])); err == nil {
				res.Budget = b
			}
		}
	}

	if len(tableLines) == 0 {
		return res, nil
	}

	r := csv.NewReader(strings.NewReader(strings.Join(tableLines, "\n")))
	r.FieldsPerRecord = -1

	header := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("Skipping unreadable expense row", "file", s.path, "error", err)
			res.Skipped++
			continue
		}
		if header {
			header = false
			continue
		}
		e, ok := parseRow(row)
		if !ok {
			slog.Warn("Skipping invalid expense entry", "file", s.path, "row", strings.Join(row, ","))
			res.Skipped++
			continue
		}
		res.Expenses = append(res.Expenses, e)
	}

	return res, nil
}

func (s *CSVStore) Close() error {
	return nil
}

// parseRow converts one data row to an expense. Only the amount must parse
// as a number for the row to load; a malformed date or blank text field
// still loads and is flagged later at display time.
func parseRow(row []string) (core.Expense, bool) {
	if len(row) < 4 {
		return core.Expense{}, false
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(row[2]))
	if err != nil {
		return core.Expense{}, false
	}
	date, _ := core.ParseDate(row[0]) // zero date tolerated, skipped in totals
	return core.Expense{
		Date:        date,
		Category:    row[1],
		Amount:      amount,
		Description: row[3],
	}, true
}
