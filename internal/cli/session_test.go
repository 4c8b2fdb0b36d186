package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"expenselog/internal/core"
	"expenselog/internal/storage"
)

// runScript feeds one line of input per prompt answer and returns the
// console transcript plus the file the session saved to.
func runScript(t *testing.T, ledger *core.Ledger, input string) (string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "expenses.csv")
	store := storage.NewCSVStore(path)
	var out bytes.Buffer
	s := NewSession(ledger, store, path, strings.NewReader(input), &out, nil)
	s.Run(context.Background())
	return out.String(), path
}

func TestSessionAddAndView(t *testing.T) {
	input := strings.Join([]string{
		"1",
		"2024-03-01",
		"Food",
		"12.50",
		"Lunch",
		"2",
		"5",
	}, "\n") + "\n"

	out, _ := runScript(t, core.NewLedger(nil, decimal.Zero), input)

	if !strings.Contains(out, "Expense added successfully! $12.50 for Food") {
		t.Fatalf("missing add confirmation:\n%s", out)
	}
	if !strings.Contains(out, "Total expenses: $12.50") {
		t.Fatalf("missing total:\n%s", out)
	}
	if !strings.Contains(out, "Lunch") {
		t.Fatalf("missing listed expense:\n%s", out)
	}
}

func TestSessionTrackBudgetRemaining(t *testing.T) {
	// No budget yet: option 3 redirects into the budget prompt first.
	input := strings.Join([]string{
		"3",
		"100.00",
		"1",
		"2024-03-05",
		"Travel",
		"30.00",
		"Train",
		"3",
		"5",
	}, "\n") + "\n"

	out, _ := runScript(t, core.NewLedger(nil, decimal.Zero), input)

	if !strings.Contains(out, "No monthly budget set. Please set a budget first.") {
		t.Fatalf("missing budget redirect:\n%s", out)
	}
	if !strings.Contains(out, "Monthly budget set to $100.00") {
		t.Fatalf("missing budget confirmation:\n%s", out)
	}
	if !strings.Contains(out, "Monthly Budget: $100.00") {
		t.Fatalf("missing budget report:\n%s", out)
	}
	if !strings.Contains(out, "Total Expenses: $30.00") {
		t.Fatalf("missing total report:\n%s", out)
	}
	if !strings.Contains(out, "You have $70.00 left for the month") {
		t.Fatalf("missing remaining balance:\n%s", out)
	}
}

func TestSessionTrackBudgetOverspend(t *testing.T) {
	ledger := core.NewLedger(nil, decimal.RequireFromString("50.00"))
	input := strings.Join([]string{
		"1",
		"2024-03-01",
		"Food",
		"40.00",
		"Groceries",
		"1",
		"2024-03-02",
		"Fun",
		"30.00",
		"Concert",
		"3",
		"5",
	}, "\n") + "\n"

	out, _ := runScript(t, ledger, input)

	if !strings.Contains(out, "You have exceeded your budget by $20.00!") {
		t.Fatalf("missing overspend warning:\n%s", out)
	}
}

func TestSessionViewEmptyAndInvalidChoice(t *testing.T) {
	input := "2\n9\n5\n"
	out, _ := runScript(t, core.NewLedger(nil, decimal.Zero), input)

	if !strings.Contains(out, "No expenses recorded yet.") {
		t.Fatalf("missing empty-store message:\n%s", out)
	}
	if !strings.Contains(out, "Invalid option. Please select a number between 1 and 5.") {
		t.Fatalf("missing invalid-option message:\n%s", out)
	}
}

func TestSessionRepromptsOnBadInput(t *testing.T) {
	input := strings.Join([]string{
		"1",
		"2024-02-30", // not a real day
		"03-01-2024", // wrong shape
		"2024-02-29", // leap day, accepted
		"",           // empty category
		"Food",
		"0",   // not strictly positive
		"-5",  // negative
		"abc", // not a number
		"9.99",
		"", // empty description
		"Snacks",
		"5",
	}, "\n") + "\n"

	out, _ := runScript(t, core.NewLedger(nil, decimal.Zero), input)

	if strings.Count(out, "Invalid date format. Please use YYYY-MM-DD format.") != 2 {
		t.Fatalf("expected two date re-prompts:\n%s", out)
	}
	if !strings.Contains(out, "Category cannot be empty.") {
		t.Fatalf("missing category re-prompt:\n%s", out)
	}
	if strings.Count(out, "Invalid amount. Please enter a number greater than 0.") != 3 {
		t.Fatalf("expected three amount re-prompts:\n%s", out)
	}
	if !strings.Contains(out, "Description cannot be empty.") {
		t.Fatalf("missing description re-prompt:\n%s", out)
	}
	if !strings.Contains(out, "Expense added successfully! $9.99 for Food") {
		t.Fatalf("expected the expense to land after re-prompts:\n%s", out)
	}
}

func TestSessionExitAlwaysSaves(t *testing.T) {
	out, path := runScript(t, core.NewLedger(nil, decimal.Zero), "5\n")

	if !strings.Contains(out, "Saving expenses and exiting...") {
		t.Fatalf("missing exit save message:\n%s", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected file written on exit: %v", err)
	}
	if !strings.Contains(string(data), "#BUDGET,") {
		t.Fatalf("expected budget marker in saved file, got %q", string(data))
	}
}

func TestSessionSavesOnExhaustedInput(t *testing.T) {
	// Input ends mid-menu: the session must still flush state to disk.
	_, path := runScript(t, core.NewLedger(nil, decimal.RequireFromString("25")), "")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected file written on EOF: %v", err)
	}
	if !strings.Contains(string(data), "#BUDGET,25") {
		t.Fatalf("expected budget persisted, got %q", string(data))
	}
}

func TestSessionViewFlagsIllFormedEntries(t *testing.T) {
	broken := core.Expense{Category: "Food", Amount: decimal.NewFromInt(99)}
	date, _ := core.ParseDate("2024-03-01")
	ledger := core.NewLedger([]core.Expense{
		{Date: date, Category: "Food", Amount: decimal.RequireFromString("10"), Description: "Groceries"},
		broken,
	}, decimal.Zero)

	out, _ := runScript(t, ledger, "2\n5\n")

	if !strings.Contains(out, "Incomplete expense entry found - skipping") {
		t.Fatalf("missing skip flag:\n%s", out)
	}
	if !strings.Contains(out, "Total expenses: $10.00") {
		t.Fatalf("ill-formed entry must not count toward total:\n%s", out)
	}
}

func TestSessionMidSessionSave(t *testing.T) {
	input := strings.Join([]string{
		"1",
		"2024-03-01",
		"Food",
		"12.50",
		"Lunch",
		"4", // save without exiting
		"2", // still in the session
		"5",
	}, "\n") + "\n"

	out, path := runScript(t, core.NewLedger(nil, decimal.Zero), input)

	if strings.Count(out, "Expenses saved to "+path) != 2 {
		t.Fatalf("expected mid-session save plus exit save:\n%s", out)
	}
	if !strings.Contains(out, "Total expenses: $12.50") {
		t.Fatalf("session must continue after manual save:\n%s", out)
	}
}

func TestAnnounceLoad(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(core.NewLedger(nil, decimal.Zero), storage.NewCSVStore("unused.csv"), "expenses.csv", strings.NewReader(""), &out, nil)

	s.AnnounceLoad(storage.LoadResult{Fresh: true})
	if !strings.Contains(out.String(), "No existing expense file found. Starting fresh.") {
		t.Fatalf("missing fresh message: %s", out.String())
	}

	out.Reset()
	date, _ := core.ParseDate("2024-03-01")
	s.AnnounceLoad(storage.LoadResult{
		Expenses: []core.Expense{{Date: date, Category: "Food", Amount: decimal.NewFromInt(5), Description: "x"}},
		Budget:   decimal.RequireFromString("100"),
		Skipped:  1,
	})
	got := out.String()
	if !strings.Contains(got, "Loaded 1 expenses from expenses.csv") {
		t.Fatalf("missing load summary: %s", got)
	}
	if !strings.Contains(got, "Skipped 1 invalid expense entries") {
		t.Fatalf("missing skip summary: %s", got)
	}
	if !strings.Contains(got, "Monthly budget: $100.00") {
		t.Fatalf("missing budget summary: %s", got)
	}
}
