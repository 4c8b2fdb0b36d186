package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"expenselog/internal/core"
	"expenselog/internal/storage"
)

const menuWidth = 50

// Session runs the interactive menu loop over a ledger and a store.
// It is strictly synchronous: one prompt, one answer, one action.
type Session struct {
	ledger   *core.Ledger
	store    storage.Store
	location string
	in       *bufio.Scanner
	out      io.Writer
	logger   *slog.Logger
}

func NewSession(ledger *core.Ledger, store storage.Store, location string, in io.Reader, out io.Writer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		ledger:   ledger,
		store:    store,
		location: location,
		in:       bufio.NewScanner(in),
		out:      out,
		logger:   logger,
	}
}

// AnnounceLoad reports the outcome of the startup load.
func (s *Session) AnnounceLoad(res storage.LoadResult) {
	if res.Fresh {
		fmt.Fprintln(s.out, "No existing expense file found. Starting fresh.")
		return
	}
	fmt.Fprintf(s.out, "Loaded %d expenses from %s\n", len(res.Expenses), s.location)
	if res.Skipped > 0 {
		fmt.Fprintf(s.out, "Skipped %d invalid expense entries\n", res.Skipped)
	}
	if res.Budget.IsPositive() {
		fmt.Fprintf(s.out, "Monthly budget: %s\n", core.FormatUSD(res.Budget))
	}
}

// Run drives the menu until the user exits. Exhausted input is treated as
// an exit request: the ledger is saved before returning.
func (s *Session) Run(ctx context.Context) {
	fmt.Fprintln(s.out, "Welcome to Personal Expense Tracker!")

	for {
		s.printMenu()

		choice, err := s.readLine("Please select an option (1-5): ")
		if err != nil {
			fmt.Fprintln(s.out)
			s.exit(ctx)
			return
		}

		switch choice {
		case "1":
			if err := s.addExpense(); err != nil {
				s.exit(ctx)
				return
			}
		case "2":
			s.viewExpenses()
		case "3":
			if err := s.trackBudget(); err != nil {
				s.exit(ctx)
				return
			}
		case "4":
			s.saveExpenses(ctx)
		case "5":
			s.exit(ctx)
			return
		default:
			fmt.Fprintln(s.out, "Invalid option. Please select a number between 1 and 5.")
		}
	}
}

func (s *Session) printMenu() {
	bar := strings.Repeat("=", menuWidth)
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, bar)
	fmt.Fprintln(s.out, "         PERSONAL EXPENSE TRACKER")
	fmt.Fprintln(s.out, bar)
	fmt.Fprintln(s.out, "1. Add expense")
	fmt.Fprintln(s.out, "2. View expenses")
	fmt.Fprintln(s.out, "3. Track budget")
	fmt.Fprintln(s.out, "4. Save expenses")
	fmt.Fprintln(s.out, "5. Exit")
	fmt.Fprintln(s.out, strings.Repeat("-", menuWidth))
}

func (s *Session) addExpense() error {
	fmt.Fprintln(s.out, "\n--- Add New Expense ---")

	date, err := s.promptDate()
	if err != nil {
		return err
	}
	category, err := s.promptNonEmpty(
		"Enter the category (e.g., Food, Travel, Entertainment): ",
		"Category cannot be empty. Please enter a category: ")
	if err != nil {
		return err
	}
	amount, err := s.promptAmount("Enter the amount spent: $")
	if err != nil {
		return err
	}
	description, err := s.promptNonEmpty(
		"Enter a brief description: ",
		"Description cannot be empty. Please enter a description: ")
	if err != nil {
		return err
	}

	s.ledger.Append(core.Expense{
		Date:        date,
		Category:    category,
		Amount:      amount,
		Description: description,
	})
	fmt.Fprintf(s.out, "Expense added successfully! %s for %s\n", core.FormatUSD(amount), category)
	return nil
}

func (s *Session) viewExpenses() {
	fmt.Fprintln(s.out, "\n--- Your Expenses ---")

	if s.ledger.Len() == 0 {
		fmt.Fprintln(s.out, "No expenses recorded yet.")
		return
	}

	rule := strings.Repeat("-", 60)
	fmt.Fprintf(s.out, "%-12s %-15s %-10s %s\n", "Date", "Category", "Amount", "Description")
	fmt.Fprintln(s.out, rule)

	total := decimal.Zero
	for _, e := range s.ledger.Expenses() {
		if !e.WellFormed() {
			fmt.Fprintln(s.out, "Incomplete expense entry found - skipping")
			continue
		}
		fmt.Fprintf(s.out, "%-12s %-15s $%-9s %s\n",
			e.Date.String(), e.Category, e.Amount.StringFixed(2), e.Description)
		total = total.Add(e.Amount)
	}

	fmt.Fprintln(s.out, rule)
	fmt.Fprintf(s.out, "Total expenses: %s\n", core.FormatUSD(total))
}

func (s *Session) setBudget() error {
	fmt.Fprintln(s.out, "\n--- Set Monthly Budget ---")
	budget, err := s.promptAmount("Enter your monthly budget: $")
	if err != nil {
		return err
	}
	s.ledger.SetBudget(budget)
	fmt.Fprintf(s.out, "Monthly budget set to %s\n", core.FormatUSD(budget))
	return nil
}

func (s *Session) trackBudget() error {
	fmt.Fprintln(s.out, "\n--- Budget Tracking ---")

	if !s.ledger.HasBudget() {
		fmt.Fprintln(s.out, "No monthly budget set. Please set a budget first.")
		return s.setBudget()
	}

	total, skipped := s.ledger.Total()
	if skipped > 0 {
		s.logger.Warn("Ignoring incomplete expense entries in budget total", "count", skipped)
	}

	budget := s.ledger.Budget()
	fmt.Fprintf(s.out, "Monthly Budget: %s\n", core.FormatUSD(budget))
	fmt.Fprintf(s.out, "Total Expenses: %s\n", core.FormatUSD(total))

	if total.GreaterThan(budget) {
		fmt.Fprintf(s.out, "You have exceeded your budget by %s!\n", core.FormatUSD(total.Sub(budget)))
	} else {
		fmt.Fprintf(s.out, "You have %s left for the month\n", core.FormatUSD(budget.Sub(total)))
	}
	return nil
}

func (s *Session) saveExpenses(ctx context.Context) {
	if err := s.store.Save(ctx, s.ledger.Expenses(), s.ledger.Budget()); err != nil {
		fmt.Fprintf(s.out, "Error saving expenses: %v\n", err)
		s.logger.Error("Save failed", "location", s.location, "error", err)
		return
	}
	fmt.Fprintf(s.out, "Expenses saved to %s\n", s.location)
}

func (s *Session) exit(ctx context.Context) {
	fmt.Fprintln(s.out, "\nSaving expenses and exiting...")
	s.saveExpenses(ctx)
	fmt.Fprintln(s.out, "Thank you for using Personal Expense Tracker!")
}

// promptDate re-prompts until a strict YYYY-MM-DD date is entered.
func (s *Session) promptDate() (core.Date, error) {
	for {
		line, err := s.readLine("Enter the date (YYYY-MM-DD): ")
		if err != nil {
			return core.Date{}, err
		}
		date, perr := core.ParseDate(line)
		if perr != nil {
			fmt.Fprintln(s.out, "Invalid date format. Please use YYYY-MM-DD format.")
			continue
		}
		return date, nil
	}
}

// promptNonEmpty re-prompts until a non-blank value is entered.
func (s *Session) promptNonEmpty(prompt, retry string) (string, error) {
	line, err := s.readLine(prompt)
	for err == nil && line == "" {
		line, err = s.readLine(retry)
	}
	return line, err
}

// promptAmount re-prompts until a strictly positive number is entered.
func (s *Session) promptAmount(prompt string) (decimal.Decimal, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil {
			return decimal.Zero, err
		}
		amount, perr := core.ParseAmount(line)
		if perr != nil {
			fmt.Fprintln(s.out, "Invalid amount. Please enter a number greater than 0.")
			continue
		}
		return amount, nil
	}
}

func (s *Session) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}
