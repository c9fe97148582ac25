package store

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/fincoach/internal/model"
)

// Snapshot reads the whole household in one transaction, with the latest
// closed periods of spend history.
func (s *Store) Snapshot(historyPeriods int) (model.Household, error) {
	var h model.Household

	tx, err := s.db.Begin()
	if err != nil {
		return h, err
	}
	defer func() { _ = tx.Rollback() }()

	if h.Currency, err = getSetting(tx, keyCurrency); err != nil {
		return h, fmt.Errorf("reading currency: %w", err)
	}
	if h.Debts, err = listDebts(tx); err != nil {
		return h, fmt.Errorf("reading debts: %w", err)
	}
	if h.Goals, err = listGoals(tx); err != nil {
		return h, fmt.Errorf("reading goals: %w", err)
	}
	if h.Budgets, err = listBudgets(tx); err != nil {
		return h, fmt.Errorf("reading budgets: %w", err)
	}
	if h.Incomes, err = listIncomes(tx); err != nil {
		return h, fmt.Errorf("reading incomes: %w", err)
	}
	if h.Expenses, err = listExpenses(tx); err != nil {
		return h, fmt.Errorf("reading expenses: %w", err)
	}
	if historyPeriods > 0 {
		if h.History, err = listHistory(tx, historyPeriods); err != nil {
			return h, fmt.Errorf("reading history: %w", err)
		}
	}
	return h, tx.Commit()
}

// ReplaceHousehold discards every stored record and writes h in its place,
// opening the given budget period. Payments are kept for the audit trail.
func (s *Store) ReplaceHousehold(h model.Household, period string) error {
	if _, err := parsePeriod(period); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"debts", "goals", "budgets", "spend_history", "incomes", "expenses"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, d := range h.Debts {
		if _, err := putDebt(tx, d); err != nil {
			return fmt.Errorf("importing debt %q: %w", d.Name, err)
		}
	}
	for _, g := range h.Goals {
		if _, err := putGoal(tx, g); err != nil {
			return fmt.Errorf("importing goal %q: %w", g.Name, err)
		}
	}
	for _, b := range h.Budgets {
		if err := putBudget(tx, b); err != nil {
			return fmt.Errorf("importing budget %s: %w", b.Category, err)
		}
	}
	for _, in := range h.Incomes {
		if _, err := putIncome(tx, in); err != nil {
			return fmt.Errorf("importing income %q: %w", in.Name, err)
		}
	}
	for _, e := range h.Expenses {
		if _, err := putExpense(tx, e); err != nil {
			return fmt.Errorf("importing expense %q: %w", e.Name, err)
		}
	}
	for _, ps := range h.History {
		if _, err := tx.Exec("INSERT OR REPLACE INTO spend_history (period, category, spent_cents) VALUES (?, ?, ?)",
			ps.Period, string(ps.Category), ps.Spent.Cents()); err != nil {
			return fmt.Errorf("importing history %s/%s: %w", ps.Period, ps.Category, err)
		}
	}

	if h.Currency != "" {
		if err := putSetting(tx, keyCurrency, h.Currency); err != nil {
			return err
		}
	}
	if err := putSetting(tx, keyPeriod, period); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"debts":    len(h.Debts),
		"goals":    len(h.Goals),
		"budgets":  len(h.Budgets),
		"incomes":  len(h.Incomes),
		"expenses": len(h.Expenses),
		"period":   period,
	}).Info("household imported")
	return nil
}
