package store

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

func listBudgets(q queryer) ([]model.BudgetEntry, error) {
	period, err := getSetting(q, keyPeriod)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query("SELECT category, limit_cents, spent_cents FROM budgets")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	byCategory := make(map[model.Category]model.BudgetEntry)
	for rows.Next() {
		var (
			category     string
			limit, spent int64
		)
		if err := rows.Scan(&category, &limit, &spent); err != nil {
			return nil, err
		}
		c, err := model.ParseCategory(category)
		if err != nil {
			return nil, err
		}
		byCategory[c] = model.BudgetEntry{
			Category: c,
			Limit:    money.FromCents(limit),
			Spent:    money.FromCents(spent),
			Period:   period,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entries := make([]model.BudgetEntry, 0, len(byCategory))
	for _, c := range model.Categories {
		if e, ok := byCategory[c]; ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// ListBudgets returns the budget entries in category display order.
func (s *Store) ListBudgets() ([]model.BudgetEntry, error) {
	return listBudgets(s.db)
}

func putBudget(q queryer, e model.BudgetEntry) error {
	_, err := q.Exec(`INSERT INTO budgets (category, limit_cents, spent_cents) VALUES (?, ?, ?)
		ON CONFLICT(category) DO UPDATE SET
			limit_cents = excluded.limit_cents,
			spent_cents = excluded.spent_cents`,
		string(e.Category), e.Limit.Cents(), e.Spent.Cents())
	return err
}

// PutBudget inserts or replaces the entry for one category.
func (s *Store) PutBudget(e model.BudgetEntry) error {
	if err := putBudget(s.db, e); err != nil {
		return fmt.Errorf("saving budget %s: %w", e.Category, err)
	}
	return nil
}

// SetLimit changes a category limit, keeping what was already spent.
func (s *Store) SetLimit(c model.Category, limit money.Money) error {
	_, err := s.db.Exec(`INSERT INTO budgets (category, limit_cents, spent_cents) VALUES (?, ?, 0)
		ON CONFLICT(category) DO UPDATE SET limit_cents = excluded.limit_cents`,
		string(c), limit.Cents())
	return err
}

// RecordSpend adds amount to the current period's spend for a category.
// A category without a budget row is created with a zero limit.
func (s *Store) RecordSpend(c model.Category, amount money.Money) (model.BudgetEntry, error) {
	if amount <= 0 {
		return model.BudgetEntry{}, fmt.Errorf("spend %s must be positive", amount)
	}
	_, err := s.db.Exec(`INSERT INTO budgets (category, limit_cents, spent_cents) VALUES (?, 0, ?)
		ON CONFLICT(category) DO UPDATE SET spent_cents = spent_cents + excluded.spent_cents`,
		string(c), amount.Cents())
	if err != nil {
		return model.BudgetEntry{}, fmt.Errorf("recording spend: %w", err)
	}

	var limit, spent int64
	if err := s.db.QueryRow("SELECT limit_cents, spent_cents FROM budgets WHERE category = ?", string(c)).
		Scan(&limit, &spent); err != nil {
		return model.BudgetEntry{}, err
	}
	s.log.WithFields(logrus.Fields{"category": c, "amount": amount.String()}).Debug("spend recorded")
	return model.BudgetEntry{Category: c, Limit: money.FromCents(limit), Spent: money.FromCents(spent)}, nil
}

// RolloverResult reports what Rollover did.
type RolloverResult struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Archived int    `json:"archived"`
}

// Rollover closes the open budget period: each category's spend is archived
// under the old period and reset to zero, and recurring expenses are marked
// unpaid again, all in one transaction. Rolling over to the period already
// open is a no-op; going backwards is an error.
func (s *Store) Rollover(period string) (RolloverResult, error) {
	if _, err := parsePeriod(period); err != nil {
		return RolloverResult{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return RolloverResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	current, err := getSetting(tx, keyPeriod)
	if err != nil {
		return RolloverResult{}, err
	}
	res := RolloverResult{From: current, To: period}

	switch {
	case current == period:
		return res, nil
	case current != "" && period < current:
		return RolloverResult{}, fmt.Errorf("period %s is before the open period %s", period, current)
	}

	if current != "" {
		r, err := tx.Exec(`INSERT OR REPLACE INTO spend_history (period, category, spent_cents)
			SELECT ?, category, spent_cents FROM budgets`, current)
		if err != nil {
			return RolloverResult{}, fmt.Errorf("archiving %s: %w", current, err)
		}
		n, _ := r.RowsAffected()
		res.Archived = int(n)
		if _, err := tx.Exec("UPDATE budgets SET spent_cents = 0"); err != nil {
			return RolloverResult{}, err
		}
		if _, err := tx.Exec("UPDATE expenses SET paid = 0 WHERE recurring = 1"); err != nil {
			return RolloverResult{}, fmt.Errorf("reopening recurring expenses: %w", err)
		}
	}
	if err := putSetting(tx, keyPeriod, period); err != nil {
		return RolloverResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return RolloverResult{}, err
	}

	s.log.WithFields(logrus.Fields{"from": res.From, "to": res.To, "archived": res.Archived}).Info("budget period rolled over")
	return res, nil
}

func listHistory(q queryer, periods int) ([]model.PeriodSpend, error) {
	rows, err := q.Query(`SELECT period, category, spent_cents FROM spend_history
		WHERE period IN (SELECT DISTINCT period FROM spend_history ORDER BY period DESC LIMIT ?)
		ORDER BY period DESC, category`, periods)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.PeriodSpend
	for rows.Next() {
		var (
			ps       model.PeriodSpend
			category string
			spent    int64
		)
		if err := rows.Scan(&ps.Period, &category, &spent); err != nil {
			return nil, err
		}
		c, err := model.ParseCategory(category)
		if err != nil {
			return nil, err
		}
		ps.Category = c
		ps.Spent = money.FromCents(spent)
		out = append(out, ps)
	}
	return out, rows.Err()
}

// History returns archived spend for the latest n closed periods, newest first.
func (s *Store) History(n int) ([]model.PeriodSpend, error) {
	return listHistory(s.db, n)
}
