package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

const (
	incomeColumns  = "id, name, amount_cents, received, source, recurring"
	expenseColumns = "id, name, amount_cents, due_date, category, method, paid, recurring"
)

func scanIncome(sc interface{ Scan(...any) error }) (model.Income, error) {
	var (
		in       model.Income
		amount   int64
		received string
		source   string
	)
	if err := sc.Scan(&in.ID, &in.Name, &amount, &received, &source, &in.Recurring); err != nil {
		return in, err
	}
	d, err := time.Parse(dateLayout, received)
	if err != nil {
		return in, fmt.Errorf("income %s: parsing date: %w", in.ID, err)
	}
	in.Amount = money.FromCents(amount)
	in.Received = d
	in.Source = model.IncomeSource(source)
	return in, nil
}

func listIncomes(q queryer) ([]model.Income, error) {
	rows, err := q.Query("SELECT " + incomeColumns + " FROM incomes ORDER BY received, id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Income
	for rows.Next() {
		in, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// ListIncomes returns every income ordered by date.
func (s *Store) ListIncomes() ([]model.Income, error) {
	return listIncomes(s.db)
}

func putIncome(q queryer, in model.Income) (model.Income, error) {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	_, err := q.Exec(`INSERT INTO incomes (`+incomeColumns+`, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			amount_cents = excluded.amount_cents,
			received = excluded.received,
			source = excluded.source,
			recurring = excluded.recurring`,
		in.ID, in.Name, in.Amount.Cents(), in.Received.Format(dateLayout), string(in.Source), in.Recurring, now(),
	)
	return in, err
}

// PutIncome inserts or updates an income, assigning an id when it has none.
func (s *Store) PutIncome(in model.Income) (model.Income, error) {
	in, err := putIncome(s.db, in)
	if err != nil {
		return in, fmt.Errorf("saving income: %w", err)
	}
	s.log.WithFields(logrus.Fields{"income_id": in.ID, "amount": in.Amount.String()}).Debug("income saved")
	return in, nil
}

// DeleteIncome removes an income.
func (s *Store) DeleteIncome(id string) error {
	return deleteByID(s.db, "incomes", "income", id)
}

func scanExpense(sc interface{ Scan(...any) error }) (model.Expense, error) {
	var (
		e        model.Expense
		amount   int64
		due      string
		category string
		method   string
	)
	if err := sc.Scan(&e.ID, &e.Name, &amount, &due, &category, &method, &e.Paid, &e.Recurring); err != nil {
		return e, err
	}
	d, err := time.Parse(dateLayout, due)
	if err != nil {
		return e, fmt.Errorf("expense %s: parsing due date: %w", e.ID, err)
	}
	e.Amount = money.FromCents(amount)
	e.DueDate = d
	e.Category = model.Category(category)
	e.Method = model.PaymentMethod(method)
	return e, nil
}

func listExpenses(q queryer) ([]model.Expense, error) {
	rows, err := q.Query("SELECT " + expenseColumns + " FROM expenses ORDER BY due_date, id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListExpenses returns the expense ledger ordered by due date.
func (s *Store) ListExpenses() ([]model.Expense, error) {
	return listExpenses(s.db)
}

// GetExpense returns one expense.
func (s *Store) GetExpense(id string) (model.Expense, error) {
	e, err := scanExpense(s.db.QueryRow("SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return e, notFound("expense", id)
	}
	return e, err
}

func putExpense(q queryer, e model.Expense) (model.Expense, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := q.Exec(`INSERT INTO expenses (`+expenseColumns+`, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			amount_cents = excluded.amount_cents,
			due_date = excluded.due_date,
			category = excluded.category,
			method = excluded.method,
			paid = excluded.paid,
			recurring = excluded.recurring`,
		e.ID, e.Name, e.Amount.Cents(), e.DueDate.Format(dateLayout), string(e.Category), string(e.Method),
		e.Paid, e.Recurring, now(),
	)
	return e, err
}

// PutExpense inserts or updates an expense, assigning an id when it has none.
// It does not touch budget spend; use SetExpensePaid to settle a bill.
func (s *Store) PutExpense(e model.Expense) (model.Expense, error) {
	e, err := putExpense(s.db, e)
	if err != nil {
		return e, fmt.Errorf("saving expense: %w", err)
	}
	s.log.WithFields(logrus.Fields{"expense_id": e.ID, "amount": e.Amount.String()}).Debug("expense saved")
	return e, nil
}

// DeleteExpense removes an expense.
func (s *Store) DeleteExpense(id string) error {
	return deleteByID(s.db, "expenses", "expense", id)
}

// SetExpensePaid marks an expense paid or pending. A change of state moves
// the amount into or out of its category's spend for the open period, in the
// same transaction; spend never drops below zero. Setting the current state
// again changes nothing.
func (s *Store) SetExpensePaid(id string, paid bool) (model.Expense, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return model.Expense{}, err
	}
	defer func() { _ = tx.Rollback() }()

	e, err := scanExpense(tx.QueryRow("SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return e, notFound("expense", id)
	}
	if err != nil {
		return e, err
	}
	if e.Paid == paid {
		return e, nil
	}

	if _, err := tx.Exec("UPDATE expenses SET paid = ? WHERE id = ?", paid, id); err != nil {
		return e, err
	}
	if paid {
		_, err = tx.Exec(`INSERT INTO budgets (category, limit_cents, spent_cents) VALUES (?, 0, ?)
			ON CONFLICT(category) DO UPDATE SET spent_cents = spent_cents + excluded.spent_cents`,
			string(e.Category), e.Amount.Cents())
	} else {
		_, err = tx.Exec("UPDATE budgets SET spent_cents = MAX(spent_cents - ?, 0) WHERE category = ?",
			e.Amount.Cents(), string(e.Category))
	}
	if err != nil {
		return e, fmt.Errorf("updating %s spend: %w", e.Category, err)
	}
	if err := tx.Commit(); err != nil {
		return e, err
	}

	e.Paid = paid
	s.log.WithFields(logrus.Fields{"expense_id": id, "paid": paid, "category": e.Category}).Info("expense settled")
	return e, nil
}

func deleteByID(q queryer, table, kind, id string) error {
	res, err := q.Exec("DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(kind, id)
	}
	return nil
}
