package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

const debtColumns = "id, name, kind, balance_cents, payment_cents, monthly_rate, " +
	"credit_limit_cents, due_day, closing_day, installments, paid_installments"

func scanDebt(sc interface{ Scan(...any) error }) (model.Debt, error) {
	var (
		d       model.Debt
		kind    string
		balance int64
		payment int64
		rate    string
		limit   int64
	)
	if err := sc.Scan(&d.ID, &d.Name, &kind, &balance, &payment, &rate,
		&limit, &d.DueDay, &d.ClosingDay, &d.Installments, &d.PaidInstallments); err != nil {
		return d, err
	}
	k, err := model.ParseKind(kind)
	if err != nil {
		return d, fmt.Errorf("debt %s: %w", d.ID, err)
	}
	r, err := decimal.NewFromString(rate)
	if err != nil {
		return d, fmt.Errorf("debt %s: parsing rate: %w", d.ID, err)
	}
	d.Kind = k
	d.Balance = money.FromCents(balance)
	d.MonthlyPayment = money.FromCents(payment)
	d.MonthlyRate = r
	d.CreditLimit = money.FromCents(limit)
	return d, nil
}

func listDebts(q queryer) ([]model.Debt, error) {
	rows, err := q.Query("SELECT " + debtColumns + " FROM debts ORDER BY created_at, rowid")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var debts []model.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

// ListDebts returns every open debt in creation order.
func (s *Store) ListDebts() ([]model.Debt, error) {
	return listDebts(s.db)
}

// GetDebt returns one debt.
func (s *Store) GetDebt(id string) (model.Debt, error) {
	d, err := scanDebt(s.db.QueryRow("SELECT "+debtColumns+" FROM debts WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return d, notFound("debt", id)
	}
	return d, err
}

func putDebt(q queryer, d model.Debt) (model.Debt, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	ts := now()
	_, err := q.Exec(`INSERT INTO debts
		(id, name, kind, balance_cents, payment_cents, monthly_rate,
		 credit_limit_cents, due_day, closing_day, installments, paid_installments, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			kind = excluded.kind,
			balance_cents = excluded.balance_cents,
			payment_cents = excluded.payment_cents,
			monthly_rate = excluded.monthly_rate,
			credit_limit_cents = excluded.credit_limit_cents,
			due_day = excluded.due_day,
			closing_day = excluded.closing_day,
			installments = excluded.installments,
			paid_installments = excluded.paid_installments,
			updated_at = excluded.updated_at`,
		d.ID, d.Name, d.Kind.String(), d.Balance.Cents(), d.MonthlyPayment.Cents(), d.MonthlyRate.String(),
		d.CreditLimit.Cents(), d.DueDay, d.ClosingDay, d.Installments, d.PaidInstallments, ts, ts,
	)
	return d, err
}

// PutDebt inserts or updates a debt, assigning an id when it has none.
func (s *Store) PutDebt(d model.Debt) (model.Debt, error) {
	d, err := putDebt(s.db, d)
	if err != nil {
		return d, fmt.Errorf("saving debt: %w", err)
	}
	s.log.WithFields(logrus.Fields{"debt_id": d.ID, "balance": d.Balance.String()}).Debug("debt saved")
	return d, nil
}

// DeleteDebt removes a debt.
func (s *Store) DeleteDebt(id string) error {
	res, err := s.db.Exec("DELETE FROM debts WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("debt", id)
	}
	return nil
}

// PaymentResult describes the effect of ApplyPayment.
type PaymentResult struct {
	Applied   money.Money
	Remaining money.Money
	Removed   bool
	// InstallmentsPaid is the loan's paid installment count after the payment.
	InstallmentsPaid int
}

// installmentsCovered is how many whole installments applied pays for a loan
// with a known schedule, capped at those still open.
func installmentsCovered(d model.Debt, applied money.Money) int {
	if d.Installments == 0 || d.MonthlyPayment <= 0 {
		return 0
	}
	n := int(applied / d.MonthlyPayment)
	return min(n, d.Installments-d.PaidInstallments)
}

// ApplyPayment reduces a debt's balance by amount and records the payment.
// Overpayment is capped at the balance. The debt is removed once it reaches 0.
// For a loan with an installment count, every whole scheduled payment in
// amount advances the paid count.
func (s *Store) ApplyPayment(id string, amount money.Money, at time.Time) (PaymentResult, error) {
	if amount <= 0 {
		return PaymentResult{}, fmt.Errorf("payment amount %s must be positive", amount)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return PaymentResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	d, err := scanDebt(tx.QueryRow("SELECT "+debtColumns+" FROM debts WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return PaymentResult{}, notFound("debt", id)
	}
	if err != nil {
		return PaymentResult{}, err
	}

	res := PaymentResult{Applied: money.Min(amount, d.Balance)}
	res.Remaining = d.Balance - res.Applied
	res.InstallmentsPaid = d.PaidInstallments + installmentsCovered(d, res.Applied)

	if res.Applied > 0 {
		if _, err := tx.Exec("INSERT INTO payments (debt_id, amount_cents, paid_at) VALUES (?, ?, ?)",
			id, res.Applied.Cents(), at.UTC().Format(time.RFC3339)); err != nil {
			return PaymentResult{}, err
		}
	}

	if res.Remaining == 0 {
		_, err = tx.Exec("DELETE FROM debts WHERE id = ?", id)
		res.Removed = true
	} else {
		_, err = tx.Exec("UPDATE debts SET balance_cents = ?, paid_installments = ?, updated_at = ? WHERE id = ?",
			res.Remaining.Cents(), res.InstallmentsPaid, now(), id)
	}
	if err != nil {
		return PaymentResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return PaymentResult{}, err
	}

	s.log.WithFields(logrus.Fields{
		"debt_id":           id,
		"applied":           res.Applied.String(),
		"remaining":         res.Remaining.String(),
		"removed":           res.Removed,
		"installments_paid": res.InstallmentsPaid,
	}).Info("payment applied")
	return res, nil
}

// PaymentsTotal returns the sum of recorded payments for a debt id, including
// debts that have since been removed.
func (s *Store) PaymentsTotal(id string) (money.Money, error) {
	var total int64
	err := s.db.QueryRow("SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE debt_id = ?", id).Scan(&total)
	return money.FromCents(total), err
}
