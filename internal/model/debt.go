// Package model defines the household records the engine reads.
package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fincoach/internal/money"
)

// DebtKind distinguishes revolving credit from fixed installment loans.
type DebtKind int

const (
	RevolvingCard DebtKind = iota
	InstallmentLoan
)

func (k DebtKind) String() string {
	switch k {
	case RevolvingCard:
		return "card"
	case InstallmentLoan:
		return "loan"
	default:
		return fmt.Sprintf("DebtKind(%d)", int(k))
	}
}

// ParseKind accepts English and Portuguese names for the two debt kinds.
func ParseKind(s string) (DebtKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "card", "credit-card", "revolving", "cartao", "cartão":
		return RevolvingCard, nil
	case "loan", "installment", "emprestimo", "empréstimo", "financiamento":
		return InstallmentLoan, nil
	}
	return 0, fmt.Errorf("unknown debt kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k DebtKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *DebtKind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Debt is one credit-card or installment-loan obligation.
//
// Cards may carry a credit limit and statement days; the balance is the
// amount used. Loans may carry an installment count. Zero means unknown.
type Debt struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Kind           DebtKind        `json:"kind"`
	Balance        money.Money     `json:"balance_cents"`
	MonthlyPayment money.Money     `json:"monthly_payment_cents"`
	MonthlyRate    decimal.Decimal `json:"monthly_rate_percent"` // 13.99 means 13.99% per month

	CreditLimit      money.Money `json:"credit_limit_cents,omitempty"`
	DueDay           int         `json:"due_day,omitempty"`     // 1-31
	ClosingDay       int         `json:"closing_day,omitempty"` // 1-31
	Installments     int         `json:"installments,omitempty"`
	PaidInstallments int         `json:"paid_installments,omitempty"`
}
