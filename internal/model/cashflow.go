package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/fincoach/internal/money"
)

// IncomeSource classifies where money comes in from.
type IncomeSource string

const (
	Salary      IncomeSource = "salary"
	Freelance   IncomeSource = "freelance"
	Investments IncomeSource = "investments"
	Rent        IncomeSource = "rent"
	OtherIncome IncomeSource = "other"
)

// IncomeSources lists every source in display order.
var IncomeSources = []IncomeSource{Salary, Freelance, Investments, Rent, OtherIncome}

var incomeAliases = map[string]IncomeSource{
	"salario":       Salary,
	"salário":       Salary,
	"investimentos": Investments,
	"aluguel":       Rent,
	"outros":        OtherIncome,
}

// ParseIncomeSource resolves a source key, accepting Portuguese aliases.
func ParseIncomeSource(s string) (IncomeSource, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, src := range IncomeSources {
		if string(src) == key {
			return src, nil
		}
	}
	if src, ok := incomeAliases[key]; ok {
		return src, nil
	}
	return "", fmt.Errorf("unknown income source %q", s)
}

// Income is money received. A recurring income counts in every month;
// a one-off only in the month it was received.
type Income struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Amount    money.Money  `json:"amount_cents"`
	Received  time.Time    `json:"received"`
	Source    IncomeSource `json:"source"`
	Recurring bool         `json:"recurring"`
}

// PaymentMethod is how an expense is settled.
type PaymentMethod string

const (
	Cash     PaymentMethod = "cash"
	Debit    PaymentMethod = "debit"
	Credit   PaymentMethod = "credit"
	Pix      PaymentMethod = "pix"
	Transfer PaymentMethod = "transfer"
)

// PaymentMethods lists every method in display order.
var PaymentMethods = []PaymentMethod{Cash, Debit, Credit, Pix, Transfer}

var methodAliases = map[string]PaymentMethod{
	"dinheiro":      Cash,
	"debito":        Debit,
	"débito":        Debit,
	"credito":       Credit,
	"crédito":       Credit,
	"transferencia": Transfer,
	"transferência": Transfer,
}

// ParsePaymentMethod resolves a method key, accepting Portuguese aliases.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, m := range PaymentMethods {
		if string(m) == key {
			return m, nil
		}
	}
	if m, ok := methodAliases[key]; ok {
		return m, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// Expense is one bill in the ledger. Recurring bills are due every month on
// the day of DueDate.
type Expense struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Amount    money.Money   `json:"amount_cents"`
	DueDate   time.Time     `json:"due_date"`
	Category  Category      `json:"category"`
	Method    PaymentMethod `json:"payment_method"`
	Paid      bool          `json:"paid"`
	Recurring bool          `json:"recurring"`
}
