package engine

import (
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

// ValidateDebt reports whether d is inside the engine's input domain.
func ValidateDebt(d model.Debt) error {
	switch {
	case d.ID == "":
		return invalidf("debt %q has no id", d.Name)
	case d.Balance < 0:
		return invalidf("debt %q: negative balance %s", d.ID, d.Balance)
	case d.Balance > money.MaxAmount:
		return invalidf("debt %q: balance %s out of range", d.ID, d.Balance)
	case d.MonthlyPayment < 0:
		return invalidf("debt %q: negative payment %s", d.ID, d.MonthlyPayment)
	case d.MonthlyPayment > money.MaxAmount:
		return invalidf("debt %q: payment %s out of range", d.ID, d.MonthlyPayment)
	case d.MonthlyRate.IsNegative():
		return invalidf("debt %q: negative rate %s", d.ID, d.MonthlyRate)
	case d.Kind != model.RevolvingCard && d.Kind != model.InstallmentLoan:
		return invalidf("debt %q: unknown kind %d", d.ID, int(d.Kind))
	case d.CreditLimit < 0 || d.CreditLimit > money.MaxAmount:
		return invalidf("debt %q: credit limit %s out of range", d.ID, d.CreditLimit)
	case d.DueDay < 0 || d.DueDay > 31 || d.ClosingDay < 0 || d.ClosingDay > 31:
		return invalidf("debt %q: statement days must be within 1-31", d.ID)
	case d.Installments < 0 || d.PaidInstallments < 0:
		return invalidf("debt %q: negative installment count", d.ID)
	case d.PaidInstallments > d.Installments:
		return invalidf("debt %q: %d of %d installments paid", d.ID, d.PaidInstallments, d.Installments)
	case d.Kind == model.InstallmentLoan && (d.CreditLimit != 0 || d.ClosingDay != 0):
		return invalidf("debt %q: a loan has no credit limit or closing day", d.ID)
	case d.Kind == model.RevolvingCard && d.Installments != 0:
		return invalidf("debt %q: a card has no installment count", d.ID)
	}
	return nil
}

// ValidateIncome reports whether in is inside the engine's input domain.
func ValidateIncome(in model.Income) error {
	switch {
	case in.ID == "":
		return invalidf("income %q has no id", in.Name)
	case in.Amount < 0 || in.Amount > money.MaxAmount:
		return invalidf("income %q: amount %s out of range", in.ID, in.Amount)
	case in.Received.IsZero():
		return invalidf("income %q: missing date", in.ID)
	}
	return nil
}

// ValidateExpense reports whether e is inside the engine's input domain.
func ValidateExpense(e model.Expense) error {
	switch {
	case e.ID == "":
		return invalidf("expense %q has no id", e.Name)
	case e.Amount < 0 || e.Amount > money.MaxAmount:
		return invalidf("expense %q: amount %s out of range", e.ID, e.Amount)
	case e.DueDate.IsZero():
		return invalidf("expense %q: missing due date", e.ID)
	}
	return nil
}

func validateDebts(debts []model.Debt) error {
	seen := make(map[string]bool, len(debts))
	for _, d := range debts {
		if err := ValidateDebt(d); err != nil {
			return err
		}
		if seen[d.ID] {
			return invalidf("duplicate debt id %q", d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}
