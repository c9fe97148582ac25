package model

import "github.com/theirongolddev/fincoach/internal/money"

// Household is the aggregate of all records owned by one user.
type Household struct {
	Currency string        `json:"currency"`
	Debts    []Debt        `json:"debts"`
	Goals    []Goal        `json:"goals"`
	Budgets  []BudgetEntry `json:"budgets"`
	History  []PeriodSpend `json:"history,omitempty"`
	Incomes  []Income      `json:"incomes,omitempty"`
	Expenses []Expense     `json:"expenses,omitempty"`
}

// TotalDebt sums every debt balance.
func (h Household) TotalDebt() money.Money {
	var total money.Money
	for _, d := range h.Debts {
		total += d.Balance
	}
	return total
}

// TotalMonthlyPayments sums every scheduled debt payment.
func (h Household) TotalMonthlyPayments() money.Money {
	var total money.Money
	for _, d := range h.Debts {
		total += d.MonthlyPayment
	}
	return total
}
