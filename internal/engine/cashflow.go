package engine

import (
	"time"

	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

// CashFlowSummary is one month of money in against money out.
type CashFlowSummary struct {
	Month        string      `json:"month"` // YYYY-MM
	Income       money.Money `json:"income_cents"`
	Expenses     money.Money `json:"expenses_cents"`
	Paid         money.Money `json:"paid_cents"`
	Pending      money.Money `json:"pending_cents"`
	Overdue      money.Money `json:"overdue_cents"`
	OverdueCount int         `json:"overdue_count"`
	DebtService  money.Money `json:"debt_service_cents"`
	Net          money.Money `json:"net_cents"`
	SavingsRate  float64     `json:"savings_rate_percent"`
	// Guarded is set when there is no income this month: the savings rate
	// is reported as 0.
	Guarded bool `json:"guarded,omitempty"`
}

// CashFlow sums the month containing today. Recurring incomes and expenses
// count every month; one-offs only in the month they are received or due.
// An unpaid expense whose due day has passed is overdue. DebtService is the
// scheduled payment of every open debt.
func CashFlow(incomes []model.Income, expenses []model.Expense, debts []model.Debt, today time.Time) (CashFlowSummary, error) {
	if today.IsZero() {
		return CashFlowSummary{}, invalidf("missing reference date")
	}
	for _, in := range incomes {
		if err := ValidateIncome(in); err != nil {
			return CashFlowSummary{}, err
		}
	}
	for _, e := range expenses {
		if err := ValidateExpense(e); err != nil {
			return CashFlowSummary{}, err
		}
	}
	if err := validateDebts(debts); err != nil {
		return CashFlowSummary{}, err
	}

	day := civil(today)
	cf := CashFlowSummary{Month: day.Format("2006-01")}
	for _, in := range incomes {
		if in.Recurring || sameMonth(in.Received, day) {
			cf.Income += in.Amount
		}
	}
	for _, e := range expenses {
		if !e.Recurring && !sameMonth(e.DueDate, day) {
			continue
		}
		cf.Expenses += e.Amount
		if e.Paid {
			cf.Paid += e.Amount
			continue
		}
		cf.Pending += e.Amount
		if IsOverdue(e, day) {
			cf.Overdue += e.Amount
			cf.OverdueCount++
		}
	}
	for _, d := range debts {
		if d.Balance > 0 {
			cf.DebtService += d.MonthlyPayment
		}
	}
	cf.Net = cf.Income - cf.Expenses - cf.DebtService
	if cf.Income == 0 {
		cf.Guarded = true
		return cf, nil
	}
	cf.SavingsRate = cf.Net.Percent(cf.Income)
	return cf, nil
}

// DueIn returns the date e falls due in the month of day. A recurring bill
// keeps its day of month, clamped to the month's length.
func DueIn(e model.Expense, day time.Time) time.Time {
	if !e.Recurring {
		return civil(e.DueDate)
	}
	return dayInMonth(day, e.DueDate.Day())
}

// IsOverdue reports whether e is unpaid and its due date in the month of
// today has passed.
func IsOverdue(e model.Expense, today time.Time) bool {
	day := civil(today)
	return !e.Paid && DueIn(e, day).Before(day)
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// dayInMonth returns day-of-month d in the month of ref, clamped to its last day.
func dayInMonth(ref time.Time, d int) time.Time {
	y, m, _ := ref.Date()
	last := time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return time.Date(y, m, min(d, last), 0, 0, 0, 0, time.UTC)
}

// nextDay returns the first date on or after today whose day of month is d.
func nextDay(today time.Time, d int) time.Time {
	day := civil(today)
	next := dayInMonth(day, d)
	if next.Before(day) {
		next = dayInMonth(time.Date(day.Year(), day.Month()+1, 1, 0, 0, 0, 0, time.UTC), d)
	}
	return next
}

// CreditUsage is how much of a card's limit is in use.
type CreditUsage struct {
	DebtID             string      `json:"debt_id"`
	Name               string      `json:"name"`
	Limit              money.Money `json:"limit_cents"`
	Used               money.Money `json:"used_cents"`
	Available          money.Money `json:"available_cents"`
	UtilizationPercent float64     `json:"utilization_percent"`
	Alert              AlertLevel  `json:"alert"`
	NextDue            time.Time   `json:"next_due,omitzero"`
	NextClosing        time.Time   `json:"next_closing,omitzero"`
	// Guarded is set when the limit is unknown: utilization is 0 and the
	// whole balance is reported as used.
	Guarded bool `json:"guarded,omitempty"`
}

// CardUsage reports utilization of a card. The balance is the amount used;
// Available never goes below zero. Alerts use the budget thresholds.
func CardUsage(d model.Debt, today time.Time) (CreditUsage, error) {
	if err := ValidateDebt(d); err != nil {
		return CreditUsage{}, err
	}
	if d.Kind != model.RevolvingCard {
		return CreditUsage{}, invalidf("debt %q is not a card", d.ID)
	}
	u := CreditUsage{
		DebtID:    d.ID,
		Name:      d.Name,
		Limit:     d.CreditLimit,
		Used:      d.Balance,
		Available: money.Max(0, d.CreditLimit-d.Balance),
		Alert:     alertFor(d.Balance, d.CreditLimit),
	}
	if d.DueDay > 0 {
		u.NextDue = nextDay(today, d.DueDay)
	}
	if d.ClosingDay > 0 {
		u.NextClosing = nextDay(today, d.ClosingDay)
	}
	if d.CreditLimit == 0 {
		u.Guarded = true
		return u, nil
	}
	u.UtilizationPercent = d.Balance.Percent(d.CreditLimit)
	return u, nil
}

// CardUsages reports every card that has a known limit, in input order.
func CardUsages(debts []model.Debt, today time.Time) ([]CreditUsage, error) {
	var out []CreditUsage
	for _, d := range debts {
		if d.Kind != model.RevolvingCard || d.CreditLimit == 0 {
			continue
		}
		u, err := CardUsage(d, today)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// InstallmentProgress is how far through its schedule a loan is.
type InstallmentProgress struct {
	DebtID             string      `json:"debt_id"`
	Name               string      `json:"name"`
	Installments       int         `json:"installments"`
	Paid               int         `json:"paid"`
	Remaining          int         `json:"remaining"`
	ProgressPercent    float64     `json:"progress_percent"`
	RemainingScheduled money.Money `json:"remaining_scheduled_cents"`
}

// LoanProgress reports installment progress of a loan. RemainingScheduled is
// what the remaining installments cost at the current payment, which differs
// from the balance by the interest still to accrue.
func LoanProgress(d model.Debt) (InstallmentProgress, error) {
	if err := ValidateDebt(d); err != nil {
		return InstallmentProgress{}, err
	}
	switch {
	case d.Kind != model.InstallmentLoan:
		return InstallmentProgress{}, invalidf("debt %q is not a loan", d.ID)
	case d.Installments == 0:
		return InstallmentProgress{}, invalidf("debt %q has no installment count", d.ID)
	}
	p := InstallmentProgress{
		DebtID:       d.ID,
		Name:         d.Name,
		Installments: d.Installments,
		Paid:         d.PaidInstallments,
		Remaining:    d.Installments - d.PaidInstallments,
	}
	p.ProgressPercent = float64(p.Paid) * 100 / float64(p.Installments)
	p.RemainingScheduled = d.MonthlyPayment * money.Money(p.Remaining)
	return p, nil
}

// LoanProgresses reports every loan with a known installment count.
func LoanProgresses(debts []model.Debt) ([]InstallmentProgress, error) {
	var out []InstallmentProgress
	for _, d := range debts {
		if d.Kind != model.InstallmentLoan || d.Installments == 0 {
			continue
		}
		p, err := LoanProgress(d)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
