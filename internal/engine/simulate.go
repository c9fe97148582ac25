package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
)

// MonthEntry is one debt's movement during one simulated month.
type MonthEntry struct {
	Month     int         `json:"month"`
	Start     money.Money `json:"start_cents"`
	Interest  money.Money `json:"interest_cents"`
	Scheduled money.Money `json:"scheduled_cents"`
	Extra     money.Money `json:"extra_cents"`
	End       money.Money `json:"end_cents"`
}

// DebtSchedule is the month-by-month payoff of one debt.
type DebtSchedule struct {
	DebtID       string       `json:"debt_id"`
	Name         string       `json:"name"`
	Entries      []MonthEntry `json:"entries"`
	PaidOffMonth int          `json:"paid_off_month"` // 0 while still open
	InterestPaid money.Money  `json:"interest_paid_cents"`
	TotalPaid    money.Money  `json:"total_paid_cents"`
}

// SimulationResult is the outcome of a payoff simulation. When Converged is
// false the schedules hold the first MaxMonths months only.
type SimulationResult struct {
	Schedules            []DebtSchedule `json:"schedules"`
	TotalMonthsToFreedom int            `json:"total_months_to_freedom"`
	TotalInterestPaid    money.Money    `json:"total_interest_paid_cents"`
	TotalPaid            money.Money    `json:"total_paid_cents"`
	Converged            bool           `json:"converged"`
}

// Clone returns a deep copy that shares no slices with r.
func (r SimulationResult) Clone() SimulationResult {
	out := r
	if r.Schedules != nil {
		out.Schedules = make([]DebtSchedule, len(r.Schedules))
		for i, s := range r.Schedules {
			s.Entries = append([]MonthEntry(nil), s.Entries...)
			out.Schedules[i] = s
		}
	}
	return out
}

// Err returns an error wrapping ErrUnconverged when the simulation hit the
// month ceiling, naming the debts still open.
func (r SimulationResult) Err() error {
	if r.Converged {
		return nil
	}
	var open []string
	for _, s := range r.Schedules {
		if s.PaidOffMonth == 0 && len(s.Entries) > 0 {
			open = append(open, s.Name)
		}
	}
	return fmt.Errorf("%w after %d months: %s still open", ErrUnconverged, MaxMonths, strings.Join(open, ", "))
}

// Simulate runs the snowball strategy over debts in the given order.
//
// Each month every open debt accrues interest and then receives its scheduled
// payment. The pool, made of extra plus the payments released by debts cleared
// in earlier months, goes to the first open debt in order and cascades down
// when that debt clears. The order is fixed for the whole run.
//
// A run that reaches MaxMonths returns the partial result with Converged set
// to false and a nil error; see SimulationResult.Err.
func Simulate(ordered []model.Debt, extra money.Money) (SimulationResult, error) {
	if extra < 0 {
		return SimulationResult{}, invalidf("negative extra budget %s", extra)
	}
	if extra > money.MaxAmount {
		return SimulationResult{}, invalidf("extra budget %s out of range", extra)
	}
	if err := validateDebts(ordered); err != nil {
		return SimulationResult{}, err
	}
	return simulate(ordered, extra), nil
}

func simulate(ordered []model.Debt, extra money.Money) SimulationResult {
	n := len(ordered)
	res := SimulationResult{
		Schedules: make([]DebtSchedule, n),
		Converged: true,
	}

	bal := make([]money.Money, n)
	open := 0
	for i, d := range ordered {
		res.Schedules[i] = DebtSchedule{DebtID: d.ID, Name: d.Name}
		bal[i] = d.Balance
		if bal[i] > 0 {
			open++
		}
	}

	var released money.Money
	month := 0
	entries := make([]MonthEntry, n)
	active := make([]bool, n)

	for open > 0 {
		if month == MaxMonths {
			res.Converged = false
			break
		}
		month++

		for i, d := range ordered {
			active[i] = bal[i] > 0
			if !active[i] {
				continue
			}
			interest := accrue(bal[i], d.MonthlyRate)
			entries[i] = MonthEntry{Month: month, Start: bal[i], Interest: interest}
			bal[i] += interest
		}

		for i, d := range ordered {
			if !active[i] {
				continue
			}
			p := money.Min(d.MonthlyPayment, bal[i])
			bal[i] -= p
			entries[i].Scheduled = p
		}

		pool := extra + released
		for i := range ordered {
			if pool == 0 {
				break
			}
			if !active[i] || bal[i] == 0 {
				continue
			}
			p := money.Min(pool, bal[i])
			bal[i] -= p
			pool -= p
			entries[i].Extra = p
		}

		for i, d := range ordered {
			if !active[i] {
				continue
			}
			e := entries[i]
			e.End = bal[i]
			s := &res.Schedules[i]
			s.Entries = append(s.Entries, e)
			s.InterestPaid += e.Interest
			s.TotalPaid += e.Scheduled + e.Extra
			res.TotalInterestPaid += e.Interest
			res.TotalPaid += e.Scheduled + e.Extra
			if bal[i] == 0 {
				s.PaidOffMonth = month
				released += d.MonthlyPayment
				open--
			}
		}
	}

	res.TotalMonthsToFreedom = month
	return res
}

// accrue returns one month of interest on bal, rounded half-up at the cent and
// limited so the balance never exceeds money.MaxAmount.
func accrue(bal money.Money, rate decimal.Decimal) money.Money {
	room := money.MaxAmount - bal
	if room <= 0 {
		return 0
	}
	raw := decimal.NewFromInt(bal.Cents()).Mul(rate).Div(hundred)
	if raw.GreaterThanOrEqual(decimal.NewFromInt(room.Cents())) {
		return room
	}
	return bal.MulPercent(rate)
}
