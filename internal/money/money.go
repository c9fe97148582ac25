// Package money provides an exact currency amount held in minor units (cents).
//
// All conversions from decimal quantities round half-up at the cent.
package money

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Money is an amount in cents.
type Money int64

// MaxAmount caps accrued balances so that runaway negative amortization
// cannot overflow int64 arithmetic (10 trillion currency units).
const MaxAmount Money = 1_000_000_000_000_000

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.New(5, -1)
)

// FromCents wraps a raw cent count.
func FromCents(c int64) Money { return Money(c) }

// Cents returns the raw cent count.
func (m Money) Cents() int64 { return int64(m) }

// Decimal returns the amount in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// FromDecimal converts an amount in currency units to cents, rounding half-up.
func FromDecimal(d decimal.Decimal) Money {
	return Money(roundHalfUp(d.Mul(hundred)).IntPart())
}

// roundHalfUp rounds to the nearest integer with ties going towards +inf.
func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Add(half).Floor()
}

// Parse reads a decimal amount such as "1850", "1850.5" or "-3.10".
// A comma is accepted as the decimal separator when no dot is present.
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("parsing amount: empty")
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	if d.Abs().GreaterThan(MaxAmount.Decimal()) {
		return 0, fmt.Errorf("parsing amount %q: out of range", s)
	}
	return FromDecimal(d), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// String formats with exactly two decimals and no grouping, e.g. "1850.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

var symbols = map[string]string{
	"BRL": "R$",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// Symbol returns the display symbol for an ISO 4217 code. Unknown codes are
// returned upper-cased.
func Symbol(currency string) string {
	if sym, ok := symbols[strings.ToUpper(currency)]; ok {
		return sym
	}
	return strings.ToUpper(currency)
}

// Format renders m for display with the currency symbol and thousands
// grouping, e.g. "R$ 1,850.00".
func (m Money) Format(currency string) string {
	sym := Symbol(currency)
	sign := ""
	c := int64(m)
	if c < 0 {
		sign = "-"
		c = -c
	}
	amount := fmt.Sprintf("%s.%02d", humanize.Comma(c/100), c%100)
	if sym == "" {
		return sign + amount
	}
	return sign + sym + " " + amount
}

// MulPercent returns m * pct / 100, rounded half-up at the cent.
func (m Money) MulPercent(pct decimal.Decimal) Money {
	return Money(roundHalfUp(decimal.NewFromInt(int64(m)).Mul(pct).Div(hundred)).IntPart())
}

// DivCeil divides by n (> 0) rounding up to the next cent.
func (m Money) DivCeil(n int64) Money {
	if n <= 0 {
		panic("money: DivCeil by non-positive divisor")
	}
	q := int64(m) / n
	if int64(m)%n > 0 {
		q++
	}
	return Money(q)
}

// Percent returns 100 * m / of as a float for display. Zero when of is zero.
func (m Money) Percent(of Money) float64 {
	if of == 0 {
		return 0
	}
	f, _ := m.Decimal().Mul(hundred).Div(of.Decimal()).Float64()
	return f
}

// Min returns the smaller amount.
func Min(a, b Money) Money {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger amount.
func Max(a, b Money) Money {
	if a > b {
		return a
	}
	return b
}

// Sum adds all amounts.
func Sum(ms ...Money) Money {
	var total Money
	for _, m := range ms {
		total += m
	}
	return total
}
