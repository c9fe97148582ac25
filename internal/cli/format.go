// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fincoach/internal/money"
)

// FormatMoney formats an amount with the currency symbol and grouping.
// e.g., 185000 cents in BRL -> "R$ 1,850.00"
func FormatMoney(m money.Money, currency string) string {
	return m.Format(currency)
}

// FormatMoneyShort formats large amounts compactly for narrow columns.
// e.g., R$ 28,000.00 -> "R$ 28.0K"
func FormatMoneyShort(m money.Money, currency string) string {
	units := float64(m.Cents()) / 100
	abs := units
	if abs < 0 {
		abs = -abs
	}
	var s string
	switch {
	case abs >= 1_000_000:
		s = fmt.Sprintf("%.1fM", units/1_000_000)
	case abs >= 10_000:
		s = fmt.Sprintf("%.1fK", units/1_000)
	default:
		return FormatMoney(m, currency)
	}
	if sym := money.Symbol(currency); sym != "" {
		return sym + " " + s
	}
	return s
}

// FormatRate formats a monthly percentage rate, e.g. "13.99% a.m.".
func FormatRate(rate decimal.Decimal) string {
	return rate.StringFixed(2) + "% a.m."
}

// FormatMonths formats a month count as years and months.
// e.g., 38 -> "3y 2m", 7 -> "7m", 0 -> "now"
func FormatMonths(n int) string {
	switch {
	case n <= 0:
		return "now"
	case n < 12:
		return fmt.Sprintf("%dm", n)
	case n%12 == 0:
		return fmt.Sprintf("%dy", n/12)
	default:
		return fmt.Sprintf("%dy %dm", n/12, n%12)
	}
}

// FormatHorizon is FormatMonths for a payoff that may never happen.
func FormatHorizon(n int, converges bool) string {
	if !converges {
		return "never"
	}
	return FormatMonths(n)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a percentage (0-100 scale) with no decimals.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.0f%%", pct)
}

// FormatSavings formats an amount saved with an explicit sign.
func FormatSavings(m money.Money, currency string) string {
	if m >= 0 {
		return "+" + FormatMoney(m, currency)
	}
	return FormatMoney(m, currency)
}

// ScoreBadge maps a priority score to its label.
func ScoreBadge(score int) string {
	switch {
	case score >= 90:
		return "High"
	case score >= 75:
		return "Medium-High"
	case score >= 60:
		return "Medium"
	default:
		return "Low"
	}
}
