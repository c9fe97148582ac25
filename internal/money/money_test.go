package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Money
	}{
		{"1850", 185000},
		{"1850.00", 185000},
		{"0.005", 1},
		{"0.004", 0},
		{"12,5", 1250},
		{"-3.10", -310},
		{" 9000 ", 900000},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("Parse(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "1e30"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q) succeeded, want error", in)
		}
	}
}

func TestString(t *testing.T) {
	if got := Money(185000).String(); got != "1850.00" {
		t.Fatalf("String = %q, want 1850.00", got)
	}
	if got := Money(-310).String(); got != "-3.10" {
		t.Fatalf("String = %q, want -3.10", got)
	}
	if got := Money(7).String(); got != "0.07" {
		t.Fatalf("String = %q, want 0.07", got)
	}
}

func TestMulPercentRoundsHalfUp(t *testing.T) {
	// 1850.00 * 13.99% = 258.815 -> 258.82
	got := MustParse("1850").MulPercent(decimal.RequireFromString("13.99"))
	if got != 25882 {
		t.Fatalf("MulPercent = %s, want 258.82", got)
	}

	// 0.50 * 1% = 0.005 -> 0.01
	got = Money(50).MulPercent(decimal.NewFromInt(1))
	if got != 1 {
		t.Fatalf("MulPercent = %d cents, want 1", got)
	}

	// 0.49 * 1% = 0.0049 -> 0.00
	got = Money(49).MulPercent(decimal.NewFromInt(1))
	if got != 0 {
		t.Fatalf("MulPercent = %d cents, want 0", got)
	}
}

func TestDivCeil(t *testing.T) {
	// 6100.00 / 6 = 1016.666.. -> 1016.67
	if got := MustParse("6100").DivCeil(6); got != 101667 {
		t.Fatalf("DivCeil = %s, want 1016.67", got)
	}
	if got := MustParse("600").DivCeil(6); got != 10000 {
		t.Fatalf("DivCeil = %s, want 100.00", got)
	}
}

func TestPercent(t *testing.T) {
	if got := MustParse("50").Percent(0); got != 0 {
		t.Fatalf("Percent of zero = %v, want 0", got)
	}
	if got := MustParse("890").Percent(MustParse("800")); got != 111.25 {
		t.Fatalf("Percent = %v, want 111.25", got)
	}
}

func TestMinMaxSum(t *testing.T) {
	if Min(3, 5) != 3 || Max(3, 5) != 5 {
		t.Fatal("Min/Max mismatch")
	}
	if got := Sum(1, 2, 3); got != 6 {
		t.Fatalf("Sum = %d, want 6", got)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		m        Money
		currency string
		want     string
	}{
		{MustParse("1850"), "BRL", "R$ 1,850.00"},
		{MustParse("28000.5"), "usd", "$ 28,000.50"},
		{MustParse("-3.1"), "EUR", "-€ 3.10"},
		{MustParse("7"), "CHF", "CHF 7.00"},
		{MustParse("1234567.89"), "", "1,234,567.89"},
	}
	for _, c := range cases {
		if got := c.m.Format(c.currency); got != c.want {
			t.Fatalf("Format(%s, %q) = %q, want %q", c.m, c.currency, got, c.want)
		}
	}
}

func TestSymbol(t *testing.T) {
	if got := Symbol("brl"); got != "R$" {
		t.Fatalf("Symbol(brl) = %q, want R$", got)
	}
	if got := Symbol("jpy"); got != "JPY" {
		t.Fatalf("Symbol(jpy) = %q, want JPY", got)
	}
}
