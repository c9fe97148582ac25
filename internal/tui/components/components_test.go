package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	widths := LayoutRow(100, 3)
	if len(widths) != 3 {
		t.Fatalf("LayoutRow len = %d, want 3", len(widths))
	}
	if widths[0] != 34 || widths[1] != 33 || widths[2] != 33 {
		t.Fatalf("LayoutRow = %v, want [34 33 33]", widths)
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow(n=0) not nil")
	}
}

func TestCardRowMatchesTallestCard(t *testing.T) {
	theme.SetActive("flexoki-dark")

	short := ContentCard("Short", "Content", 22)
	tall := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(short)
	tallLines := lipgloss.Height(tall)
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tall, short}), "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	width := lipgloss.Width(lines[0])
	for i, line := range lines {
		if w := lipgloss.Width(line); w != width {
			t.Fatalf("line %d width = %d, want %d", i, w, width)
		}
		if i >= shortLines && !strings.Contains(line, "\x1b[") {
			t.Errorf("padding line %d has no background styling", i)
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Total debt", Value: "R$ 41,700.00"},
		{Label: "Monthly", Value: "R$ 2,170.00", Note: "5 debts"},
	}, 80)
	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 80 {
			t.Fatalf("line %d width = %d, want 80", i, w)
		}
	}
}

func TestTabVisualWidthMatchesRender(t *testing.T) {
	for active := range Tabs {
		plain := stripANSI(RenderTabBar(active, 200))
		idx := strings.Index(plain, " "+Tabs[active].Name+" ")
		if idx < 0 {
			t.Fatalf("active=%d: name %q not found in %q", active, Tabs[active].Name, plain)
		}
		want := 0
		for i := range active {
			want += TabVisualWidth(Tabs[i], false) + 1 // separator
		}
		if got := lipgloss.Width(plain[:idx]); got != want {
			t.Fatalf("active=%d starts at column %d, want %d", active, got, want)
		}
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('b'); got != 3 {
		t.Fatalf("TabIdxByKey('b') = %d, want 3", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Fatalf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func TestColorForAlert(t *testing.T) {
	theme.SetActive("flexoki-dark")
	if ColorForAlert(engine.AlertOver) != theme.Active.Alert {
		t.Fatal("over budget should be red")
	}
	if ColorForAlert(engine.AlertOk) != theme.Active.Good {
		t.Fatal("ok budget should be green")
	}
}

func TestHBarChartScales(t *testing.T) {
	out := HBarChart([]Bar{
		{Label: "a", Value: 10},
		{Label: "b", Value: 5},
		{Label: "c", Value: 0},
	}, 40)
	lines := strings.Split(stripANSI(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	full := strings.Count(lines[0], "█")
	half := strings.Count(lines[1], "█")
	if full == 0 || half*2 < full-1 || half*2 > full+1 {
		t.Fatalf("bars = %d and %d, want roughly 2:1", full, half)
	}
	if strings.Count(lines[2], "█") != 0 {
		t.Fatal("zero value drew a bar")
	}
}
