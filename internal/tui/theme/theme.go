// Package theme defines color themes for the fincoach TUI dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps the dashboard's color roles to concrete colors. The money roles
// (Good, Caution, Alert, Info, Interest) carry meaning: a budget over its
// limit is always Alert, interest cost is always Interest.
type Theme struct {
	Name         string
	Background   lipgloss.Color
	Surface      lipgloss.Color // cards and panels
	SurfaceHover lipgloss.Color // active tab, selected row
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // focused card
	TextDim      lipgloss.Color // hints
	TextMuted    lipgloss.Color // labels
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color

	Good     lipgloss.Color // paid off, under budget, achieved
	Caution  lipgloss.Color // approaching a limit
	Alert    lipgloss.Color // over budget, overdue, never paid off
	Info     lipgloss.Color // neutral insight, history
	Interest lipgloss.Color // money lost to interest
	Key      lipgloss.Color // key hints in help and status bar
}

// palette is the raw set of hues a theme is derived from.
type palette struct {
	bg, surface, hover, border, dim, muted, text string
	accent, accentBright                         string
	green, yellow, orange, red, blue, cyan       string
}

func build(name string, p palette) Theme {
	c := func(s string) lipgloss.Color { return lipgloss.Color(s) }
	return Theme{
		Name:         name,
		Background:   c(p.bg),
		Surface:      c(p.surface),
		SurfaceHover: c(p.hover),
		Border:       c(p.border),
		BorderAccent: c(p.accent),
		TextDim:      c(p.dim),
		TextMuted:    c(p.muted),
		TextPrimary:  c(p.text),
		Accent:       c(p.accent),
		AccentBright: c(p.accentBright),
		Good:         c(p.green),
		Caution:      c(p.yellow),
		Alert:        c(p.red),
		Info:         c(p.blue),
		Interest:     c(p.orange),
		Key:          c(p.cyan),
	}
}

// FlexokiDark is the default: warm, paper-inspired, low glare.
var FlexokiDark = build("flexoki-dark", palette{
	bg: "#100F0F", surface: "#1C1B1A", hover: "#282726", border: "#403E3C",
	dim: "#575653", muted: "#878580", text: "#FFFCF0",
	accent: "#3AA99F", accentBright: "#5BC8BE",
	green: "#879A39", yellow: "#D0A215", orange: "#DA702C", red: "#D14D41",
	blue: "#4385BE", cyan: "#24837B",
})

// CatppuccinMocha is a soft pastel theme.
var CatppuccinMocha = build("catppuccin-mocha", palette{
	bg: "#1E1E2E", surface: "#313244", hover: "#45475A", border: "#585B70",
	dim: "#6C7086", muted: "#A6ADC8", text: "#CDD6F4",
	accent: "#89B4FA", accentBright: "#B4D0FB",
	green: "#A6E3A1", yellow: "#F9E2AF", orange: "#FAB387", red: "#F38BA8",
	blue: "#89B4FA", cyan: "#94E2D5",
})

// TokyoNight is a cool blue theme.
var TokyoNight = build("tokyo-night", palette{
	bg: "#1A1B26", surface: "#24283B", hover: "#343A52", border: "#565F89",
	dim: "#565F89", muted: "#A9B1D6", text: "#C0CAF5",
	accent: "#7AA2F7", accentBright: "#A9C1FF",
	green: "#9ECE6A", yellow: "#E0AF68", orange: "#FF9E64", red: "#F7768E",
	blue: "#7AA2F7", cyan: "#7DCFFF",
})

// Terminal uses the 16 ANSI colors only.
var Terminal = build("terminal", palette{
	bg: "0", surface: "0", hover: "8", border: "8",
	dim: "8", muted: "7", text: "15",
	accent: "6", accentBright: "14",
	green: "2", yellow: "11", orange: "3", red: "1",
	blue: "4", cyan: "6",
})

// Active is the currently selected theme.
var Active = FlexokiDark

// All available themes, default first.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns the named theme and whether it exists. Unknown names yield
// FlexokiDark.
func ByName(name string) (Theme, bool) {
	for _, t := range All {
		if t.Name == name {
			return t, true
		}
	}
	return FlexokiDark, false
}

// SetActive selects a theme by name, falling back to the default.
func SetActive(name string) {
	Active, _ = ByName(name)
}
