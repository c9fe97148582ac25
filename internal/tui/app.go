// Package tui provides the interactive Bubble Tea dashboard for fincoach.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/money"
	"github.com/theirongolddev/fincoach/internal/pipeline"
	"github.com/theirongolddev/fincoach/internal/tui/components"
	"github.com/theirongolddev/fincoach/internal/tui/theme"
)

// Loader returns the household to analyze. It runs once on start and again
// on every refresh.
type Loader func() (model.Household, error)

// Options configures NewApp.
type Options struct {
	Load    Loader
	Today   time.Time // zero means the wall clock on each load
	Extra   money.Money
	Weights *engine.Weights
	// NeedSetup shows the first-run form once data has loaded.
	NeedSetup bool
}

// DataLoadedMsg is sent when a load or refresh finishes.
type DataLoadedMsg struct {
	Report   *pipeline.Report
	Err      error
	LoadTime time.Duration
}

// SweepMsg carries the extra-budget sweep for the plan tab.
type SweepMsg struct {
	Points []pipeline.SweepPoint
	Err    error
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	load     Loader
	opts     pipeline.Options
	memo     *pipeline.Memo
	report   *pipeline.Report
	loaded   bool
	loadErr  error
	loadTime time.Duration

	refreshing  bool
	lastRefresh time.Time

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	debts debtsState
	plan  planState
	coach coachState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 160
	minContentHeight = 5
)

const (
	tabDebts = iota
	tabPlan
	tabGoals
	tabBudgets
	tabCoach
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	memo := pipeline.NewMemo(0)
	return App{
		load: opts.Load,
		opts: pipeline.Options{
			Today:   opts.Today,
			Extra:   opts.Extra,
			Weights: opts.Weights,
			Memo:    memo,
		},
		memo:      memo,
		needSetup: opts.NeedSetup,
		plan:      planState{extra: opts.Extra},
		coach:     newCoachState(),
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.load, a.opts),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabDebts {
				a.debts.move(-1, a.debtCount())
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabDebts {
				a.debts.move(1, a.debtCount())
			}
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		if a.activeTab == tabCoach && a.coach.typing {
			return a.updateCoachInput(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		if handled, next, cmd := a.updateTabKeys(key); handled {
			return next, cmd
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "r":
			if !a.refreshing {
				a.refreshing = true
				return a, loadDataCmd(a.load, a.opts)
			}
			return a, nil
		case "left", "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		}
		if len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
		return a, nil

	case DataLoadedMsg:
		first := !a.loaded
		a.loaded = true
		a.refreshing = false
		a.loadTime = msg.LoadTime
		a.lastRefresh = time.Now()
		if msg.Err != nil {
			// Keep the last good report on a failed refresh.
			a.loadErr = msg.Err
			return a, nil
		}
		a.loadErr = nil
		a.report = msg.Report
		a.debts.clamp(a.debtCount())
		a.recomputePlan()

		cmds := []tea.Cmd{sweepCmd(a.report)}
		if first && a.needSetup {
			a.setupVals = defaultSetupValues(a.report.Currency, a.opts.Extra)
			a.setupForm = newSetupForm(&a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			cmds = append(cmds, a.setupForm.Init())
		}
		return a, tea.Batch(cmds...)

	case SweepMsg:
		a.plan.sweep = msg.Points
		a.plan.sweepErr = msg.Err
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.refreshing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.activeTab == tabCoach && a.coach.typing {
		var cmd tea.Cmd
		a.coach.input, cmd = a.coach.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

// updateTabKeys gives the active tab the first look at a key.
func (a App) updateTabKeys(key string) (bool, tea.Model, tea.Cmd) {
	switch a.activeTab {
	case tabDebts:
		switch key {
		case "j", "down":
			a.debts.move(1, a.debtCount())
			return true, a, nil
		case "k", "up":
			a.debts.move(-1, a.debtCount())
			return true, a, nil
		}
	case tabPlan:
		switch key {
		case "+", "=":
			a.adjustExtra(extraStep)
			return true, a, nil
		case "-", "_":
			a.adjustExtra(-extraStep)
			return true, a, nil
		case "0":
			a.plan.extra = a.opts.Extra
			a.recomputePlan()
			return true, a, nil
		}
	case tabCoach:
		if key == "enter" || key == "/" || key == "i" {
			a.coach.typing = true
			a.coach.input.Focus()
			return true, a, a.coach.input.Cursor.BlinkCmd()
		}
	}
	return false, a, nil
}

func (a App) debtCount() int {
	if a.report == nil {
		return 0
	}
	return len(a.report.Ranked)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.report == nil {
		return a.viewLoadError()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  fincoach needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ fincoach"))
	b.WriteString(subtitleStyle.Render(" · Debt & Budget Coach"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Running the numbers..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoadError() string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Alert).
		Background(t.Surface).
		Foreground(t.TextPrimary).
		Padding(1, 3)
	body := fmt.Sprintf("Could not load your data:\n\n%v\n\nPress r to retry or q to quit.", a.loadErr)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Key).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"d p g b c", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move through debts"},
		}},
		{"Plan", [][2]string{
			{"+ -", "Change extra per month"},
			{"0", "Back to configured extra"},
		}},
		{"Actions", [][2]string{
			{"Enter /", "Ask the coach (Coach tab)"},
			{"Esc", "Stop typing"},
			{"r", "Reload data"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.statusHints(), a.statusState(), a.refreshing)

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabDebts:
		content = a.renderDebtsTab(cw)
	case tabPlan:
		content = a.renderPlanTab(cw)
	case tabGoals:
		content = a.renderGoalsTab(cw)
	case tabBudgets:
		content = a.renderBudgetsTab(cw)
	case tabCoach:
		content = a.renderCoachTab(cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusHints() string {
	switch {
	case a.activeTab == tabCoach && a.coach.typing:
		return "enter send · esc stop typing"
	case a.activeTab == tabDebts:
		return "j/k select · r reload · ? help · q quit"
	case a.activeTab == tabPlan:
		return "+/- extra · 0 reset · r reload · ? help · q quit"
	case a.activeTab == tabCoach:
		return "enter ask · r reload · ? help · q quit"
	default:
		return "r reload · ? help · q quit"
	}
}

func (a App) statusState() string {
	if a.setupVals.saveErr != nil {
		return "settings not saved: " + truncStr(a.setupVals.saveErr.Error(), 40)
	}
	if a.loadErr != nil {
		return "reload failed: " + truncStr(a.loadErr.Error(), 40)
	}
	hits, misses := a.memo.Stats()
	return fmt.Sprintf("%s · loaded %s · plans %d/%d cached",
		a.report.Today.Format("2006-01-02"),
		a.lastRefresh.Format("15:04:05"),
		hits, hits+misses)
}

// ─── Commands ───────────────────────────────────────────────────

// loadDataCmd loads the household and runs one decision cycle.
func loadDataCmd(load Loader, opts pipeline.Options) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		if load == nil {
			return DataLoadedMsg{Err: fmt.Errorf("no data source"), LoadTime: time.Since(start)}
		}
		h, err := load()
		if err != nil {
			return DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
		}
		if opts.Today.IsZero() {
			opts.Today = time.Now()
		}
		r, err := pipeline.Analyze(h, opts)
		return DataLoadedMsg{Report: r, Err: err, LoadTime: time.Since(start)}
	}
}

// sweepCmd simulates the ranked debts across a range of extra budgets.
func sweepCmd(r *pipeline.Report) tea.Cmd {
	if r == nil || len(r.Ranked) == 0 {
		return nil
	}
	ordered := engine.Debts(r.Ranked)
	extras, err := pipeline.Steps(sweepLimit(r.TotalMonthly), extraStep)
	if err != nil {
		return func() tea.Msg { return SweepMsg{Err: err} }
	}
	return func() tea.Msg {
		points, err := pipeline.Sweep(ordered, extras, nil)
		return SweepMsg{Points: points, Err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the same width rules as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++ // separator
		}
	}
	return -1
}
