package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/fincoach/internal/config"
	"github.com/theirongolddev/fincoach/internal/money"
	"github.com/theirongolddev/fincoach/internal/tui/theme"
)

// setupValues holds the first-run form answers.
type setupValues struct {
	currency string
	extra    string
	theme    string
	saveErr  error
}

func defaultSetupValues(currency string, extra money.Money) setupValues {
	if currency == "" {
		currency = config.DefaultConfig().General.Currency
	}
	return setupValues{
		currency: currency,
		extra:    extra.String(),
		theme:    theme.Active.Name,
	}
}

// newSetupForm builds the first-run form. The same questions are asked by
// `fincoach setup` outside the dashboard.
func newSetupForm(vals *setupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, th := range theme.All {
		themeOpts[i] = huh.NewOption(th.Name, th.Name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to fincoach").
				Description("A few defaults before the dashboard opens.\nRun `fincoach setup` anytime to change them."),
			huh.NewInput().
				Title("Currency").
				Description("ISO code shown next to amounts, e.g. BRL or USD").
				Value(&vals.currency).
				Validate(ValidateCurrency),
			huh.NewInput().
				Title("Extra per month for debts").
				Description("Added on top of the scheduled payments when planning").
				Value(&vals.extra).
				Validate(ValidateExtra),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(false)
}

// ValidateCurrency accepts a three-letter code.
func ValidateCurrency(s string) error {
	s = strings.TrimSpace(s)
	if len(s) != 3 {
		return fmt.Errorf("use a three-letter code")
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return fmt.Errorf("use a three-letter code")
		}
	}
	return nil
}

// ValidateExtra accepts a non-negative amount.
func ValidateExtra(s string) error {
	m, err := money.Parse(s)
	if err != nil {
		return fmt.Errorf("not an amount")
	}
	if m < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.setupForm = nil
		a.needSetup = false
		if err := a.saveSetupConfig(); err != nil {
			a.setupVals.saveErr = err
			return a, nil
		}
		a.refreshing = true
		return a, loadDataCmd(a.load, a.opts)
	case huh.StateAborted:
		a.setupForm = nil
		a.needSetup = false
		return a, nil
	}
	return a, cmd
}

// saveSetupConfig writes the answers and applies them to the running app.
func (a *App) saveSetupConfig() error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	cfg.General.Currency = strings.ToUpper(strings.TrimSpace(a.setupVals.currency))
	cfg.Appearance.Theme = a.setupVals.theme
	theme.SetActive(cfg.Appearance.Theme)

	if extra, err := money.Parse(a.setupVals.extra); err == nil && extra >= 0 {
		cfg.Plan.ExtraMonthly = extra.String()
		a.opts.Extra = extra
		a.plan.extra = extra
		a.recomputePlan()
	}

	return config.Save(cfg)
}
