package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fincoach/internal/coach"
	"github.com/theirongolddev/fincoach/internal/config"
	"github.com/theirongolddev/fincoach/internal/model"
	"github.com/theirongolddev/fincoach/internal/tui"
	"github.com/theirongolddev/fincoach/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	if _, ok := theme.ByName(rt.cfg.Appearance.Theme); !ok {
		rt.log.WithField("theme", rt.cfg.Appearance.Theme).Warn("unknown theme, using default")
	}
	theme.SetActive(rt.cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	load := func() (model.Household, error) {
		// Pick up a currency chosen in the first-run form.
		if cfg, err := config.Load(); err == nil {
			st.currency = cfg.General.Currency
		}
		return st.Snapshot(coach.HistoryPeriods)
	}

	w := rt.weights
	app := tui.NewApp(tui.Options{
		Load:      load,
		Today:     todayOverride(),
		Extra:     rt.extra,
		Weights:   &w,
		NeedSetup: !config.Exists(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
