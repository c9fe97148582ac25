package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fincoach/internal/config"
	"github.com/theirongolddev/fincoach/internal/money"
	"github.com/theirongolddev/fincoach/internal/tui"
	"github.com/theirongolddev/fincoach/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive first-time setup",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	currency := cfg.General.Currency
	extra := cfg.Plan.ExtraMonthly
	themeName := cfg.Appearance.Theme
	dbPathVal := cfg.General.DBPath

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Currency").
				Description("ISO code shown next to amounts, e.g. BRL or USD").
				Value(&currency).
				Validate(tui.ValidateCurrency),
			huh.NewInput().
				Title("Extra per month for debts").
				Description("Added on top of the scheduled payments when planning").
				Value(&extra).
				Validate(tui.ValidateExtra),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Database path").
				Description("Leave blank for " + dbPathDefault()).
				Value(&dbPathVal),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&themeName),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return err
	}

	m, _ := money.Parse(extra)
	cfg.General.Currency = strings.ToUpper(strings.TrimSpace(currency))
	cfg.General.DBPath = strings.TrimSpace(dbPathVal)
	cfg.Plan.ExtraMonthly = m.String()
	cfg.Appearance.Theme = themeName

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `fincoach setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
