package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fincoach/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := rt.cfg

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Currency:   %s\n", cfg.General.Currency)
	fmt.Printf("    Database:   %s\n", dbPath())
	fmt.Printf("    Log level:  %s\n", cfg.General.LogLevel)
	fmt.Println()

	fmt.Println("  [Plan]")
	fmt.Printf("    Extra monthly: %s\n", formatMoney(rt.extra, cfg.General.Currency))
	fmt.Println()

	fmt.Println("  [Scoring]")
	w := rt.weights
	fmt.Printf("    Interest: %s  Time: %s  Relief: %s  Kind: %s\n",
		w.Interest.StringFixed(2), w.Time.StringFixed(2), w.Relief.StringFixed(2), w.Kind.StringFixed(2))
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Refresh:  %s\n", cfg.Daemon.Refresh)
	fmt.Printf("    Rollover: %s\n", cfg.Daemon.Rollover)
	fmt.Printf("    Events:   %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	return nil
}
