package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fincoach/internal/cli"
	"github.com/theirongolddev/fincoach/internal/coach"
	"github.com/theirongolddev/fincoach/internal/engine"
	"github.com/theirongolddev/fincoach/internal/money"
	"github.com/theirongolddev/fincoach/internal/pipeline"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Advice generated from your debts, budget and goals",
	RunE:  runInsights,
}

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Ask the coach a question, e.g. \"what if I pay 300 extra?\"",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(askCmd)
}

func runInsights(_ *cobra.Command, _ []string) error {
	r, err := loadReport()
	if err != nil {
		return err
	}
	if len(r.Insights) == 0 {
		fmt.Println("\n  Nothing needs attention right now.")
		return nil
	}

	title("Insights")
	for _, in := range r.Insights {
		tag := ""
		if in.ActionTag != "" {
			tag = cli.Muted("  [" + in.ActionTag + "]")
		}
		fmt.Printf("  %s %s%s\n", cli.RenderSeverity(in.Severity), in.Title, tag)
		fmt.Printf("    %s\n\n", in.Body)
	}
	return nil
}

func runAsk(_ *cobra.Command, args []string) error {
	r, err := loadReport()
	if err != nil {
		return err
	}
	reply := coach.Answer(strings.Join(args, " "), r.CoachInput(), reportWhatIf(r))

	fmt.Println()
	fmt.Printf("  %s\n", reply.Text)
	fmt.Println()
	return nil
}

// reportWhatIf simulates the report's ranked debts for another extra budget.
func reportWhatIf(r *pipeline.Report) coach.WhatIf {
	if len(r.Ranked) == 0 {
		return nil
	}
	ordered := engine.Debts(r.Ranked)
	return func(extra money.Money) (engine.Comparison, error) {
		return engine.Compare(ordered, extra)
	}
}
