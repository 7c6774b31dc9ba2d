package cmd

import (
	"github.com/spf13/cobra"
)

var (
	strategyOutputFormat string
	strategyQuiet        bool
)

// strategyCmd represents the strategy command
var strategyCmd = &cobra.Command{
	Use:   "strategy",
	Short: "Inspect the strategy catalog",
	Long: `Inspect the freqtrade strategy files under user_data/strategies.

Available commands:
  list  - List strategy files with their class names`,
}

// strategyListCmd lists the strategy files
var strategyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List strategy files",
	Long: `List every *.py under user_data/strategies with the IStrategy class
name extracted from the file, its category and modification time.
Files whose class cannot be found fall back to the file stem.`,
	Args: cobra.NoArgs,
	RunE: runStrategyList,
}

func init() {
	rootCmd.AddCommand(strategyCmd)

	// Add subcommands
	strategyCmd.AddCommand(strategyListCmd)

	// Add flags to the parent command
	strategyCmd.PersistentFlags().StringVarP(&strategyOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	strategyCmd.PersistentFlags().BoolVarP(&strategyQuiet, "quiet", "q", false, "Suppress non-essential output")
}

func runStrategyList(cmd *cobra.Command, args []string) error {
	r, err := newRenderer(strategyOutputFormat, strategyQuiet)
	if err != nil {
		return err
	}
	strategies, err := newUserDataCatalog().ListStrategies()
	if err != nil {
		return err
	}
	return r.Strategies(strategies)
}
