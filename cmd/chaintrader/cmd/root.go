package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "chaintrader",
	Short: "A crypto trading strategy research harness",
	Long: `Chaintrader replays historical price, on-chain whale and news-sentiment
data against a rule-based signal engine, simulating order execution with
slippage and fees, and reports risk-adjusted performance.

It provides tools for:
  - Backtesting the signal strategy against collected history
  - Sweeping stop-loss/take-profit grids across parallel runs
  - Walk-forward validation over train/test splits
  - Journaling trades and equity curves to SQLite or CSV`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	},
}

// Execute runs the root command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable per-bar debug logging")
}
