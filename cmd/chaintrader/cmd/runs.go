package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/chaintrader/journal"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Query journaled backtest runs",
	Long: `Query and display journaled backtest runs from the SQLite journal.

Subcommands:
  list   - List all runs, newest first
  show   - Show one run's summary and trades

Examples:
  chaintrader runs list
  chaintrader runs show <run-id>`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all journaled runs",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run's summary and trades",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDBPath string

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)

	runsCmd.PersistentFlags().StringVarP(&runsDBPath, "db", "d", "./runs.sqlite", "path to SQLite journal DB")
}

func runRunsList(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(runsDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	recs, err := j.ListRuns()
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}
	if len(recs) == 0 {
		fmt.Println("no runs journaled")
		return nil
	}

	fmt.Printf("%-26s %-19s %10s %8s %7s %8s\n",
		"Run ID", "Created", "PnL", "Trades", "Win%", "MaxDD%")
	for _, r := range recs {
		fmt.Printf("%-26s %-19s %10.2f %8d %6.1f%% %7.2f%%\n",
			r.RunID, r.Created.Format("2006-01-02 15:04:05"),
			r.TotalPnL, r.TotalTrades, r.WinRate, r.MaxDrawdownPct)
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(runsDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runID := args[0]
	rec, err := j.GetRun(runID)
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	fmt.Printf("Run:       %s\n", rec.RunID)
	fmt.Printf("Created:   %s\n", rec.Created.Format("2006-01-02 15:04:05"))
	fmt.Printf("Dataset:   %s\n", rec.Dataset)
	fmt.Printf("Capital:   $%.2f -> $%.2f\n", rec.InitialCapital, rec.FinalValue)
	fmt.Printf("PnL:       $%.2f\n", rec.TotalPnL)
	fmt.Printf("Trades:    %d (win rate %.1f%%)\n", rec.TotalTrades, rec.WinRate)
	fmt.Printf("Max DD:    %.2f%%\n", rec.MaxDrawdownPct)
	if rec.SharpeRatio != nil {
		fmt.Printf("Sharpe:    %.3f\n", *rec.SharpeRatio)
	}

	trades, err := j.ListTradesByRun(runID)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	if len(trades) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Printf("%-10s %-6s %12s %12s %10s %-12s\n",
		"Symbol", "Side", "Entry", "Exit", "PnL", "Reason")
	for _, t := range trades {
		fmt.Printf("%-10s %-6s %12.4f %12.4f %10.2f %-12s\n",
			t.Symbol, t.Side, t.EntryPrice, t.ExitPrice, t.PnL, t.Reason)
	}
	return nil
}
