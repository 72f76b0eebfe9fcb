package backtest

import (
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/chaintrader/risk"
)

// PrintReport writes an aligned text summary of one run's metrics.
func PrintReport(w io.Writer, runID string, m risk.Metrics, start, end time.Time) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	if runID != "" {
		fmt.Fprintf(w, "Run ID:        %s\n", runID)
	}
	if !start.IsZero() && !end.IsZero() {
		fmt.Fprintf(w, "Start:         %s\n", start.Format(time.RFC3339))
		fmt.Fprintf(w, "End:           %s\n", end.Format(time.RFC3339))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Initial Capital: $%.2f\n", m.InitialCapital)
	fmt.Fprintf(w, "Final Value:     $%.2f\n", m.FinalValue)
	fmt.Fprintf(w, "Total PnL:       $%.2f (%.2f%%)\n", m.TotalPnL, m.TotalReturnPct)
	fmt.Fprintf(w, "Max Drawdown:    %.2f%%\n", m.MaxDrawdownPct)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", m.TotalTrades)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", m.WinRate)
	fmt.Fprintf(w, "Avg Trade PnL: $%.2f\n", m.AvgTradePnL)
	fmt.Fprintf(w, "Avg Win:       $%.2f\n", m.AvgWin)
	fmt.Fprintf(w, "Avg Loss:      $%.2f\n", m.AvgLoss)
	fmt.Fprintf(w, "Profit Factor: %.3f\n", m.ProfitFactor)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Risk-Adjusted Returns")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Sharpe Ratio:  %s\n", fmtRatio(m.SharpeRatio))
	fmt.Fprintf(w, "Sortino Ratio: %s\n", fmtRatio(m.SortinoRatio))
	fmt.Fprintf(w, "Calmar Ratio:  %s\n", fmtRatio(m.CalmarRatio))
	fmt.Fprintln(w)
}

// PrintSweepTable writes one row per sweep configuration, best Sharpe first.
func PrintSweepTable(w io.Writer, results []SweepResult) {
	header := fmt.Sprintf("%-18s %10s %9s %7s %8s %8s %8s %7s",
		"Config", "PnL", "Return%", "Trades", "WinRate", "Sharpe", "MaxDD%", "PF")
	fmt.Fprintln(w, header)
	for range header {
		fmt.Fprint(w, "-")
	}
	fmt.Fprintln(w)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%-18s ERROR: %v\n", r.Label, r.Err)
			continue
		}
		m := r.Metrics
		fmt.Fprintf(w, "%-18s %10.2f %8.2f%% %7d %7.1f%% %8s %7.2f%% %7.3f\n",
			r.Label, m.TotalPnL, m.TotalReturnPct, m.TotalTrades,
			m.WinRate, fmtRatio(m.SharpeRatio), m.MaxDrawdownPct, m.ProfitFactor)
	}
}

// PrintWalkForward writes the per-fold table and aggregate summary.
func PrintWalkForward(w io.Writer, r WalkForwardResult) {
	fmt.Fprintln(w, "Walk-Forward Validation")
	fmt.Fprintln(w, "--------------------------------------------------")
	for _, f := range r.Folds {
		fmt.Fprintf(w, "Fold %d  %s .. %s  PnL=$%.2f  Sharpe=%s  MaxDD=%.2f%%  Trades=%d\n",
			f.Fold,
			f.Start.Format("2006-01-02"), f.End.Format("2006-01-02"),
			f.Metrics.TotalPnL, fmtRatio(f.Metrics.SharpeRatio),
			f.Metrics.MaxDrawdownPct, f.Metrics.TotalTrades)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Avg Return:       %.2f%%\n", r.AvgReturnPct)
	fmt.Fprintf(w, "Avg Sharpe:       %s\n", fmtRatio(r.AvgSharpe))
	fmt.Fprintf(w, "Avg Max DD:       %.2f%%\n", r.AvgMaxDrawdownPct)
	fmt.Fprintf(w, "Avg Win Rate:     %.2f%%\n", r.AvgWinRate)
	fmt.Fprintf(w, "Total Trades:     %d\n", r.TotalTrades)
	fmt.Fprintf(w, "Fold Consistency: %.0f%% profitable\n", r.ConsistencyPct)
}

func fmtRatio(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", *v)
}
