package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/chaintrader/backtest"
)

var (
	sweepStops   string
	sweepTargets string
	sweepWorkers int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Grid-search stop-loss and take-profit levels",
	Long: `Sweep backtests every stop-loss/take-profit combination on a pool of
parallel workers and prints a leaderboard sorted by Sharpe ratio. Values
are fractions: 0.02 means 2%.`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file (YAML or JSON)")
	sweepCmd.Flags().StringVar(&datasetPath, "dataset", "", "dataset path (overrides config)")
	sweepCmd.Flags().StringVar(&datasetType, "dataset-type", "", "dataset type: sqlite or csv (overrides config)")
	sweepCmd.Flags().StringVar(&sweepStops, "stops", "0.01,0.02,0.03,0.05", "comma-separated stop-loss fractions")
	sweepCmd.Flags().StringVar(&sweepTargets, "targets", "0.03,0.05,0.08,0.10", "comma-separated take-profit fractions")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 0, "worker pool size (0 = number of CPUs)")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	stops, err := parseFloats(sweepStops)
	if err != nil {
		return fmt.Errorf("invalid --stops: %w", err)
	}
	targets, err := parseFloats(sweepTargets)
	if err != nil {
		return fmt.Errorf("invalid --targets: %w", err)
	}

	ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}

	results := backtest.Sweep(ds, cfg.Strategy, stops, targets, sweepWorkers)
	backtest.PrintSweepTable(os.Stdout, results)
	return nil
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no values given")
	}
	return out, nil
}
