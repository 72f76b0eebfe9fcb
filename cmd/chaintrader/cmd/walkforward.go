package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/chaintrader/backtest"
)

var wfSplits int

var walkforwardCmd = &cobra.Command{
	Use:   "walkforward",
	Short: "Validate the strategy over rolling out-of-sample windows",
	Long: `Walkforward divides the dataset into successive train/test windows and
backtests each test window with fixed parameters, reporting per-fold
results and the share of folds that were profitable.`,
	RunE: runWalkForward,
}

func init() {
	walkforwardCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file (YAML or JSON)")
	walkforwardCmd.Flags().StringVar(&datasetPath, "dataset", "", "dataset path (overrides config)")
	walkforwardCmd.Flags().StringVar(&datasetType, "dataset-type", "", "dataset type: sqlite or csv (overrides config)")
	walkforwardCmd.Flags().IntVar(&wfSplits, "splits", 3, "number of train/test folds")
	rootCmd.AddCommand(walkforwardCmd)
}

func runWalkForward(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}

	result, err := backtest.WalkForward(ds, cfg.Strategy, wfSplits)
	if err != nil {
		return err
	}
	backtest.PrintWalkForward(os.Stdout, result)
	return nil
}
