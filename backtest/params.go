// Package backtest drives deterministic bar-by-bar strategy replays over a
// historical dataset, plus the parameter-sweep and walk-forward tooling built
// on top of single runs.
package backtest

import (
	"fmt"

	"github.com/rustyeddy/chaintrader/signal"
)

// Params is the immutable configuration of one backtest run. Construct a
// fresh Backtester per parameter combination; nothing here may change
// mid-run.
type Params struct {
	InitialCapital         float64 `yaml:"initial_capital"`
	TradeRiskPct           float64 `yaml:"trade_risk_pct"` // fixed fraction of cash per entry
	StopLossPct            float64 `yaml:"stop_loss_pct"`
	TakeProfitPct          float64 `yaml:"take_profit_pct"`
	MaxConcurrentPositions int     `yaml:"max_concurrent_positions"`
	SlippageBps            float64 `yaml:"slippage_bps"`

	TrailingStopEnabled    bool    `yaml:"trailing_stop_enabled"`
	TrailingStopActivation float64 `yaml:"trailing_stop_activation"` // profit fraction that arms the stop
	TrailingStopDistance   float64 `yaml:"trailing_stop_distance"`   // drawdown from peak that fires it

	SMAPeriod     int     `yaml:"sma_period"`
	RSIPeriod     int     `yaml:"rsi_period"`
	RSIOverbought float64 `yaml:"rsi_overbought"`
	RSIOversold   float64 `yaml:"rsi_oversold"`

	SignalThreshold int `yaml:"signal_threshold"`

	StablecoinInflowThresholdUSD float64  `yaml:"stablecoin_inflow_threshold_usd"`
	VelocityBaselineHours        int      `yaml:"velocity_baseline_hours"`
	VelocityThresholdMultiplier  float64  `yaml:"velocity_threshold_multiplier"`
	HighInterestWallets          []string `yaml:"high_interest_wallets"`
	StablecoinsToMonitor         []string `yaml:"stablecoins_to_monitor"`

	VolumeGateEnabled    bool `yaml:"volume_gate_enabled"`
	VolumeGatePeriod     int  `yaml:"volume_gate_period"`
	StopLossCooldownBars int  `yaml:"stop_loss_cooldown_bars"`

	// MinimumHistory floors the warm-up window even when indicator periods
	// are short.
	MinimumHistory int `yaml:"minimum_history"`

	BarIntervalMinutes int `yaml:"bar_interval_minutes"`
}

// DefaultParams returns the shipped strategy defaults.
func DefaultParams() Params {
	return Params{
		InitialCapital:         10_000,
		TradeRiskPct:           0.01,
		StopLossPct:            0.02,
		TakeProfitPct:          0.05,
		MaxConcurrentPositions: 3,
		SlippageBps:            5,

		TrailingStopEnabled:    true,
		TrailingStopActivation: 0.02,
		TrailingStopDistance:   0.015,

		SMAPeriod:     20,
		RSIPeriod:     14,
		RSIOverbought: 70,
		RSIOversold:   30,

		SignalThreshold: 2,

		StablecoinInflowThresholdUSD: 100_000_000,
		VelocityBaselineHours:        24,
		VelocityThresholdMultiplier:  5.0,
		StablecoinsToMonitor:         []string{"usdt", "usdc", "busd", "dai", "tusd", "fdusd", "pyusd"},

		VolumeGateEnabled:    false,
		VolumeGatePeriod:     20,
		StopLossCooldownBars: 6,

		MinimumHistory:     30,
		BarIntervalMinutes: 60,
	}
}

// Validate fails fast on operator errors; data-quality problems are handled
// at runtime, configuration problems are not.
func (p Params) Validate() error {
	if p.InitialCapital <= 0 {
		return fmt.Errorf("initial_capital must be positive, got %v", p.InitialCapital)
	}
	if p.TradeRiskPct <= 0 || p.TradeRiskPct > 1 {
		return fmt.Errorf("trade_risk_pct must be in (0, 1], got %v", p.TradeRiskPct)
	}
	if p.StopLossPct <= 0 {
		return fmt.Errorf("stop_loss_pct must be positive, got %v", p.StopLossPct)
	}
	if p.TakeProfitPct <= 0 {
		return fmt.Errorf("take_profit_pct must be positive, got %v", p.TakeProfitPct)
	}
	if p.MaxConcurrentPositions < 1 {
		return fmt.Errorf("max_concurrent_positions must be at least 1, got %d", p.MaxConcurrentPositions)
	}
	if p.SlippageBps < 0 {
		return fmt.Errorf("slippage_bps must not be negative, got %v", p.SlippageBps)
	}
	if p.SMAPeriod < 1 || p.RSIPeriod < 1 {
		return fmt.Errorf("indicator periods must be at least 1 (sma=%d, rsi=%d)", p.SMAPeriod, p.RSIPeriod)
	}
	if p.TrailingStopEnabled && (p.TrailingStopActivation <= 0 || p.TrailingStopDistance <= 0) {
		return fmt.Errorf("trailing stop activation and distance must be positive when enabled")
	}
	if p.BarIntervalMinutes <= 0 {
		return fmt.Errorf("bar_interval_minutes must be positive, got %d", p.BarIntervalMinutes)
	}
	return nil
}

// WarmupBars is the entry-free window at the start of a run: the longest
// indicator period, floored by MinimumHistory.
func (p Params) WarmupBars() int {
	w := p.SMAPeriod
	if p.RSIPeriod > w {
		w = p.RSIPeriod
	}
	if p.MinimumHistory > w {
		w = p.MinimumHistory
	}
	return w
}

// Thresholds projects the scorer's configuration out of the run parameters.
func (p Params) Thresholds() signal.Thresholds {
	th := signal.DefaultThresholds()
	th.RSIOverbought = p.RSIOverbought
	th.RSIOversold = p.RSIOversold
	th.StablecoinInflowUSD = p.StablecoinInflowThresholdUSD
	th.SignalThreshold = p.SignalThreshold
	return th
}
