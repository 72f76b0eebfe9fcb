package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultParamsValid(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())
}

func TestValidateFailsFast(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Params)
		want   string
	}{
		{"capital", func(p *Params) { p.InitialCapital = 0 }, "initial_capital"},
		{"risk", func(p *Params) { p.TradeRiskPct = 1.5 }, "trade_risk_pct"},
		{"stop", func(p *Params) { p.StopLossPct = -0.01 }, "stop_loss_pct"},
		{"target", func(p *Params) { p.TakeProfitPct = 0 }, "take_profit_pct"},
		{"positions", func(p *Params) { p.MaxConcurrentPositions = 0 }, "max_concurrent_positions"},
		{"slippage", func(p *Params) { p.SlippageBps = -1 }, "slippage_bps"},
		{"periods", func(p *Params) { p.SMAPeriod = 0 }, "indicator periods"},
		{"trailing", func(p *Params) { p.TrailingStopDistance = 0 }, "trailing stop"},
		{"interval", func(p *Params) { p.BarIntervalMinutes = 0 }, "bar_interval_minutes"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.mutate(&p)
			assert.ErrorContains(t, p.Validate(), tc.want)
		})
	}
}

func TestWarmupBarsFlooredByMinimumHistory(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 30, p.WarmupBars()) // MinimumHistory beats SMA 20 / RSI 14

	p.SMAPeriod = 50
	assert.Equal(t, 50, p.WarmupBars())
}

func TestThresholdsProjection(t *testing.T) {
	p := DefaultParams()
	p.RSIOverbought = 75
	p.SignalThreshold = 3

	th := p.Thresholds()
	assert.InDelta(t, 75.0, th.RSIOverbought, 1e-9)
	assert.Equal(t, 3, th.SignalThreshold)
	// Sentiment thresholds come from the scorer defaults.
	assert.InDelta(t, 0.6, th.MinSentimentConfidence, 1e-9)
}
