// Package risk provides pure reductions over backtest output: risk-adjusted
// performance metrics from an equity curve and trade log, and Kelly-criterion
// position sizing from running trade statistics.
package risk

import (
	"math"

	"github.com/rustyeddy/chaintrader/portfolio"
)

// ProfitFactorCap is reported when there are winning trades and no losing
// trades. A finite sentinel keeps sweep tooling able to sort and serialize
// results.
const ProfitFactorCap = 1000.0

// Metrics is the fixed-shape performance report for one run. Ratio fields are
// nil when the input is too degenerate to compute them (fewer than two equity
// samples, zero variance), never NaN.
type Metrics struct {
	InitialCapital float64
	FinalValue     float64
	TotalPnL       float64
	TotalReturnPct float64

	TotalTrades int
	WinRate     float64 // percent
	AvgTradePnL float64
	AvgWin      float64
	AvgLoss     float64 // positive magnitude

	SharpeRatio  *float64
	SortinoRatio *float64
	CalmarRatio  *float64

	MaxDrawdown    float64 // absolute decline from peak, positive
	MaxDrawdownPct float64 // positive percent
	ProfitFactor   float64
}

// Calculate reduces an equity curve and trade history into Metrics. Empty or
// single-sample input yields the all-zero/nil report rather than an error, so
// a configuration that never traded can still be ranked.
func Calculate(equity []portfolio.EquityPoint, trades []portfolio.Trade,
	initialCapital float64, barIntervalMinutes int) Metrics {

	m := emptyMetrics(initialCapital)
	m.fillTradeStats(trades)

	if len(equity) < 2 {
		if len(equity) == 1 {
			m.FinalValue = equity[0].Value
			m.TotalPnL = m.FinalValue - initialCapital
			if initialCapital > 0 {
				m.TotalReturnPct = m.TotalPnL / initialCapital * 100
			}
		}
		return m
	}

	values := make([]float64, len(equity))
	for i, e := range equity {
		values[i] = e.Value
	}

	m.FinalValue = values[len(values)-1]
	m.TotalPnL = m.FinalValue - initialCapital
	if initialCapital > 0 {
		m.TotalReturnPct = m.TotalPnL / initialCapital * 100
	}

	// Per-bar simple returns.
	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] != 0 {
			returns = append(returns, values[i]/values[i-1]-1)
		}
	}

	m.MaxDrawdown, m.MaxDrawdownPct = maxDrawdown(values)

	if barIntervalMinutes <= 0 {
		barIntervalMinutes = 60
	}
	periodsPerYear := float64(365*24*60) / float64(barIntervalMinutes)
	annualize := math.Sqrt(periodsPerYear)

	mean := meanOf(returns)
	if sd := stdevOf(returns); len(returns) > 1 && sd > 0 {
		v := mean / sd * annualize
		m.SharpeRatio = &v
	}

	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if dsd := stdevOf(downside); len(downside) > 1 && dsd > 0 {
		v := mean / dsd * annualize
		m.SortinoRatio = &v
	}

	if m.MaxDrawdownPct > 0 {
		v := m.TotalReturnPct / m.MaxDrawdownPct
		m.CalmarRatio = &v
	}

	return m
}

func emptyMetrics(initialCapital float64) Metrics {
	return Metrics{
		InitialCapital: initialCapital,
		FinalValue:     initialCapital,
	}
}

func (m *Metrics) fillTradeStats(trades []portfolio.Trade) {
	m.TotalTrades = len(trades)
	if len(trades) == 0 {
		return
	}

	var grossWin, grossLoss, total float64
	wins, losses := 0, 0
	for _, t := range trades {
		total += t.PnL
		if t.PnL > 0 {
			grossWin += t.PnL
			wins++
		} else if t.PnL < 0 {
			grossLoss += -t.PnL
			losses++
		}
	}

	m.WinRate = float64(wins) / float64(len(trades)) * 100
	m.AvgTradePnL = total / float64(len(trades))
	if wins > 0 {
		m.AvgWin = grossWin / float64(wins)
	}
	if losses > 0 {
		m.AvgLoss = grossLoss / float64(losses)
	}

	switch {
	case grossLoss > 0:
		m.ProfitFactor = grossWin / grossLoss
		if m.ProfitFactor > ProfitFactorCap {
			m.ProfitFactor = ProfitFactorCap
		}
	case grossWin > 0:
		m.ProfitFactor = ProfitFactorCap
	}
}

func maxDrawdown(values []float64) (absolute, percent float64) {
	peak := values[0]
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if dd := peak - v; dd > absolute {
			absolute = dd
		}
		if peak > 0 {
			if ddPct := (peak - v) / peak * 100; ddPct > percent {
				percent = ddPct
			}
		}
	}
	return absolute, percent
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdevOf returns the sample standard deviation (n-1 denominator).
func stdevOf(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := meanOf(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
