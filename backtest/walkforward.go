package backtest

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/chaintrader/market"
	"github.com/rustyeddy/chaintrader/risk"
)

// Fold is one out-of-sample window's result in a walk-forward validation.
type Fold struct {
	Fold    int
	Start   time.Time
	End     time.Time
	Metrics risk.Metrics
}

// WalkForwardResult aggregates per-fold results. Average ratios are nil when
// no fold produced one.
type WalkForwardResult struct {
	Folds []Fold

	AvgReturnPct      float64
	AvgSharpe         *float64
	AvgMaxDrawdownPct float64
	AvgWinRate        float64
	TotalTrades       int
	ConsistencyPct    float64 // percent of folds that were profitable
}

// WalkForward splits the dataset into nSplits overlapping train/test windows
// and backtests each test window independently with fixed parameters,
// measuring out-of-sample consistency rather than optimizing per fold.
func WalkForward(ds *market.Dataset, params Params, nSplits int) (WalkForwardResult, error) {
	if err := params.Validate(); err != nil {
		return WalkForwardResult{}, err
	}
	if nSplits < 1 {
		nSplits = 3
	}

	totalBars := ds.Len()
	foldSize := totalBars / (nSplits + 1)
	trainSize := foldSize * 3 / 2

	var out WalkForwardResult
	for fold := 0; fold < nSplits; fold++ {
		trainStart := fold * foldSize
		trainEnd := trainStart + trainSize
		if limit := totalBars - foldSize; trainEnd > limit {
			trainEnd = limit
		}
		testStart := trainEnd
		testEnd := testStart + foldSize
		if testEnd > totalBars {
			testEnd = totalBars
		}
		if testEnd <= testStart {
			break
		}

		sub := ds.Slice(testStart, testEnd)
		if sub.Len() == 0 {
			continue
		}

		bt, err := New(sub, params)
		if err != nil {
			return WalkForwardResult{}, err
		}
		m := bt.Run()

		out.Folds = append(out.Folds, Fold{
			Fold:    fold + 1,
			Start:   sub.Times[0],
			End:     sub.Times[sub.Len()-1],
			Metrics: m,
		})

		log.Info().Int("fold", fold+1).
			Float64("pnl", m.TotalPnL).
			Float64("max_dd_pct", m.MaxDrawdownPct).
			Int("trades", m.TotalTrades).
			Msg("walk-forward fold complete")
	}

	out.aggregate()
	return out, nil
}

func (r *WalkForwardResult) aggregate() {
	if len(r.Folds) == 0 {
		return
	}

	var retSum, ddSum, sharpeSum, winRateSum float64
	sharpeN, winRateN, profitable := 0, 0, 0

	for _, f := range r.Folds {
		retSum += f.Metrics.TotalReturnPct
		ddSum += f.Metrics.MaxDrawdownPct
		r.TotalTrades += f.Metrics.TotalTrades
		if f.Metrics.SharpeRatio != nil {
			sharpeSum += *f.Metrics.SharpeRatio
			sharpeN++
		}
		if f.Metrics.TotalTrades > 0 {
			winRateSum += f.Metrics.WinRate
			winRateN++
		}
		if f.Metrics.TotalPnL > 0 {
			profitable++
		}
	}

	n := float64(len(r.Folds))
	r.AvgReturnPct = retSum / n
	r.AvgMaxDrawdownPct = ddSum / n
	r.ConsistencyPct = math.Round(float64(profitable)/n*1000) / 10
	if sharpeN > 0 {
		v := sharpeSum / float64(sharpeN)
		r.AvgSharpe = &v
	}
	if winRateN > 0 {
		r.AvgWinRate = winRateSum / float64(winRateN)
	}
}
