package backtest

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/chaintrader/market"
	"github.com/rustyeddy/chaintrader/risk"
)

// SweepResult is one configuration's outcome in a parameter sweep. A run that
// failed carries Err and empty metrics so the batch result stays rankable.
type SweepResult struct {
	Label         string
	StopLossPct   float64
	TakeProfitPct float64
	Metrics       risk.Metrics
	Err           error
}

// Sweep runs one independent backtest per stop-loss/take-profit combination
// on a bounded pool of workers and returns the results sorted by Sharpe ratio
// descending (configurations without a Sharpe sort last).
//
// Each combination gets its own Backtester and Portfolio; the dataset is
// read-only and shared. A panicking or failing configuration is reported in
// its result, never aborts the batch.
func Sweep(ds *market.Dataset, base Params, slValues, tpValues []float64, workers int) []SweepResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type job struct {
		idx    int
		params Params
		label  string
	}

	var jobs []job
	for _, sl := range slValues {
		for _, tp := range tpValues {
			p := base
			p.StopLossPct = sl
			p.TakeProfitPct = tp
			jobs = append(jobs, job{
				idx:    len(jobs),
				params: p,
				label:  fmt.Sprintf("SL=%.1f%% TP=%.1f%%", sl*100, tp*100),
			})
		}
	}

	results := make([]SweepResult, len(jobs))
	jobCh := make(chan job)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jb := range jobCh {
				results[jb.idx] = runOne(ds, jb.params, jb.label)
			}
		}()
	}

	for _, jb := range jobs {
		jobCh <- jb
	}
	close(jobCh)
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		return sharpeOrZero(results[i].Metrics) > sharpeOrZero(results[j].Metrics)
	})

	log.Info().Int("configs", len(results)).Int("workers", workers).Msg("parameter sweep complete")
	return results
}

func runOne(ds *market.Dataset, params Params, label string) (res SweepResult) {
	res = SweepResult{
		Label:         label,
		StopLossPct:   params.StopLossPct,
		TakeProfitPct: params.TakeProfitPct,
	}

	// One bad configuration must not take down the batch.
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("backtest panicked: %v", r)
			res.Metrics = risk.Calculate(nil, nil, params.InitialCapital, params.BarIntervalMinutes)
			log.Error().Str("config", label).Interface("panic", r).Msg("sweep run failed")
		}
	}()

	bt, err := New(ds, params)
	if err != nil {
		res.Err = err
		res.Metrics = risk.Calculate(nil, nil, params.InitialCapital, params.BarIntervalMinutes)
		return res
	}

	res.Metrics = bt.Run()
	return res
}

func sharpeOrZero(m risk.Metrics) float64 {
	if m.SharpeRatio == nil {
		return 0
	}
	return *m.SharpeRatio
}
