package backtest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/chaintrader/risk"
)

func TestPrintReportFormatsRatios(t *testing.T) {
	sharpe := 1.5
	m := risk.Metrics{
		InitialCapital: 10_000,
		FinalValue:     11_000,
		TotalPnL:       1_000,
		TotalReturnPct: 10,
		SharpeRatio:    &sharpe,
	}

	var buf bytes.Buffer
	PrintReport(&buf, "01RUN", m, hourly(0), hourly(10))

	out := buf.String()
	assert.Contains(t, out, "Run ID:        01RUN")
	assert.Contains(t, out, "Sharpe Ratio:  1.500")
	// Missing ratios print as n/a, never NaN.
	assert.Contains(t, out, "Sortino Ratio: n/a")
	assert.NotContains(t, out, "NaN")
}

func TestPrintSweepTableShowsErrors(t *testing.T) {
	results := []SweepResult{
		{Label: "SL=2.0% TP=5.0%", Metrics: risk.Metrics{InitialCapital: 10_000, FinalValue: 10_000}},
		{Label: "SL=-100.0% TP=5.0%", Err: errors.New("stop_loss_pct must be positive")},
	}

	var buf bytes.Buffer
	PrintSweepTable(&buf, results)

	out := buf.String()
	assert.Contains(t, out, "SL=2.0% TP=5.0%")
	assert.Contains(t, out, "ERROR: stop_loss_pct")
}
