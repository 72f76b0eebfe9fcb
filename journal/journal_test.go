package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/chaintrader/portfolio"
	"github.com/rustyeddy/chaintrader/risk"
)

type memJournal struct {
	runs   []RunRecord
	trades []TradeRecord
	equity []EquitySnapshot
}

func (m *memJournal) RecordRun(r RunRecord) error { m.runs = append(m.runs, r); return nil }

func (m *memJournal) RecordTrade(t TradeRecord) error { m.trades = append(m.trades, t); return nil }

func (m *memJournal) RecordEquity(e EquitySnapshot) error { m.equity = append(m.equity, e); return nil }

func (m *memJournal) Close() error { return nil }

func TestRecordBacktestWritesEverything(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	pf := portfolio.New(10_000, 0)
	pf.RecordEquity(t0, nil)
	require.True(t, pf.PlaceOrder("bitcoin", portfolio.ActionBuy, 1, 100, t0))
	pf.RecordEquity(t0.Add(time.Hour), map[string]float64{"bitcoin": 110})
	require.True(t, pf.ClosePosition("bitcoin", 110, t0.Add(time.Hour), "TakeProfit"))

	m := risk.Calculate(pf.EquityCurve(), pf.TradeHistory(), 10_000, 60)

	j := &memJournal{}
	require.NoError(t, RecordBacktest(j, "01RUN", "./history.sqlite", pf, m))

	require.Len(t, j.runs, 1)
	assert.Equal(t, "01RUN", j.runs[0].RunID)
	assert.Equal(t, "./history.sqlite", j.runs[0].Dataset)
	assert.Equal(t, 1, j.runs[0].TotalTrades)

	require.Len(t, j.trades, 1)
	assert.NotEmpty(t, j.trades[0].TradeID)
	assert.Equal(t, "01RUN", j.trades[0].RunID)
	assert.Equal(t, "bitcoin", j.trades[0].Symbol)
	assert.Equal(t, "TakeProfit", j.trades[0].Reason)

	require.Len(t, j.equity, 2)
	assert.Equal(t, "01RUN", j.equity[0].RunID)
}
