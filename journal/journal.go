// Package journal persists backtest runs: closed trades, equity curves and a
// summary row per run, to SQLite or CSV.
package journal

import (
	"time"

	"github.com/rustyeddy/chaintrader/portfolio"
	"github.com/rustyeddy/chaintrader/risk"
)

// TradeRecord is one closed trade as stored in the journal.
type TradeRecord struct {
	TradeID    string
	RunID      string
	Symbol     string
	Side       string
	Quantity   float64
	EntryPrice float64
	ExitPrice  float64
	PnL        float64
	OpenedAt   time.Time
	ClosedAt   time.Time
	Reason     string
}

// EquitySnapshot is one equity-curve sample as stored in the journal.
type EquitySnapshot struct {
	RunID string
	Time  time.Time
	Value float64
}

// RunRecord is the summary row for one backtest run.
type RunRecord struct {
	RunID          string
	Created        time.Time
	Dataset        string
	InitialCapital float64
	FinalValue     float64
	TotalPnL       float64
	TotalTrades    int
	WinRate        float64
	MaxDrawdownPct float64
	SharpeRatio    *float64
	ProfitFactor   float64
}

// Journal records backtest output. Implementations need not be safe for
// concurrent use; each run writes from a single goroutine.
type Journal interface {
	RecordRun(RunRecord) error
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// RecordBacktest writes a completed run's summary, trades and equity curve.
func RecordBacktest(j Journal, runID, dataset string, pf *portfolio.Portfolio, m risk.Metrics) error {
	rec := RunRecord{
		RunID:          runID,
		Created:        time.Now().UTC(),
		Dataset:        dataset,
		InitialCapital: m.InitialCapital,
		FinalValue:     m.FinalValue,
		TotalPnL:       m.TotalPnL,
		TotalTrades:    m.TotalTrades,
		WinRate:        m.WinRate,
		MaxDrawdownPct: m.MaxDrawdownPct,
		SharpeRatio:    m.SharpeRatio,
		ProfitFactor:   m.ProfitFactor,
	}
	if err := j.RecordRun(rec); err != nil {
		return err
	}

	for _, t := range pf.TradeHistory() {
		err := j.RecordTrade(TradeRecord{
			TradeID:    NewTradeID(),
			RunID:      runID,
			Symbol:     t.Symbol,
			Side:       string(t.Side),
			Quantity:   t.Quantity,
			EntryPrice: t.EntryPrice,
			ExitPrice:  t.ExitPrice,
			PnL:        t.PnL,
			OpenedAt:   t.OpenedAt,
			ClosedAt:   t.ClosedAt,
			Reason:     t.Reason,
		})
		if err != nil {
			return err
		}
	}

	for _, e := range pf.EquityCurve() {
		err := j.RecordEquity(EquitySnapshot{RunID: runID, Time: e.Time, Value: e.Value})
		if err != nil {
			return err
		}
	}
	return nil
}
