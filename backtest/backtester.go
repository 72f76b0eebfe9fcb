package backtest

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/chaintrader/indicators"
	"github.com/rustyeddy/chaintrader/market"
	"github.com/rustyeddy/chaintrader/portfolio"
	"github.com/rustyeddy/chaintrader/risk"
	"github.com/rustyeddy/chaintrader/signal"
)

// Backtester replays one dataset against one parameter set. A run is
// single-threaded and deterministic: same data and parameters always produce
// identical trades and metrics. Build a new Backtester for every run.
type Backtester struct {
	ds     *market.Dataset
	params Params
	pf     *portfolio.Portfolio

	warmup    int
	stats     risk.TradeStats
	cooldowns map[string]int // symbol -> bar index when re-entry is allowed
}

// New validates params and builds a ready-to-run Backtester.
func New(ds *market.Dataset, params Params) (*Backtester, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Backtester{
		ds:        ds,
		params:    params,
		pf:        portfolio.New(params.InitialCapital, params.SlippageBps),
		warmup:    params.WarmupBars(),
		cooldowns: make(map[string]int),
	}, nil
}

// Portfolio exposes the run's ledger, primarily for journaling and tests.
func (b *Backtester) Portfolio() *portfolio.Portfolio { return b.pf }

// Run walks the dataset bar by bar. Each step records one equity sample from
// pre-trade state, then checks exits before considering entries; entries are
// suppressed during the warm-up window and whenever the concurrent-position
// cap is reached.
func (b *Backtester) Run() risk.Metrics {
	steps := b.ds.Len()
	log.Info().
		Int("bars", steps).
		Int("symbols", len(b.ds.Symbols)).
		Int("warmup_bars", b.warmup).
		Float64("slippage_bps", b.params.SlippageBps).
		Msg("starting backtest")

	for i := 0; i < steps; i++ {
		ts := b.ds.Times[i]
		prices := b.ds.PricesAt(i)

		b.pf.RecordEquity(ts, prices)
		b.checkExits(prices, ts, i)

		if i < b.warmup {
			continue
		}
		if b.pf.OpenPositions() < b.params.MaxConcurrentPositions {
			b.checkEntries(prices, ts, i)
		}
	}

	return b.Results()
}

// Results reduces the portfolio's final state into the metrics report.
func (b *Backtester) Results() risk.Metrics {
	return risk.Calculate(b.pf.EquityCurve(), b.pf.TradeHistory(),
		b.params.InitialCapital, b.params.BarIntervalMinutes)
}

// checkExits applies exit rules to every open position, at most one rule per
// position per bar: trailing stop first, then stop-loss, then take-profit.
// All rules evaluate the bar close only; intrabar highs and lows are not
// modeled, so a fast move can skip over a stop between bars.
func (b *Backtester) checkExits(prices map[string]float64, ts time.Time, barIdx int) {
	symbols := b.pf.OpenSymbols()
	sort.Strings(symbols)

	for _, sym := range symbols {
		pos, ok := b.pf.Position(sym)
		if !ok {
			continue
		}
		price, ok := prices[sym]
		if !ok {
			continue // no price this bar, position carries over
		}

		var pnlPct float64
		switch pos.Side {
		case portfolio.Long:
			pnlPct = (price - pos.EntryPrice) / pos.EntryPrice
		case portfolio.Short:
			pnlPct = (pos.EntryPrice - price) / pos.EntryPrice
		}

		if b.params.TrailingStopEnabled && pos.Side == portfolio.Long {
			peak := b.pf.UpdateTrailingPeak(sym, price)
			if pnlPct >= b.params.TrailingStopActivation && peak > 0 {
				if (peak-price)/peak >= b.params.TrailingStopDistance {
					b.closeAndTally(sym, price, ts, "TrailingStop")
					continue
				}
			}
		}

		switch {
		case pnlPct <= -b.params.StopLossPct:
			b.closeAndTally(sym, price, ts, "StopLoss")
			if b.params.StopLossCooldownBars > 0 {
				b.cooldowns[sym] = barIdx + b.params.StopLossCooldownBars
			}
		case pnlPct >= b.params.TakeProfitPct:
			b.closeAndTally(sym, price, ts, "TakeProfit")
		}
	}
}

func (b *Backtester) closeAndTally(sym string, price float64, ts time.Time, reason string) {
	if !b.pf.ClosePosition(sym, price, ts, reason) {
		return
	}
	trades := b.pf.TradeHistory()
	b.stats.Record(trades[len(trades)-1].PnL)
}

// checkEntries scores every flat symbol and opens positions for accepted
// BUY/SELL decisions, re-checking the concurrency cap as fills accumulate.
func (b *Backtester) checkEntries(prices map[string]float64, ts time.Time, barIdx int) {
	recentWhales := b.ds.WhalesBetween(ts.Add(-time.Hour), ts)

	var stablecoinInflow float64
	for _, tx := range recentWhales {
		if tx.ToType == "exchange" && b.isMonitoredStablecoin(tx.Symbol) {
			stablecoinInflow += tx.AmountUSD
		}
	}

	for _, sym := range b.ds.Symbols {
		if b.pf.OpenPositions() >= b.params.MaxConcurrentPositions {
			return
		}
		if _, open := b.pf.Position(sym); open {
			continue
		}
		price, ok := prices[sym]
		if !ok {
			continue
		}

		if until, cooling := b.cooldowns[sym]; cooling {
			if barIdx < until {
				continue
			}
			delete(b.cooldowns, sym)
		}

		history := b.ds.History(sym, barIdx)
		sig, regime := b.score(sym, price, history, recentWhales, stablecoinInflow, ts)

		decision := b.applyFilters(sig.Decision, regime, history, sym, barIdx)
		if decision != signal.Buy && decision != signal.Sell {
			continue
		}

		riskFraction := b.effectiveRisk(regime.Params.RiskMultiplier)
		quantity := b.pf.Cash * riskFraction / price
		action := portfolio.ActionBuy
		if decision == signal.Sell {
			action = portfolio.ActionShort
		}

		log.Debug().Str("symbol", sym).Str("decision", string(decision)).
			Str("regime", string(regime.Regime)).
			Float64("risk_fraction", riskFraction).
			Str("reason", sig.Reason).
			Msg("entry signal accepted")
		b.pf.PlaceOrder(sym, action, quantity, price, ts)
	}
}

// score builds the indicator and on-chain inputs for one symbol on one bar
// (using history up to and including the bar, never beyond) and runs the
// signal scorer.
func (b *Backtester) score(sym string, price float64, history []float64,
	recentWhales []market.WhaleTx, stablecoinInflow float64, ts time.Time) (signal.Signal, indicators.RegimeResult) {

	md := signal.MarketData{CurrentPrice: price}
	if sma, err := indicators.SMA(history, b.params.SMAPeriod); err == nil {
		md.SMA = &sma
	}
	if rsi, err := indicators.RSI(history, b.params.RSIPeriod); err == nil {
		md.RSI = &rsi
	}

	baselineStart := ts.Add(-time.Duration(b.params.VelocityBaselineHours) * time.Hour)
	baselineWhales := b.ds.WhalesBetween(baselineStart, ts)
	velocity := indicators.TransactionVelocity(
		countForSymbol(recentWhales, sym),
		countForSymbol(baselineWhales, sym),
		float64(b.params.VelocityBaselineHours),
		b.params.VelocityThresholdMultiplier,
	)

	ctx := signal.Context{
		WhaleTxs:            recentWhales,
		HighInterestWallets: b.params.HighInterestWallets,
		StablecoinInflowUSD: stablecoinInflow,
		Velocity:            velocity,
	}
	if rec, ok := b.ds.SentimentAt(sym, ts); ok {
		ctx.Sentiment = &rec
	}

	regime := indicators.DetectRegime(history, 14, 14)
	return signal.Score(sym, md, ctx, b.params.Thresholds()), regime
}

// applyFilters demotes BUY/SELL to HOLD when the broader context disagrees:
// mixed or opposing multi-timeframe trend, a volatile regime with weak
// agreement, or a volume print below its moving average.
func (b *Backtester) applyFilters(decision signal.Decision, regime indicators.RegimeResult,
	history []float64, sym string, barIdx int) signal.Decision {

	if decision != signal.Buy && decision != signal.Sell {
		return decision
	}

	mtf := indicators.MultiTimeframeConfirmation(history, b.params.SMAPeriod, b.params.RSIPeriod)

	want := indicators.Bullish
	if decision == signal.Sell {
		want = indicators.Bearish
	}

	switch {
	case regime.Regime == indicators.RegimeVolatile && mtf.AgreementCount < 3:
		return signal.Hold
	case mtf.Direction == indicators.Mixed:
		return signal.Hold
	case mtf.Direction != want:
		return signal.Hold
	}

	if b.params.VolumeGateEnabled {
		vols := b.ds.VolumeHistory(sym, barIdx)
		if n := len(vols); n >= b.params.VolumeGatePeriod {
			var sum float64
			for _, v := range vols[n-b.params.VolumeGatePeriod:] {
				sum += v
			}
			avg := sum / float64(b.params.VolumeGatePeriod)
			if avg > 0 && vols[n-1] < avg {
				log.Debug().Str("symbol", sym).Float64("volume", vols[n-1]).Float64("avg", avg).
					Msg("volume gate blocked entry")
				return signal.Hold
			}
		}
	}

	return decision
}

// effectiveRisk picks the sizing fraction: the capped half-Kelly estimate
// once enough closed trades exist, otherwise the configured fixed fraction,
// scaled by the regime's risk multiplier either way.
func (b *Backtester) effectiveRisk(regimeMultiplier float64) float64 {
	if regimeMultiplier <= 0 {
		regimeMultiplier = 1
	}
	if kelly, ok := b.stats.HalfKelly(); ok {
		return kelly * regimeMultiplier
	}
	return b.params.TradeRiskPct * regimeMultiplier
}

func (b *Backtester) isMonitoredStablecoin(symbol string) bool {
	for _, s := range b.params.StablecoinsToMonitor {
		if strings.EqualFold(symbol, s) {
			return true
		}
	}
	return false
}

func countForSymbol(txs []market.WhaleTx, symbol string) int {
	n := 0
	for _, tx := range txs {
		if strings.EqualFold(tx.Symbol, symbol) {
			n++
		}
	}
	return n
}
