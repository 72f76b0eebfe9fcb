// Package signal implements the additive-vote trading signal scorer. Score is
// a pure function of its inputs so backtests stay deterministic.
package signal

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/chaintrader/indicators"
	"github.com/rustyeddy/chaintrader/market"
)

// Decision is the discrete outcome of scoring one symbol on one bar.
type Decision string

const (
	Buy               Decision = "BUY"
	Sell              Decision = "SELL"
	Hold              Decision = "HOLD"
	VolatilityWarning Decision = "VOLATILITY_WARNING"
)

// Signal is the scorer's output for one symbol on one bar. It is consumed
// immediately by the strategy driver and never persisted by the core.
type Signal struct {
	Symbol   string
	Decision Decision
	Reason   string
	Price    float64
}

// MarketData carries the per-bar technical inputs. SMA and RSI are nil while
// the indicator history is still warming up.
type MarketData struct {
	CurrentPrice float64
	SMA          *float64
	RSI          *float64
}

// Context carries the on-chain and news inputs for one bar. Any field may be
// zero/empty when that data source has nothing in the window.
type Context struct {
	WhaleTxs            []market.WhaleTx
	HighInterestWallets []string
	StablecoinInflowUSD float64
	Velocity            indicators.Velocity
	Sentiment           *market.SentimentRecord
}

// Thresholds configures the scorer's decision boundaries.
type Thresholds struct {
	RSIOverbought          float64
	RSIOversold            float64
	StablecoinInflowUSD    float64
	SentimentBuyScore      float64 // compound score above which news votes bullish
	SentimentSellScore     float64
	MinSentimentConfidence float64 // LLM assessments below this fall back to the compound score
	SignalThreshold        int     // votes needed for a BUY or SELL
}

// DefaultThresholds mirror the shipped configuration defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RSIOverbought:          70,
		RSIOversold:            30,
		StablecoinInflowUSD:    100_000_000,
		SentimentBuyScore:      0.15,
		SentimentSellScore:     -0.15,
		MinSentimentConfidence: 0.6,
		SignalThreshold:        2,
	}
}

// Score evaluates one symbol on one bar.
//
// Priority rules fire before the vote count: a transaction-velocity anomaly
// yields VOLATILITY_WARNING, a high-interest wallet moving against an
// exchange forces BUY/SELL, and a stablecoin inflow above threshold forces
// BUY. Otherwise SMA trend, RSI, whale exchange flow and news sentiment each
// contribute one vote, and the larger side wins if it reaches
// SignalThreshold.
func Score(symbol string, md MarketData, ctx Context, th Thresholds) Signal {
	sig := Signal{Symbol: symbol, Decision: Hold, Price: md.CurrentPrice}

	if md.CurrentPrice <= 0 {
		sig.Reason = "Missing current price data."
		return sig
	}
	if md.SMA == nil || md.RSI == nil {
		sig.Reason = "Missing market data (SMA/RSI not ready)."
		return sig
	}

	// Priority 1: on-chain activity burst means unpredictable conditions.
	if ctx.Velocity.IsAnomaly {
		sig.Decision = VolatilityWarning
		sig.Reason = fmt.Sprintf(
			"Transaction velocity anomaly detected: %d transfers this hour vs %.2f/hr baseline.",
			ctx.Velocity.CurrentCount, ctx.Velocity.BaselineAvg)
		return sig
	}

	// Priority 2: tracked wallets moving size against an exchange.
	if d, reason, ok := highInterestOverride(ctx.WhaleTxs, ctx.HighInterestWallets); ok {
		sig.Decision = d
		sig.Reason = reason
		return sig
	}

	// Priority 3: large stablecoin inflow to exchanges is dry powder.
	if th.StablecoinInflowUSD > 0 && ctx.StablecoinInflowUSD >= th.StablecoinInflowUSD {
		sig.Decision = Buy
		sig.Reason = fmt.Sprintf("Large stablecoin inflow to exchanges: $%.0f.", ctx.StablecoinInflowUSD)
		return sig
	}

	var buyScore, sellScore int
	var reasons []string

	// Vote 1: SMA trend.
	if md.CurrentPrice > *md.SMA {
		buyScore++
		reasons = append(reasons, fmt.Sprintf("price %.2f > SMA %.2f", md.CurrentPrice, *md.SMA))
	} else if md.CurrentPrice < *md.SMA {
		sellScore++
		reasons = append(reasons, fmt.Sprintf("price %.2f < SMA %.2f", md.CurrentPrice, *md.SMA))
	}

	// Vote 2: RSI momentum.
	if *md.RSI < th.RSIOversold {
		buyScore++
		reasons = append(reasons, fmt.Sprintf("RSI %.1f oversold", *md.RSI))
	} else if *md.RSI > th.RSIOverbought {
		sellScore++
		reasons = append(reasons, fmt.Sprintf("RSI %.1f overbought", *md.RSI))
	}

	// Vote 3: whale exchange flow. Outflow from exchanges is accumulation,
	// inflow is distribution.
	inflow, outflow := exchangeFlowUSD(ctx.WhaleTxs)
	if outflow > inflow {
		buyScore++
		reasons = append(reasons, fmt.Sprintf("whale outflow $%.0f from exchanges", outflow-inflow))
	} else if inflow > outflow {
		sellScore++
		reasons = append(reasons, fmt.Sprintf("whale inflow $%.0f to exchanges", inflow-outflow))
	}

	// Vote 4: news sentiment, preferring a confident LLM assessment.
	if v, reason, ok := sentimentVote(ctx.Sentiment, th); ok {
		if v == Buy {
			buyScore++
		} else {
			sellScore++
		}
		reasons = append(reasons, reason)
	}

	threshold := th.SignalThreshold
	if threshold <= 0 {
		threshold = 2
	}

	summary := "no indicators triggered"
	if len(reasons) > 0 {
		summary = strings.Join(reasons, "; ")
	}
	sig.Reason = fmt.Sprintf("%s. Buy score: %d, sell score: %d.", summary, buyScore, sellScore)

	switch {
	case buyScore >= threshold && buyScore > sellScore:
		sig.Decision = Buy
	case sellScore >= threshold && sellScore > buyScore:
		sig.Decision = Sell
	}
	return sig
}

func highInterestOverride(txs []market.WhaleTx, wallets []string) (Decision, string, bool) {
	if len(wallets) == 0 {
		return Hold, "", false
	}

	tracked := func(owner string) bool {
		for _, w := range wallets {
			if w != "" && strings.EqualFold(owner, w) {
				return true
			}
		}
		return false
	}

	for _, tx := range txs {
		switch {
		case tracked(tx.FromOwner) && tx.ToType == "exchange":
			reason := fmt.Sprintf("High-priority signal: %s sent $%.0f to an exchange.", tx.FromOwner, tx.AmountUSD)
			return Sell, reason, true
		case tracked(tx.ToOwner) && tx.FromType == "exchange":
			reason := fmt.Sprintf("High-priority signal: %s withdrew $%.0f from an exchange.", tx.ToOwner, tx.AmountUSD)
			return Buy, reason, true
		}
	}
	return Hold, "", false
}

func exchangeFlowUSD(txs []market.WhaleTx) (inflow, outflow float64) {
	for _, tx := range txs {
		toExchange := tx.ToType == "exchange"
		fromExchange := tx.FromType == "exchange"
		switch {
		case toExchange && !fromExchange:
			inflow += tx.AmountUSD
		case fromExchange && !toExchange:
			outflow += tx.AmountUSD
		}
	}
	return inflow, outflow
}

func sentimentVote(rec *market.SentimentRecord, th Thresholds) (Decision, string, bool) {
	if rec == nil {
		return Hold, "", false
	}

	if rec.Confidence >= th.MinSentimentConfidence {
		switch rec.Direction {
		case "bullish":
			return Buy, fmt.Sprintf("news bullish (confidence %.2f)", rec.Confidence), true
		case "bearish":
			return Sell, fmt.Sprintf("news bearish (confidence %.2f)", rec.Confidence), true
		}
	}

	if rec.Score > th.SentimentBuyScore {
		return Buy, fmt.Sprintf("news sentiment %.3f bullish", rec.Score), true
	}
	if rec.Score < th.SentimentSellScore {
		return Sell, fmt.Sprintf("news sentiment %.3f bearish", rec.Score), true
	}
	return Hold, "", false
}
