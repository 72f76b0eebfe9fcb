package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/chaintrader/indicators"
	"github.com/rustyeddy/chaintrader/market"
)

func fp(v float64) *float64 { return &v }

func marketData(price, sma, rsi float64) MarketData {
	return MarketData{CurrentPrice: price, SMA: fp(sma), RSI: fp(rsi)}
}

func TestScoreStrongBuy(t *testing.T) {
	// Price above SMA and oversold RSI: two buy votes meet the threshold.
	sig := Score("bitcoin", marketData(105, 100, 25), Context{}, DefaultThresholds())

	assert.Equal(t, Buy, sig.Decision)
	assert.Equal(t, "bitcoin", sig.Symbol)
	assert.Equal(t, 105.0, sig.Price)
}

func TestScoreStrongSell(t *testing.T) {
	sig := Score("bitcoin", marketData(95, 100, 75), Context{}, DefaultThresholds())
	assert.Equal(t, Sell, sig.Decision)
}

func TestScoreInsufficientVotes(t *testing.T) {
	// One buy vote (trend) with neutral RSI stays below the threshold.
	sig := Score("bitcoin", marketData(105, 100, 50), Context{}, DefaultThresholds())
	assert.Equal(t, Hold, sig.Decision)
}

func TestScoreTieIsHold(t *testing.T) {
	// Trend and sentiment vote buy; RSI and whale inflow vote sell. Two votes
	// each side clears the threshold but not the strict majority.
	ctx := Context{
		WhaleTxs: []market.WhaleTx{
			{Symbol: "bitcoin", AmountUSD: 5_000_000, ToType: "exchange"},
		},
		Sentiment: &market.SentimentRecord{Score: 0.5, Confidence: 0.9, Direction: "bullish"},
	}

	sig := Score("bitcoin", marketData(105, 100, 75), ctx, DefaultThresholds())
	assert.Equal(t, Hold, sig.Decision)
}

func TestScoreMissingPrice(t *testing.T) {
	sig := Score("bitcoin", MarketData{}, Context{}, DefaultThresholds())
	assert.Equal(t, Hold, sig.Decision)
	assert.Equal(t, "Missing current price data.", sig.Reason)
}

func TestScoreMissingIndicators(t *testing.T) {
	sig := Score("bitcoin", MarketData{CurrentPrice: 100}, Context{}, DefaultThresholds())
	assert.Equal(t, Hold, sig.Decision)
	assert.Contains(t, sig.Reason, "SMA/RSI not ready")
}

func TestScoreVelocityAnomalyWins(t *testing.T) {
	// The anomaly fires before everything else, even a would-be strong buy
	// with a tracked-wallet withdrawal in the window.
	ctx := Context{
		Velocity:            indicators.Velocity{CurrentCount: 40, BaselineAvg: 2, IsAnomaly: true},
		HighInterestWallets: []string{"big-fund"},
		WhaleTxs: []market.WhaleTx{
			{Symbol: "bitcoin", AmountUSD: 10_000_000, FromType: "exchange", ToOwner: "big-fund"},
		},
	}

	sig := Score("bitcoin", marketData(105, 100, 25), ctx, DefaultThresholds())
	assert.Equal(t, VolatilityWarning, sig.Decision)
	assert.Contains(t, sig.Reason, "velocity anomaly")
}

func TestScoreHighInterestWalletSell(t *testing.T) {
	ctx := Context{
		HighInterestWallets: []string{"Big-Fund"},
		WhaleTxs: []market.WhaleTx{
			{Symbol: "bitcoin", AmountUSD: 25_000_000, FromOwner: "big-fund", ToType: "exchange"},
		},
	}

	// Overrides the otherwise bullish technicals; wallet match is
	// case-insensitive.
	sig := Score("bitcoin", marketData(105, 100, 25), ctx, DefaultThresholds())
	assert.Equal(t, Sell, sig.Decision)
	assert.Contains(t, sig.Reason, "High-priority signal")
}

func TestScoreHighInterestWalletBuy(t *testing.T) {
	ctx := Context{
		HighInterestWallets: []string{"big-fund"},
		WhaleTxs: []market.WhaleTx{
			{Symbol: "bitcoin", AmountUSD: 25_000_000, FromType: "exchange", ToOwner: "big-fund"},
		},
	}

	sig := Score("bitcoin", marketData(95, 100, 75), ctx, DefaultThresholds())
	assert.Equal(t, Buy, sig.Decision)
}

func TestScoreStablecoinInflow(t *testing.T) {
	ctx := Context{StablecoinInflowUSD: 150_000_000}

	sig := Score("bitcoin", marketData(95, 100, 75), ctx, DefaultThresholds())
	assert.Equal(t, Buy, sig.Decision)
	assert.Contains(t, sig.Reason, "stablecoin inflow")
}

func TestScoreWhaleOutflowVote(t *testing.T) {
	// Net outflow from exchanges counts as accumulation: one whale vote plus
	// the trend vote reaches the threshold.
	ctx := Context{
		WhaleTxs: []market.WhaleTx{
			{Symbol: "bitcoin", AmountUSD: 8_000_000, FromType: "exchange"},
			{Symbol: "bitcoin", AmountUSD: 2_000_000, ToType: "exchange"},
		},
	}

	sig := Score("bitcoin", marketData(105, 100, 50), ctx, DefaultThresholds())
	assert.Equal(t, Buy, sig.Decision)
}

func TestScoreSentimentConfidentAssessment(t *testing.T) {
	ctx := Context{
		Sentiment: &market.SentimentRecord{Score: -0.05, Confidence: 0.8, Direction: "bullish"},
	}

	// The confident assessment outranks the slightly negative compound score.
	sig := Score("bitcoin", marketData(105, 100, 50), ctx, DefaultThresholds())
	assert.Equal(t, Buy, sig.Decision)
}

func TestScoreSentimentFallbackToScore(t *testing.T) {
	ctx := Context{
		Sentiment: &market.SentimentRecord{Score: -0.4, Confidence: 0.3, Direction: "bullish"},
	}

	sig := Score("bitcoin", marketData(95, 100, 50), ctx, DefaultThresholds())
	assert.Equal(t, Sell, sig.Decision)
	assert.Contains(t, sig.Reason, "-0.400")
}
