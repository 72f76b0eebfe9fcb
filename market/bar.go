// Package market holds the historical data model consumed by the backtester:
// price bars, whale transactions, news sentiment and the merged Dataset.
package market

import "time"

// Bar is a single close-price observation for one symbol at one timestamp.
// Volume is zero when the source has no volume data (common for aggregated
// crypto price feeds).
type Bar struct {
	Symbol string
	Time   time.Time
	Close  float64
	Volume float64
}

// WhaleTx is one large on-chain transfer as reported by the whale feed.
// Owner types follow the feed's vocabulary: "exchange", "wallet",
// "institution", or empty when unknown.
type WhaleTx struct {
	Time      time.Time
	Symbol    string // lower-case asset symbol, e.g. "btc"
	AmountUSD float64
	FromOwner string
	FromType  string
	ToOwner   string
	ToType    string
}

// SentimentRecord is an aggregated news-sentiment observation for a symbol.
// Score is a compound score in [-1, 1]. Direction and Confidence come from the
// LLM assessment when one exists; Direction is "bullish", "bearish" or
// "neutral".
type SentimentRecord struct {
	Time       time.Time
	Symbol     string
	Score      float64
	Confidence float64
	Direction  string
}
