package market

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// LoadSQLite reads the collected history tables (market_prices,
// whale_transactions and, when present, news_sentiment) from a SQLite
// database and merges them into a Dataset.
func LoadSQLite(path string) (*Dataset, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	defer db.Close()

	bars, err := loadBars(db)
	if err != nil {
		return nil, err
	}

	whales, err := loadWhales(db)
	if err != nil {
		return nil, err
	}

	sentiment, err := loadSentiment(db)
	if err != nil {
		return nil, err
	}

	ds := NewDataset(bars)
	ds.SetWhales(whales)
	ds.SetSentiment(sentiment)

	log.Info().
		Int("bars", len(bars)).
		Int("whale_txs", len(whales)).
		Int("sentiment", len(sentiment)).
		Int("symbols", len(ds.Symbols)).
		Msg("loaded historical dataset")

	return ds, nil
}

func loadBars(db *sql.DB) ([]Bar, error) {
	rows, err := db.Query(`
		SELECT symbol, price, timestamp
		FROM market_prices
		ORDER BY timestamp ASC`)
	if err != nil {
		return nil, fmt.Errorf("query market_prices: %w", err)
	}
	defer rows.Close()

	var bars []Bar
	for rows.Next() {
		var b Bar
		if err := rows.Scan(&b.Symbol, &b.Close, &b.Time); err != nil {
			return nil, fmt.Errorf("scan market_prices: %w", err)
		}
		b.Time = b.Time.UTC()
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

func loadWhales(db *sql.DB) ([]WhaleTx, error) {
	rows, err := db.Query(`
		SELECT symbol, timestamp, amount_usd,
		       COALESCE(from_owner, ''), COALESCE(from_owner_type, ''),
		       COALESCE(to_owner, ''), COALESCE(to_owner_type, '')
		FROM whale_transactions
		ORDER BY timestamp ASC`)
	if err != nil {
		return nil, fmt.Errorf("query whale_transactions: %w", err)
	}
	defer rows.Close()

	var txs []WhaleTx
	for rows.Next() {
		var tx WhaleTx
		var unix int64 // whale feed stores epoch seconds
		if err := rows.Scan(&tx.Symbol, &unix, &tx.AmountUSD,
			&tx.FromOwner, &tx.FromType, &tx.ToOwner, &tx.ToType); err != nil {
			return nil, fmt.Errorf("scan whale_transactions: %w", err)
		}
		tx.Time = time.Unix(unix, 0).UTC()
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func loadSentiment(db *sql.DB) ([]SentimentRecord, error) {
	// Sentiment collection is optional; a missing table is not an error.
	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='news_sentiment'`).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("check news_sentiment: %w", err)
	}

	rows, err := db.Query(`
		SELECT timestamp, symbol, avg_sentiment_score,
		       COALESCE(llm_direction, 'neutral'), COALESCE(llm_confidence, 0)
		FROM news_sentiment
		ORDER BY timestamp ASC`)
	if err != nil {
		return nil, fmt.Errorf("query news_sentiment: %w", err)
	}
	defer rows.Close()

	var recs []SentimentRecord
	for rows.Next() {
		var r SentimentRecord
		if err := rows.Scan(&r.Time, &r.Symbol, &r.Score, &r.Direction, &r.Confidence); err != nil {
			return nil, fmt.Errorf("scan news_sentiment: %w", err)
		}
		r.Time = r.Time.UTC()
		recs = append(recs, r)
	}
	return recs, rows.Err()
}
