package market

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHistoryDB(t *testing.T, withSentiment bool) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "history.sqlite")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE market_prices (symbol TEXT, price REAL, timestamp DATETIME);
		CREATE TABLE whale_transactions (
			symbol TEXT, timestamp INTEGER, amount_usd REAL,
			from_owner TEXT, from_owner_type TEXT, to_owner TEXT, to_owner_type TEXT
		);`)
	require.NoError(t, err)

	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err = db.Exec(`INSERT INTO market_prices VALUES (?, ?, ?)`,
			"bitcoin", 50_000+float64(i)*100, t0.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}
	_, err = db.Exec(`INSERT INTO whale_transactions VALUES (?, ?, ?, NULL, 'exchange', 'fund', NULL)`,
		"btc", t0.Add(30*time.Minute).Unix(), 12_000_000.0)
	require.NoError(t, err)

	if withSentiment {
		_, err = db.Exec(`
			CREATE TABLE news_sentiment (
				timestamp DATETIME, symbol TEXT, avg_sentiment_score REAL,
				llm_direction TEXT, llm_confidence REAL
			);`)
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO news_sentiment VALUES (?, 'bitcoin', 0.25, 'bullish', 0.8)`,
			t0.Add(time.Hour))
		require.NoError(t, err)
	}

	return path
}

func TestLoadSQLite(t *testing.T) {
	ds, err := LoadSQLite(writeHistoryDB(t, true))
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"bitcoin"}, ds.Symbols)

	p, ok := ds.Price("bitcoin", 2)
	assert.True(t, ok)
	assert.InDelta(t, 50_200.0, p, 1e-9)

	// NULL owner columns coalesce to empty strings.
	require.Len(t, ds.Whales, 1)
	assert.Equal(t, "exchange", ds.Whales[0].FromType)
	assert.Empty(t, ds.Whales[0].FromOwner)
	assert.InDelta(t, 12_000_000.0, ds.Whales[0].AmountUSD, 1e-9)

	rec, ok := ds.SentimentAt("bitcoin", ds.Times[2])
	assert.True(t, ok)
	assert.Equal(t, "bullish", rec.Direction)
	assert.InDelta(t, 0.8, rec.Confidence, 1e-9)
}

func TestLoadSQLiteWithoutSentimentTable(t *testing.T) {
	ds, err := LoadSQLite(writeHistoryDB(t, false))
	require.NoError(t, err)
	assert.Empty(t, ds.Sentiment)
	assert.Equal(t, 3, ds.Len())
}
