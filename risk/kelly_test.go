package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func stats(wins, losses int, winPnL, lossPnL float64) TradeStats {
	var s TradeStats
	for i := 0; i < wins; i++ {
		s.Record(winPnL)
	}
	for i := 0; i < losses; i++ {
		s.Record(-lossPnL)
	}
	return s
}

func TestHalfKellyNeedsMinimumTrades(t *testing.T) {
	s := stats(5, 4, 100, 50)
	_, ok := s.HalfKelly()
	assert.False(t, ok)

	// The tenth trade activates sizing.
	s.Record(-50)
	frac, ok := s.HalfKelly()
	assert.True(t, ok)
	assert.Greater(t, frac, 0.0)
}

func TestHalfKellyValue(t *testing.T) {
	// W=0.6, avgWin/avgLoss=2: kelly = 0.6 - 0.4/2 = 0.4, halved to 0.2
	s := stats(6, 4, 100, 50)
	frac, ok := s.HalfKelly()
	assert.True(t, ok)
	assert.InDelta(t, 0.2, frac, 1e-9)
}

func TestHalfKellyCapped(t *testing.T) {
	// W=0.9 with a 20:1 payoff wants far more than the cap allows.
	s := stats(9, 1, 200, 10)
	frac, ok := s.HalfKelly()
	assert.True(t, ok)
	assert.InDelta(t, 0.25, frac, 1e-9)
}

func TestHalfKellyDegenerateHistories(t *testing.T) {
	allWins := stats(10, 0, 100, 0)
	_, ok := allWins.HalfKelly()
	assert.False(t, ok, "no loss history")

	allLosses := stats(0, 10, 0, 50)
	_, ok = allLosses.HalfKelly()
	assert.False(t, ok, "no wins")

	// Negative edge: kelly goes non-positive.
	badEdge := stats(2, 8, 10, 100)
	_, ok = badEdge.HalfKelly()
	assert.False(t, ok)
}
