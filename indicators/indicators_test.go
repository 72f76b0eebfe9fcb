package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMA(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	sma, err := SMA(prices, 4)
	assert.NoError(t, err)
	// Last 4 closes: 7,8,9,10 => 34/4 = 8.5
	assert.InDelta(t, 8.5, sma, 1e-9)
}

func TestSMAInsufficientData(t *testing.T) {
	_, err := SMA([]float64{1, 2}, 3)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = SMA(nil, 1)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestEMASeededFromFirstValue(t *testing.T) {
	// period 3 => k = 0.5: 1, 1.5, 2.25
	ema, err := EMA([]float64{1, 2, 3}, 3)
	assert.NoError(t, err)
	assert.InDelta(t, 2.25, ema, 1e-9)
}

func TestRSI(t *testing.T) {
	// Deltas over the window: +1, -1, +2, -1 => avgGain 0.75, avgLoss 0.5
	// RS = 1.5, RSI = 100 - 100/2.5 = 60
	rsi, err := RSI([]float64{10, 11, 10, 12, 11}, 4)
	assert.NoError(t, err)
	assert.InDelta(t, 60.0, rsi, 1e-9)
}

func TestRSIAllGains(t *testing.T) {
	rsi, err := RSI([]float64{1, 2, 3, 4}, 3)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, rsi)
}

func TestRSIInsufficientData(t *testing.T) {
	// Needs period+1 closes.
	_, err := RSI([]float64{1, 2, 3}, 3)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestMACD(t *testing.T) {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	res, err := MACD(prices, 12, 26, 9)
	assert.NoError(t, err)
	// In a steady uptrend the fast EMA leads the slow one.
	assert.Greater(t, res.Line, 0.0)
	assert.InDelta(t, res.Line-res.Signal, res.Histogram, 1e-9)

	_, err = MACD(prices[:10], 12, 26, 9)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestBollinger(t *testing.T) {
	// mid = 5, sample stdev = sqrt(20/3)
	bands, err := Bollinger([]float64{2, 4, 6, 8}, 4, 2)
	assert.NoError(t, err)
	assert.InDelta(t, 5.0, bands.Middle, 1e-9)
	assert.InDelta(t, 5.0+2*2.581988897, bands.Upper, 1e-6)
	assert.InDelta(t, 5.0-2*2.581988897, bands.Lower, 1e-6)
}
