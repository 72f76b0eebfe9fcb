// Package indicators provides technical analysis indicators for trading.
// All functions are pure: they operate on an ordered slice of closes (oldest
// first) and return ErrInsufficientData instead of a value when the series is
// shorter than the indicator's warm-up requirement.
package indicators

import (
	"errors"
	"math"
)

// ErrInsufficientData is returned when a series is too short for the
// requested period. Callers treat it as "no value yet", not as a failure.
var ErrInsufficientData = errors.New("indicators: insufficient data")

// SMA returns the simple moving average of the last period closes.
func SMA(prices []float64, period int) (float64, error) {
	if period <= 0 || len(prices) < period {
		return 0, ErrInsufficientData
	}

	sum := 0.0
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period), nil
}

// EMA returns the exponential moving average over the full series with
// smoothing 2/(period+1), seeded from the first value.
func EMA(prices []float64, period int) (float64, error) {
	s, err := emaSeries(prices, period)
	if err != nil {
		return 0, err
	}
	return s[len(s)-1], nil
}

func emaSeries(prices []float64, period int) ([]float64, error) {
	if period <= 0 || len(prices) == 0 {
		return nil, ErrInsufficientData
	}

	k := 2.0 / float64(period+1)
	out := make([]float64, len(prices))
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = prices[i]*k + out[i-1]*(1-k)
	}
	return out, nil
}

// RSI returns the Relative Strength Index over the last period price changes.
// A window with no losses returns 100 (strong uptrend).
func RSI(prices []float64, period int) (float64, error) {
	if period <= 0 || len(prices) < period+1 {
		return 0, ErrInsufficientData
	}

	var gain, loss float64
	for i := len(prices) - period; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}

	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	if avgLoss == 0 {
		return 100.0, nil
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}

// MACDResult holds the MACD line, its signal line, and the histogram
// (line minus signal).
type MACDResult struct {
	Line      float64
	Signal    float64
	Histogram float64
}

// MACD computes Moving Average Convergence Divergence from full-series EMAs.
func MACD(prices []float64, fast, slow, signalPeriod int) (MACDResult, error) {
	if len(prices) < slow {
		return MACDResult{}, ErrInsufficientData
	}

	fastEMA, err := emaSeries(prices, fast)
	if err != nil {
		return MACDResult{}, err
	}
	slowEMA, err := emaSeries(prices, slow)
	if err != nil {
		return MACDResult{}, err
	}

	line := make([]float64, len(prices))
	for i := range prices {
		line[i] = fastEMA[i] - slowEMA[i]
	}

	signal, err := emaSeries(line, signalPeriod)
	if err != nil {
		return MACDResult{}, err
	}

	last := len(prices) - 1
	return MACDResult{
		Line:      line[last],
		Signal:    signal[last],
		Histogram: line[last] - signal[last],
	}, nil
}

// Bands holds Bollinger Band levels.
type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// Bollinger computes Bollinger Bands: an SMA middle band with upper/lower
// bands stdDev sample standard deviations away.
func Bollinger(prices []float64, period int, stdDev float64) (Bands, error) {
	mid, err := SMA(prices, period)
	if err != nil {
		return Bands{}, err
	}
	if period < 2 {
		return Bands{}, ErrInsufficientData
	}

	window := prices[len(prices)-period:]
	var ss float64
	for _, p := range window {
		d := p - mid
		ss += d * d
	}
	sd := math.Sqrt(ss / float64(period-1))

	return Bands{
		Upper:  mid + sd*stdDev,
		Middle: mid,
		Lower:  mid - sd*stdDev,
	}, nil
}
