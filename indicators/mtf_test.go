package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// cyclic builds a series by repeating a delta pattern from a starting price.
func cyclic(start float64, deltas []float64, cycles int) []float64 {
	out := []float64{start}
	v := start
	for c := 0; c < cycles; c++ {
		for _, d := range deltas {
			v += d
			out = append(out, v)
		}
	}
	return out
}

func TestMTFBullishAgreement(t *testing.T) {
	// Two-steps-back, three-steps-forward keeps RSI neutral while price ends
	// above its SMA, so every view votes on trend alone.
	prices := cyclic(100, []float64{-1, -1, 1, 1, 1}, 8)

	res := MultiTimeframeConfirmation(prices, 5, 5)
	assert.Equal(t, Bullish, res.Direction)
	assert.Equal(t, 3, res.AgreementCount)
}

func TestMTFBearishAgreement(t *testing.T) {
	prices := cyclic(100, []float64{1, 1, -1, -1, -1}, 8)

	res := MultiTimeframeConfirmation(prices, 5, 5)
	assert.Equal(t, Bearish, res.Direction)
	assert.Equal(t, 3, res.AgreementCount)
}

func TestMTFShortHistoryIsMixed(t *testing.T) {
	res := MultiTimeframeConfirmation([]float64{100, 101, 102}, 5, 5)
	assert.Equal(t, Mixed, res.Direction)
	assert.Zero(t, res.AgreementCount)
}

func TestMTFTrendVsMomentumConflictIsMixed(t *testing.T) {
	// A relentless climb puts price above its SMA but pins RSI at 100, so the
	// trend and momentum votes cancel in every view.
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	res := MultiTimeframeConfirmation(prices, 5, 5)
	assert.Equal(t, Mixed, res.Direction)
}
