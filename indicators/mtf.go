package indicators

// Direction is a trend reading agreed (or not) across timeframes.
type Direction string

const (
	Bullish Direction = "bullish"
	Bearish Direction = "bearish"
	Mixed   Direction = "mixed"
)

// MTFResult reports trend agreement across short/medium/long views of the
// same series.
type MTFResult struct {
	Direction      Direction
	AgreementCount int // 0-3: how many timeframes agree with Direction
}

// MultiTimeframeConfirmation evaluates trend agreement across three views of
// the price history: the last quarter, the last half, and the full series.
// Each view votes bullish or bearish from its SMA position and RSI; two or
// more agreeing views confirm a direction, anything else is mixed.
func MultiTimeframeConfirmation(prices []float64, smaPeriod, rsiPeriod int) MTFResult {
	minLen := smaPeriod
	if rsiPeriod > minLen {
		minLen = rsiPeriod
	}
	if len(prices) < minLen+1 {
		return MTFResult{Direction: Mixed}
	}

	n := len(prices)
	views := [][]float64{
		prices[n-n/4:],
		prices[n-n/2:],
		prices,
	}

	bullish, bearish := 0, 0
	for _, view := range views {
		if len(view) < minLen+1 {
			continue
		}

		current := view[len(view)-1]
		var up, down int

		smaP := smaPeriod
		if len(view) < smaP {
			smaP = len(view)
		}
		if sma, err := SMA(view, smaP); err == nil {
			if current > sma {
				up++
			} else {
				down++
			}
		}

		rsiP := rsiPeriod
		if len(view)-1 < rsiP {
			rsiP = len(view) - 1
		}
		if rsi, err := RSI(view, rsiP); err == nil {
			if rsi < 40 {
				up++ // oversold favors longs
			} else if rsi > 60 {
				down++
			}
		}

		if up > down {
			bullish++
		} else if down > up {
			bearish++
		}
	}

	switch {
	case bullish >= 2:
		return MTFResult{Direction: Bullish, AgreementCount: bullish}
	case bearish >= 2:
		return MTFResult{Direction: Bearish, AgreementCount: bearish}
	default:
		agree := bullish
		if bearish > agree {
			agree = bearish
		}
		return MTFResult{Direction: Mixed, AgreementCount: agree}
	}
}
