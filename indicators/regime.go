package indicators

import "math"

// ATRFromCloses estimates Average True Range from close prices only, using
// absolute close-to-close changes as the true range. Used when the feed has
// no highs/lows (aggregated crypto hourly data).
func ATRFromCloses(prices []float64, period int) (float64, error) {
	if period <= 0 || len(prices) < period+1 {
		return 0, ErrInsufficientData
	}

	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += math.Abs(prices[i] - prices[i-1])
	}
	return sum / float64(period), nil
}

// ADXFromCloses estimates the Average Directional Index from closes only,
// using signed close-to-close changes as directional movement. Needs
// 2*period+1 closes: one period for the DI averages and another for the DX
// average.
func ADXFromCloses(prices []float64, period int) (float64, error) {
	if period <= 0 || len(prices) < 2*period+1 {
		return 0, ErrInsufficientData
	}

	n := len(prices) - 1
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	tr := make([]float64, n)
	for i := 0; i < n; i++ {
		d := prices[i+1] - prices[i]
		if d > 0 {
			plusDM[i] = d
		} else {
			minusDM[i] = -d
		}
		tr[i] = math.Abs(d)
	}

	rollMean := func(s []float64, end int) float64 {
		sum := 0.0
		for i := end - period + 1; i <= end; i++ {
			sum += s[i]
		}
		return sum / float64(period)
	}

	// dx[i] is defined once the DI rolling windows are full.
	var dxSum float64
	dxCount := 0
	for i := n - period; i < n; i++ {
		atr := rollMean(tr, i)
		if atr == 0 {
			continue
		}
		plusDI := 100 * rollMean(plusDM, i) / atr
		minusDI := 100 * rollMean(minusDM, i) / atr
		if plusDI+minusDI == 0 {
			continue
		}
		dxSum += 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
		dxCount++
	}

	if dxCount == 0 {
		return 0, ErrInsufficientData
	}
	return dxSum / float64(dxCount), nil
}

// Regime classifies the current market character.
type Regime string

const (
	RegimeTrending Regime = "trending"
	RegimeRanging  Regime = "ranging"
	RegimeVolatile Regime = "volatile"
)

// RegimeParams are the per-regime strategy adjustments applied by the
// backtest driver.
type RegimeParams struct {
	StopLossMultiplier   float64
	TakeProfitMultiplier float64
	SignalThreshold      int
	RiskMultiplier       float64
}

// RegimeResult is the output of DetectRegime.
type RegimeResult struct {
	Regime Regime
	ADX    float64
	ATR    float64
	ATRPct float64 // ATR as a percent of the last close
	Params RegimeParams
}

// DetectRegime classifies the market as trending (ADX >= 25), volatile
// (ATR > 3% of price) or ranging, and returns the recommended parameter
// adjustments for that regime. With too little history it falls back to
// ranging with neutral-ish parameters.
func DetectRegime(prices []float64, atrPeriod, adxPeriod int) RegimeResult {
	res := RegimeResult{Regime: RegimeRanging}

	adx, adxErr := ADXFromCloses(prices, adxPeriod)
	atr, atrErr := ATRFromCloses(prices, atrPeriod)

	if adxErr == nil {
		res.ADX = adx
	}
	if atrErr == nil {
		res.ATR = atr
		if last := prices[len(prices)-1]; last > 0 {
			res.ATRPct = atr / last * 100
		}
	}

	switch {
	case adxErr == nil && adx >= 25:
		res.Regime = RegimeTrending
		res.Params = RegimeParams{
			StopLossMultiplier:   1.5,
			TakeProfitMultiplier: 1.5,
			SignalThreshold:      2,
			RiskMultiplier:       1.2,
		}
	case atrErr == nil && res.ATRPct > 3.0:
		res.Regime = RegimeVolatile
		res.Params = RegimeParams{
			StopLossMultiplier:   0.8,
			TakeProfitMultiplier: 0.8,
			SignalThreshold:      3,
			RiskMultiplier:       0.5,
		}
	default:
		res.Regime = RegimeRanging
		res.Params = RegimeParams{
			StopLossMultiplier:   0.7,
			TakeProfitMultiplier: 0.7,
			SignalThreshold:      2,
			RiskMultiplier:       0.8,
		}
	}

	return res
}
