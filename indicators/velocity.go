package indicators

// Velocity summarizes on-chain transaction frequency against a historical
// baseline. A burst of whale transfers well above the baseline hourly rate is
// flagged as an anomaly.
type Velocity struct {
	CurrentCount int
	BaselineAvg  float64 // transactions per hour over the baseline window
	IsAnomaly    bool
}

// TransactionVelocity compares the last hour's transaction count for a symbol
// against the average hourly rate over baselineHours. The anomaly flag only
// fires when a meaningful baseline exists.
func TransactionVelocity(currentCount, baselineCount int, baselineHours, thresholdMultiplier float64) Velocity {
	v := Velocity{CurrentCount: currentCount}

	if baselineHours > 0 {
		v.BaselineAvg = float64(baselineCount) / baselineHours
	}
	if v.BaselineAvg > 0 && float64(currentCount) > v.BaselineAvg*thresholdMultiplier {
		v.IsAnomaly = true
	}
	return v
}
