package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionVelocityAnomaly(t *testing.T) {
	// 24 txs over 24h => 1/hr baseline; 12 in the last hour is 12x.
	v := TransactionVelocity(12, 24, 24, 5)
	assert.True(t, v.IsAnomaly)
	assert.Equal(t, 12, v.CurrentCount)
	assert.InDelta(t, 1.0, v.BaselineAvg, 1e-9)
}

func TestTransactionVelocityNormal(t *testing.T) {
	v := TransactionVelocity(2, 24, 24, 5)
	assert.False(t, v.IsAnomaly)
}

func TestTransactionVelocityNoBaseline(t *testing.T) {
	// A burst with no history is not an anomaly; there is nothing to compare
	// against.
	v := TransactionVelocity(50, 0, 24, 5)
	assert.False(t, v.IsAnomaly)
	assert.Zero(t, v.BaselineAvg)
}
