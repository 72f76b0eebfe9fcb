package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkForwardFoldLayout(t *testing.T) {
	ds := flatDataset("bitcoin", 120, 50_000)

	res, err := WalkForward(ds, DefaultParams(), 3)
	require.NoError(t, err)
	require.Len(t, res.Folds, 3)

	// foldSize = 120/4 = 30, trainSize = 45: test windows start where each
	// fold's training window ends.
	assert.Equal(t, hourly(45), res.Folds[0].Start)
	assert.Equal(t, hourly(74), res.Folds[0].End)
	assert.Equal(t, hourly(75), res.Folds[1].Start)
	// The last fold's training window is clipped so its test window still
	// gets a full fold of bars.
	assert.Equal(t, hourly(90), res.Folds[2].Start)
	assert.Equal(t, hourly(119), res.Folds[2].End)

	for i, f := range res.Folds {
		assert.Equal(t, i+1, f.Fold)
		assert.Zero(t, f.Metrics.TotalTrades)
	}
}

func TestWalkForwardAggregates(t *testing.T) {
	ds := flatDataset("bitcoin", 120, 50_000)

	res, err := WalkForward(ds, DefaultParams(), 3)
	require.NoError(t, err)

	assert.Zero(t, res.TotalTrades)
	assert.Zero(t, res.AvgReturnPct)
	assert.Zero(t, res.ConsistencyPct) // no fold made money
	assert.Nil(t, res.AvgSharpe)
	assert.Zero(t, res.AvgWinRate)
}

func TestWalkForwardRejectsInvalidParams(t *testing.T) {
	p := DefaultParams()
	p.TakeProfitPct = 0

	_, err := WalkForward(flatDataset("bitcoin", 120, 50_000), p, 3)
	assert.Error(t, err)
}
