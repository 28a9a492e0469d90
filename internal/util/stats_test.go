package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsAccumulatorObserve(t *testing.T) {
	var acc StatsAccumulator
	acc.Observe(1, 1)
	acc.Observe(3, 1)
	acc.Observe(5, 1)

	block := acc.ToStatBlock(3)
	assert.Equal(t, 3.0, block.Count)
	assert.InDelta(t, 3.0, block.AvgPlacement, 1e-9)
	assert.InDelta(t, 100.0/3.0, block.WinRate, 1e-9)
	assert.InDelta(t, 200.0/3.0, block.Top4Rate, 1e-9)
	assert.InDelta(t, 100.0, block.PlayRate, 1e-9)
}

func TestStatsAccumulatorWeighted(t *testing.T) {
	var acc StatsAccumulator
	acc.Observe(1, 3)
	acc.Observe(8, 1)

	block := acc.ToStatBlock(8)
	assert.Equal(t, 4.0, block.Count)
	assert.InDelta(t, 11.0/4.0, block.AvgPlacement, 1e-9)
	assert.InDelta(t, 75.0, block.WinRate, 1e-9)
	assert.InDelta(t, 50.0, block.PlayRate, 1e-9)
}

func TestStatsAccumulatorCombine(t *testing.T) {
	var a, b StatsAccumulator
	a.Observe(1, 1)
	a.Observe(4, 1)
	b.Observe(2, 2)

	a.Combine(&b)
	require.Equal(t, 4.0, a.Count)
	assert.InDelta(t, 9.0/4.0, a.PlacementSum/a.Count, 1e-9)
}

func TestStatsAccumulatorClamps(t *testing.T) {
	// malformed sums must never leak out-of-range rates
	acc := StatsAccumulator{
		Count:        2,
		PlacementSum: 100,
		WinSum:       5,
		Top4Sum:      -3,
	}

	block := acc.ToStatBlock(1)
	assert.Equal(t, 8.0, block.AvgPlacement)
	assert.Equal(t, 100.0, block.WinRate)
	assert.Equal(t, 0.0, block.Top4Rate)
	assert.Equal(t, 100.0, block.PlayRate)
}

func TestStatsAccumulatorEmpty(t *testing.T) {
	var acc StatsAccumulator
	assert.Equal(t, 0.0, acc.WinRate())
	assert.Zero(t, acc.ToStatBlock(100))
}

func TestClampFloat64(t *testing.T) {
	assert.Equal(t, 1.0, ClampFloat64(0.5, 1, 8))
	assert.Equal(t, 8.0, ClampFloat64(9.2, 1, 8))
	assert.Equal(t, 4.5, ClampFloat64(4.5, 1, 8))
}
