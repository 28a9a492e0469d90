package util

import (
	"compstats.gg/backend/internal/constant"
	"compstats.gg/backend/internal/model"
)

// StatsAccumulator carries the weighted running sums behind a StatBlock.
// One accumulator lives per grouping key for the duration of a single
// aggregation pass and is converted to the immutable output shape at the end.
type StatsAccumulator struct {
	Count        float64
	PlacementSum float64

	// WinSum and Top4Sum are fractional: weight on a win, 0 otherwise.
	WinSum  float64
	Top4Sum float64
}

// Observe records one placement occurrence with the given weight.
func (a *StatsAccumulator) Observe(placement int, weight float64) {
	a.Count += weight
	a.PlacementSum += float64(placement) * weight
	if placement <= constant.WinPlacement {
		a.WinSum += weight
	}
	if placement <= constant.Top4Placement {
		a.Top4Sum += weight
	}
}

// Combine folds another accumulator into this one.
func (a *StatsAccumulator) Combine(b *StatsAccumulator) {
	a.Count += b.Count
	a.PlacementSum += b.PlacementSum
	a.WinSum += b.WinSum
	a.Top4Sum += b.Top4Sum
}

// WinRate is the derived win percentage, clamped to [0,100].
func (a *StatsAccumulator) WinRate() float64 {
	if a.Count <= 0 {
		return 0
	}
	return ClampFloat64(a.WinSum/a.Count*100, 0, 100)
}

// ToStatBlock derives the rates. totalGames scopes the play rate; rates are
// clamped so malformed upstream weights can never leak out-of-range values.
func (a *StatsAccumulator) ToStatBlock(totalGames float64) model.StatBlock {
	if a.Count <= 0 {
		return model.StatBlock{}
	}
	playRate := 0.0
	if totalGames > 0 {
		playRate = ClampFloat64(a.Count/totalGames*100, 0, 100)
	}
	return model.StatBlock{
		Count:        a.Count,
		AvgPlacement: ClampFloat64(a.PlacementSum/a.Count, constant.MinPlacement, constant.MaxPlacement),
		WinRate:      a.WinRate(),
		Top4Rate:     ClampFloat64(a.Top4Sum/a.Count*100, 0, 100),
		PlayRate:     playRate,
	}
}
