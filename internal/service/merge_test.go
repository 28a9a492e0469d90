package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compstats.gg/backend/internal/model"
	"compstats.gg/backend/internal/util"
)

// regionResult builds a one-region result out of placement observations so
// merge inputs carry internally consistent rates.
func regionResult(region string, compPlacements map[string][]int) *model.AggregateResult {
	result := &model.AggregateResult{Region: region}

	var overall util.StatsAccumulator
	for _, placements := range compPlacements {
		for _, p := range placements {
			overall.Observe(p, 1)
			result.Summary.TotalGames++
		}
	}
	if overall.Count > 0 {
		result.Summary.AvgPlacement = overall.PlacementSum / overall.Count
	}

	for id, placements := range compPlacements {
		var acc util.StatsAccumulator
		buckets := make([]float64, 8)
		for _, p := range placements {
			acc.Observe(p, 1)
			buckets[p-1]++
		}
		result.Compositions = append(result.Compositions, &model.CompositionAggregate{
			ID:               id,
			Name:             id,
			StatBlock:        acc.ToStatBlock(result.Summary.TotalGames),
			Traits:           []model.CompTrait{},
			Units:            []model.CompUnit{},
			PlacementBuckets: buckets,
		})
	}
	sortComps(result.Compositions)
	return result
}

func sortComps(comps []*model.CompositionAggregate) {
	for i := 1; i < len(comps); i++ {
		for j := i; j > 0 && comps[j-1].ID > comps[j].ID; j-- {
			comps[j-1], comps[j] = comps[j], comps[j-1]
		}
	}
}

func assertResultsEquivalent(t *testing.T, a, b *model.AggregateResult) {
	t.Helper()

	assert.InDelta(t, a.Summary.TotalGames, b.Summary.TotalGames, 1e-9)
	assert.InDelta(t, a.Summary.AvgPlacement, b.Summary.AvgPlacement, 1e-9)
	assert.InDelta(t, a.Summary.DroppedLowSignal, b.Summary.DroppedLowSignal, 1e-9)

	require.Equal(t, len(a.Compositions), len(b.Compositions))
	for i := range a.Compositions {
		ca, cb := a.Compositions[i], b.Compositions[i]
		assert.Equal(t, ca.ID, cb.ID)
		assert.InDelta(t, ca.Count, cb.Count, 1e-9)
		assert.InDelta(t, ca.AvgPlacement, cb.AvgPlacement, 1e-9)
		assert.InDelta(t, ca.WinRate, cb.WinRate, 1e-9)
		assert.InDelta(t, ca.Top4Rate, cb.Top4Rate, 1e-9)
		assert.InDelta(t, ca.PlayRate, cb.PlayRate, 1e-9)
		require.Equal(t, len(ca.PlacementBuckets), len(cb.PlacementBuckets))
		for j := range ca.PlacementBuckets {
			assert.InDelta(t, ca.PlacementBuckets[j], cb.PlacementBuckets[j], 1e-9)
		}
	}
}

func TestMergeResultsCounts(t *testing.T) {
	a := regionResult("NA", map[string][]int{"alpha": {1, 4}, "beta": {2}})
	b := regionResult("EU", map[string][]int{"alpha": {8}})

	merged := MergeResults(a, b)

	assert.Equal(t, 4.0, merged.Summary.TotalGames)
	require.Len(t, merged.Compositions, 2)

	alpha := merged.Compositions[0]
	require.Equal(t, "alpha", alpha.ID)
	assert.Equal(t, 3.0, alpha.Count)
	// (1+4+8)/3
	assert.InDelta(t, 13.0/3.0, alpha.AvgPlacement, 1e-9)
	assert.InDelta(t, 100.0/3.0, alpha.WinRate, 1e-9)
	// play rate recomputed against the merged population
	assert.InDelta(t, 75.0, alpha.PlayRate, 1e-9)
	assert.Equal(t, 1.0, alpha.PlacementBuckets[0])
	assert.Equal(t, 1.0, alpha.PlacementBuckets[7])
}

func TestMergeResultsAppendsWhenMissing(t *testing.T) {
	a := regionResult("NA", map[string][]int{"alpha": {1}, "beta": {3}})
	b := regionResult("EU", map[string][]int{"gamma": {2, 5}})

	merged := MergeResults(a, b)
	require.Len(t, merged.Compositions, 3)

	ids := make([]string, 0, 3)
	for _, comp := range merged.Compositions {
		ids = append(ids, comp.ID)
	}
	assert.ElementsMatch(t, []string{"alpha", "beta", "gamma"}, ids)

	var gamma *model.CompositionAggregate
	for _, comp := range merged.Compositions {
		if comp.ID == "gamma" {
			gamma = comp
		}
	}
	require.NotNil(t, gamma)
	assert.Equal(t, 2.0, gamma.Count)
	assert.InDelta(t, 2.0/4.0*100, gamma.PlayRate, 1e-9)
}

func TestMergeResultsDoesNotMutateInputs(t *testing.T) {
	a := regionResult("NA", map[string][]int{"alpha": {1, 4}})
	b := regionResult("EU", map[string][]int{"alpha": {8}})

	beforeCount := a.Compositions[0].Count
	beforeBucket := a.Compositions[0].PlacementBuckets[0]

	_ = MergeResults(a, b)

	assert.Equal(t, beforeCount, a.Compositions[0].Count)
	assert.Equal(t, beforeBucket, a.Compositions[0].PlacementBuckets[0])
}

func TestMergeResultsAssociativeCommutative(t *testing.T) {
	build := func() (*model.AggregateResult, *model.AggregateResult, *model.AggregateResult) {
		a := regionResult("NA", map[string][]int{"alpha": {1, 4}, "beta": {2, 6}})
		b := regionResult("EU", map[string][]int{"alpha": {3}, "gamma": {5, 7}})
		c := regionResult("KR", map[string][]int{"beta": {8}, "gamma": {1, 1}})
		return a, b, c
	}

	a1, b1, c1 := build()
	leftFold := MergeResults(MergeResults(a1, b1), c1)

	a2, b2, c2 := build()
	rightFold := MergeResults(a2, MergeResults(b2, c2))

	a3, b3, c3 := build()
	commuted := MergeResults(MergeResults(c3, b3), a3)

	assertResultsEquivalent(t, leftFold, rightFold)
	assertResultsEquivalent(t, leftFold, commuted)
}

func TestMergeResultsTraitPeakAndUnits(t *testing.T) {
	a := &model.AggregateResult{
		Region:  "NA",
		Summary: model.AggregateSummary{TotalGames: 2},
		Traits: []*model.TraitAggregate{
			{TraitID: "brawler", StatBlock: model.StatBlock{Count: 2, AvgPlacement: 2, WinRate: 50}, Tier: 2, NumUnits: 4},
		},
		Units: []*model.UnitAggregate{
			{UnitID: "u1", StatBlock: model.StatBlock{Count: 2, AvgPlacement: 3, WinRate: 50}, TopItems: []model.TopItem{
				{ItemID: "sword", WinRate: 100, Count: 1},
			}},
		},
	}
	b := &model.AggregateResult{
		Region:  "EU",
		Summary: model.AggregateSummary{TotalGames: 2},
		Traits: []*model.TraitAggregate{
			{TraitID: "brawler", StatBlock: model.StatBlock{Count: 2, AvgPlacement: 4, WinRate: 0}, Tier: 3, NumUnits: 6},
		},
		Units: []*model.UnitAggregate{
			{UnitID: "u1", StatBlock: model.StatBlock{Count: 2, AvgPlacement: 5, WinRate: 0}, TopItems: []model.TopItem{
				{ItemID: "sword", WinRate: 0, Count: 1},
				{ItemID: "bow", WinRate: 50, Count: 2},
			}},
		},
	}

	merged := MergeResults(a, b)

	require.Len(t, merged.Traits, 1)
	trait := merged.Traits[0]
	assert.Equal(t, 4.0, trait.Count)
	assert.InDelta(t, 3.0, trait.AvgPlacement, 1e-9)
	assert.InDelta(t, 25.0, trait.WinRate, 1e-9)
	assert.Equal(t, 3, trait.Tier)
	assert.Equal(t, 6, trait.NumUnits)

	require.Len(t, merged.Units, 1)
	unit := merged.Units[0]
	assert.Equal(t, 4.0, unit.Count)
	require.Len(t, unit.TopItems, 2)
	// sword: weighted (100*1 + 0*1)/2, bow: 50 over 2 occurrences; the tie
	// resolves by item id
	assert.Equal(t, "bow", unit.TopItems[0].ItemID)
	assert.Equal(t, "sword", unit.TopItems[1].ItemID)
}

func TestMergeResultsItems(t *testing.T) {
	a := &model.AggregateResult{
		Region:  "NA",
		Summary: model.AggregateSummary{TotalGames: 2},
		Items: []*model.ItemAggregate{
			{
				ItemID:    "sword",
				StatBlock: model.StatBlock{Count: 2, AvgPlacement: 2, WinRate: 50},
				UnitsWithItem: []model.UnitWithItem{
					{UnitID: "u1", StatBlock: model.StatBlock{Count: 2, AvgPlacement: 2, WinRate: 50}, Compositions: []string{"alpha"}},
				},
				Combos: []model.ItemCombo{
					{Items: []string{"bow", "sword"}, WinRate: 100, Count: 2},
				},
			},
		},
	}
	b := &model.AggregateResult{
		Region:  "EU",
		Summary: model.AggregateSummary{TotalGames: 2},
		Items: []*model.ItemAggregate{
			{
				ItemID:    "sword",
				StatBlock: model.StatBlock{Count: 2, AvgPlacement: 6, WinRate: 0},
				UnitsWithItem: []model.UnitWithItem{
					{UnitID: "u1", StatBlock: model.StatBlock{Count: 2, AvgPlacement: 6, WinRate: 0}, Compositions: []string{"beta"}},
				},
				Combos: []model.ItemCombo{
					{Items: []string{"bow", "sword"}, WinRate: 0, Count: 2},
					{Items: []string{"armor", "sword"}, WinRate: 50, Count: 2},
				},
			},
		},
	}

	merged := MergeResults(a, b)
	require.Len(t, merged.Items, 1)
	sword := merged.Items[0]

	assert.Equal(t, 4.0, sword.Count)
	require.Len(t, sword.UnitsWithItem, 1)
	assert.Equal(t, []string{"alpha", "beta"}, sword.UnitsWithItem[0].Compositions)

	require.Len(t, sword.Combos, 2)
	// bow+sword merges to 50% over 4; armor+sword stays 50% over 2; the tie
	// resolves by the joined key
	assert.Equal(t, []string{"armor", "sword"}, sword.Combos[0].Items)
	assert.Equal(t, []string{"bow", "sword"}, sword.Combos[1].Items)
	assert.Equal(t, 4.0, sword.Combos[1].Count)
}

func TestMergeFinalizeCaps(t *testing.T) {
	conf := testConfig()
	conf.TopItemsPerUnit = 1
	conf.ComboMaxPerItem = 1
	m := NewMerge(conf, nil)

	result := &model.AggregateResult{
		Units: []*model.UnitAggregate{
			{UnitID: "u1", TopItems: []model.TopItem{
				{ItemID: "sword", WinRate: 80},
				{ItemID: "bow", WinRate: 40},
			}},
		},
		Items: []*model.ItemAggregate{
			{ItemID: "sword", Combos: []model.ItemCombo{
				{Items: []string{"bow", "sword"}, WinRate: 80},
				{Items: []string{"armor", "sword"}, WinRate: 40},
			}},
		},
	}
	m.finalize(result)

	require.Len(t, result.Units[0].TopItems, 1)
	assert.Equal(t, "sword", result.Units[0].TopItems[0].ItemID)
	require.Len(t, result.Items[0].Combos, 1)
	assert.Equal(t, []string{"bow", "sword"}, result.Items[0].Combos[0].Items)
}
