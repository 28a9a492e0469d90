package service

import (
	"context"
	"sort"
	"sync"

	"github.com/avast/retry-go/v4"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"compstats.gg/backend/internal/app/appconfig"
	"compstats.gg/backend/internal/constant"
	"compstats.gg/backend/internal/model"
	"compstats.gg/backend/internal/pkg/cserr"
	"compstats.gg/backend/internal/pkg/observability"
	"compstats.gg/backend/internal/util"
)

// Merge combines per-region aggregate results into the global view. The pure
// pairwise math lives in MergeResults so it can be folded in any grouping or
// order; Global fetches regions concurrently and degrades gracefully when a
// region cannot be loaded.
type Merge struct {
	Config                *appconfig.Config
	AggregateStoreService *AggregateStore
}

func NewMerge(conf *appconfig.Config, aggregateStoreService *AggregateStore) *Merge {
	return &Merge{
		Config:                conf,
		AggregateStoreService: aggregateStoreService,
	}
}

// Global builds the merged cross-region result. Regions that cannot be loaded
// after retries are skipped and counted; the merge proceeds over whatever is
// available. When no region loads at all it serves the empty bootstrap
// dataset instead of failing.
func (s *Merge) Global(ctx context.Context) (*model.AggregateResult, error) {
	var mu sync.Mutex
	results := make(map[string]*model.AggregateResult)

	g, gctx := errgroup.WithContext(ctx)
	for _, region := range constant.Regions {
		region := region
		g.Go(func() error {
			result, err := retry.DoWithData(func() (*model.AggregateResult, error) {
				return s.AggregateStoreService.GetStats(gctx, region)
			},
				retry.Context(gctx),
				retry.Attempts(3),
				retry.RetryIf(func(err error) bool {
					return !errors.Is(err, cserr.ErrNotFound)
				}),
			)
			if err != nil {
				if !errors.Is(err, cserr.ErrNotFound) {
					log.Warn().Err(err).Str("region", region).Msg("region unavailable for merge, degrading")
					observability.MergeDegradedRegions.WithLabelValues(region).Inc()
				}
				return nil
			}

			mu.Lock()
			results[region] = result
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return s.AggregateStoreService.BootstrapEmpty(constant.GlobalRegion), nil
	}

	// fold in fixed region order so reruns produce identical output
	var merged *model.AggregateResult
	for _, region := range constant.Regions {
		result, ok := results[region]
		if !ok {
			continue
		}
		if merged == nil {
			merged = &model.AggregateResult{}
			if err := copier.CopyWithOption(merged, result, copier.Option{DeepCopy: true}); err != nil {
				return nil, errors.Wrap(err, "failed to deep copy aggregate result")
			}
			continue
		}
		merged = MergeResults(merged, result)
	}

	merged.Region = constant.GlobalRegion
	s.finalize(merged)
	return merged, nil
}

// MergeResults merges two aggregate results into a new one; neither input is
// mutated. All sums and counts combine linearly and rates are recomputed from
// the merged totals, so folding is associative and commutative up to the
// deterministic orderings applied on output.
func MergeResults(a, b *model.AggregateResult) *model.AggregateResult {
	out := &model.AggregateResult{
		Region: a.Region,
		Summary: model.AggregateSummary{
			TotalGames:       a.Summary.TotalGames + b.Summary.TotalGames,
			DroppedLowSignal: a.Summary.DroppedLowSignal + b.Summary.DroppedLowSignal,
		},
	}
	if out.Summary.TotalGames > 0 {
		out.Summary.AvgPlacement = util.ClampFloat64(
			(a.Summary.AvgPlacement*a.Summary.TotalGames+b.Summary.AvgPlacement*b.Summary.TotalGames)/out.Summary.TotalGames,
			constant.MinPlacement, constant.MaxPlacement)
	}
	if a.UpdatedAt.After(b.UpdatedAt) {
		out.UpdatedAt = a.UpdatedAt
	} else {
		out.UpdatedAt = b.UpdatedAt
	}

	out.Compositions = mergeCompositions(a.Compositions, b.Compositions, out.Summary.TotalGames)
	out.Units = mergeUnits(a.Units, b.Units, out.Summary.TotalGames)
	out.Traits = mergeTraits(a.Traits, b.Traits, out.Summary.TotalGames)
	out.Items = mergeItems(a.Items, b.Items, out.Summary.TotalGames)

	return out
}

// mergeStatBlocks combines two blocks by count weighting and recomputes the
// play rate against the merged game total.
func mergeStatBlocks(a, b model.StatBlock, totalGames float64) model.StatBlock {
	out := model.StatBlock{Count: a.Count + b.Count}
	if out.Count > 0 {
		out.AvgPlacement = util.ClampFloat64(
			(a.AvgPlacement*a.Count+b.AvgPlacement*b.Count)/out.Count,
			constant.MinPlacement, constant.MaxPlacement)
		out.WinRate = util.ClampFloat64((a.WinRate*a.Count+b.WinRate*b.Count)/out.Count, 0, 100)
		out.Top4Rate = util.ClampFloat64((a.Top4Rate*a.Count+b.Top4Rate*b.Count)/out.Count, 0, 100)
	}
	if totalGames > 0 {
		out.PlayRate = util.ClampFloat64(out.Count/totalGames*100, 0, 100)
	}
	return out
}

func recomputePlayRate(block *model.StatBlock, totalGames float64) {
	if totalGames > 0 {
		block.PlayRate = util.ClampFloat64(block.Count/totalGames*100, 0, 100)
	} else {
		block.PlayRate = 0
	}
}

func mergeCompositions(a, b []*model.CompositionAggregate, totalGames float64) []*model.CompositionAggregate {
	byID := make(map[string]*model.CompositionAggregate, len(a)+len(b))
	for _, comp := range a {
		clone := &model.CompositionAggregate{}
		_ = copier.CopyWithOption(clone, comp, copier.Option{DeepCopy: true})
		recomputePlayRate(&clone.StatBlock, totalGames)
		byID[clone.ID] = clone
	}
	for _, comp := range b {
		existing, ok := byID[comp.ID]
		if !ok {
			clone := &model.CompositionAggregate{}
			_ = copier.CopyWithOption(clone, comp, copier.Option{DeepCopy: true})
			recomputePlayRate(&clone.StatBlock, totalGames)
			byID[clone.ID] = clone
			continue
		}

		existing.StatBlock = mergeStatBlocks(existing.StatBlock, comp.StatBlock, totalGames)
		for i := 0; i < len(existing.PlacementBuckets) && i < len(comp.PlacementBuckets); i++ {
			existing.PlacementBuckets[i] += comp.PlacementBuckets[i]
		}
		existing.Traits = mergeCompTraits(existing.Traits, comp.Traits)
		existing.Units = mergeCompUnits(existing.Units, comp.Units)
	}

	out := make([]*model.CompositionAggregate, 0, len(byID))
	for _, comp := range byID {
		out = append(out, comp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func mergeCompTraits(a, b []model.CompTrait) []model.CompTrait {
	byID := make(map[string]model.CompTrait, len(a)+len(b))
	for _, trait := range a {
		byID[trait.TraitID] = trait
	}
	for _, trait := range b {
		existing, ok := byID[trait.TraitID]
		if !ok || trait.Tier > existing.Tier ||
			(trait.Tier == existing.Tier && trait.NumUnits > existing.NumUnits) {
			byID[trait.TraitID] = trait
		}
	}
	out := make([]model.CompTrait, 0, len(byID))
	for _, trait := range byID {
		out = append(out, trait)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Tier != out[j].Tier {
			return out[i].Tier > out[j].Tier
		}
		return out[i].TraitID < out[j].TraitID
	})
	return out
}

func mergeCompUnits(a, b []model.CompUnit) []model.CompUnit {
	byID := make(map[string]model.CompUnit, len(a)+len(b))
	for _, unit := range a {
		byID[unit.UnitID] = unit
	}
	for _, unit := range b {
		if _, ok := byID[unit.UnitID]; !ok {
			byID[unit.UnitID] = unit
		}
	}
	out := make([]model.CompUnit, 0, len(byID))
	for _, unit := range byID {
		out = append(out, unit)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Cost != out[j].Cost {
			return out[i].Cost > out[j].Cost
		}
		return out[i].UnitID < out[j].UnitID
	})
	return out
}

func mergeUnits(a, b []*model.UnitAggregate, totalGames float64) []*model.UnitAggregate {
	byID := make(map[string]*model.UnitAggregate, len(a)+len(b))
	for _, unit := range a {
		clone := &model.UnitAggregate{}
		_ = copier.CopyWithOption(clone, unit, copier.Option{DeepCopy: true})
		recomputePlayRate(&clone.StatBlock, totalGames)
		byID[clone.UnitID] = clone
	}
	for _, unit := range b {
		existing, ok := byID[unit.UnitID]
		if !ok {
			clone := &model.UnitAggregate{}
			_ = copier.CopyWithOption(clone, unit, copier.Option{DeepCopy: true})
			recomputePlayRate(&clone.StatBlock, totalGames)
			byID[clone.UnitID] = clone
			continue
		}
		existing.StatBlock = mergeStatBlocks(existing.StatBlock, unit.StatBlock, totalGames)
		existing.TopItems = mergeTopItems(existing.TopItems, unit.TopItems)
	}

	out := make([]*model.UnitAggregate, 0, len(byID))
	for _, unit := range byID {
		out = append(out, unit)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UnitID < out[j].UnitID
	})
	return out
}

func mergeTopItems(a, b []model.TopItem) []model.TopItem {
	byID := make(map[string]model.TopItem, len(a)+len(b))
	for _, item := range a {
		byID[item.ItemID] = item
	}
	for _, item := range b {
		existing, ok := byID[item.ItemID]
		if !ok {
			byID[item.ItemID] = item
			continue
		}
		merged := model.TopItem{ItemID: item.ItemID, Count: existing.Count + item.Count}
		if merged.Count > 0 {
			merged.WinRate = util.ClampFloat64(
				(existing.WinRate*existing.Count+item.WinRate*item.Count)/merged.Count, 0, 100)
		}
		byID[item.ItemID] = merged
	}
	out := make([]model.TopItem, 0, len(byID))
	for _, item := range byID {
		out = append(out, item)
	}
	SortTopItems(out)
	return out
}

func mergeTraits(a, b []*model.TraitAggregate, totalGames float64) []*model.TraitAggregate {
	byID := make(map[string]*model.TraitAggregate, len(a)+len(b))
	for _, trait := range a {
		clone := &model.TraitAggregate{}
		_ = copier.CopyWithOption(clone, trait, copier.Option{DeepCopy: true})
		recomputePlayRate(&clone.StatBlock, totalGames)
		byID[clone.TraitID] = clone
	}
	for _, trait := range b {
		existing, ok := byID[trait.TraitID]
		if !ok {
			clone := &model.TraitAggregate{}
			_ = copier.CopyWithOption(clone, trait, copier.Option{DeepCopy: true})
			recomputePlayRate(&clone.StatBlock, totalGames)
			byID[clone.TraitID] = clone
			continue
		}
		existing.StatBlock = mergeStatBlocks(existing.StatBlock, trait.StatBlock, totalGames)
		if trait.Tier > existing.Tier || (trait.Tier == existing.Tier && trait.NumUnits > existing.NumUnits) {
			existing.Tier = trait.Tier
			existing.NumUnits = trait.NumUnits
		}
	}

	out := make([]*model.TraitAggregate, 0, len(byID))
	for _, trait := range byID {
		out = append(out, trait)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TraitID < out[j].TraitID
	})
	return out
}

func mergeItems(a, b []*model.ItemAggregate, totalGames float64) []*model.ItemAggregate {
	byID := make(map[string]*model.ItemAggregate, len(a)+len(b))
	for _, item := range a {
		clone := &model.ItemAggregate{}
		_ = copier.CopyWithOption(clone, item, copier.Option{DeepCopy: true})
		recomputePlayRate(&clone.StatBlock, totalGames)
		byID[clone.ItemID] = clone
	}
	for _, item := range b {
		existing, ok := byID[item.ItemID]
		if !ok {
			clone := &model.ItemAggregate{}
			_ = copier.CopyWithOption(clone, item, copier.Option{DeepCopy: true})
			recomputePlayRate(&clone.StatBlock, totalGames)
			byID[clone.ItemID] = clone
			continue
		}
		existing.StatBlock = mergeStatBlocks(existing.StatBlock, item.StatBlock, totalGames)
		existing.UnitsWithItem = mergeUnitsWithItem(existing.UnitsWithItem, item.UnitsWithItem, totalGames)
		existing.Combos = mergeCombos(existing.Combos, item.Combos)
	}

	out := make([]*model.ItemAggregate, 0, len(byID))
	for _, item := range byID {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ItemID < out[j].ItemID
	})
	return out
}

func mergeUnitsWithItem(a, b []model.UnitWithItem, totalGames float64) []model.UnitWithItem {
	byID := make(map[string]model.UnitWithItem, len(a)+len(b))
	for _, unit := range a {
		byID[unit.UnitID] = unit
	}
	for _, unit := range b {
		existing, ok := byID[unit.UnitID]
		if !ok {
			byID[unit.UnitID] = unit
			continue
		}
		existing.StatBlock = mergeStatBlocks(existing.StatBlock, unit.StatBlock, totalGames)
		existing.Compositions = mergeStringSets(existing.Compositions, unit.Compositions)
		byID[unit.UnitID] = existing
	}
	out := make([]model.UnitWithItem, 0, len(byID))
	for _, unit := range byID {
		out = append(out, unit)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].UnitID < out[j].UnitID
	})
	return out
}

func mergeStringSets(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		set[s] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func mergeCombos(a, b []model.ItemCombo) []model.ItemCombo {
	byKey := make(map[string]model.ItemCombo, len(a)+len(b))
	for _, combo := range a {
		byKey[comboKey(combo.Items)] = combo
	}
	for _, combo := range b {
		key := comboKey(combo.Items)
		existing, ok := byKey[key]
		if !ok {
			byKey[key] = combo
			continue
		}
		merged := model.ItemCombo{Items: existing.Items, Count: existing.Count + combo.Count}
		if merged.Count > 0 {
			merged.WinRate = util.ClampFloat64(
				(existing.WinRate*existing.Count+combo.WinRate*combo.Count)/merged.Count, 0, 100)
		}
		byKey[key] = merged
	}
	out := make([]model.ItemCombo, 0, len(byKey))
	for _, combo := range byKey {
		out = append(out, combo)
	}
	SortCombos(out)
	return out
}

// finalize applies the per-entity caps once after the whole fold, so that
// intermediate merges never lose entries that a later region would have
// promoted back above the cutoff.
func (s *Merge) finalize(result *model.AggregateResult) {
	for _, unit := range result.Units {
		if len(unit.TopItems) > s.Config.TopItemsPerUnit {
			unit.TopItems = unit.TopItems[:s.Config.TopItemsPerUnit]
		}
	}
	for _, item := range result.Items {
		if len(item.Combos) > s.Config.ComboMaxPerItem {
			item.Combos = item.Combos[:s.Config.ComboMaxPerItem]
		}
	}
}
