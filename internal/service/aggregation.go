package service

import (
	"context"
	"sort"

	"github.com/ahmetb/go-linq/v3"
	"github.com/rs/zerolog/log"

	"compstats.gg/backend/internal/app/appconfig"
	"compstats.gg/backend/internal/constant"
	"compstats.gg/backend/internal/model"
	"compstats.gg/backend/internal/util"
	"compstats.gg/backend/internal/util/compverifs"
)

/*
This service implements the aggregation pipeline for one region:

	1. Extract compositions from raw matches
	2. Drop implausible compositions via the realism verifiers
	3. Group by composition signature, unit id and trait id into
	   weighted accumulators
	4. Attach item aggregates from the item relation builder
	5. Convert accumulators into one immutable AggregateResult

The result carries compositions, units, traits and items together; nothing is
stashed in ambient state between passes.
*/

type Aggregation struct {
	Config              *appconfig.Config
	ItemService         *Item
	UnitService         *Unit
	TraitService        *Trait
	ItemRelationService *ItemRelation
	CompVerifiers       *compverifs.CompVerifiers
}

func NewAggregation(
	conf *appconfig.Config,
	itemService *Item,
	unitService *Unit,
	traitService *Trait,
	itemRelationService *ItemRelation,
	compVerifiers *compverifs.CompVerifiers,
) *Aggregation {
	return &Aggregation{
		Config:              conf,
		ItemService:         itemService,
		UnitService:         unitService,
		TraitService:        traitService,
		ItemRelationService: itemRelationService,
		CompVerifiers:       compVerifiers,
	}
}

type compAcc struct {
	name  string
	icon  string
	stats util.StatsAccumulator

	buckets []float64

	traits map[string]model.CompTrait
	units  map[string]model.CompUnit
}

type unitAcc struct {
	stats util.StatsAccumulator
	items map[string]*util.StatsAccumulator
}

type traitAcc struct {
	stats util.StatsAccumulator

	// peak activation observed
	tier     int
	numUnits int
}

// Aggregate rebuilds the full aggregate dataset for one region from raw
// matches. It is a pure derivation: same input, same output.
func (s *Aggregation) Aggregate(ctx context.Context, region string, matches []*model.Match) (*model.AggregateResult, error) {
	unitsMap, err := s.UnitService.GetUnitsMapByID(ctx)
	if err != nil {
		return nil, err
	}
	traitsMap, err := s.TraitService.GetTraitsMapByID(ctx)
	if err != nil {
		return nil, err
	}
	itemsMap, err := s.ItemService.GetItemsMapByID(ctx)
	if err != nil {
		return nil, err
	}

	totalGames := 0.0
	comps := make([]*model.Composition, 0, len(matches)*constant.MaxPlacement)
	for _, match := range matches {
		totalGames += match.Weight()
		for _, comp := range BuildCompositions(match, unitsMap, traitsMap) {
			if violation := s.CompVerifiers.Accept(comp); violation != nil {
				if l := log.Trace(); l.Enabled() {
					l.Str("compId", comp.ID).
						Str("verifier", violation.Name).
						Str("message", violation.Message).
						Msg("composition rejected by realism filter")
				}
				continue
			}
			comps = append(comps, comp)
		}
	}

	result := &model.AggregateResult{
		Region: region,
		Summary: model.AggregateSummary{
			TotalGames: totalGames,
		},
	}

	overall := util.StatsAccumulator{}
	for _, comp := range comps {
		overall.Observe(comp.Placement, comp.Count)
	}
	if overall.Count > 0 {
		result.Summary.AvgPlacement = util.ClampFloat64(
			overall.PlacementSum/overall.Count, constant.MinPlacement, constant.MaxPlacement)
	}

	result.Compositions, result.Summary.DroppedLowSignal = s.aggregateCompositions(comps, totalGames)
	result.Units = s.aggregateUnits(comps, totalGames, unitsMap)
	result.Traits = s.aggregateTraits(comps, totalGames, traitsMap)
	result.Items = s.ItemRelationService.Build(comps, totalGames, itemsMap)

	return result, nil
}

func (s *Aggregation) aggregateCompositions(comps []*model.Composition, totalGames float64) ([]*model.CompositionAggregate, float64) {
	var grouped []linq.Group
	linq.From(comps).
		GroupByT(
			func(comp *model.Composition) string { return comp.ID },
			func(comp *model.Composition) *model.Composition { return comp }).
		ToSlice(&grouped)

	dropped := 0.0
	results := make([]*model.CompositionAggregate, 0, len(grouped))
	for _, group := range grouped {
		id := group.Key.(string)
		acc := &compAcc{
			buckets: make([]float64, constant.MaxPlacement),
			traits:  map[string]model.CompTrait{},
			units:   map[string]model.CompUnit{},
		}
		for _, el := range group.Group {
			comp := el.(*model.Composition)
			acc.name = comp.Name
			acc.icon = comp.Icon
			acc.stats.Observe(comp.Placement, comp.Count)
			acc.buckets[comp.Placement-1] += comp.Count

			for _, trait := range comp.Traits {
				existing, ok := acc.traits[trait.TraitID]
				if !ok || trait.Tier > existing.Tier ||
					(trait.Tier == existing.Tier && trait.NumUnits > existing.NumUnits) {
					acc.traits[trait.TraitID] = trait
				}
			}
			for _, unit := range comp.Units {
				if _, ok := acc.units[unit.UnitID]; !ok {
					acc.units[unit.UnitID] = unit
				}
			}
		}

		// Low-signal groups are dropped, not merged into a catch-all bucket;
		// the dropped weight stays visible in the summary.
		if acc.stats.Count < s.Config.AggregationMinGroupCount {
			dropped += acc.stats.Count
			continue
		}

		results = append(results, &model.CompositionAggregate{
			ID:               id,
			Name:             acc.name,
			Icon:             acc.icon,
			StatBlock:        acc.stats.ToStatBlock(totalGames),
			Traits:           sortedCompTraits(acc.traits),
			Units:            sortedCompUnits(acc.units),
			PlacementBuckets: acc.buckets,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Count != results[j].Count {
			return results[i].Count > results[j].Count
		}
		return results[i].ID < results[j].ID
	})
	return results, dropped
}

func (s *Aggregation) aggregateUnits(comps []*model.Composition, totalGames float64, unitsMap map[string]*model.Unit) []*model.UnitAggregate {
	accs := map[string]*unitAcc{}
	for _, comp := range comps {
		for _, unit := range comp.Units {
			acc, ok := accs[unit.UnitID]
			if !ok {
				acc = &unitAcc{items: map[string]*util.StatsAccumulator{}}
				accs[unit.UnitID] = acc
			}
			acc.stats.Observe(comp.Placement, comp.Count)
			for _, itemID := range unit.Items {
				if itemID == "" {
					continue
				}
				itemStats, ok := acc.items[itemID]
				if !ok {
					itemStats = &util.StatsAccumulator{}
					acc.items[itemID] = itemStats
				}
				itemStats.Observe(comp.Placement, comp.Count)
			}
		}
	}

	results := make([]*model.UnitAggregate, 0, len(accs))
	for unitID, acc := range accs {
		agg := &model.UnitAggregate{
			UnitID:    unitID,
			Name:      constant.UnknownEntityName,
			StatBlock: acc.stats.ToStatBlock(totalGames),
			TopItems:  s.topItems(acc.items),
		}
		if ref, ok := unitsMap[unitID]; ok {
			agg.Name = ref.Name
			agg.Icon = ref.Icon
			agg.Cost = ref.Cost
		}
		results = append(results, agg)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].UnitID < results[j].UnitID
	})
	return results
}

func (s *Aggregation) topItems(items map[string]*util.StatsAccumulator) []model.TopItem {
	out := make([]model.TopItem, 0, len(items))
	for itemID, stats := range items {
		out = append(out, model.TopItem{
			ItemID:  itemID,
			WinRate: stats.WinRate(),
			Count:   stats.Count,
		})
	}
	SortTopItems(out)
	if len(out) > s.Config.TopItemsPerUnit {
		out = out[:s.Config.TopItemsPerUnit]
	}
	return out
}

func (s *Aggregation) aggregateTraits(comps []*model.Composition, totalGames float64, traitsMap map[string]*model.Trait) []*model.TraitAggregate {
	accs := map[string]*traitAcc{}
	for _, comp := range comps {
		for _, trait := range comp.Traits {
			acc, ok := accs[trait.TraitID]
			if !ok {
				acc = &traitAcc{}
				accs[trait.TraitID] = acc
			}
			// every tier contributes to the sums; the headline tier is the
			// peak activation seen
			acc.stats.Observe(comp.Placement, comp.Count)
			if trait.Tier > acc.tier || (trait.Tier == acc.tier && trait.NumUnits > acc.numUnits) {
				acc.tier = trait.Tier
				acc.numUnits = trait.NumUnits
			}
		}
	}

	results := make([]*model.TraitAggregate, 0, len(accs))
	for traitID, acc := range accs {
		agg := &model.TraitAggregate{
			TraitID:   traitID,
			Name:      constant.UnknownEntityName,
			StatBlock: acc.stats.ToStatBlock(totalGames),
			Tier:      acc.tier,
			NumUnits:  acc.numUnits,
		}
		if ref, ok := traitsMap[traitID]; ok {
			agg.Name = ref.Name
			agg.Icon = ref.Icon
			agg.Type = ref.Type
		}
		results = append(results, agg)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TraitID < results[j].TraitID
	})
	return results
}

// SortTopItems orders a unit's items by win rate descending with a
// deterministic id tie break.
func SortTopItems(items []model.TopItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].WinRate != items[j].WinRate {
			return items[i].WinRate > items[j].WinRate
		}
		return items[i].ItemID < items[j].ItemID
	})
}

func sortedCompTraits(traits map[string]model.CompTrait) []model.CompTrait {
	out := make([]model.CompTrait, 0, len(traits))
	for _, trait := range traits {
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

func sortedCompUnits(units map[string]model.CompUnit) []model.CompUnit {
	out := make([]model.CompUnit, 0, len(units))
	for _, unit := range units {
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
