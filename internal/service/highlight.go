package service

import (
	"fmt"
	"sort"

	"compstats.gg/backend/internal/app/appconfig"
	"compstats.gg/backend/internal/constant"
	"compstats.gg/backend/internal/model"
)

// Highlight derives the curated "best-of" groups from a finished aggregate
// result. Everything here is a pure projection: same input dataset, same
// groups, entry for entry.
type Highlight struct {
	Config *appconfig.Config
}

func NewHighlight(conf *appconfig.Config) *Highlight {
	return &Highlight{Config: conf}
}

// candidate is one entity flattened to the fields highlight ranking needs.
type candidate struct {
	entityType string
	id         string
	title      string
	image      string
	link       string

	// segment is the secondary breakdown this entity belongs to: cost tier
	// for units, category for items, origin/class for traits, archetype for
	// compositions.
	segment string

	stats       model.StatBlock
	flexibility float64
}

// BuildHighlights produces all five criterion groups for one aggregate
// result. Ordering is fully deterministic: criteria in fixed order, variants
// Overall-first then name ascending, entries ranked with an id tie break.
func (s *Highlight) BuildHighlights(result *model.AggregateResult) []*model.HighlightGroup {
	candidates := s.collect(result)

	groups := make([]*model.HighlightGroup, 0, 5)
	for _, criterion := range []string{
		model.CriterionBestWinRate,
		model.CriterionMostConsistent,
		model.CriterionMostPlayed,
		model.CriterionMostFlexible,
		model.CriterionPocketPick,
	} {
		group := &model.HighlightGroup{Criterion: criterion}
		group.Compositions = s.rankKind(candidates, model.HighlightEntityComposition, criterion)
		group.Units = s.rankKind(candidates, model.HighlightEntityUnit, criterion)
		group.Traits = s.rankKind(candidates, model.HighlightEntityTrait, criterion)
		group.Items = s.rankKind(candidates, model.HighlightEntityItem, criterion)
		groups = append(groups, group)
	}
	return groups
}

func (s *Highlight) collect(result *model.AggregateResult) []candidate {
	// cross-index compositions once for the flexibility metrics
	unitComps := map[string]map[string]struct{}{}
	traitComps := map[string]map[string]struct{}{}
	for _, comp := range result.Compositions {
		for _, unit := range comp.Units {
			set, ok := unitComps[unit.UnitID]
			if !ok {
				set = map[string]struct{}{}
				unitComps[unit.UnitID] = set
			}
			set[comp.ID] = struct{}{}
		}
		for _, trait := range comp.Traits {
			set, ok := traitComps[trait.TraitID]
			if !ok {
				set = map[string]struct{}{}
				traitComps[trait.TraitID] = set
			}
			set[comp.ID] = struct{}{}
		}
	}

	candidates := make([]candidate, 0,
		len(result.Compositions)+len(result.Units)+len(result.Traits)+len(result.Items))

	for _, comp := range result.Compositions {
		candidates = append(candidates, candidate{
			entityType: model.HighlightEntityComposition,
			id:         comp.ID,
			title:      comp.Name,
			image:      comp.Icon,
			link:       "/comps/" + comp.ID,
			segment:    classifyArchetype(comp.Units),
			stats:      comp.StatBlock,
			// a composition is flexible when many distinct traits are active
			flexibility: float64(len(comp.Traits)),
		})
	}
	for _, unit := range result.Units {
		candidates = append(candidates, candidate{
			entityType:  model.HighlightEntityUnit,
			id:          unit.UnitID,
			title:       unit.Name,
			image:       unit.Icon,
			link:        "/units/" + unit.UnitID,
			segment:     fmt.Sprintf("Cost %d", unit.Cost),
			stats:       unit.StatBlock,
			flexibility: float64(len(unitComps[unit.UnitID])),
		})
	}
	for _, trait := range result.Traits {
		segment := trait.Type
		if segment == "" {
			segment = constant.TraitTypeClass
		}
		candidates = append(candidates, candidate{
			entityType:  model.HighlightEntityTrait,
			id:          trait.TraitID,
			title:       trait.Name,
			image:       trait.Icon,
			link:        "/traits/" + trait.TraitID,
			segment:     segment,
			stats:       trait.StatBlock,
			flexibility: float64(len(traitComps[trait.TraitID])),
		})
	}
	for _, item := range result.Items {
		candidates = append(candidates, candidate{
			entityType:  model.HighlightEntityItem,
			id:          item.ItemID,
			title:       item.Name,
			image:       item.Icon,
			link:        "/items/" + item.ItemID,
			segment:     item.Category,
			stats:       item.StatBlock,
			flexibility: float64(len(item.UnitsWithItem)),
		})
	}
	return candidates
}

// classifyArchetype buckets a composition by its unit cost profile:
// Fast-9 fields several max-cost units, Reroll commits to a wide low-cost
// board, everything else is Standard.
func classifyArchetype(units []model.CompUnit) string {
	maxCost, minCost := 0, 0
	for _, unit := range units {
		switch unit.Cost {
		case constant.MaxUnitCost:
			maxCost++
		case constant.MinUnitCost:
			minCost++
		}
	}
	if maxCost >= 3 {
		return constant.ArchetypeFastNine
	}
	if minCost >= 4 {
		return constant.ArchetypeReroll
	}
	return constant.ArchetypeStandard
}

func (s *Highlight) rankKind(candidates []candidate, entityType, criterion string) []*model.HighlightVariant {
	kind := make([]candidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand.entityType == entityType && cand.stats.Count > 0 {
			kind = append(kind, cand)
		}
	}

	variants := make([]*model.HighlightVariant, 0, 1)
	if overall := s.rank(kind, criterion, model.VariantOverall); overall != nil {
		variants = append(variants, overall)
	}

	segments := map[string][]candidate{}
	for _, cand := range kind {
		if cand.segment == "" {
			continue
		}
		segments[cand.segment] = append(segments[cand.segment], cand)
	}
	names := make([]string, 0, len(segments))
	for name := range segments {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if variant := s.rank(segments[name], criterion, name); variant != nil {
			variants = append(variants, variant)
		}
	}
	return variants
}

func (s *Highlight) rank(candidates []candidate, criterion, variant string) *model.HighlightVariant {
	eligible := make([]candidate, 0, len(candidates))
	for _, cand := range candidates {
		if criterion == model.CriterionPocketPick &&
			(cand.stats.WinRate < s.Config.HighlightPocketWinRate ||
				cand.stats.PlayRate > s.Config.HighlightPocketPlayRateCeil) {
			continue
		}
		eligible = append(eligible, cand)
	}
	if len(eligible) == 0 {
		return nil
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := criterionValue(eligible[i], criterion), criterionValue(eligible[j], criterion)
		if a != b {
			if criterion == model.CriterionMostConsistent {
				return a < b
			}
			return a > b
		}
		return eligible[i].id < eligible[j].id
	})
	if len(eligible) > s.Config.HighlightTopN {
		eligible = eligible[:s.Config.HighlightTopN]
	}

	entries := make([]*model.HighlightEntity, 0, len(eligible))
	for _, cand := range eligible {
		entries = append(entries, &model.HighlightEntity{
			EntityType: cand.entityType,
			EntityID:   cand.id,
			Title:      cand.title,
			Value:      criterionValue(cand, criterion),
			Detail:     criterionDetail(cand, criterion),
			Image:      cand.image,
			Link:       cand.link,
			Category:   cand.segment,
			Variant:    variant,
		})
	}
	return &model.HighlightVariant{Variant: variant, Entries: entries}
}

func criterionValue(cand candidate, criterion string) float64 {
	switch criterion {
	case model.CriterionBestWinRate, model.CriterionPocketPick:
		return cand.stats.WinRate
	case model.CriterionMostConsistent:
		return cand.stats.AvgPlacement
	case model.CriterionMostPlayed:
		return cand.stats.Count
	case model.CriterionMostFlexible:
		return cand.flexibility
	}
	return 0
}

func criterionDetail(cand candidate, criterion string) string {
	switch criterion {
	case model.CriterionBestWinRate:
		return fmt.Sprintf("%.1f%% win rate over %.0f games", cand.stats.WinRate, cand.stats.Count)
	case model.CriterionMostConsistent:
		return fmt.Sprintf("%.2f average placement over %.0f games", cand.stats.AvgPlacement, cand.stats.Count)
	case model.CriterionMostPlayed:
		return fmt.Sprintf("played %.0f times (%.1f%% play rate)", cand.stats.Count, cand.stats.PlayRate)
	case model.CriterionMostFlexible:
		return fmt.Sprintf("seen in %.0f distinct setups", cand.flexibility)
	case model.CriterionPocketPick:
		return fmt.Sprintf("%.1f%% win rate at only %.1f%% play rate", cand.stats.WinRate, cand.stats.PlayRate)
	}
	return ""
}
