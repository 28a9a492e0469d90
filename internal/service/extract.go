package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"compstats.gg/backend/internal/constant"
	"compstats.gg/backend/internal/model"
)

// Extract derives normalized compositions from raw match participants.
type Extract struct {
	UnitService  *Unit
	TraitService *Trait
}

func NewExtract(unitService *Unit, traitService *Trait) *Extract {
	return &Extract{
		UnitService:  unitService,
		TraitService: traitService,
	}
}

func (s *Extract) ExtractMatch(ctx context.Context, match *model.Match) ([]*model.Composition, error) {
	unitsMap, err := s.UnitService.GetUnitsMapByID(ctx)
	if err != nil {
		return nil, err
	}
	traitsMap, err := s.TraitService.GetTraitsMapByID(ctx)
	if err != nil {
		return nil, err
	}
	return BuildCompositions(match, unitsMap, traitsMap), nil
}

// BuildCompositions is the pure extraction: one composition per participant.
// It never fails; participants with empty boards still yield a valid, if
// minimally named, composition.
func BuildCompositions(match *model.Match, unitsMap map[string]*model.Unit, traitsMap map[string]*model.Trait) []*model.Composition {
	weight := match.Weight()
	comps := make([]*model.Composition, 0, len(match.Participants))
	for _, participant := range match.Participants {
		comps = append(comps, buildComposition(match, participant, weight, unitsMap, traitsMap))
	}
	return comps
}

func buildComposition(match *model.Match, participant model.RawParticipant, weight float64, unitsMap map[string]*model.Unit, traitsMap map[string]*model.Trait) *model.Composition {
	placement := participant.Placement
	if placement < constant.MinPlacement {
		placement = constant.MinPlacement
	} else if placement > constant.MaxPlacement {
		placement = constant.MaxPlacement
	}

	traits := make([]model.CompTrait, 0, len(participant.Traits))
	for _, t := range participant.Traits {
		if t.TraitID == "" {
			continue
		}
		traits = append(traits, model.CompTrait{
			TraitID:  t.TraitID,
			Tier:     t.Tier,
			NumUnits: t.NumUnits,
		})
	}
	// tier descending, then trait id ascending
	sort.SliceStable(traits, func(i, j int) bool {
		if traits[i].Tier != traits[j].Tier {
			return traits[i].Tier > traits[j].Tier
		}
		return traits[i].TraitID < traits[j].TraitID
	})

	units := make([]model.CompUnit, 0, len(participant.Units))
	for _, u := range participant.Units {
		if u.UnitID == "" {
			continue
		}
		cost := 0
		if ref, ok := unitsMap[u.UnitID]; ok {
			cost = ref.Cost
		}
		items := u.Items
		if items == nil {
			items = []string{}
		}
		units = append(units, model.CompUnit{
			UnitID: u.UnitID,
			Cost:   cost,
			Items:  items,
		})
	}

	naming := namingTraits(traits, traitsMap)
	return &model.Composition{
		ID:        compositionSignature(naming),
		Name:      compositionName(naming),
		Icon:      compositionIcon(traits, traitsMap),
		MatchID:   match.MatchID,
		Region:    match.Region,
		Placement: placement,
		Count:     weight,
		Traits:    traits,
		Units:     units,
	}
}

type namedTrait struct {
	model.CompTrait
	name string
}

// namingTraits picks the up-to-two significant traits that name the
// composition: tier above the significance floor, most units first, trait
// name as the tie break.
func namingTraits(traits []model.CompTrait, traitsMap map[string]*model.Trait) []namedTrait {
	candidates := make([]namedTrait, 0, len(traits))
	for _, t := range traits {
		if t.Tier <= constant.SignificantTraitTier {
			continue
		}
		name := constant.UnknownEntityName
		if ref, ok := traitsMap[t.TraitID]; ok {
			name = ref.Name
		}
		candidates = append(candidates, namedTrait{CompTrait: t, name: name})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].NumUnits != candidates[j].NumUnits {
			return candidates[i].NumUnits > candidates[j].NumUnits
		}
		return candidates[i].name < candidates[j].name
	})
	if len(candidates) > 2 {
		candidates = candidates[:2]
	}
	return candidates
}

func compositionName(naming []namedTrait) string {
	if len(naming) == 0 {
		return constant.MixedCompositionName
	}
	parts := make([]string, 0, len(naming))
	for _, t := range naming {
		parts = append(parts, fmt.Sprintf("%d %s", t.NumUnits, t.name))
	}
	return strings.Join(parts, " & ")
}

func compositionSignature(naming []namedTrait) string {
	if len(naming) == 0 {
		return "mixed"
	}
	parts := make([]string, 0, len(naming))
	for _, t := range naming {
		parts = append(parts, fmt.Sprintf("%s-%d", t.TraitID, t.NumUnits))
	}
	return strings.Join(parts, "|")
}

// compositionIcon resolves the icon of the single highest-tier trait,
// falling back to the default icon when nothing resolves.
func compositionIcon(traits []model.CompTrait, traitsMap map[string]*model.Trait) string {
	for _, t := range traits {
		if ref, ok := traitsMap[t.TraitID]; ok && ref.Icon != "" {
			return ref.Icon
		}
	}
	return constant.DefaultTraitIcon
}
