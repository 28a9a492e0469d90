package service

import (
	"fmt"

	"compstats.gg/backend/internal/app/appconfig"
	"compstats.gg/backend/internal/constant"
	"compstats.gg/backend/internal/model"
)

func testConfig() *appconfig.Config {
	return &appconfig.Config{
		ConfigSpec: appconfig.ConfigSpec{
			RealismMaxCostUnitCap:       3,
			RealismTopTierTraitCap:      1,
			RealismSecondTierTraitCap:   3,
			RealismMinUnits:             5,
			RealismMaxUnits:             10,
			RealismMaxMeanUnitCost:      4,
			RealismMaxFullItemRatio:     0.7,
			AggregationMinGroupCount:    2,
			ComboMinOccurrences:         2,
			ComboMaxPerItem:             5,
			TopItemsPerUnit:             3,
			HighlightTopN:               5,
			HighlightPocketWinRate:      52,
			HighlightPocketPlayRateCeil: 5,
		},
	}
}

func testUnitsMap() map[string]*model.Unit {
	m := map[string]*model.Unit{}
	for i := 1; i <= 5; i++ {
		for j := 0; j < 4; j++ {
			id := fmt.Sprintf("unit-c%d-%d", i, j)
			m[id] = &model.Unit{
				UnitID: id,
				Name:   fmt.Sprintf("Unit C%d #%d", i, j),
				Icon:   "/icons/units/" + id + ".png",
				Cost:   i,
			}
		}
	}
	return m
}

func testTraitsMap() map[string]*model.Trait {
	return map[string]*model.Trait{
		"brawler": {TraitID: "brawler", Name: "Brawler", Icon: "/icons/traits/brawler.svg", Type: constant.TraitTypeClass},
		"mage":    {TraitID: "mage", Name: "Mage", Icon: "/icons/traits/mage.svg", Type: constant.TraitTypeClass},
		"void":    {TraitID: "void", Name: "Void", Icon: "/icons/traits/void.svg", Type: constant.TraitTypeOrigin},
		"ember":   {TraitID: "ember", Name: "Ember", Icon: "", Type: constant.TraitTypeOrigin},
	}
}

func testItemsMap() map[string]*model.Item {
	return map[string]*model.Item{
		"sword":  {ItemID: "sword", Name: "Sword", Icon: "/icons/items/sword.png", Category: "offense"},
		"bow":    {ItemID: "bow", Name: "Bow", Icon: "/icons/items/bow.png", Category: "offense"},
		"armor":  {ItemID: "armor", Name: "Armor", Icon: "/icons/items/armor.png", Category: "defense"},
		"amulet": {ItemID: "amulet", Name: "Amulet", Icon: "/icons/items/amulet.png", Category: "utility"},
	}
}

// plausibleBoard is a board that passes every realism verifier.
func plausibleBoard(items ...[]string) []model.RawUnit {
	ids := []string{"unit-c1-0", "unit-c2-0", "unit-c2-1", "unit-c3-0", "unit-c3-1", "unit-c4-0"}
	units := make([]model.RawUnit, 0, len(ids))
	for i, id := range ids {
		var equipped []string
		if i < len(items) {
			equipped = items[i]
		}
		units = append(units, model.RawUnit{UnitID: id, Items: equipped})
	}
	return units
}

func plausibleTraits() []model.RawTrait {
	return []model.RawTrait{
		{TraitID: "brawler", Tier: 3, NumUnits: 4},
		{TraitID: "mage", Tier: 2, NumUnits: 3},
		{TraitID: "void", Tier: 1, NumUnits: 2},
	}
}

// matchOf builds a single-participant match with a plausible board.
func matchOf(matchID string, placement int, items ...[]string) *model.Match {
	return &model.Match{
		MatchID: matchID,
		Region:  "NA",
		Participants: []model.RawParticipant{
			{
				Placement: placement,
				Units:     plausibleBoard(items...),
				Traits:    plausibleTraits(),
			},
		},
	}
}
