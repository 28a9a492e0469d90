package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compstats.gg/backend/internal/constant"
	"compstats.gg/backend/internal/model"
)

func highlightFixture() *model.AggregateResult {
	return &model.AggregateResult{
		Region: "NA",
		Summary: model.AggregateSummary{
			TotalGames: 100,
		},
		Compositions: []*model.CompositionAggregate{
			{
				ID:        "brawler-4|mage-3",
				Name:      "4 Brawler & 3 Mage",
				StatBlock: model.StatBlock{Count: 40, AvgPlacement: 3.2, WinRate: 20, PlayRate: 40},
				Traits: []model.CompTrait{
					{TraitID: "brawler", Tier: 3, NumUnits: 4},
					{TraitID: "mage", Tier: 2, NumUnits: 3},
				},
				Units: []model.CompUnit{
					{UnitID: "a-unit", Cost: 1},
					{UnitID: "b-unit", Cost: 3},
				},
			},
			{
				ID:        "void-3|ember-2",
				Name:      "3 Void & 2 Ember",
				StatBlock: model.StatBlock{Count: 4, AvgPlacement: 2.4, WinRate: 60, PlayRate: 4},
				Traits: []model.CompTrait{
					{TraitID: "void", Tier: 2, NumUnits: 3},
					{TraitID: "ember", Tier: 2, NumUnits: 2},
					{TraitID: "mage", Tier: 1, NumUnits: 2},
				},
				Units: []model.CompUnit{
					{UnitID: "a-unit", Cost: 1},
					{UnitID: "c-unit", Cost: 5},
				},
			},
		},
		Units: []*model.UnitAggregate{
			{UnitID: "a-unit", Name: "A", Cost: 1, StatBlock: model.StatBlock{Count: 44, AvgPlacement: 3.1, WinRate: 25, PlayRate: 44}},
			{UnitID: "b-unit", Name: "B", Cost: 3, StatBlock: model.StatBlock{Count: 40, AvgPlacement: 3.2, WinRate: 25, PlayRate: 40}},
			{UnitID: "c-unit", Name: "C", Cost: 5, StatBlock: model.StatBlock{Count: 4, AvgPlacement: 2.4, WinRate: 60, PlayRate: 4}},
		},
		Traits: []*model.TraitAggregate{
			{TraitID: "brawler", Name: "Brawler", Type: constant.TraitTypeClass, StatBlock: model.StatBlock{Count: 40, AvgPlacement: 3.2, WinRate: 20, PlayRate: 40}, Tier: 3, NumUnits: 4},
			{TraitID: "void", Name: "Void", Type: constant.TraitTypeOrigin, StatBlock: model.StatBlock{Count: 4, AvgPlacement: 2.4, WinRate: 60, PlayRate: 4}, Tier: 2, NumUnits: 3},
		},
		Items: []*model.ItemAggregate{
			{ItemID: "sword", Name: "Sword", Category: "offense", StatBlock: model.StatBlock{Count: 30, AvgPlacement: 3.0, WinRate: 30, PlayRate: 30}, UnitsWithItem: []model.UnitWithItem{
				{UnitID: "a-unit"}, {UnitID: "b-unit"},
			}},
			{ItemID: "armor", Name: "Armor", Category: "defense", StatBlock: model.StatBlock{Count: 20, AvgPlacement: 3.5, WinRate: 15, PlayRate: 20}, UnitsWithItem: []model.UnitWithItem{
				{UnitID: "a-unit"},
			}},
		},
	}
}

func criterionGroup(t *testing.T, groups []*model.HighlightGroup, criterion string) *model.HighlightGroup {
	t.Helper()
	for _, group := range groups {
		if group.Criterion == criterion {
			return group
		}
	}
	t.Fatalf("criterion %s not found", criterion)
	return nil
}

func TestBuildHighlightsDeterministic(t *testing.T) {
	h := NewHighlight(testConfig())

	first := h.BuildHighlights(highlightFixture())
	second := h.BuildHighlights(highlightFixture())
	assert.Equal(t, first, second)
}

func TestBuildHighlightsBestWinRate(t *testing.T) {
	h := NewHighlight(testConfig())
	groups := h.BuildHighlights(highlightFixture())

	group := criterionGroup(t, groups, model.CriterionBestWinRate)
	overall := group.PreferredVariant(model.HighlightEntityUnit)
	require.NotNil(t, overall)
	assert.Equal(t, model.VariantOverall, overall.Variant)

	require.Len(t, overall.Entries, 3)
	assert.Equal(t, "c-unit", overall.Entries[0].EntityID)
	// equal win rates resolve by entity id
	assert.Equal(t, "a-unit", overall.Entries[1].EntityID)
	assert.Equal(t, "b-unit", overall.Entries[2].EntityID)
}

func TestBuildHighlightsMostConsistent(t *testing.T) {
	h := NewHighlight(testConfig())
	groups := h.BuildHighlights(highlightFixture())

	group := criterionGroup(t, groups, model.CriterionMostConsistent)
	overall := group.PreferredVariant(model.HighlightEntityComposition)
	require.NotNil(t, overall)

	// lower average placement ranks first
	assert.Equal(t, "void-3|ember-2", overall.Entries[0].EntityID)
}

func TestBuildHighlightsMostFlexible(t *testing.T) {
	h := NewHighlight(testConfig())
	groups := h.BuildHighlights(highlightFixture())

	group := criterionGroup(t, groups, model.CriterionMostFlexible)

	units := group.PreferredVariant(model.HighlightEntityUnit)
	require.NotNil(t, units)
	// a-unit appears in both compositions
	assert.Equal(t, "a-unit", units.Entries[0].EntityID)
	assert.Equal(t, 2.0, units.Entries[0].Value)

	items := group.PreferredVariant(model.HighlightEntityItem)
	require.NotNil(t, items)
	// sword is carried by two distinct units
	assert.Equal(t, "sword", items.Entries[0].EntityID)
}

func TestBuildHighlightsPocketPick(t *testing.T) {
	h := NewHighlight(testConfig())
	groups := h.BuildHighlights(highlightFixture())

	group := criterionGroup(t, groups, model.CriterionPocketPick)

	units := group.PreferredVariant(model.HighlightEntityUnit)
	require.NotNil(t, units)
	// only c-unit clears the win-rate floor while staying under the
	// play-rate ceiling
	require.Len(t, units.Entries, 1)
	assert.Equal(t, "c-unit", units.Entries[0].EntityID)

	// no item qualifies
	assert.Nil(t, group.PreferredVariant(model.HighlightEntityItem))
}

func TestBuildHighlightsVariants(t *testing.T) {
	h := NewHighlight(testConfig())
	groups := h.BuildHighlights(highlightFixture())

	group := criterionGroup(t, groups, model.CriterionMostPlayed)

	// units break down by cost tier, Overall first then names ascending
	require.NotEmpty(t, group.Units)
	assert.Equal(t, model.VariantOverall, group.Units[0].Variant)
	names := make([]string, 0, len(group.Units)-1)
	for _, variant := range group.Units[1:] {
		names = append(names, variant.Variant)
	}
	assert.Equal(t, []string{"Cost 1", "Cost 3", "Cost 5"}, names)

	// items break down by category
	require.Len(t, group.Items, 3)
	assert.Equal(t, model.VariantOverall, group.Items[0].Variant)
	assert.Equal(t, "defense", group.Items[1].Variant)
	assert.Equal(t, "offense", group.Items[2].Variant)

	// traits break down by origin and class
	require.Len(t, group.Traits, 3)
	assert.Equal(t, model.VariantOverall, group.Traits[0].Variant)
	assert.Equal(t, constant.TraitTypeClass, group.Traits[1].Variant)
	assert.Equal(t, constant.TraitTypeOrigin, group.Traits[2].Variant)
}

func TestBuildHighlightsTopN(t *testing.T) {
	conf := testConfig()
	conf.HighlightTopN = 2
	h := NewHighlight(conf)
	groups := h.BuildHighlights(highlightFixture())

	group := criterionGroup(t, groups, model.CriterionMostPlayed)
	overall := group.PreferredVariant(model.HighlightEntityUnit)
	require.NotNil(t, overall)
	assert.Len(t, overall.Entries, 2)
}

func TestClassifyArchetype(t *testing.T) {
	fastNine := []model.CompUnit{
		{UnitID: "a", Cost: 5}, {UnitID: "b", Cost: 5}, {UnitID: "c", Cost: 5},
		{UnitID: "d", Cost: 3},
	}
	assert.Equal(t, constant.ArchetypeFastNine, classifyArchetype(fastNine))

	reroll := []model.CompUnit{
		{UnitID: "a", Cost: 1}, {UnitID: "b", Cost: 1}, {UnitID: "c", Cost: 1},
		{UnitID: "d", Cost: 1}, {UnitID: "e", Cost: 3},
	}
	assert.Equal(t, constant.ArchetypeReroll, classifyArchetype(reroll))

	standard := []model.CompUnit{
		{UnitID: "a", Cost: 1}, {UnitID: "b", Cost: 2}, {UnitID: "c", Cost: 3},
		{UnitID: "d", Cost: 4}, {UnitID: "e", Cost: 5},
	}
	assert.Equal(t, constant.ArchetypeStandard, classifyArchetype(standard))
}

func TestHighlightGroupPreferredVariantFallback(t *testing.T) {
	group := &model.HighlightGroup{
		Criterion: model.CriterionBestWinRate,
		Units: []*model.HighlightVariant{
			{Variant: "Cost 1"},
			{Variant: model.VariantOverall},
		},
	}
	preferred := group.PreferredVariant(model.HighlightEntityUnit)
	require.NotNil(t, preferred)
	assert.Equal(t, model.VariantOverall, preferred.Variant)

	assert.Nil(t, (&model.HighlightGroup{}).PreferredVariant(model.HighlightEntityTrait))
}
