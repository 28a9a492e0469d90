package compverifs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compstats.gg/backend/internal/app/appconfig"
	"compstats.gg/backend/internal/model"
)

func testConfig() *appconfig.Config {
	return &appconfig.Config{
		ConfigSpec: appconfig.ConfigSpec{
			RealismMaxCostUnitCap:     3,
			RealismTopTierTraitCap:    1,
			RealismSecondTierTraitCap: 3,
			RealismMinUnits:           5,
			RealismMaxUnits:           10,
			RealismMaxMeanUnitCost:    4,
			RealismMaxFullItemRatio:   0.7,
		},
	}
}

func boardOf(costs ...int) []model.CompUnit {
	units := make([]model.CompUnit, 0, len(costs))
	for i, cost := range costs {
		units = append(units, model.CompUnit{
			UnitID: fmt.Sprintf("u%02d", i),
			Cost:   cost,
			Items:  []string{},
		})
	}
	return units
}

func TestUnitCountVerifier(t *testing.T) {
	v := NewUnitCountVerifier(testConfig())

	assert.NotNil(t, v.Verify(&model.Composition{Units: boardOf(1, 2, 3, 2)}), "4 units is below the floor")
	assert.Nil(t, v.Verify(&model.Composition{Units: boardOf(1, 2, 3, 2, 1)}), "5 units is the floor")
	assert.Nil(t, v.Verify(&model.Composition{Units: boardOf(1, 1, 1, 1, 1, 1, 1, 1, 1, 1)}), "10 units is the cap")
	assert.NotNil(t, v.Verify(&model.Composition{Units: boardOf(1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1)}), "11 units is above the cap")
}

func TestMaxCostUnitsVerifier(t *testing.T) {
	v := NewMaxCostUnitsVerifier(testConfig())

	assert.Nil(t, v.Verify(&model.Composition{Units: boardOf(5, 5, 5, 1, 1)}), "3 max-cost units is the cap")
	assert.NotNil(t, v.Verify(&model.Composition{Units: boardOf(5, 5, 5, 5, 1)}), "4 max-cost units is above the cap")
}

func TestMeanCostVerifier(t *testing.T) {
	v := NewMeanCostVerifier(testConfig())

	assert.Nil(t, v.Verify(&model.Composition{Units: boardOf(4, 4, 4, 4, 4)}), "mean of exactly 4 is allowed")
	assert.NotNil(t, v.Verify(&model.Composition{Units: boardOf(5, 5, 4, 4, 4)}), "mean above 4 is rejected")
	assert.Nil(t, v.Verify(&model.Composition{Units: nil}), "empty boards are left to the unit count verifier")
}

func TestTraitTierVerifier(t *testing.T) {
	v := NewTraitTierVerifier(testConfig())

	ok := &model.Composition{Traits: []model.CompTrait{
		{TraitID: "brawler", Tier: 3, NumUnits: 6},
		{TraitID: "mage", Tier: 2, NumUnits: 3},
		{TraitID: "duelist", Tier: 2, NumUnits: 2},
	}}
	assert.Nil(t, v.Verify(ok))

	stackedTop := &model.Composition{Traits: []model.CompTrait{
		{TraitID: "brawler", Tier: 3, NumUnits: 6},
		{TraitID: "mage", Tier: 3, NumUnits: 6},
	}}
	assert.NotNil(t, v.Verify(stackedTop), "two traits at the top tier")

	stackedSecond := &model.Composition{Traits: []model.CompTrait{
		{TraitID: "brawler", Tier: 3, NumUnits: 6},
		{TraitID: "a", Tier: 2, NumUnits: 2},
		{TraitID: "b", Tier: 2, NumUnits: 2},
		{TraitID: "c", Tier: 2, NumUnits: 2},
		{TraitID: "d", Tier: 2, NumUnits: 2},
	}}
	assert.NotNil(t, v.Verify(stackedSecond), "four traits at the second tier")

	assert.Nil(t, v.Verify(&model.Composition{}), "no traits, nothing to check")
}

func TestItemizationVerifier(t *testing.T) {
	v := NewItemizationVerifier(testConfig())

	full := []string{"i1", "i2", "i3"}
	comp := &model.Composition{Units: []model.CompUnit{
		{UnitID: "u1", Items: full},
		{UnitID: "u2", Items: full},
		{UnitID: "u3", Items: full},
		{UnitID: "u4", Items: []string{"i1"}},
		{UnitID: "u5", Items: []string{}},
	}}
	assert.Nil(t, v.Verify(comp), "3 of 5 fully itemized is within the ratio")

	comp.Units[3].Items = full
	assert.NotNil(t, v.Verify(comp), "4 of 5 fully itemized is above the ratio")
}

func TestAcceptReturnsFirstViolation(t *testing.T) {
	conf := testConfig()
	verifiers := NewCompVerifier(
		NewMaxCostUnitsVerifier(conf),
		NewTraitTierVerifier(conf),
		NewUnitCountVerifier(conf),
		NewMeanCostVerifier(conf),
		NewItemizationVerifier(conf),
	)

	// undersized board of max-cost units violates several verifiers at once;
	// unit count runs first
	comp := &model.Composition{Units: boardOf(5, 5, 5, 5)}
	violation := verifiers.Accept(comp)
	require.NotNil(t, violation)
	assert.Equal(t, "unit_count", violation.Name)

	ok := &model.Composition{Units: boardOf(1, 2, 2, 3, 3, 4)}
	assert.Nil(t, verifiers.Accept(ok))
}
