package model

import "time"

// StatBlock is the derived statistical shape shared by every aggregate kind.
// Rates are pre-clamped on conversion: avgPlacement to [1,8], winRate and
// top4Rate to [0,100].
type StatBlock struct {
	Count        float64 `json:"count"`
	AvgPlacement float64 `json:"avgPlacement"`
	WinRate      float64 `json:"winRate"`
	Top4Rate     float64 `json:"top4Rate"`
	PlayRate     float64 `json:"playRate"`
}

// CompositionAggregate is the per-signature group aggregate. Only groups with
// at least the configured minimum occurrences survive aggregation.
type CompositionAggregate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`

	StatBlock

	// Traits and Units are the union across grouped compositions, each at the
	// peak tier/cost seen.
	Traits []CompTrait `json:"traits"`
	Units  []CompUnit  `json:"units"`

	// PlacementBuckets is a histogram of weighted occurrences per placement,
	// index 0 holding placement 1.
	PlacementBuckets []float64 `json:"placementBuckets"`
}

type UnitAggregate struct {
	UnitID string `json:"unitId"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Cost   int    `json:"cost"`

	StatBlock

	// TopItems holds the unit's best items by win rate, at most three.
	TopItems []TopItem `json:"topItems"`
}

type TopItem struct {
	ItemID  string  `json:"itemId"`
	WinRate float64 `json:"winRate"`
	Count   float64 `json:"count"`
}

type TraitAggregate struct {
	TraitID string `json:"traitId"`
	Name    string `json:"name"`
	Icon    string `json:"icon"`
	Type    string `json:"type"`

	StatBlock

	// Tier and NumUnits report the peak activation observed; lower-tier
	// occurrences still contribute to the sums.
	Tier     int `json:"tier"`
	NumUnits int `json:"numUnits"`
}

type ItemAggregate struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Category string `json:"category"`

	StatBlock

	UnitsWithItem []UnitWithItem `json:"unitsWithItem"`
	Combos        []ItemCombo    `json:"combos"`
}

// UnitWithItem is the per-unit breakdown of an item's carriers.
type UnitWithItem struct {
	UnitID string `json:"unitId"`

	StatBlock

	// Compositions lists the distinct composition signatures in which this
	// unit carried the item.
	Compositions []string `json:"compositions"`
}

// ItemCombo is a mined co-equipped item set. Items is sorted ascending and
// includes the owning item id.
type ItemCombo struct {
	Items   []string `json:"items"`
	WinRate float64  `json:"winRate"`
	Count   float64  `json:"count"`
}

// AggregateSummary is the headline block of an aggregate result.
type AggregateSummary struct {
	TotalGames   float64 `json:"totalGames"`
	AvgPlacement float64 `json:"avgPlacement"`

	// DroppedLowSignal counts weighted composition occurrences discarded for
	// falling below the minimum group size, so data loss stays observable.
	DroppedLowSignal float64 `json:"droppedLowSignal"`
}

// AggregateResult is the complete output of one aggregation run for one
// region: compositions, units, traits and items together. It is immutable
// once produced; merge works on deep copies.
type AggregateResult struct {
	Region string `json:"region"`

	Summary AggregateSummary `json:"summary"`

	Compositions []*CompositionAggregate `json:"compositions"`
	Units        []*UnitAggregate        `json:"units"`
	Traits       []*TraitAggregate       `json:"traits"`
	Items        []*ItemAggregate        `json:"items"`

	UpdatedAt time.Time `json:"updatedAt"`
}
