package model

import "github.com/uptrace/bun"

// Reference tables mapping raw unit/item/trait ids to display metadata.
// Populated by gamedata imports, read-only for the pipeline.

type Unit struct {
	bun.BaseModel `bun:"units,alias:u" json:"-"`

	UnitID string `bun:",pk" json:"unitId"`
	Name   string `bun:"name" json:"name"`
	Icon   string `bun:"icon" json:"icon"`
	Cost   int    `bun:"cost" json:"cost"`
}

type Item struct {
	bun.BaseModel `bun:"items,alias:i" json:"-"`

	ItemID   string `bun:",pk" json:"itemId"`
	Name     string `bun:"name" json:"name"`
	Icon     string `bun:"icon" json:"icon"`
	Category string `bun:"category" json:"category"`
}

type Trait struct {
	bun.BaseModel `bun:"traits,alias:t" json:"-"`

	TraitID string `bun:",pk" json:"traitId"`
	Name    string `bun:"name" json:"name"`
	Icon    string `bun:"icon" json:"icon"`

	// Type is either origin or class.
	Type string `bun:"type" json:"type"`
}
