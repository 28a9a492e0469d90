package model

// Composition is one participant-placement derived from a raw match. It is a
// pure projection: extraction never fails, even for empty boards.
type Composition struct {
	// ID is the canonical signature of the composition: its top two
	// significant traits, used as the grouping key during aggregation.
	ID string `json:"id"`

	Name string `json:"name"`
	Icon string `json:"icon"`

	MatchID   string `json:"matchId"`
	Region    string `json:"region"`
	Placement int    `json:"placement"`

	// Count is the occurrence weight inherited from the source match.
	Count float64 `json:"count"`

	// Traits is sorted by tier descending, then trait id ascending.
	Traits []CompTrait `json:"traits"`
	Units  []CompUnit  `json:"units"`
}

type CompTrait struct {
	TraitID  string `json:"traitId"`
	Tier     int    `json:"tier"`
	NumUnits int    `json:"numUnits"`
}

type CompUnit struct {
	UnitID string   `json:"unitId"`
	Cost   int      `json:"cost"`
	Items  []string `json:"items"`
}
