package model

// Highlight entity types.
const (
	HighlightEntityComposition = "composition"
	HighlightEntityUnit        = "unit"
	HighlightEntityTrait       = "trait"
	HighlightEntityItem        = "item"
)

// VariantOverall is the default variant of every highlight criterion.
const VariantOverall = "Overall"

// Highlight ranking criteria.
const (
	CriterionBestWinRate    = "best-winrate"
	CriterionMostConsistent = "most-consistent"
	CriterionMostPlayed     = "most-played"
	CriterionMostFlexible   = "most-flexible"
	CriterionPocketPick     = "pocket-pick"
)

// HighlightEntity is a read-only projection of one ranked entity for
// "best-of" displays.
type HighlightEntity struct {
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`

	Title  string  `json:"title"`
	Value  float64 `json:"value"`
	Detail string  `json:"detail"`
	Image  string  `json:"image"`
	Link   string  `json:"link"`

	Category string `json:"category,omitempty"`
	Variant  string `json:"variant"`
}

// HighlightVariant is one ranked list under a named breakdown, e.g. a cost
// tier for units or an archetype for compositions.
type HighlightVariant struct {
	Variant string             `json:"variant"`
	Entries []*HighlightEntity `json:"entries"`
}

// HighlightGroup is one ranking criterion with its per-entity-kind variants.
type HighlightGroup struct {
	Criterion string `json:"criterion"`

	Compositions []*HighlightVariant `json:"compositions"`
	Units        []*HighlightVariant `json:"units"`
	Traits       []*HighlightVariant `json:"traits"`
	Items        []*HighlightVariant `json:"items"`
}

// PreferredVariant returns the variant shown by default for an entity kind:
// the first (top-ranked) Overall variant, or nil when the kind is empty.
func (g *HighlightGroup) PreferredVariant(entityType string) *HighlightVariant {
	var variants []*HighlightVariant
	switch entityType {
	case HighlightEntityComposition:
		variants = g.Compositions
	case HighlightEntityUnit:
		variants = g.Units
	case HighlightEntityTrait:
		variants = g.Traits
	case HighlightEntityItem:
		variants = g.Items
	}
	for _, v := range variants {
		if v.Variant == VariantOverall {
			return v
		}
	}
	if len(variants) > 0 {
		return variants[0]
	}
	return nil
}
