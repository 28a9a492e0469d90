package constant

// Board and placement bounds of the underlying auto-battler. These describe
// the game itself, not tunable pipeline behavior: tunables live in appconfig.
const (
	MinPlacement = 1
	MaxPlacement = 8

	// WinPlacement is the placement counted as a win.
	WinPlacement = 1

	// Top4Placement is the highest placement still counted into the top-4 rate.
	Top4Placement = 4

	MinUnitCost = 1
	MaxUnitCost = 5

	// MaxItemsPerUnit is the item capacity of a single unit; a unit holding
	// this many items counts as fully itemized.
	MaxItemsPerUnit = 3

	// SignificantTraitTier is the tier strictly above which a trait
	// participates in composition naming and signatures.
	SignificantTraitTier = 1
)

const (
	// MixedCompositionName names compositions without two significant traits.
	MixedCompositionName = "Mixed Composition"

	// DefaultTraitIcon is used when no trait icon resolves for a composition.
	DefaultTraitIcon = "/icons/traits/default.svg"

	// UnknownEntityName fills display names for ids missing from the
	// reference tables, so malformed input still renders.
	UnknownEntityName = "Unknown"
)

// Trait types. Every trait is either an origin or a class.
const (
	TraitTypeOrigin = "origin"
	TraitTypeClass  = "class"
)

// Composition archetypes for highlight variants.
const (
	ArchetypeFastNine = "Fast-9"
	ArchetypeReroll   = "Reroll"
	ArchetypeStandard = "Standard"
)
