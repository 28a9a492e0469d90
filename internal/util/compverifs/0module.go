package compverifs

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module("compverifs", fx.Provide(
		NewCompVerifier,
		NewMeanCostVerifier,
		NewTraitTierVerifier,
		NewUnitCountVerifier,
		NewItemizationVerifier,
		NewMaxCostUnitsVerifier,
	))
}
