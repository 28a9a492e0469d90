package service

import (
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("service", fx.Provide(
		NewUnit,
		NewItem,
		NewTrait,
		NewStats,
		NewMerge,
		NewHealth,
		NewExtract,
		NewHighlight,
		NewAggregation,
		NewMatchIngest,
		NewItemRelation,
		NewAggregateStore,
	))
}
