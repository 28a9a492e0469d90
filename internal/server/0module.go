package server

import (
	"go.uber.org/fx"

	"compstats.gg/backend/internal/server/httpserver"
	"compstats.gg/backend/internal/server/svr"
)

func Module() fx.Option {
	return fx.Module("server",
		fx.Provide(httpserver.Create),
		fx.Provide(svr.CreateEndpointGroups))
}
