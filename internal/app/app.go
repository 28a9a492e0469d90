package app

import (
	"time"

	"go.uber.org/fx"

	"compstats.gg/backend/internal/app/appconfig"
	"compstats.gg/backend/internal/app/appcontext"
	"compstats.gg/backend/internal/controller"
	"compstats.gg/backend/internal/infra"
	"compstats.gg/backend/internal/model/cache"
	"compstats.gg/backend/internal/pkg/logger"
	"compstats.gg/backend/internal/repo"
	"compstats.gg/backend/internal/server"
	"compstats.gg/backend/internal/service"
	"compstats.gg/backend/internal/util/compverifs"
	"compstats.gg/backend/internal/workers/calcwkr"
	"compstats.gg/backend/internal/workers/matchwkr"
)

func Options(ctx appcontext.Ctx, additionalOpts ...fx.Option) []fx.Option {
	conf, err := appconfig.Parse(ctx)
	if err != nil {
		panic(err)
	}

	// logger and configuration are the only two things that are not in the fx graph
	// because some other packages need them to be initialized before fx starts
	logger.Configure(conf)

	baseOpts := []fx.Option{
		// fx meta
		fx.WithLogger(logger.Fx),

		// Misc
		fx.Supply(conf),

		// Infrastructures
		infra.Module(),

		// Servers
		server.Module(),

		// Verifiers
		compverifs.Module(),

		// Repositories
		repo.Module(),

		// Services
		service.Module(),

		// Global Singleton Inits: Keep those before controllers to ensure they are initialized
		// before controllers are registered as controllers are also fx#Invoke functions which
		// are called in the order of their registration.
		fx.Invoke(infra.SentryInit),
		fx.Invoke(cache.Initialize),

		// Controllers
		controller.Module(),

		// Workers
		fx.Invoke(calcwkr.Start),
		fx.Invoke(matchwkr.Start),

		// fx Extra Options
		fx.StartTimeout(1 * time.Second),
		// StopTimeout is not typically needed, since we're using fiber's Shutdown(),
		// in which fiber has its own IdleTimeout for controlling the shutdown timeout.
		// It acts as a countermeasure in case the fiber app is not properly shutting down.
		fx.StopTimeout(5 * time.Minute),
	}

	return append(baseOpts, additionalOpts...)
}

func New(ctx appcontext.Ctx, additionalOpts ...fx.Option) *fx.App {
	return fx.New(Options(ctx, additionalOpts...)...)
}
