package app

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"compstats.gg/backend/cmd/app/server"
	"compstats.gg/backend/internal/pkg/bininfo"
)

func Run() {
	app := &cli.App{
		Name:        "compsbackend",
		Description: "The Comp Stats aggregation backend. Built with Go, fiber, bun and go.uber.org/fx. Uses NATS as MQ and Redis as state synchronization.",
		Version:     bininfo.Version,
		Commands: []*cli.Command{
			server.Command(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run app")
	}
}
