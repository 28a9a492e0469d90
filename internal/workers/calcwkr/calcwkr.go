package calcwkr

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"compstats.gg/backend/internal/app/appconfig"
	"compstats.gg/backend/internal/constant"
	"compstats.gg/backend/internal/pkg/observability"
	"compstats.gg/backend/internal/service"
)

type WorkerDeps struct {
	fx.In
	StatsService *service.Stats
	RedSync      *redsync.Redsync
}

type Worker struct {
	// count counts batches worker has completed so far
	count int

	// sep describes the separation time in-between different jobs
	sep time.Duration

	// interval describes the interval in-between different batches of job running
	interval time.Duration

	// timeout bounds a single region recompute
	timeout time.Duration

	// deps
	WorkerDeps
}

func Start(conf *appconfig.Config, deps WorkerDeps) {
	if !conf.WorkerEnabled {
		log.Info().Msg("worker: disabled due to configuration")
		return
	}
	(&Worker{
		sep:        conf.WorkerSeparation,
		interval:   conf.WorkerInterval,
		timeout:    conf.WorkerTimeout,
		WorkerDeps: deps,
	}).do()
}

func (w *Worker) do() context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// only one instance recomputes at a time; the others skip the batch
		mutex := w.RedSync.NewMutex("mutex:calcwkr", redsync.WithExpiry(w.interval))

		for {
			if err := mutex.LockContext(ctx); err != nil {
				log.Info().Err(err).Msg("worker: another instance holds the batch lock, skipping")
				time.Sleep(w.interval)
				continue
			}

			log.Info().
				Int("count", w.count).
				Msg("worker batch started")

			for _, region := range constant.Regions {
				log.Info().Str("region", region).Str("service", "StatsService").Msg("worker calculating")
				if err := w.refresh(ctx, region); err != nil {
					log.Error().Err(err).Str("region", region).Msg("worker: failed to refresh region")
					continue
				}
				log.Debug().Str("region", region).Str("service", "StatsService").Msg("worker finished")
				time.Sleep(w.sep)
			}

			log.Info().Int("count", w.count).Msg("worker batch finished")

			if ok, err := mutex.UnlockContext(ctx); !ok || err != nil {
				log.Warn().Err(err).Msg("worker: failed to release batch lock")
			}

			w.count++
			time.Sleep(w.interval)
		}
	}()

	return cancel
}

func (w *Worker) refresh(ctx context.Context, region string) error {
	tctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		observability.WorkerCalcDuration.
			WithLabelValues("StatsService", region).
			Set(time.Since(start).Seconds())
	}()

	return w.StatsService.RefreshRegion(tctx, region)
}

func (w *Worker) Count() int {
	return w.count
}
