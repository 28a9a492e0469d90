package matchwkr

import (
	"context"
	"runtime"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"compstats.gg/backend/internal/constant"
	"compstats.gg/backend/internal/model"
	"compstats.gg/backend/internal/model/types"
	"compstats.gg/backend/internal/pkg/observability"
	"compstats.gg/backend/internal/repo"
)

type WorkerDeps struct {
	fx.In
	NatsJS    nats.JetStreamContext
	MatchRepo *repo.Match
}

type Worker struct {
	// count is the number of consumers spawned
	count int

	WorkerDeps
}

func Start(deps WorkerDeps) {
	ch := make(chan error)
	// handle & dump errors from workers
	go func() {
		for {
			err := <-ch
			if err != nil {
				log.Error().Err(err).Msg("match worker error")
			}
		}
	}()
	matchWorkers := &Worker{
		count:      0,
		WorkerDeps: deps,
	}
	for i := 0; i < runtime.NumCPU(); i++ {
		go func() {
			err := matchWorkers.Consumer(context.Background(), ch)
			if err != nil {
				ch <- err
			}
		}()
		matchWorkers.count += 1
	}
}

func (w *Worker) Consumer(ctx context.Context, ch chan error) error {
	msgChan := make(chan *nats.Msg, 16)

	_, err := w.NatsJS.ChanQueueSubscribe(
		constant.MatchIngestSubject+".*",
		constant.MatchIngestQueue,
		msgChan,
		nats.AckWait(time.Second*10),
		nats.MaxAckPending(128),
	)
	if err != nil {
		log.Err(err).Msg("failed to subscribe to " + constant.MatchIngestSubject + ".*")
		return err
	}

	for {
		select {
		case msg := <-msgChan:
			func() {
				start := time.Now()
				taskCtx, cancelTask := context.WithDeadline(ctx, time.Now().Add(time.Second*10))
				inprogressInformer := time.AfterFunc(time.Second*5, func() {
					if err := msg.InProgress(); err != nil {
						log.Error().Err(err).Msg("failed to set msg InProgress")
					}
				})
				defer func() {
					inprogressInformer.Stop()
					cancelTask()
					if err := msg.Ack(); err != nil {
						log.Error().Err(err).Msg("failed to ack")
					}
					observability.MatchConsumeDuration.
						WithLabelValues().
						Observe(time.Since(start).Seconds())
				}()

				matchTask := &types.MatchTask{}
				if err := json.Unmarshal(msg.Data, matchTask); err != nil {
					ch <- err
					return
				}

				if err := w.consumeMatch(taskCtx, matchTask); err != nil {
					log.Error().
						Err(err).
						Str("taskId", matchTask.TaskID).
						Str("matchTask", spew.Sdump(matchTask)).
						Msg("failed to consume match task")
					ch <- err
					return
				}

				log.Info().Str("taskId", matchTask.TaskID).Msg("match task processed successfully")
			}()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// consumeMatch persists one reported match. Tasks are read defensively:
// anything the publisher left empty is default-filled here so a malformed
// producer cannot wedge the queue.
func (w *Worker) consumeMatch(ctx context.Context, matchTask *types.MatchTask) error {
	if matchTask.MatchID == "" {
		matchTask.MatchID = ulid.Make().String()
	}
	if matchTask.Region == "" {
		matchTask.Region = constant.DefaultRegion
	}

	// matchTask.CreatedAt is in microseconds
	var playedAt time.Time
	if matchTask.CreatedAt != 0 {
		playedAt = time.UnixMicro(matchTask.CreatedAt)
	} else {
		playedAt = time.Now()
	}

	return w.MatchRepo.SaveMatch(ctx, &model.Match{
		MatchID:      matchTask.MatchID,
		Region:       matchTask.Region,
		GameVersion:  matchTask.GameVersion,
		PlayedAt:     &playedAt,
		Count:        matchTask.Count,
		Participants: matchTask.Participants,
	})
}
