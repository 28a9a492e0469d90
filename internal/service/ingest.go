package service

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"compstats.gg/backend/internal/constant"
	"compstats.gg/backend/internal/model/types"
)

// MatchIngest accepts reported matches at the API boundary and hands them to
// the JetStream work queue; the match worker persists them asynchronously.
type MatchIngest struct {
	NatsJS nats.JetStreamContext
}

func NewMatchIngest(natsJS nats.JetStreamContext) *MatchIngest {
	return &MatchIngest{NatsJS: natsJS}
}

// Publish enqueues one match task and returns its task id. A missing match id
// gets a ULID so replays of the same report stay deduplicatable downstream.
func (s *MatchIngest) Publish(ctx context.Context, task *types.MatchTask) (string, error) {
	task.TaskID = xid.New().String()
	if task.MatchID == "" {
		task.MatchID = ulid.Make().String()
	}
	if task.CreatedAt == 0 {
		task.CreatedAt = time.Now().UnixMicro()
	}

	payload, err := json.Marshal(task)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode match task")
	}

	subject := constant.MatchIngestSubject + "." + task.Region
	if _, err := s.NatsJS.Publish(subject, payload, nats.MsgId(task.MatchID), nats.Context(ctx)); err != nil {
		return "", errors.Wrap(err, "failed to publish match task")
	}

	if l := log.Trace(); l.Enabled() {
		l.Str("taskId", task.TaskID).
			Str("matchId", task.MatchID).
			Str("subject", subject).
			Msg("match task published")
	}
	return task.TaskID, nil
}
