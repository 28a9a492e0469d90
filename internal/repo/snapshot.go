package repo

import (
	"context"

	"github.com/uptrace/bun"

	"compstats.gg/backend/internal/model"
	"compstats.gg/backend/internal/repo/selector"
)

type Snapshot struct {
	db *bun.DB

	sel selector.S[model.Snapshot]
}

func NewSnapshot(db *bun.DB) *Snapshot {
	return &Snapshot{
		db:  db,
		sel: selector.New[model.Snapshot](db),
	}
}

func (s *Snapshot) GetLatestSnapshotByKey(ctx context.Context, key string) (*model.Snapshot, error) {
	return s.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("key = ?", key).OrderExpr("snapshot_id DESC").Limit(1)
	})
}

func (s *Snapshot) GetSnapshotsByVersions(ctx context.Context, key string, versions []string) ([]*model.Snapshot, error) {
	return s.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("key = ?", key).Where("version IN (?)", bun.In(versions))
	})
}

func (s *Snapshot) SaveSnapshot(ctx context.Context, snapshot *model.Snapshot) (*model.Snapshot, error) {
	_, err := s.db.NewInsert().
		Model(snapshot).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return snapshot, err
}
