package repo

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"compstats.gg/backend/internal/model"
	"compstats.gg/backend/internal/repo/selector"
)

type Match struct {
	db *bun.DB

	sel selector.S[model.Match]
}

func NewMatch(db *bun.DB) *Match {
	return &Match{
		db:  db,
		sel: selector.New[model.Match](db),
	}
}

func (r *Match) SaveMatch(ctx context.Context, match *model.Match) error {
	_, err := r.db.NewInsert().
		Model(match).
		On("CONFLICT (match_id) DO NOTHING").
		Exec(ctx)
	return err
}

func (r *Match) GetMatchByID(ctx context.Context, matchID string) (*model.Match, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("match_id = ?", matchID)
	})
}

// GetMatchesByRegion returns raw matches for one region played after since,
// oldest first so aggregation is deterministic for a fixed window.
func (r *Match) GetMatchesByRegion(ctx context.Context, region string, since time.Time) ([]*model.Match, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("region = ?", region).
			Where("played_at >= ?", since).
			Order("played_at ASC", "match_id ASC")
	})
}

func (r *Match) CountByRegion(ctx context.Context, region string) (int, error) {
	return r.db.NewSelect().
		Model((*model.Match)(nil)).
		Where("region = ?", region).
		Count(ctx)
}
