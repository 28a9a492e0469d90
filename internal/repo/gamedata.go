package repo

import (
	"context"

	"github.com/uptrace/bun"

	"compstats.gg/backend/internal/model"
	"compstats.gg/backend/internal/repo/selector"
)

type Unit struct {
	db  *bun.DB
	sel selector.S[model.Unit]
}

func NewUnit(db *bun.DB) *Unit {
	return &Unit{
		db:  db,
		sel: selector.New[model.Unit](db),
	}
}

func (r *Unit) GetUnits(ctx context.Context) ([]*model.Unit, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("unit_id ASC")
	})
}

func (r *Unit) GetUnitByID(ctx context.Context, unitID string) (*model.Unit, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("unit_id = ?", unitID)
	})
}

type Item struct {
	db  *bun.DB
	sel selector.S[model.Item]
}

func NewItem(db *bun.DB) *Item {
	return &Item{
		db:  db,
		sel: selector.New[model.Item](db),
	}
}

func (r *Item) GetItems(ctx context.Context) ([]*model.Item, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("item_id ASC")
	})
}

func (r *Item) GetItemByID(ctx context.Context, itemID string) (*model.Item, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("item_id = ?", itemID)
	})
}

type Trait struct {
	db  *bun.DB
	sel selector.S[model.Trait]
}

func NewTrait(db *bun.DB) *Trait {
	return &Trait{
		db:  db,
		sel: selector.New[model.Trait](db),
	}
}

func (r *Trait) GetTraits(ctx context.Context) ([]*model.Trait, error) {
	return r.sel.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("trait_id ASC")
	})
}

func (r *Trait) GetTraitByID(ctx context.Context, traitID string) (*model.Trait, error) {
	return r.sel.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("trait_id = ?", traitID)
	})
}
