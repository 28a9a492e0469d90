package service

import (
	"context"
	"time"

	"github.com/samber/lo"

	"compstats.gg/backend/internal/model"
	"compstats.gg/backend/internal/model/cache"
	"compstats.gg/backend/internal/repo"
)

type Item struct {
	ItemRepo *repo.Item
}

func NewItem(itemRepo *repo.Item) *Item {
	return &Item{
		ItemRepo: itemRepo,
	}
}

// Cache: itemsMapById, 1 hr
func (s *Item) GetItemsMapByID(ctx context.Context) (map[string]*model.Item, error) {
	var itemsMap map[string]*model.Item
	err := cache.ItemsMapByID.MutexGetSet(&itemsMap, func() (map[string]*model.Item, error) {
		items, err := s.ItemRepo.GetItems(ctx)
		if err != nil {
			return nil, err
		}
		return lo.KeyBy(items, func(i *model.Item) string {
			return i.ItemID
		}), nil
	}, time.Hour)
	if err != nil {
		return nil, err
	}
	return itemsMap, nil
}
