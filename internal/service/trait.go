package service

import (
	"context"
	"time"

	"github.com/samber/lo"

	"compstats.gg/backend/internal/model"
	"compstats.gg/backend/internal/model/cache"
	"compstats.gg/backend/internal/repo"
)

type Trait struct {
	TraitRepo *repo.Trait
}

func NewTrait(traitRepo *repo.Trait) *Trait {
	return &Trait{
		TraitRepo: traitRepo,
	}
}

// Cache: traitsMapById, 1 hr
func (s *Trait) GetTraitsMapByID(ctx context.Context) (map[string]*model.Trait, error) {
	var traitsMap map[string]*model.Trait
	err := cache.TraitsMapByID.MutexGetSet(&traitsMap, func() (map[string]*model.Trait, error) {
		traits, err := s.TraitRepo.GetTraits(ctx)
		if err != nil {
			return nil, err
		}
		return lo.KeyBy(traits, func(t *model.Trait) string {
			return t.TraitID
		}), nil
	}, time.Hour)
	if err != nil {
		return nil, err
	}
	return traitsMap, nil
}
