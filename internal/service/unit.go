package service

import (
	"context"
	"time"

	"github.com/samber/lo"

	"compstats.gg/backend/internal/model"
	"compstats.gg/backend/internal/model/cache"
	"compstats.gg/backend/internal/repo"
)

type Unit struct {
	UnitRepo *repo.Unit
}

func NewUnit(unitRepo *repo.Unit) *Unit {
	return &Unit{
		UnitRepo: unitRepo,
	}
}

// Cache: unitsMapById, 1 hr
func (s *Unit) GetUnitsMapByID(ctx context.Context) (map[string]*model.Unit, error) {
	var unitsMap map[string]*model.Unit
	err := cache.UnitsMapByID.MutexGetSet(&unitsMap, func() (map[string]*model.Unit, error) {
		units, err := s.UnitRepo.GetUnits(ctx)
		if err != nil {
			return nil, err
		}
		return lo.KeyBy(units, func(u *model.Unit) string {
			return u.UnitID
		}), nil
	}, time.Hour)
	if err != nil {
		return nil, err
	}
	return unitsMap, nil
}
