package service

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"compstats.gg/backend/internal/constant"
	"compstats.gg/backend/internal/model"
	"compstats.gg/backend/internal/model/cache"
	"compstats.gg/backend/internal/pkg/cserr"
	"compstats.gg/backend/internal/repo"
	"compstats.gg/backend/internal/util"
)

// AggregateStore is the persist/load boundary for aggregate results. Redis
// keeps the hot blob per type and region; Postgres snapshots back it for
// recovery after a cache flush. Everything loaded from either side passes
// through Sanitize before it reaches a caller.
type AggregateStore struct {
	SnapshotRepo *repo.Snapshot
}

func NewAggregateStore(snapshotRepo *repo.Snapshot) *AggregateStore {
	return &AggregateStore{
		SnapshotRepo: snapshotRepo,
	}
}

func statsCacheKey(region string) string {
	return constant.AggregateTypeStats + constant.CacheSep + region
}

// GetStats loads the aggregate result for one region, trying redis first and
// falling back to the latest persisted snapshot. cserr.ErrNotFound means the
// region has never been aggregated.
func (s *AggregateStore) GetStats(ctx context.Context, region string) (*model.AggregateResult, error) {
	key := statsCacheKey(region)

	var result model.AggregateResult
	err := cache.AggregateByTypeRegion.Get(key, &result)
	if err == nil {
		s.Sanitize(&result)
		return &result, nil
	}

	snapshot, err := s.SnapshotRepo.GetLatestSnapshotByKey(ctx, key)
	if err != nil {
		if errors.Is(err, cserr.ErrNotFound) {
			return nil, cserr.ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(snapshot.Content, &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode aggregate snapshot")
	}
	s.Sanitize(&result)

	// repopulate redis so the next read skips postgres
	if err := cache.AggregateByTypeRegion.Set(key, result, constant.AggregateCacheExpire); err != nil {
		log.Warn().Err(err).Str("region", region).Msg("failed to repopulate aggregate cache from snapshot")
	}

	return &result, nil
}

// SaveStats stores a freshly aggregated result: stamps UpdatedAt, writes the
// redis blob and appends a snapshot row. The snapshot write is best-effort
// relative to the cache write so a transient postgres failure does not hide
// fresh data.
func (s *AggregateStore) SaveStats(ctx context.Context, result *model.AggregateResult) error {
	if result == nil {
		return errors.New("cannot save nil aggregate result")
	}

	s.Sanitize(result)
	result.UpdatedAt = time.Now().UTC()

	if err := cache.AggregateByTypeRegion.Set(statsCacheKey(result.Region), *result, constant.AggregateCacheExpire); err != nil {
		return errors.Wrap(err, "failed to write aggregate cache")
	}
	if err := cache.LastModifiedTime.Set("[aggregate#region:"+result.Region+"]", result.UpdatedAt, 0); err != nil {
		log.Warn().Err(err).Str("region", result.Region).Msg("failed to update last modified time")
	}

	content, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, "failed to encode aggregate snapshot")
	}
	if _, err := s.SnapshotRepo.SaveSnapshot(ctx, &model.Snapshot{
		Key:     statsCacheKey(result.Region),
		Version: result.UpdatedAt.Format(time.RFC3339Nano),
		Content: content,
	}); err != nil {
		log.Error().Err(err).Str("region", result.Region).Msg("failed to persist aggregate snapshot")
	}

	return nil
}

// BootstrapEmpty returns a well-formed zero-valued result for a region with no
// data yet, so consumers never see nil slices.
func (s *AggregateStore) BootstrapEmpty(region string) *model.AggregateResult {
	result := &model.AggregateResult{Region: region}
	s.Sanitize(result)
	return result
}

// Sanitize normalizes a result in place: nil slices become empty, rates are
// clamped back into range and placement bucket histograms are resized to the
// full placement span. Loaded blobs may predate shape changes, so this runs
// on every load and save.
func (s *AggregateStore) Sanitize(result *model.AggregateResult) {
	if result.Compositions == nil {
		result.Compositions = []*model.CompositionAggregate{}
	}
	if result.Units == nil {
		result.Units = []*model.UnitAggregate{}
	}
	if result.Traits == nil {
		result.Traits = []*model.TraitAggregate{}
	}
	if result.Items == nil {
		result.Items = []*model.ItemAggregate{}
	}

	if result.Summary.TotalGames < 0 {
		result.Summary.TotalGames = 0
	}
	if result.Summary.DroppedLowSignal < 0 {
		result.Summary.DroppedLowSignal = 0
	}
	if result.Summary.AvgPlacement != 0 {
		result.Summary.AvgPlacement = util.ClampFloat64(
			result.Summary.AvgPlacement, constant.MinPlacement, constant.MaxPlacement)
	}

	for _, comp := range result.Compositions {
		sanitizeStatBlock(&comp.StatBlock)
		if comp.Traits == nil {
			comp.Traits = []model.CompTrait{}
		}
		if comp.Units == nil {
			comp.Units = []model.CompUnit{}
		}
		if len(comp.PlacementBuckets) != constant.MaxPlacement {
			buckets := make([]float64, constant.MaxPlacement)
			copy(buckets, comp.PlacementBuckets)
			comp.PlacementBuckets = buckets
		}
	}
	for _, unit := range result.Units {
		sanitizeStatBlock(&unit.StatBlock)
		if unit.TopItems == nil {
			unit.TopItems = []model.TopItem{}
		}
	}
	for _, trait := range result.Traits {
		sanitizeStatBlock(&trait.StatBlock)
	}
	for _, item := range result.Items {
		sanitizeStatBlock(&item.StatBlock)
		if item.UnitsWithItem == nil {
			item.UnitsWithItem = []model.UnitWithItem{}
		}
		if item.Combos == nil {
			item.Combos = []model.ItemCombo{}
		}
		for i := range item.UnitsWithItem {
			sanitizeStatBlock(&item.UnitsWithItem[i].StatBlock)
			if item.UnitsWithItem[i].Compositions == nil {
				item.UnitsWithItem[i].Compositions = []string{}
			}
		}
	}
}

func sanitizeStatBlock(block *model.StatBlock) {
	if block.Count < 0 {
		block.Count = 0
	}
	if block.AvgPlacement != 0 {
		block.AvgPlacement = util.ClampFloat64(block.AvgPlacement, constant.MinPlacement, constant.MaxPlacement)
	}
	block.WinRate = util.ClampFloat64(block.WinRate, 0, 100)
	block.Top4Rate = util.ClampFloat64(block.Top4Rate, 0, 100)
	block.PlayRate = util.ClampFloat64(block.PlayRate, 0, 100)
}
