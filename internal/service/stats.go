package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"compstats.gg/backend/internal/app/appconfig"
	"compstats.gg/backend/internal/constant"
	"compstats.gg/backend/internal/model"
	"compstats.gg/backend/internal/model/cache"
	"compstats.gg/backend/internal/pkg/cserr"
	"compstats.gg/backend/internal/repo"
)

// Stats is the read-side facade over the aggregation pipeline: it resolves a
// region (or the merged global view) to its current aggregate result and
// highlight groups, and drives full recomputes for the workers and the admin
// endpoint.
type Stats struct {
	Config                *appconfig.Config
	MatchRepo             *repo.Match
	AggregationService    *Aggregation
	AggregateStoreService *AggregateStore
	MergeService          *Merge
	HighlightService      *Highlight
}

func NewStats(
	conf *appconfig.Config,
	matchRepo *repo.Match,
	aggregationService *Aggregation,
	aggregateStoreService *AggregateStore,
	mergeService *Merge,
	highlightService *Highlight,
) *Stats {
	return &Stats{
		Config:                conf,
		MatchRepo:             matchRepo,
		AggregationService:    aggregationService,
		AggregateStoreService: aggregateStoreService,
		MergeService:          mergeService,
		HighlightService:      highlightService,
	}
}

// GetStats returns the aggregate result for a region, or the cross-region
// merge when region is "global". A region that has never been aggregated
// serves the empty bootstrap dataset instead of a not-found error.
func (s *Stats) GetStats(ctx context.Context, region string) (*model.AggregateResult, error) {
	if region == constant.GlobalRegion {
		return s.MergeService.Global(ctx)
	}

	result, err := s.AggregateStoreService.GetStats(ctx, region)
	if err != nil {
		if errors.Is(err, cserr.ErrNotFound) {
			return s.AggregateStoreService.BootstrapEmpty(region), nil
		}
		return nil, err
	}
	return result, nil
}

// GetHighlights returns the highlight groups for a region, derived on demand
// from the region's aggregate result and cached.
//
// Cache: highlights#region, 24 hrs; flushed on refresh
func (s *Stats) GetHighlights(ctx context.Context, region string) ([]*model.HighlightGroup, error) {
	var groups []*model.HighlightGroup
	_, err := cache.HighlightsByRegion.MutexGetSet(region, &groups, func() ([]*model.HighlightGroup, error) {
		result, err := s.GetStats(ctx, region)
		if err != nil {
			return nil, err
		}
		return s.HighlightService.BuildHighlights(result), nil
	}, constant.AggregateCacheExpire)
	if err != nil {
		if errors.Is(err, cserr.ErrNotFound) {
			return nil, cserr.ErrNotFound
		}
		return nil, err
	}
	return groups, nil
}

// RefreshRegion recomputes a region end to end: load the raw match window,
// aggregate, persist, and invalidate the derived highlight caches for both
// the region and the merged global view.
func (s *Stats) RefreshRegion(ctx context.Context, region string) error {
	since := time.Now().Add(-s.Config.WorkerMatchWindow)
	matches, err := s.MatchRepo.GetMatchesByRegion(ctx, region, since)
	if err != nil && !errors.Is(err, cserr.ErrNotFound) {
		return errors.Wrap(err, "failed to load match window")
	}

	result, err := s.AggregationService.Aggregate(ctx, region, matches)
	if err != nil {
		return errors.Wrap(err, "failed to aggregate region")
	}
	if err := s.AggregateStoreService.SaveStats(ctx, result); err != nil {
		return errors.Wrap(err, "failed to save aggregate result")
	}

	for _, key := range []string{region, constant.GlobalRegion} {
		if err := cache.HighlightsByRegion.Delete(key); err != nil {
			log.Warn().Err(err).Str("region", key).Msg("failed to invalidate highlight cache")
		}
	}

	log.Info().
		Str("evt.name", "stats.refresh").
		Str("region", region).
		Int("matches", len(matches)).
		Float64("totalGames", result.Summary.TotalGames).
		Msg("region aggregate refreshed")
	return nil
}
