package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"compstats.gg/backend/internal/constant"
	modelcache "compstats.gg/backend/internal/model/cache"
	"compstats.gg/backend/internal/repo"
)

// unreachableSnapshotRepo points at a postgres address nothing listens on, so
// every snapshot load fails upstream without needing a database.
func unreachableSnapshotRepo() *repo.Snapshot {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithAddr("127.0.0.1:1"),
		pgdriver.WithInsecure(true),
	))
	return repo.NewSnapshot(bun.NewDB(sqldb, pgdialect.New()))
}

func TestBootstrapEmpty(t *testing.T) {
	store := NewAggregateStore(nil)

	result := store.BootstrapEmpty("NA")
	assert.Equal(t, "NA", result.Region)
	assert.Zero(t, result.Summary.TotalGames)
	assert.Zero(t, result.Summary.AvgPlacement)
	assert.Zero(t, result.Summary.DroppedLowSignal)
	assert.True(t, result.UpdatedAt.IsZero())

	// consumers rely on empty, never nil, slices
	assert.NotNil(t, result.Compositions)
	assert.Empty(t, result.Compositions)
	assert.NotNil(t, result.Units)
	assert.Empty(t, result.Units)
	assert.NotNil(t, result.Traits)
	assert.Empty(t, result.Traits)
	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)

	assert.Equal(t, result, store.BootstrapEmpty("NA"))
}

func TestGetStatsGlobalBootstrapsWhenNothingStored(t *testing.T) {
	modelcache.Initialize(nil)

	conf := testConfig()
	store := NewAggregateStore(unreachableSnapshotRepo())
	stats := &Stats{
		Config:                conf,
		AggregateStoreService: store,
		MergeService:          NewMerge(conf, store),
	}

	result, err := stats.GetStats(context.Background(), constant.GlobalRegion)
	require.NoError(t, err)
	assert.Equal(t, constant.GlobalRegion, result.Region)
	assert.Zero(t, result.Summary.TotalGames)
	assert.NotNil(t, result.Compositions)
	assert.Empty(t, result.Compositions)
	assert.NotNil(t, result.Units)
	assert.NotNil(t, result.Traits)
	assert.NotNil(t, result.Items)
}
