package cache

import (
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/guregu/null.v3"

	"compstats.gg/backend/internal/model"
	"compstats.gg/backend/internal/pkg/cache"
)

type Flusher func() error

var (
	// gamedata reference maps
	UnitsMapByID  *cache.Singular[map[string]*model.Unit]
	ItemsMapByID  *cache.Singular[map[string]*model.Item]
	TraitsMapByID *cache.Singular[map[string]*model.Trait]

	// aggregate blob store, keyed type|region
	AggregateByTypeRegion *cache.Set[model.AggregateResult]

	// highlight groups keyed by region
	HighlightsByRegion *cache.Set[[]*model.HighlightGroup]

	LastModifiedTime *cache.Set[time.Time]

	once sync.Once

	SetMap             map[string]Flusher
	SingularFlusherMap map[string]Flusher
)

func Initialize(client *redis.Client) {
	once.Do(func() {
		initializeCaches(client)
	})
}

func Delete(name string, key null.String) error {
	if key.Valid {
		if _, ok := SetMap[name]; ok {
			if err := SetMap[name](); err != nil {
				return err
			}
		}
	} else {
		if _, ok := SingularFlusherMap[name]; ok {
			if err := SingularFlusherMap[name](); err != nil {
				return err
			}
		} else if _, ok := SetMap[name]; ok {
			if err := SetMap[name](); err != nil {
				return err
			}
		}
	}
	return nil
}

func initializeCaches(client *redis.Client) {
	SetMap = make(map[string]Flusher)
	SingularFlusherMap = make(map[string]Flusher)

	// gamedata
	UnitsMapByID = cache.NewSingular[map[string]*model.Unit]("unitsMapById")
	ItemsMapByID = cache.NewSingular[map[string]*model.Item]("itemsMapById")
	TraitsMapByID = cache.NewSingular[map[string]*model.Trait]("traitsMapById")

	SingularFlusherMap["unitsMapById"] = UnitsMapByID.Delete
	SingularFlusherMap["itemsMapById"] = ItemsMapByID.Delete
	SingularFlusherMap["traitsMapById"] = TraitsMapByID.Delete

	// aggregates
	AggregateByTypeRegion = cache.NewSet[model.AggregateResult](client, "aggregate#type|region")

	SetMap["aggregate#type|region"] = AggregateByTypeRegion.Flush

	// highlights
	HighlightsByRegion = cache.NewSet[[]*model.HighlightGroup](client, "highlights#region")

	SetMap["highlights#region"] = HighlightsByRegion.Flush

	// others
	LastModifiedTime = cache.NewSet[time.Time](client, "lastModifiedTime#key")

	SetMap["lastModifiedTime#key"] = LastModifiedTime.Flush
}
