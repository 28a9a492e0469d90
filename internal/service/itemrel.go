package service

import (
	"sort"
	"strings"

	"compstats.gg/backend/internal/app/appconfig"
	"compstats.gg/backend/internal/constant"
	"compstats.gg/backend/internal/model"
	"compstats.gg/backend/internal/util"
)

// ItemRelation builds the bidirectional unit<->item association and mines
// frequently co-equipped item combinations.
type ItemRelation struct {
	Config *appconfig.Config
}

func NewItemRelation(conf *appconfig.Config) *ItemRelation {
	return &ItemRelation{
		Config: conf,
	}
}

type unitWithItemAcc struct {
	stats util.StatsAccumulator
	comps map[string]struct{}
}

type comboAcc struct {
	items []string
	stats util.StatsAccumulator
}

type itemAcc struct {
	stats  util.StatsAccumulator
	units  map[string]*unitWithItemAcc
	combos map[string]*comboAcc
}

// Build produces one ItemAggregate per item seen in the compositions.
// totalGames scopes play rates; itemsMap supplies display metadata for
// resolved ids, with placeholder metadata for unknown ones.
func (s *ItemRelation) Build(comps []*model.Composition, totalGames float64, itemsMap map[string]*model.Item) []*model.ItemAggregate {
	accs := map[string]*itemAcc{}

	for _, comp := range comps {
		for _, unit := range comp.Units {
			for _, itemID := range unit.Items {
				if itemID == "" {
					continue
				}
				acc, ok := accs[itemID]
				if !ok {
					acc = &itemAcc{
						units:  map[string]*unitWithItemAcc{},
						combos: map[string]*comboAcc{},
					}
					accs[itemID] = acc
				}
				acc.stats.Observe(comp.Placement, comp.Count)

				ua, ok := acc.units[unit.UnitID]
				if !ok {
					ua = &unitWithItemAcc{comps: map[string]struct{}{}}
					acc.units[unit.UnitID] = ua
				}
				ua.stats.Observe(comp.Placement, comp.Count)
				ua.comps[comp.ID] = struct{}{}

				s.mineCombos(acc, itemID, unit, comp)
			}
		}
	}

	return s.convert(accs, totalGames, itemsMap)
}

// mineCombos records, for the given main item, every co-equipped partner on
// the same unit instance under the sorted item-set key.
func (s *ItemRelation) mineCombos(acc *itemAcc, mainItem string, unit model.CompUnit, comp *model.Composition) {
	for _, other := range unit.Items {
		if other == "" || other == mainItem {
			continue
		}
		items := []string{mainItem, other}
		sort.Strings(items)
		key := comboKey(items)
		ca, ok := acc.combos[key]
		if !ok {
			ca = &comboAcc{items: items}
			acc.combos[key] = ca
		}
		ca.stats.Observe(comp.Placement, comp.Count)
	}
}

func (s *ItemRelation) convert(accs map[string]*itemAcc, totalGames float64, itemsMap map[string]*model.Item) []*model.ItemAggregate {
	results := make([]*model.ItemAggregate, 0, len(accs))
	for itemID, acc := range accs {
		agg := &model.ItemAggregate{
			ItemID:        itemID,
			Name:          constant.UnknownEntityName,
			StatBlock:     acc.stats.ToStatBlock(totalGames),
			UnitsWithItem: make([]model.UnitWithItem, 0, len(acc.units)),
			Combos:        convertCombos(acc.combos, s.Config.ComboMinOccurrences, s.Config.ComboMaxPerItem),
		}
		if ref, ok := itemsMap[itemID]; ok {
			agg.Name = ref.Name
			agg.Icon = ref.Icon
			agg.Category = ref.Category
		}

		for unitID, ua := range acc.units {
			compIDs := make([]string, 0, len(ua.comps))
			for compID := range ua.comps {
				compIDs = append(compIDs, compID)
			}
			sort.Strings(compIDs)
			agg.UnitsWithItem = append(agg.UnitsWithItem, model.UnitWithItem{
				UnitID:       unitID,
				StatBlock:    ua.stats.ToStatBlock(totalGames),
				Compositions: compIDs,
			})
		}
		sort.SliceStable(agg.UnitsWithItem, func(i, j int) bool {
			if agg.UnitsWithItem[i].Count != agg.UnitsWithItem[j].Count {
				return agg.UnitsWithItem[i].Count > agg.UnitsWithItem[j].Count
			}
			return agg.UnitsWithItem[i].UnitID < agg.UnitsWithItem[j].UnitID
		})

		results = append(results, agg)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ItemID < results[j].ItemID
	})
	return results
}

func convertCombos(combos map[string]*comboAcc, minOccurrences float64, maxPerItem int) []model.ItemCombo {
	out := make([]model.ItemCombo, 0, len(combos))
	for _, ca := range combos {
		if ca.stats.Count < minOccurrences {
			continue
		}
		out = append(out, model.ItemCombo{
			Items:   ca.items,
			WinRate: ca.stats.WinRate(),
			Count:   ca.stats.Count,
		})
	}
	SortCombos(out)
	if len(out) > maxPerItem {
		out = out[:maxPerItem]
	}
	return out
}

// SortCombos orders combos by win rate descending, breaking ties by the
// joined item ids so the output is reproducible.
func SortCombos(combos []model.ItemCombo) {
	sort.SliceStable(combos, func(i, j int) bool {
		if combos[i].WinRate != combos[j].WinRate {
			return combos[i].WinRate > combos[j].WinRate
		}
		return comboKey(combos[i].Items) < comboKey(combos[j].Items)
	})
}

func comboKey(items []string) string {
	return strings.Join(items, constant.CacheSep)
}
