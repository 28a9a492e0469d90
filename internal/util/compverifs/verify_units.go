package compverifs

import (
	"fmt"

	"compstats.gg/backend/internal/app/appconfig"
	"compstats.gg/backend/internal/constant"
	"compstats.gg/backend/internal/model"
)

// UnitCountVerifier rejects boards whose total unit count falls outside the
// plausible range: undersized boards are partial records, oversized ones are
// corrupted ones.
type UnitCountVerifier struct {
	minUnits int
	maxUnits int
}

var _ Verifier = (*UnitCountVerifier)(nil)

func NewUnitCountVerifier(conf *appconfig.Config) *UnitCountVerifier {
	return &UnitCountVerifier{
		minUnits: conf.RealismMinUnits,
		maxUnits: conf.RealismMaxUnits,
	}
}

func (d *UnitCountVerifier) Name() string {
	return "unit_count"
}

func (d *UnitCountVerifier) Verify(comp *model.Composition) *Rejection {
	n := len(comp.Units)
	if n < d.minUnits || n > d.maxUnits {
		return &Rejection{
			Message: fmt.Sprintf("unit count %d outside [%d,%d]", n, d.minUnits, d.maxUnits),
		}
	}
	return nil
}

// MaxCostUnitsVerifier rejects boards fielding too many max-cost units, e.g.
// improbable 4-legendary boards that would distort aggregate win rates.
type MaxCostUnitsVerifier struct {
	cap int
}

var _ Verifier = (*MaxCostUnitsVerifier)(nil)

func NewMaxCostUnitsVerifier(conf *appconfig.Config) *MaxCostUnitsVerifier {
	return &MaxCostUnitsVerifier{
		cap: conf.RealismMaxCostUnitCap,
	}
}

func (d *MaxCostUnitsVerifier) Name() string {
	return "max_cost_units"
}

func (d *MaxCostUnitsVerifier) Verify(comp *model.Composition) *Rejection {
	count := 0
	for _, unit := range comp.Units {
		if unit.Cost >= constant.MaxUnitCost {
			count++
		}
	}
	if count > d.cap {
		return &Rejection{
			Message: fmt.Sprintf("%d units at max cost tier exceeds cap %d", count, d.cap),
		}
	}
	return nil
}

// MeanCostVerifier rejects boards whose mean unit cost is implausibly high.
type MeanCostVerifier struct {
	maxMean float64
}

var _ Verifier = (*MeanCostVerifier)(nil)

func NewMeanCostVerifier(conf *appconfig.Config) *MeanCostVerifier {
	return &MeanCostVerifier{
		maxMean: conf.RealismMaxMeanUnitCost,
	}
}

func (d *MeanCostVerifier) Name() string {
	return "mean_cost"
}

func (d *MeanCostVerifier) Verify(comp *model.Composition) *Rejection {
	if len(comp.Units) == 0 {
		return nil
	}
	sum := 0
	for _, unit := range comp.Units {
		sum += unit.Cost
	}
	mean := float64(sum) / float64(len(comp.Units))
	if mean > d.maxMean {
		return &Rejection{
			Message: fmt.Sprintf("mean unit cost %.2f exceeds %.2f", mean, d.maxMean),
		}
	}
	return nil
}
