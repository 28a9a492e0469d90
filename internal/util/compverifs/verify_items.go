package compverifs

import (
	"fmt"

	"compstats.gg/backend/internal/app/appconfig"
	"compstats.gg/backend/internal/constant"
	"compstats.gg/backend/internal/model"
)

// ItemizationVerifier rejects boards where an implausible share of units is
// fully itemized. Sampled lobbies occasionally report phantom item spreads.
type ItemizationVerifier struct {
	maxRatio float64
}

var _ Verifier = (*ItemizationVerifier)(nil)

func NewItemizationVerifier(conf *appconfig.Config) *ItemizationVerifier {
	return &ItemizationVerifier{
		maxRatio: conf.RealismMaxFullItemRatio,
	}
}

func (d *ItemizationVerifier) Name() string {
	return "itemization"
}

func (d *ItemizationVerifier) Verify(comp *model.Composition) *Rejection {
	if len(comp.Units) == 0 {
		return nil
	}
	full := 0
	for _, unit := range comp.Units {
		if len(unit.Items) >= constant.MaxItemsPerUnit {
			full++
		}
	}
	ratio := float64(full) / float64(len(comp.Units))
	if ratio > d.maxRatio {
		return &Rejection{
			Message: fmt.Sprintf("%.0f%% of units fully itemized exceeds %.0f%%", ratio*100, d.maxRatio*100),
		}
	}
	return nil
}
