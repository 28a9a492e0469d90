package compverifs

import (
	"fmt"

	"compstats.gg/backend/internal/app/appconfig"
	"compstats.gg/backend/internal/model"
)

// TraitTierVerifier rejects boards with implausibly stacked trait
// activations: more than one trait at the board's top tier, or too many at
// the second-highest tier.
type TraitTierVerifier struct {
	topTierCap    int
	secondTierCap int
}

var _ Verifier = (*TraitTierVerifier)(nil)

func NewTraitTierVerifier(conf *appconfig.Config) *TraitTierVerifier {
	return &TraitTierVerifier{
		topTierCap:    conf.RealismTopTierTraitCap,
		secondTierCap: conf.RealismSecondTierTraitCap,
	}
}

func (d *TraitTierVerifier) Name() string {
	return "trait_tiers"
}

func (d *TraitTierVerifier) Verify(comp *model.Composition) *Rejection {
	if len(comp.Traits) == 0 {
		return nil
	}

	topTier := 0
	secondTier := 0
	for _, trait := range comp.Traits {
		if trait.Tier > topTier {
			secondTier = topTier
			topTier = trait.Tier
		} else if trait.Tier > secondTier && trait.Tier < topTier {
			secondTier = trait.Tier
		}
	}

	atTop := 0
	atSecond := 0
	for _, trait := range comp.Traits {
		switch trait.Tier {
		case topTier:
			atTop++
		case secondTier:
			atSecond++
		}
	}

	if atTop > d.topTierCap {
		return &Rejection{
			Message: fmt.Sprintf("%d traits at top tier %d exceeds cap %d", atTop, topTier, d.topTierCap),
		}
	}
	if secondTier > 0 && atSecond > d.secondTierCap {
		return &Rejection{
			Message: fmt.Sprintf("%d traits at second tier %d exceeds cap %d", atSecond, secondTier, d.secondTierCap),
		}
	}
	return nil
}
