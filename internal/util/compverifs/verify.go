package compverifs

import (
	"compstats.gg/backend/internal/model"
	"compstats.gg/backend/internal/pkg/observability"
)

// Verifier flags one statistically implausible aspect of a composition.
// Verifiers are heuristic outlier guards over sampled match data, not game
// rule validators: a rejected composition may be perfectly legal to play.
type Verifier interface {
	Name() string
	Verify(comp *model.Composition) *Rejection
}

type Rejection struct {
	Message string `json:"message"`
}

type Violation struct {
	Rejection
	Name string `json:"name"`
}

type CompVerifiers []Verifier

func NewCompVerifier(
	maxCostVerifier *MaxCostUnitsVerifier,
	traitTierVerifier *TraitTierVerifier,
	unitCountVerifier *UnitCountVerifier,
	meanCostVerifier *MeanCostVerifier,
	itemizationVerifier *ItemizationVerifier,
) *CompVerifiers {
	return &CompVerifiers{
		unitCountVerifier,
		maxCostVerifier,
		traitTierVerifier,
		meanCostVerifier,
		itemizationVerifier,
	}
}

// Accept runs the verifiers in order and returns the first violation, or nil
// when the composition is plausible.
func (verifiers CompVerifiers) Accept(comp *model.Composition) *Violation {
	for _, pipe := range verifiers {
		name := pipe.Name()

		rejection := pipe.Verify(comp)
		if rejection != nil {
			observability.RealismRejections.
				WithLabelValues(name).
				Inc()

			return &Violation{
				Name:      name,
				Rejection: *rejection,
			}
		}
	}

	return nil
}
