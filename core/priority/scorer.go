// Package priority computes per-vehicle maintenance urgency scores.
package priority

import (
	"errors"

	"github.com/atvfleet/maintsched/core/model"
	"github.com/atvfleet/maintsched/core/stats"
)

// ErrNoVehicles is returned when scoring is requested for an empty fleet.
var ErrNoVehicles = errors.New("priority: no vehicles to score")

// Scorer combines normalized fault and age signals into a single urgency
// score. Normalization is collection-relative, so a vehicle can only be
// scored together with the rest of the fleet.
//
// The critical-faults term is intentionally NOT normalized: it enters the
// sum in its raw 0..2 range, so the score can exceed 1 when critical faults
// are present. This reproduces the established scoring behavior and must not
// be "fixed" without a product decision.
type Scorer struct {
	FaultWeight    float64
	AgeWeight      float64
	CriticalWeight float64
}

// NewScorer returns a Scorer with the standard weights.
func NewScorer() Scorer {
	return Scorer{
		FaultWeight:    0.4,
		AgeWeight:      0.3,
		CriticalWeight: 0.3,
	}
}

// Score fills in PriorityScore for every vehicle in the fleet. The input
// slice is modified in place and returned for convenience.
func (s Scorer) Score(fleet []model.Vehicle) ([]model.Vehicle, error) {
	if len(fleet) == 0 {
		return nil, ErrNoVehicles
	}
	faults := make([]float64, len(fleet))
	age := make([]float64, len(fleet))
	for i, v := range fleet {
		faults[i] = float64(v.TotalFaults)
		age[i] = float64(v.DaysSinceService)
	}
	normFaults := stats.MinMax(faults)
	normAge := stats.MinMax(age)
	for i := range fleet {
		fleet[i].PriorityScore = s.FaultWeight*normFaults[i] +
			s.AgeWeight*normAge[i] +
			s.CriticalWeight*float64(fleet[i].CriticalFaults)
	}
	return fleet, nil
}
