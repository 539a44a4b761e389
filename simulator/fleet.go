// Package simulator produces synthetic fleets and slot plans for demos and
// tests when no real maintenance records are available.
package simulator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/atvfleet/maintsched/core/model"
)

var vehicleModels = []string{"Ranger-1000", "MRZR", "RZR"}

// SampleFleet generates n vehicles with pseudo-random maintenance counters.
// The same seed always yields the same fleet.
func SampleFleet(n int, seed int64) []model.Vehicle {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec
	fleet := make([]model.Vehicle, n)
	for i := range fleet {
		fleet[i] = model.Vehicle{
			ID:               fmt.Sprintf("ATV_%02d", i+1),
			Model:            vehicleModels[rng.Intn(len(vehicleModels))],
			TotalFaults:      rng.Intn(10),
			DaysSinceService: rng.Intn(100),
			CriticalFaults:   rng.Intn(3),
		}
	}
	return fleet
}

// DefaultSlotPlan returns the standard weekly maintenance window: two slots
// per day at 09:00 and 14:00 over the given number of days, each with the
// given capacity. The first day starts at the date of start.
func DefaultSlotPlan(start time.Time, days, capacity int) []model.TimeSlot {
	year, month, dom := start.Date()
	loc := start.Location()
	slots := make([]model.TimeSlot, 0, days*2)
	// Build each slot from wall-clock components so 09:00 stays 09:00 across
	// DST transitions.
	for d := 0; d < days; d++ {
		slots = append(slots,
			model.TimeSlot{Time: time.Date(year, month, dom+d, 9, 0, 0, 0, loc), Capacity: capacity},
			model.TimeSlot{Time: time.Date(year, month, dom+d, 14, 0, 0, 0, loc), Capacity: capacity},
		)
	}
	return slots
}
