// Package assign maps scored vehicles to maintenance slot instances by
// solving a minimum-cost bipartite assignment.
package assign

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/atvfleet/maintsched/core/model"
)

var (
	// ErrNoVehicles is returned when there is nothing to assign.
	ErrNoVehicles = errors.New("assign: no vehicles")
	// ErrNoSlots is returned when the slot list expands to zero instances.
	ErrNoSlots = errors.New("assign: no slot instances")
)

// DefaultLatenessPenalty scales the per-slot-position cost increase for
// high-priority vehicles.
const DefaultLatenessPenalty = 0.1

// Assigner builds the cost matrix and solves the assignment. The zero value
// is not usable; construct it with NewAssigner.
type Assigner struct {
	// LatenessPenalty is the factor applied to slot order in the cost model.
	LatenessPenalty float64
}

// NewAssigner returns an Assigner with the standard lateness penalty.
func NewAssigner() Assigner {
	return Assigner{LatenessPenalty: DefaultLatenessPenalty}
}

// ExpandSlots turns each TimeSlot into Capacity unit instances. Every
// instance carries the index of its parent slot in the caller-supplied order;
// that index, not the instance position, feeds the lateness penalty.
func ExpandSlots(slots []model.TimeSlot) []model.SlotInstance {
	var instances []model.SlotInstance
	for k, s := range slots {
		for c := 0; c < s.Capacity; c++ {
			instances = append(instances, model.SlotInstance{SlotIndex: k, Time: s.Time})
		}
	}
	return instances
}

// CostMatrix computes cost[i][j] = (1 - p_i) + k_j * penalty * p_i for
// vehicle i and slot instance j with parent slot order k_j. High-priority
// vehicles are cheap to place and increasingly expensive to delay.
func (a Assigner) CostMatrix(fleet []model.Vehicle, instances []model.SlotInstance) *mat.Dense {
	cost := mat.NewDense(len(fleet), len(instances), nil)
	for i, v := range fleet {
		base := 1 - v.PriorityScore
		for j, inst := range instances {
			cost.Set(i, j, base+float64(inst.SlotIndex)*a.LatenessPenalty*v.PriorityScore)
		}
	}
	return cost
}

// Solve expands the slots, builds the cost matrix and returns the optimal
// assignment set plus the ids of vehicles left out when the fleet exceeds
// total capacity. Excess capacity simply stays unfilled; neither case is an
// error.
func (a Assigner) Solve(fleet []model.Vehicle, slots []model.TimeSlot) ([]model.Assignment, []string, error) {
	if len(fleet) == 0 {
		return nil, nil, ErrNoVehicles
	}
	instances := ExpandSlots(slots)
	if len(instances) == 0 {
		return nil, nil, ErrNoSlots
	}

	cost := a.CostMatrix(fleet, instances)
	match := solve(cost)

	assignments := make([]model.Assignment, 0, len(fleet))
	var unassigned []string
	for i, v := range fleet {
		j := match[i]
		if j < 0 {
			unassigned = append(unassigned, v.ID)
			continue
		}
		inst := instances[j]
		assignments = append(assignments, model.Assignment{
			VehicleID: v.ID,
			SlotIndex: inst.SlotIndex,
			SlotTime:  inst.Time,
			Cost:      cost.At(i, j),
		})
	}
	return assignments, unassigned, nil
}
