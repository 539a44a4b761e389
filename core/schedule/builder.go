// Package schedule materializes assignment results into the calendar
// consumed by reporting layers.
package schedule

import (
	"time"

	"github.com/atvfleet/maintsched/core/model"
)

// Build enriches the assignments with per-vehicle priority and cluster data
// and produces the final Schedule. Entries keep the order the solver emitted
// matches in (vehicle order); the ordering carries no meaning beyond being
// stable. No computation happens here beyond the join.
func Build(runID string, generatedAt time.Time, fleet []model.Vehicle, assignments []model.Assignment, unassigned []string) *model.Schedule {
	byID := make(map[string]model.Vehicle, len(fleet))
	for _, v := range fleet {
		byID[v.ID] = v
	}
	entries := make([]model.ScheduleEntry, 0, len(assignments))
	total := 0.0
	for _, a := range assignments {
		v := byID[a.VehicleID]
		entries = append(entries, model.ScheduleEntry{
			VehicleID:     a.VehicleID,
			SlotTime:      a.SlotTime,
			SlotIndex:     a.SlotIndex,
			PriorityScore: v.PriorityScore,
			ClusterID:     v.ClusterID,
			Cost:          a.Cost,
		})
		total += a.Cost
	}
	return &model.Schedule{
		RunID:       runID,
		GeneratedAt: generatedAt,
		Entries:     entries,
		Unassigned:  unassigned,
		TotalCost:   total,
	}
}
