package model

import "time"

// ScheduleEntry is one row of the final maintenance calendar.
type ScheduleEntry struct {
	VehicleID     string    `json:"vehicle_id"`
	SlotTime      time.Time `json:"slot_timestamp"`
	SlotIndex     int       `json:"slot_index"`
	PriorityScore float64   `json:"priority_score"`
	ClusterID     int       `json:"cluster_id"`
	Cost          float64   `json:"cost"`
}

// Schedule is the externally consumed artifact of an optimization run. It is
// built once per run and never mutated afterwards. Entries appear in the order
// the solver emitted matches (vehicle order); Unassigned lists vehicles left
// out when the fleet exceeds total slot capacity.
type Schedule struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Entries     []ScheduleEntry `json:"entries"`
	Unassigned  []string        `json:"unassigned"`
	TotalCost   float64         `json:"total_cost"`
}
