package model

import "fmt"

// Vehicle represents one fleet vehicle considered during an optimization run.
// The raw counters come from an external maintenance record; PriorityScore and
// ClusterID are filled in by the pipeline and are meaningless before a run.
type Vehicle struct {
	ID               string `json:"id"`
	Model            string `json:"model"`
	TotalFaults      int    `json:"total_faults"`
	DaysSinceService int    `json:"days_since_last_maintenance"`
	CriticalFaults   int    `json:"critical_system_faults"`

	// Derived fields, set once per run.
	PriorityScore float64 `json:"priority_score"`
	ClusterID     int     `json:"cluster_id"`
}

// Validate checks that the vehicle record is sound.
func (v Vehicle) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("vehicle id is required")
	}
	if v.TotalFaults < 0 {
		return fmt.Errorf("vehicle %s: total_faults must be non-negative", v.ID)
	}
	if v.DaysSinceService < 0 {
		return fmt.Errorf("vehicle %s: days_since_last_maintenance must be non-negative", v.ID)
	}
	if v.CriticalFaults < 0 {
		return fmt.Errorf("vehicle %s: critical_system_faults must be non-negative", v.ID)
	}
	return nil
}
