package metrics

import "time"

// RunResult summarizes one optimization run for observability purposes.
type RunResult struct {
	RunID         string
	Time          time.Time
	Vehicles      int
	SlotInstances int
	Assigned      int
	Unassigned    int
	TotalCost     float64
	Duration      time.Duration
	Status        string
}

// MetricsSink records optimization run results.
type MetricsSink interface {
	RecordRun(res RunResult) error
}

// AssignmentRecord is a per-vehicle view of a completed run.
type AssignmentRecord struct {
	RunID         string
	VehicleID     string
	SlotTime      time.Time
	SlotIndex     int
	PriorityScore float64
	ClusterID     int
	Cost          float64
}

// AssignmentRecorder records per-assignment data points.
type AssignmentRecorder interface {
	RecordAssignments(recs []AssignmentRecord) error
}

// FleetSizeRecorder records the number of vehicles submitted to a run.
type FleetSizeRecorder interface {
	RecordFleetSize(size int) error
}

// NopSink implements all recorder interfaces with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunResult) error                  { return nil }
func (NopSink) RecordAssignments([]AssignmentRecord) error { return nil }
func (NopSink) RecordFleetSize(int) error                  { return nil }
