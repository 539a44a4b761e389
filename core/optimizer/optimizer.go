// Package optimizer orchestrates a full scheduling run: input validation,
// priority scoring, need clustering, slot assignment and schedule assembly,
// with metrics and run events emitted along the way.
package optimizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atvfleet/maintsched/core/assign"
	"github.com/atvfleet/maintsched/core/cluster"
	"github.com/atvfleet/maintsched/core/events"
	corelogger "github.com/atvfleet/maintsched/core/logger"
	coremetrics "github.com/atvfleet/maintsched/core/metrics"
	"github.com/atvfleet/maintsched/core/model"
	"github.com/atvfleet/maintsched/core/priority"
	"github.com/atvfleet/maintsched/core/schedule"
	"github.com/atvfleet/maintsched/core/stats"
	"github.com/atvfleet/maintsched/internal/eventbus"
)

var (
	// ErrNoVehicles is returned when the run receives an empty fleet.
	ErrNoVehicles = errors.New("optimizer: empty vehicle collection")
	// ErrNoSlots is returned when the run receives an empty slot list.
	ErrNoSlots = errors.New("optimizer: empty slot list")
	// ErrInvalidInput wraps vehicle or slot validation failures.
	ErrInvalidInput = errors.New("optimizer: invalid input")
)

// Optimizer runs the full scheduling pipeline: score, cluster, assign,
// build. A run is a single synchronous batch computation; the Optimizer
// holds no mutable state between runs and is safe for concurrent use.
type Optimizer struct {
	cfg    Config
	scorer priority.Scorer
	log    corelogger.Logger
	sink   coremetrics.MetricsSink
	bus    eventbus.EventBus
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

// New creates an Optimizer. Sink and bus may be nil when observability is
// not wired (one-shot CLI runs).
func New(cfg Config, log corelogger.Logger, sink coremetrics.MetricsSink, bus eventbus.EventBus) (*Optimizer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("optimizer config: %w", err)
	}
	if log == nil {
		log = nopLogger{}
	}
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Optimizer{cfg: cfg, scorer: priority.NewScorer(), log: log, sink: sink, bus: bus}, nil
}

// Run executes one optimization over the given fleet and slot list and
// returns the resulting schedule. The inputs are not mutated; the run works
// on its own copy of the fleet. Vehicles exceeding total slot capacity are
// left unassigned, which is not an error.
func (o *Optimizer) Run(fleet []model.Vehicle, slots []model.TimeSlot) (*model.Schedule, error) {
	start := time.Now()
	runID := uuid.NewString()

	work, err := o.validate(fleet, slots)
	if err != nil {
		o.fail(runID, err)
		return nil, err
	}

	work, err = o.Profile(work)
	if err != nil {
		o.fail(runID, err)
		return nil, err
	}

	instances := 0
	for _, sl := range slots {
		instances += sl.Capacity
	}
	assigner := assign.Assigner{LatenessPenalty: o.cfg.LatenessPenalty}
	assignments, unassigned, err := assigner.Solve(work, slots)
	if err != nil {
		o.fail(runID, err)
		return nil, err
	}
	if len(unassigned) > 0 {
		o.log.Infof("run %s: %d vehicles exceed slot capacity and stay unscheduled", runID, len(unassigned))
	}

	s := schedule.Build(runID, time.Now().UTC(), work, assignments, unassigned)
	o.record(s, len(work), instances, start)
	if o.bus != nil {
		o.bus.Publish(events.RunCompleted{Schedule: s})
	}
	o.log.Debugw("run completed", map[string]any{
		"run_id":     runID,
		"vehicles":   len(work),
		"assigned":   len(s.Entries),
		"unassigned": len(unassigned),
		"total_cost": s.TotalCost,
		"duration":   time.Since(start).String(),
	})
	return s, nil
}

// Profile scores and clusters the fleet without solving the assignment.
// It backs the clusters view and is the first half of Run.
func (o *Optimizer) Profile(fleet []model.Vehicle) ([]model.Vehicle, error) {
	if len(fleet) == 0 {
		return nil, ErrNoVehicles
	}
	o.logDegenerateColumns(fleet)
	work := make([]model.Vehicle, len(fleet))
	copy(work, fleet)
	work, err := o.scorer.Score(work)
	if err != nil {
		return nil, err
	}
	km := cluster.KMeans{K: o.cfg.Clusters, MaxIterations: o.cfg.MaxIterations, Seed: o.cfg.Seed}
	work, err = km.Assign(work)
	if err != nil {
		return nil, err
	}
	return work, nil
}

// validate checks the inputs and returns the run's private fleet copy.
func (o *Optimizer) validate(fleet []model.Vehicle, slots []model.TimeSlot) ([]model.Vehicle, error) {
	if len(fleet) == 0 {
		return nil, ErrNoVehicles
	}
	if len(slots) == 0 {
		return nil, ErrNoSlots
	}
	for _, v := range fleet {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	for _, s := range slots {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	work := make([]model.Vehicle, len(fleet))
	copy(work, fleet)
	return work, nil
}

func (o *Optimizer) logDegenerateColumns(fleet []model.Vehicle) {
	cols := map[string][]float64{
		"total_faults":                make([]float64, len(fleet)),
		"days_since_last_maintenance": make([]float64, len(fleet)),
		"critical_system_faults":      make([]float64, len(fleet)),
	}
	for i, v := range fleet {
		cols["total_faults"][i] = float64(v.TotalFaults)
		cols["days_since_last_maintenance"][i] = float64(v.DaysSinceService)
		cols["critical_system_faults"][i] = float64(v.CriticalFaults)
	}
	for name, col := range cols {
		if stats.Degenerate(col) {
			o.log.Warnf("feature %s is constant across the fleet and contributes no signal", name)
		}
	}
}

func (o *Optimizer) record(s *model.Schedule, fleetSize, instances int, start time.Time) {
	if fr, ok := o.sink.(coremetrics.FleetSizeRecorder); ok {
		if err := fr.RecordFleetSize(fleetSize); err != nil {
			o.log.Errorf("record fleet size: %v", err)
		}
	}
	res := coremetrics.RunResult{
		RunID:         s.RunID,
		Time:          s.GeneratedAt,
		Vehicles:      fleetSize,
		SlotInstances: instances,
		Assigned:      len(s.Entries),
		Unassigned:    len(s.Unassigned),
		TotalCost:     s.TotalCost,
		Duration:      time.Since(start),
		Status:        "ok",
	}
	if err := o.sink.RecordRun(res); err != nil {
		o.log.Errorf("record run: %v", err)
	}
	if ar, ok := o.sink.(coremetrics.AssignmentRecorder); ok {
		recs := make([]coremetrics.AssignmentRecord, len(s.Entries))
		for i, e := range s.Entries {
			recs[i] = coremetrics.AssignmentRecord{
				RunID:         s.RunID,
				VehicleID:     e.VehicleID,
				SlotTime:      e.SlotTime,
				SlotIndex:     e.SlotIndex,
				PriorityScore: e.PriorityScore,
				ClusterID:     e.ClusterID,
				Cost:          e.Cost,
			}
		}
		if err := ar.RecordAssignments(recs); err != nil {
			o.log.Errorf("record assignments: %v", err)
		}
	}
}

func (o *Optimizer) fail(runID string, err error) {
	o.log.Errorf("run %s aborted: %v", runID, err)
	if rerr := o.sink.RecordRun(coremetrics.RunResult{RunID: runID, Time: time.Now().UTC(), Status: "error"}); rerr != nil {
		o.log.Errorf("record failed run: %v", rerr)
	}
	if o.bus != nil {
		o.bus.Publish(events.RunFailed{RunID: runID, Err: err})
	}
}
