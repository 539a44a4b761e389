package optimizer

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/atvfleet/maintsched/core/events"
	coremetrics "github.com/atvfleet/maintsched/core/metrics"
	"github.com/atvfleet/maintsched/core/model"
	"github.com/atvfleet/maintsched/internal/eventbus"
)

func testFleet() []model.Vehicle {
	return []model.Vehicle{
		{ID: "ATV_01", Model: "Ranger-1000", TotalFaults: 9, DaysSinceService: 90, CriticalFaults: 2},
		{ID: "ATV_02", Model: "MRZR", TotalFaults: 4, DaysSinceService: 45, CriticalFaults: 1},
		{ID: "ATV_03", Model: "RZR", TotalFaults: 1, DaysSinceService: 5, CriticalFaults: 0},
	}
}

func testSlots(n int) []model.TimeSlot {
	slots := make([]model.TimeSlot, n)
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	for i := range slots {
		slots[i] = model.TimeSlot{Time: base.Add(time.Duration(i) * 5 * time.Hour), Capacity: 1}
	}
	return slots
}

func newTestOptimizer(t *testing.T, sink coremetrics.MetricsSink, bus eventbus.EventBus) *Optimizer {
	t.Helper()
	opt, err := New(Config{}, nil, sink, bus)
	if err != nil {
		t.Fatalf("optimizer: %v", err)
	}
	return opt
}

func TestRunAssignsByPriority(t *testing.T) {
	opt := newTestOptimizer(t, nil, nil)
	s, err := opt.Run(testFleet(), testSlots(3))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if s.RunID == "" {
		t.Fatalf("run id missing")
	}
	if len(s.Entries) != 3 || len(s.Unassigned) != 0 {
		t.Fatalf("expected full assignment, got %d entries, %d unassigned", len(s.Entries), len(s.Unassigned))
	}
	slotOf := map[string]int{}
	for _, e := range s.Entries {
		slotOf[e.VehicleID] = e.SlotIndex
	}
	if slotOf["ATV_01"] != 0 {
		t.Fatalf("highest priority vehicle should take the earliest slot, got %d", slotOf["ATV_01"])
	}
	if slotOf["ATV_03"] != 2 {
		t.Fatalf("lowest priority vehicle should take the latest slot, got %d", slotOf["ATV_03"])
	}
	scoreOf := map[string]float64{}
	for _, e := range s.Entries {
		scoreOf[e.VehicleID] = e.PriorityScore
		if e.ClusterID < 0 || e.ClusterID > 2 {
			t.Fatalf("entry %s has cluster %d out of range", e.VehicleID, e.ClusterID)
		}
	}
	if scoreOf["ATV_01"] <= scoreOf["ATV_02"] || scoreOf["ATV_02"] <= scoreOf["ATV_03"] {
		t.Fatalf("scores not ordered by urgency: %v", scoreOf)
	}
	// The fleet minimum normalizes to zero in every weighted term.
	if scoreOf["ATV_03"] != 0 {
		t.Fatalf("least urgent vehicle should score exactly 0, got %v", scoreOf["ATV_03"])
	}
}

func TestRunUnderCapacity(t *testing.T) {
	fleet := []model.Vehicle{
		{ID: "v1", TotalFaults: 1, DaysSinceService: 10, CriticalFaults: 0},
		{ID: "v2", TotalFaults: 3, DaysSinceService: 30, CriticalFaults: 0},
		{ID: "v3", TotalFaults: 5, DaysSinceService: 50, CriticalFaults: 1},
		{ID: "v4", TotalFaults: 7, DaysSinceService: 70, CriticalFaults: 1},
		{ID: "v5", TotalFaults: 9, DaysSinceService: 95, CriticalFaults: 2},
	}
	opt := newTestOptimizer(t, nil, nil)
	s, err := opt.Run(fleet, testSlots(2))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(s.Entries) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(s.Entries))
	}
	if len(s.Unassigned) != 3 {
		t.Fatalf("expected 3 unassigned, got %v", s.Unassigned)
	}
	assigned := map[string]bool{}
	for _, e := range s.Entries {
		assigned[e.VehicleID] = true
	}
	if !assigned["v5"] || !assigned["v4"] {
		t.Fatalf("the two most urgent vehicles should win the slots, got %v", assigned)
	}
}

func TestRunEmptyInputs(t *testing.T) {
	opt := newTestOptimizer(t, nil, nil)
	if _, err := opt.Run(nil, testSlots(1)); !errors.Is(err, ErrNoVehicles) {
		t.Fatalf("expected ErrNoVehicles, got %v", err)
	}
	if _, err := opt.Run(testFleet(), nil); !errors.Is(err, ErrNoSlots) {
		t.Fatalf("expected ErrNoSlots, got %v", err)
	}
}

func TestRunRejectsInvalidInput(t *testing.T) {
	opt := newTestOptimizer(t, nil, nil)
	bad := testFleet()
	bad[1].TotalFaults = -1
	if _, err := opt.Run(bad, testSlots(3)); err == nil {
		t.Fatalf("expected validation error")
	}
	slots := testSlots(3)
	slots[2].Capacity = 0
	if _, err := opt.Run(testFleet(), slots); err == nil {
		t.Fatalf("expected slot validation error")
	}
}

func TestRunDoesNotMutateInput(t *testing.T) {
	fleet := testFleet()
	opt := newTestOptimizer(t, nil, nil)
	if _, err := opt.Run(fleet, testSlots(3)); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, v := range fleet {
		if v.PriorityScore != 0 || v.ClusterID != 0 {
			t.Fatalf("input fleet mutated: %+v", v)
		}
	}
}

func TestRunIdempotent(t *testing.T) {
	opt := newTestOptimizer(t, nil, nil)
	first, err := opt.Run(testFleet(), testSlots(3))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := opt.Run(testFleet(), testSlots(3))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	a, _ := json.Marshal(first.Entries)
	b, _ := json.Marshal(second.Entries)
	if string(a) != string(b) {
		t.Fatalf("entries differ between identical runs:\n%s\n%s", a, b)
	}
	if first.TotalCost != second.TotalCost {
		t.Fatalf("total cost differs: %v vs %v", first.TotalCost, second.TotalCost)
	}
}

func TestProfileClustersFleet(t *testing.T) {
	opt := newTestOptimizer(t, nil, nil)
	fleet, err := opt.Profile(testFleet())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if len(fleet) != 3 {
		t.Fatalf("expected 3 vehicles, got %d", len(fleet))
	}
	scoreOf := map[string]float64{}
	for _, v := range fleet {
		scoreOf[v.ID] = v.PriorityScore
	}
	if scoreOf["ATV_01"] <= scoreOf["ATV_02"] {
		t.Fatalf("most urgent vehicle not ranked first: %v", scoreOf)
	}
	if scoreOf["ATV_03"] != 0 {
		t.Fatalf("fleet minimum should score exactly 0, got %v", scoreOf["ATV_03"])
	}
	if _, err := opt.Profile(nil); !errors.Is(err, ErrNoVehicles) {
		t.Fatalf("expected ErrNoVehicles, got %v", err)
	}
}

type recordingSink struct {
	mu          sync.Mutex
	runs        []coremetrics.RunResult
	assignments []coremetrics.AssignmentRecord
	fleetSizes  []int
}

func (s *recordingSink) RecordRun(r coremetrics.RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, r)
	return nil
}

func (s *recordingSink) RecordAssignments(recs []coremetrics.AssignmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments = append(s.assignments, recs...)
	return nil
}

func (s *recordingSink) RecordFleetSize(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fleetSizes = append(s.fleetSizes, n)
	return nil
}

func TestRunRecordsMetrics(t *testing.T) {
	sink := &recordingSink{}
	opt := newTestOptimizer(t, sink, nil)
	s, err := opt.Run(testFleet(), testSlots(3))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sink.runs) != 1 {
		t.Fatalf("expected one run record, got %d", len(sink.runs))
	}
	run := sink.runs[0]
	if run.RunID != s.RunID || run.Status != "ok" {
		t.Fatalf("unexpected run record: %+v", run)
	}
	if run.Vehicles != 3 || run.SlotInstances != 3 || run.Assigned != 3 || run.Unassigned != 0 {
		t.Fatalf("unexpected run counters: %+v", run)
	}
	if len(sink.assignments) != 3 {
		t.Fatalf("expected 3 assignment records, got %d", len(sink.assignments))
	}
	if len(sink.fleetSizes) != 1 || sink.fleetSizes[0] != 3 {
		t.Fatalf("fleet size not recorded: %v", sink.fleetSizes)
	}
}

func TestRunPublishesEvents(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()
	opt := newTestOptimizer(t, nil, bus)

	s, err := opt.Run(testFleet(), testSlots(3))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	select {
	case ev := <-sub:
		done, ok := ev.(events.RunCompleted)
		if !ok {
			t.Fatalf("expected RunCompleted, got %T", ev)
		}
		if done.Schedule.RunID != s.RunID {
			t.Fatalf("event carries wrong schedule: %s", done.Schedule.RunID)
		}
	case <-time.After(time.Second):
		t.Fatalf("no event published")
	}

	if _, err := opt.Run(nil, testSlots(1)); err == nil {
		t.Fatalf("expected failure")
	}
	select {
	case ev := <-sub:
		failed, ok := ev.(events.RunFailed)
		if !ok {
			t.Fatalf("expected RunFailed, got %T", ev)
		}
		if !errors.Is(failed.Err, ErrNoVehicles) {
			t.Fatalf("unexpected failure cause: %v", failed.Err)
		}
	case <-time.After(time.Second):
		t.Fatalf("no failure event published")
	}
}

func TestConfigDefaultsAndValidation(t *testing.T) {
	var c Config
	c.SetDefaults()
	if c.Clusters != 3 || c.Seed != 42 || c.MaxIterations != 300 || c.LatenessPenalty != 0.1 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if err := (Config{Clusters: -1, MaxIterations: 1, LatenessPenalty: 0.1}).Validate(); err == nil {
		t.Fatalf("expected error for negative clusters")
	}
	if _, err := New(Config{Clusters: -1}, nil, nil, nil); err == nil {
		t.Fatalf("expected constructor error")
	}
}
