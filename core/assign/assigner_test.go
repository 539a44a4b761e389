package assign

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/atvfleet/maintsched/core/model"
)

func slotAt(day int, capacity int) model.TimeSlot {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	return model.TimeSlot{Time: base.AddDate(0, 0, day), Capacity: capacity}
}

func TestExpandSlots(t *testing.T) {
	slots := []model.TimeSlot{slotAt(0, 2), slotAt(1, 1), slotAt(2, 3)}
	instances := ExpandSlots(slots)
	if len(instances) != 6 {
		t.Fatalf("expected 6 instances, got %d", len(instances))
	}
	wantIdx := []int{0, 0, 1, 2, 2, 2}
	for i, inst := range instances {
		if inst.SlotIndex != wantIdx[i] {
			t.Fatalf("instance %d: slot index %d, want %d", i, inst.SlotIndex, wantIdx[i])
		}
		if !inst.Time.Equal(slots[inst.SlotIndex].Time) {
			t.Fatalf("instance %d: time does not match parent slot", i)
		}
	}
}

func TestSolveOrdersByPriority(t *testing.T) {
	fleet := []model.Vehicle{
		{ID: "mid", PriorityScore: 0.5},
		{ID: "high", PriorityScore: 0.9},
		{ID: "low", PriorityScore: 0.1},
	}
	slots := []model.TimeSlot{slotAt(0, 1), slotAt(1, 1), slotAt(2, 1)}
	asn, unassigned, err := NewAssigner().Solve(fleet, slots)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if len(unassigned) != 0 {
		t.Fatalf("unexpected unassigned vehicles: %v", unassigned)
	}
	want := map[string]int{"high": 0, "mid": 1, "low": 2}
	for _, a := range asn {
		if want[a.VehicleID] != a.SlotIndex {
			t.Fatalf("vehicle %s assigned slot %d, want %d", a.VehicleID, a.SlotIndex, want[a.VehicleID])
		}
	}
}

func TestSolveUnderCapacity(t *testing.T) {
	fleet := []model.Vehicle{
		{ID: "p9", PriorityScore: 0.9},
		{ID: "p1", PriorityScore: 0.1},
		{ID: "p7", PriorityScore: 0.7},
		{ID: "p3", PriorityScore: 0.3},
		{ID: "p5", PriorityScore: 0.5},
	}
	slots := []model.TimeSlot{slotAt(0, 1), slotAt(1, 1)}
	asn, unassigned, err := NewAssigner().Solve(fleet, slots)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if len(asn) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(asn))
	}
	if len(unassigned) != 3 {
		t.Fatalf("expected 3 unassigned, got %v", unassigned)
	}
	left := map[string]bool{}
	for _, id := range unassigned {
		left[id] = true
	}
	for _, id := range []string{"p1", "p3", "p5"} {
		if !left[id] {
			t.Fatalf("expected %s among unassigned, got %v", id, unassigned)
		}
	}
}

func TestSolveRespectsCapacity(t *testing.T) {
	fleet := make([]model.Vehicle, 6)
	for i := range fleet {
		fleet[i] = model.Vehicle{ID: string(rune('a' + i)), PriorityScore: 0.1 * float64(i+1)}
	}
	slots := []model.TimeSlot{slotAt(0, 2), slotAt(1, 2), slotAt(2, 2)}
	asn, _, err := NewAssigner().Solve(fleet, slots)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	perSlot := map[int]int{}
	seen := map[string]bool{}
	for _, a := range asn {
		perSlot[a.SlotIndex]++
		if seen[a.VehicleID] {
			t.Fatalf("vehicle %s assigned twice", a.VehicleID)
		}
		seen[a.VehicleID] = true
	}
	for k, n := range perSlot {
		if n > slots[k].Capacity {
			t.Fatalf("slot %d received %d vehicles, capacity %d", k, n, slots[k].Capacity)
		}
	}
}

func TestSolveEmptyInputs(t *testing.T) {
	if _, _, err := NewAssigner().Solve(nil, []model.TimeSlot{slotAt(0, 1)}); err != ErrNoVehicles {
		t.Fatalf("expected ErrNoVehicles, got %v", err)
	}
	if _, _, err := NewAssigner().Solve([]model.Vehicle{{ID: "a"}}, nil); err != ErrNoSlots {
		t.Fatalf("expected ErrNoSlots, got %v", err)
	}
}

// bruteForce enumerates all injective row->column mappings of the given size
// and returns the minimum total cost.
func bruteForce(cost *mat.Dense) float64 {
	n, m := cost.Dims()
	if n > m {
		t := mat.DenseCopyOf(cost.T())
		return bruteForce(t)
	}
	usedCols := make([]bool, m)
	var rec func(row int, acc float64) float64
	rec = func(row int, acc float64) float64 {
		if row == n {
			return acc
		}
		best := math.Inf(1)
		for j := 0; j < m; j++ {
			if usedCols[j] {
				continue
			}
			usedCols[j] = true
			if v := rec(row+1, acc+cost.At(row, j)); v < best {
				best = v
			}
			usedCols[j] = false
		}
		return best
	}
	return rec(0, 0)
}

func TestSolveMatchesBruteForce(t *testing.T) {
	cases := []struct {
		priorities []float64
		caps       []int
	}{
		{[]float64{0.9, 0.5, 0.1}, []int{1, 1, 1}},
		{[]float64{0.3, 0.3, 0.8, 0.8}, []int{2, 2}},
		{[]float64{1.2, 0.7, 0.2, 0.6, 0.4}, []int{1, 2}},
		{[]float64{0.5, 0.5, 0.5}, []int{1, 1, 1, 1, 1, 1}},
		{[]float64{0.15, 0.95, 0.35, 0.75}, []int{1, 1, 2, 2}},
	}
	for ci, c := range cases {
		fleet := make([]model.Vehicle, len(c.priorities))
		for i, p := range c.priorities {
			fleet[i] = model.Vehicle{ID: string(rune('a' + i)), PriorityScore: p}
		}
		slots := make([]model.TimeSlot, len(c.caps))
		for k, capacity := range c.caps {
			slots[k] = slotAt(k, capacity)
		}
		a := NewAssigner()
		asn, _, err := a.Solve(fleet, slots)
		if err != nil {
			t.Fatalf("case %d: solve: %v", ci, err)
		}
		total := 0.0
		for _, x := range asn {
			total += x.Cost
		}
		want := bruteForce(a.CostMatrix(fleet, ExpandSlots(slots)))
		if math.Abs(total-want) > 1e-9 {
			t.Fatalf("case %d: total cost %v, brute force minimum %v", ci, total, want)
		}
	}
}

func TestSolveDeterministic(t *testing.T) {
	fleet := []model.Vehicle{
		{ID: "a", PriorityScore: 0.5},
		{ID: "b", PriorityScore: 0.5},
		{ID: "c", PriorityScore: 0.5},
	}
	slots := []model.TimeSlot{slotAt(0, 2), slotAt(1, 2)}
	first, _, err := NewAssigner().Solve(fleet, slots)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, _, err := NewAssigner().Solve(fleet, slots)
		if err != nil {
			t.Fatalf("solve: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("assignment count changed between runs")
		}
		for k := range first {
			if first[k] != again[k] {
				t.Fatalf("run %d: assignment %d differs: %+v vs %+v", i, k, first[k], again[k])
			}
		}
	}
}
