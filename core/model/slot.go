package model

import (
	"fmt"
	"time"
)

// TimeSlot is a maintenance window provided by the caller. Capacity is the
// number of vehicles that can be serviced simultaneously in the slot.
type TimeSlot struct {
	Time     time.Time `json:"timestamp"`
	Capacity int       `json:"capacity"`
}

// Validate checks that the slot has a positive capacity.
func (s TimeSlot) Validate() error {
	if s.Capacity <= 0 {
		return fmt.Errorf("slot %s: capacity must be positive, got %d", s.Time.Format(time.RFC3339), s.Capacity)
	}
	return nil
}

// SlotInstance is one capacity unit of a TimeSlot and the atomic unit matched
// to a vehicle. SlotIndex is the position of the parent slot in the
// caller-supplied slot order; it drives the lateness penalty in the cost model.
type SlotInstance struct {
	SlotIndex int       `json:"slot_index"`
	Time      time.Time `json:"timestamp"`
}

// Assignment pairs a vehicle with a slot instance at the given matching cost.
type Assignment struct {
	VehicleID string    `json:"vehicle_id"`
	SlotIndex int       `json:"slot_index"`
	SlotTime  time.Time `json:"slot_time"`
	Cost      float64   `json:"cost"`
}
