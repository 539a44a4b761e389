package events

import "github.com/atvfleet/maintsched/core/model"

// RunCompleted is emitted on the event bus after a successful optimization
// run. Subscribers receive the immutable schedule.
type RunCompleted struct {
	Schedule *model.Schedule
}

// RunFailed is emitted when a run aborts before producing a schedule.
type RunFailed struct {
	RunID string
	Err   error
}
