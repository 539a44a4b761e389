// Package events defines the optimizer events emitted on the event bus.
//
// Available event types:
//   - RunCompleted: a schedule was produced
//   - RunFailed: the run aborted with an error
package events
