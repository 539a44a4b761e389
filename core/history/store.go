// Package history persists optimization run records for audit and querying.
package history

import (
	"context"
	"time"

	"github.com/atvfleet/maintsched/core/model"
)

// RunRecord captures one optimization run and its resulting schedule.
type RunRecord struct {
	Timestamp  time.Time             `json:"timestamp"`
	RunID      string                `json:"run_id"`
	Vehicles   int                   `json:"vehicles"`
	Assigned   int                   `json:"assigned"`
	Unassigned []string              `json:"unassigned"`
	TotalCost  float64               `json:"total_cost"`
	Entries    []model.ScheduleEntry `json:"entries"`
}

// Query defines filters for retrieving records.
type Query struct {
	Start     time.Time
	End       time.Time
	RunID     string
	VehicleID string
}

// Store persists RunRecords and supports querying.
type Store interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q Query) ([]RunRecord, error)
	Close() error
}

// matches reports whether the record passes the non-time filters.
func matches(r RunRecord, q Query) bool {
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	if q.VehicleID != "" {
		found := false
		for _, e := range r.Entries {
			if e.VehicleID == q.VehicleID {
				found = true
				break
			}
		}
		if !found {
			for _, id := range r.Unassigned {
				if id == q.VehicleID {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}
	return true
}
