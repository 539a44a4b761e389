package schedule

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atvfleet/maintsched/core/cluster"
	"github.com/atvfleet/maintsched/core/model"
	"github.com/atvfleet/maintsched/core/optimizer"
)

// OptimizeRequest is the payload of POST /api/schedule/optimize.
type OptimizeRequest struct {
	Vehicles []model.Vehicle  `json:"vehicles"`
	Slots    []model.TimeSlot `json:"slots"`
}

// NewOptimizeHandler returns an HTTP handler running a full optimization via
// POST /api/schedule/optimize. Input problems yield 400, solver failures 500.
func NewOptimizeHandler(opt *optimizer.Optimizer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req OptimizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
			return
		}
		s, err := opt.Run(req.Vehicles, req.Slots)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// NewClustersHandler returns an HTTP handler exposing the scored and
// clustered fleet via POST /api/fleet/clusters. The fleet travels in the
// request body since the service keeps no fleet state of its own.
func NewClustersHandler(opt *optimizer.Optimizer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req OptimizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
			return
		}
		fleet, err := opt.Profile(req.Vehicles)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(fleet); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, optimizer.ErrNoVehicles),
		errors.Is(err, optimizer.ErrNoSlots),
		errors.Is(err, optimizer.ErrInvalidInput),
		errors.Is(err, cluster.ErrTooFewVehicles):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
