package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/atvfleet/maintsched/core/model"
)

// WriteJSON writes the schedule to w in JSON format.
func WriteJSON(w io.Writer, s *model.Schedule) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteCSV writes the schedule entries to w in CSV format.
func WriteCSV(w io.Writer, s *model.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"vehicle_id", "slot_timestamp", "slot_index", "priority_score", "cluster_id", "cost"}); err != nil {
		return err
	}
	for _, e := range s.Entries {
		rec := []string{
			e.VehicleID,
			e.SlotTime.Format(time.RFC3339),
			strconv.Itoa(e.SlotIndex),
			strconv.FormatFloat(e.PriorityScore, 'f', -1, 64),
			strconv.Itoa(e.ClusterID),
			strconv.FormatFloat(e.Cost, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
