// Aggregates end-of-run statistics: queue lengths observed after every tick
// and per-attendee timings of the completed set.

package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// Summary reports the outcome of one run.
//
// AverageQueueLength is NaN when no tick was processed before termination
// (for example an empty schedule); MaxQueueLength is 0 in that case. The
// timing fields are NaN when no attendee completed.
type Summary struct {
	RunID          string
	Ticks          int64 // simulated minutes processed
	NumKiosks      int
	CompletedCount int
	Unserved       int  // attendees still pending or queued at termination
	HorizonReached bool // true if the run was cut off by the horizon

	Observations       int
	MaxQueueLength     int
	AverageQueueLength float64

	MeanTimeInSystemMs float64
	P50TimeInSystemMs  float64
	P90TimeInSystemMs  float64
	P99TimeInSystemMs  float64
	MeanWaitMs         float64
}

func newSummary(s *Simulator) *Summary {
	sum := &Summary{
		RunID:          s.RunID,
		Ticks:          s.CurrentTick,
		NumKiosks:      len(s.Kiosks),
		CompletedCount: s.CompletedCount,
		Unserved:       len(s.Pending) + s.QueuedCount(),
		HorizonReached: s.CurrentTick >= s.Horizon,
		Observations:   len(s.ObservedQueueLengths),
	}
	sum.MaxQueueLength, sum.AverageQueueLength = QueueLengthStats(s.ObservedQueueLengths)

	inSystem := make([]float64, 0, len(s.Completed))
	waits := make([]float64, 0, len(s.Completed))
	for _, a := range s.Completed {
		inSystem = append(inSystem, a.TimeInSystemMs())
		waits = append(waits, a.WaitMs())
	}
	sum.MeanTimeInSystemMs = CalculateMean(inSystem)
	sum.P50TimeInSystemMs = CalculatePercentile(inSystem, 50)
	sum.P90TimeInSystemMs = CalculatePercentile(inSystem, 90)
	sum.P99TimeInSystemMs = CalculatePercentile(inSystem, 99)
	sum.MeanWaitMs = CalculateMean(waits)
	return sum
}

// Print writes a human-readable report.
func (m *Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Run                  : %s\n", m.RunID)
	fmt.Fprintf(w, "Kiosks               : %d\n", m.NumKiosks)
	fmt.Fprintf(w, "Simulated Minutes    : %d\n", m.Ticks)
	fmt.Fprintf(w, "Completed Attendees  : %d\n", m.CompletedCount)
	if m.Unserved > 0 {
		fmt.Fprintf(w, "Unserved Attendees   : %d (horizon reached: %t)\n", m.Unserved, m.HorizonReached)
	}
	if m.Observations == 0 {
		fmt.Fprintln(w, "Queue Lengths        : no observations")
		return
	}
	fmt.Fprintf(w, "Max Queue Length     : %d\n", m.MaxQueueLength)
	fmt.Fprintf(w, "Average Queue Length : %.1f\n", m.AverageQueueLength)
	if m.CompletedCount > 0 {
		fmt.Fprintf(w, "Mean Time In System  : %.1f s\n", m.MeanTimeInSystemMs/1000)
		fmt.Fprintf(w, "P90 Time In System   : %.1f s\n", m.P90TimeInSystemMs/1000)
		fmt.Fprintf(w, "Mean Wait For Kiosk  : %.1f s\n", m.MeanWaitMs/1000)
	}
}

// summaryJSON mirrors Summary with NaN-able fields as pointers, since
// encoding/json rejects NaN.
type summaryJSON struct {
	RunID              string   `json:"run_id"`
	Ticks              int64    `json:"simulated_minutes"`
	NumKiosks          int      `json:"kiosks"`
	CompletedCount     int      `json:"completed_attendees"`
	Unserved           int      `json:"unserved_attendees"`
	HorizonReached     bool     `json:"horizon_reached"`
	Observations       int      `json:"queue_length_observations"`
	MaxQueueLength     int      `json:"max_queue_length"`
	AverageQueueLength *float64 `json:"average_queue_length"`
	MeanTimeInSystemS  *float64 `json:"time_in_system_mean_s"`
	P50TimeInSystemS   *float64 `json:"time_in_system_p50_s"`
	P90TimeInSystemS   *float64 `json:"time_in_system_p90_s"`
	P99TimeInSystemS   *float64 `json:"time_in_system_p99_s"`
	MeanWaitS          *float64 `json:"wait_mean_s"`
}

// WriteJSON writes the summary as indented JSON. NaN values become null.
func (m *Summary) WriteJSON(w io.Writer) error {
	out := summaryJSON{
		RunID:              m.RunID,
		Ticks:              m.Ticks,
		NumKiosks:          m.NumKiosks,
		CompletedCount:     m.CompletedCount,
		Unserved:           m.Unserved,
		HorizonReached:     m.HorizonReached,
		Observations:       m.Observations,
		MaxQueueLength:     m.MaxQueueLength,
		AverageQueueLength: finite(m.AverageQueueLength, 1),
		MeanTimeInSystemS:  finite(m.MeanTimeInSystemMs, 1e-3),
		P50TimeInSystemS:   finite(m.P50TimeInSystemMs, 1e-3),
		P90TimeInSystemS:   finite(m.P90TimeInSystemMs, 1e-3),
		P99TimeInSystemS:   finite(m.P99TimeInSystemMs, 1e-3),
		MeanWaitS:          finite(m.MeanWaitMs, 1e-3),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func finite(v, scale float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	v *= scale
	return &v
}
