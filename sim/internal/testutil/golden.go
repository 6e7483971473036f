// Package testutil provides shared test infrastructure for the queue
// simulator: the golden dataset of reference runs and float assertions.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one reference run. Presets must be deterministic
// (flat) so the expected metrics do not depend on the random source.
type GoldenTestCase struct {
	Name           string        `json:"name"`
	Preset         string        `json:"preset"`
	Attendees      int           `json:"attendees"`
	Kiosks         int           `json:"kiosks"`
	SecondsAtKiosk float64       `json:"seconds_at_kiosk"`
	HorizonHours   float64       `json:"horizon_hours"`
	Seed           int64         `json:"seed"`
	Metrics        GoldenMetrics `json:"metrics"`
}

// GoldenMetrics represents the expected summary of a golden test case.
type GoldenMetrics struct {
	// Exact match metrics (integers)
	SimulatedMinutes   int64 `json:"simulated_minutes"`
	CompletedAttendees int   `json:"completed_attendees"`
	UnservedAttendees  int   `json:"unserved_attendees"`
	MaxQueueLength     int   `json:"max_queue_length"`

	// Means, compared with a relative tolerance
	AverageQueueLength float64 `json:"average_queue_length"`
	TimeInSystemMeanMs float64 `json:"time_in_system_mean_ms"`
	WaitMeanMs         float64 `json:"wait_mean_ms"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == got {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
