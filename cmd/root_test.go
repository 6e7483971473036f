package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/queuesim/sim"
	"github.com/inference-sim/queuesim/sim/trace"
)

func TestRunClocked_CompletesAndReturnsSummary(t *testing.T) {
	// GIVEN a small run at a very high speed
	s := sim.NewSimulator()
	cfg := sim.Config{NumAttendees: 3, NumKiosks: 2, SecondsAtKiosk: 60}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// WHEN it is driven by the clock
	sum, err := runClocked(ctx, s, cfg, []int64{0, 0, 60_000}, 60_000, nil)

	// THEN the completed summary is returned
	require.NoError(t, err)
	require.NotNil(t, sum)
	assert.Equal(t, 3, sum.CompletedCount)
	assert.Equal(t, s.RunID, sum.RunID)
}

func TestRunClocked_QuitCommandStopsEarly(t *testing.T) {
	// GIVEN a clock that would take hours per tick
	s := sim.NewSimulator()
	cfg := sim.Config{NumAttendees: 1, NumKiosks: 1, SecondsAtKiosk: 60}

	// WHEN the user quits immediately
	sum, err := runClocked(context.Background(), s, cfg, []int64{0}, 0.0001, strings.NewReader("q\n"))

	// THEN no summary is produced and nothing failed
	require.NoError(t, err)
	assert.Nil(t, sum)
}

func TestRunClocked_InvalidInput(t *testing.T) {
	s := sim.NewSimulator()

	_, err := runClocked(context.Background(), s, sim.Config{NumAttendees: 1, NumKiosks: 1, SecondsAtKiosk: 60}, []int64{0}, 0, nil)
	assert.Error(t, err)

	_, err = runClocked(context.Background(), s, sim.Config{NumAttendees: 2, NumKiosks: 1, SecondsAtKiosk: 60}, []int64{0}, 10, nil)
	assert.Error(t, err)
}

func TestWriteSummary_TextAndJSON(t *testing.T) {
	s := sim.NewSimulator()
	require.NoError(t, s.Initialise(sim.Config{NumAttendees: 1, NumKiosks: 1, SecondsAtKiosk: 60}, []int64{0}))
	sum := s.Run()

	var text bytes.Buffer
	require.NoError(t, writeSummary(&text, sum, false))
	assert.Contains(t, text.String(), "=== Simulation Metrics ===")

	var js bytes.Buffer
	require.NoError(t, writeSummary(&js, sum, true))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, 1.0, decoded["completed_attendees"])
}

func TestPrintTraceSummary_ListsEveryKiosk(t *testing.T) {
	s := sim.NewSimulator()
	s.EnableTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
	require.NoError(t, s.Initialise(sim.Config{NumAttendees: 1, NumKiosks: 3, SecondsAtKiosk: 60}, []int64{0}))
	s.Run()

	var buf bytes.Buffer
	printTraceSummary(&buf, trace.Summarize(s.Trace), 3)

	out := buf.String()
	assert.Contains(t, out, "Admissions           : 1")
	assert.Contains(t, out, "Mean Service (s)     : ")
	assert.Contains(t, out, "Kiosk 0   Admissions : 1")
	assert.Contains(t, out, "Kiosk 2   Admissions : 0")
}
