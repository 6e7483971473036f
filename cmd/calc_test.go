package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/queuesim/sim/queueing"
)

func TestWriteCalcReport_RecommendsTwoKiosks(t *testing.T) {
	// GIVEN 30 arrivals per hour, 120s service and a 180s goal
	in := queueing.Input{ArrivalsPerHour: 30, ServiceSeconds: 120, ServiceGoalSeconds: 180, MaxServers: 3}
	report, err := queueing.Evaluate(in)
	require.NoError(t, err)

	// WHEN the report is printed
	var buf bytes.Buffer
	writeCalcReport(&buf, in, report)

	// THEN one kiosk is unstable and two meet the goal
	out := buf.String()
	assert.Contains(t, out, "=== Queueing Calculator ===")
	assert.Contains(t, out, "unstable")
	assert.Contains(t, out, "Recommended kiosks: 2")
}

func TestWriteCalcReport_NoRecommendation(t *testing.T) {
	in := queueing.Input{ArrivalsPerHour: 600, ServiceSeconds: 60, ServiceGoalSeconds: 61, MaxServers: 2}
	report, err := queueing.Evaluate(in)
	require.NoError(t, err)

	var buf bytes.Buffer
	writeCalcReport(&buf, in, report)

	assert.Contains(t, buf.String(), "No kiosk count up to 2 meets the goal.")
}
