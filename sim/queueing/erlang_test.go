package queueing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/queuesim/sim"
)

func TestEvaluate_WorkedExample(t *testing.T) {
	// GIVEN 30 arrivals/hour, 120s service and a 180s goal
	report, err := Evaluate(Input{ArrivalsPerHour: 30, ServiceSeconds: 120, ServiceGoalSeconds: 180})
	require.NoError(t, err)
	require.Len(t, report.Results, DefaultMaxServers)

	// THEN lambda = mu = 0.5/min
	assert.InDelta(t, 0.5, report.ArrivalRatePerMinute, 1e-12)
	assert.InDelta(t, 0.5, report.ServiceRatePerMinute, 1e-12)

	// AND one server is unstable (rho = 1)
	one := report.Results[0]
	assert.False(t, one.Stable)
	assert.InDelta(t, 1.0, one.Utilization, 1e-12)
	assert.False(t, one.MeetsGoal)

	// AND two servers are stable at rho = 0.5 with textbook M/M/2 values:
	// P0 = 1/3, Lq = 1/3, L = 4/3, W = 8/3 min = 160s
	two := report.Results[1]
	assert.True(t, two.Stable)
	assert.InDelta(t, 0.5, two.Utilization, 1e-12)
	assert.Equal(t, 50, two.UtilizationPercent())
	assert.InDelta(t, 1.0/3, two.P0, 1e-12)
	assert.InDelta(t, 1.0/3, two.PWait, 1e-12)
	assert.InDelta(t, 1.0/3, two.Lq, 1e-12)
	assert.InDelta(t, 4.0/3, two.L, 1e-12)
	assert.InDelta(t, 160, two.AvgTimeInSystemSeconds(), 1e-9)
	assert.InDelta(t, 2.0/3, two.WqMinutes, 1e-12)
	assert.True(t, two.MeetsGoal)

	// AND two is the recommendation
	assert.True(t, report.HasRecommendation())
	assert.Equal(t, 2, report.Recommended)
}

func TestEvaluate_LittleLawHoldsForStableRows(t *testing.T) {
	report, err := Evaluate(Input{ArrivalsPerHour: 200, ServiceSeconds: 75, ServiceGoalSeconds: 90, MaxServers: 12})
	require.NoError(t, err)

	for _, r := range report.Results {
		if !r.Stable {
			continue
		}
		// Lq = lambda * Wq and L = lambda * W
		assert.InDelta(t, r.Lq, report.ArrivalRatePerMinute*r.WqMinutes, 1e-9, "c=%d", r.Servers)
		assert.InDelta(t, r.L, report.ArrivalRatePerMinute*r.WMinutes, 1e-9, "c=%d", r.Servers)
		assert.GreaterOrEqual(t, r.PWait, 0.0)
		assert.LessOrEqual(t, r.PWait, 1.0)
	}
}

func TestEvaluate_SingleServer_MatchesMM1(t *testing.T) {
	// M/M/1 with rho = 0.5: P0 = 0.5, L = 1, W = 1/(mu - lambda)
	report, err := Evaluate(Input{ArrivalsPerHour: 30, ServiceSeconds: 60, ServiceGoalSeconds: 100, MaxServers: 1})
	require.NoError(t, err)

	r := report.Results[0]
	assert.InDelta(t, 0.5, r.P0, 1e-12)
	assert.InDelta(t, 1.0, r.L, 1e-12)
	assert.InDelta(t, 2.0, r.WMinutes, 1e-12)
	assert.False(t, r.MeetsGoal) // 120s > 100s
	assert.False(t, report.HasRecommendation())
}

func TestEvaluate_NoServerCountMeetsGoal_NoRecommendation(t *testing.T) {
	// The goal is shorter than a single service, so no c can meet it.
	report, err := Evaluate(Input{ArrivalsPerHour: 10, ServiceSeconds: 300, ServiceGoalSeconds: 60})
	require.NoError(t, err)

	assert.Equal(t, 0, report.Recommended)
	for _, r := range report.Results {
		assert.False(t, r.MeetsGoal)
	}
}

func TestEvaluate_LargeServerCount_StaysFinite(t *testing.T) {
	report, err := Evaluate(Input{ArrivalsPerHour: 20000, ServiceSeconds: 60, ServiceGoalSeconds: 120, MaxServers: 400})
	require.NoError(t, err)

	last := report.Results[len(report.Results)-1]
	assert.True(t, last.Stable)
	assert.False(t, math.IsNaN(last.P0) || math.IsInf(last.L, 0))
	assert.Greater(t, report.Recommended, 333)
}

func TestEvaluate_InvalidInput_ReturnsValidationError(t *testing.T) {
	tests := []Input{
		{ArrivalsPerHour: 0, ServiceSeconds: 60, ServiceGoalSeconds: 60},
		{ArrivalsPerHour: 10, ServiceSeconds: -1, ServiceGoalSeconds: 60},
		{ArrivalsPerHour: 10, ServiceSeconds: 60, ServiceGoalSeconds: math.NaN()},
		{ArrivalsPerHour: 10, ServiceSeconds: 60, ServiceGoalSeconds: 60, MaxServers: -2},
	}
	for _, in := range tests {
		_, err := Evaluate(in)
		var verr *sim.ValidationError
		assert.True(t, errors.As(err, &verr), "input %+v: got %v", in, err)
	}
}
