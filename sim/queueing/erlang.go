// Package queueing implements the closed-form M/M/c calculator used to size
// a kiosk bank before simulating it.
package queueing

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/queuesim/sim"
)

// DefaultMaxServers is the largest server count evaluated when none is given.
const DefaultMaxServers = 8

// Input holds the calculator parameters. Rates are converted to per-minute
// before use so arrival and service rates share a time unit.
type Input struct {
	ArrivalsPerHour    float64
	ServiceSeconds     float64 // mean service time of one server
	ServiceGoalSeconds float64 // target mean time in system
	MaxServers         int     // 0 = DefaultMaxServers
}

// ServerCountResult is one row of the calculator output. All statistics
// beyond Utilization are zero when Stable is false.
type ServerCountResult struct {
	Servers     int
	Utilization float64 // rho = lambda / (c * mu)
	Stable      bool    // rho < 1
	MeetsGoal   bool

	P0        float64 // probability the system is empty
	PWait     float64 // Erlang-C probability an arrival has to queue
	L         float64 // mean number in system
	Lq        float64 // mean number in queue
	WMinutes  float64 // mean time in system
	WqMinutes float64 // mean time in queue
}

// UtilizationPercent returns the utilization rounded to a whole percent.
func (r ServerCountResult) UtilizationPercent() int {
	return int(math.Round(r.Utilization * 100))
}

// AvgTimeInSystemSeconds returns W in seconds.
func (r ServerCountResult) AvgTimeInSystemSeconds() float64 {
	return r.WMinutes * 60
}

// Report is the full calculator output.
type Report struct {
	ArrivalRatePerMinute float64
	ServiceRatePerMinute float64
	Results              []ServerCountResult
	Recommended          int // smallest server count meeting the goal, 0 if none
}

// HasRecommendation reports whether any server count met the goal.
func (r *Report) HasRecommendation() bool {
	return r.Recommended > 0
}

func (in Input) validate() error {
	check := func(field string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return &sim.ValidationError{Field: field, Message: fmt.Sprintf("must be a positive number, got %v", v)}
		}
		return nil
	}
	if err := check("arrivals-per-hour", in.ArrivalsPerHour); err != nil {
		return err
	}
	if err := check("service-seconds", in.ServiceSeconds); err != nil {
		return err
	}
	if err := check("service-goal-seconds", in.ServiceGoalSeconds); err != nil {
		return err
	}
	if in.MaxServers < 0 {
		return &sim.ValidationError{Field: "max-servers", Message: fmt.Sprintf("must not be negative, got %d", in.MaxServers)}
	}
	return nil
}

// Evaluate computes the M/M/c statistics for every server count from 1 to
// MaxServers and picks the smallest count whose mean time in system is
// within the goal. Unstable rows (rho >= 1) are reported, not errors.
func Evaluate(in Input) (*Report, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	maxServers := in.MaxServers
	if maxServers == 0 {
		maxServers = DefaultMaxServers
	}

	lambda := in.ArrivalsPerHour / 60
	mu := 60 / in.ServiceSeconds
	report := &Report{
		ArrivalRatePerMinute: lambda,
		ServiceRatePerMinute: mu,
		Results:              make([]ServerCountResult, 0, maxServers),
	}
	for c := 1; c <= maxServers; c++ {
		r := evaluateServers(c, lambda, mu)
		r.MeetsGoal = r.Stable && r.AvgTimeInSystemSeconds() <= in.ServiceGoalSeconds
		if r.MeetsGoal && report.Recommended == 0 {
			report.Recommended = c
		}
		report.Results = append(report.Results, r)
	}
	logrus.Debugf("M/M/c: lambda=%.4f/min mu=%.4f/min recommended=%d", lambda, mu, report.Recommended)
	return report, nil
}

func evaluateServers(c int, lambda, mu float64) ServerCountResult {
	rho := lambda / (float64(c) * mu)
	r := ServerCountResult{Servers: c, Utilization: rho}
	if rho >= 1 {
		return r
	}
	r.Stable = true

	// a^n/n! built incrementally so large c never evaluates c! on its own.
	a := lambda / mu
	term := 1.0
	sum := 0.0
	for n := 0; n < c; n++ {
		sum += term
		term *= a / float64(n+1)
	}
	// term is now a^c/c!
	boundary := term / (1 - rho)
	r.P0 = 1 / (sum + boundary)
	r.PWait = boundary * r.P0
	r.Lq = r.PWait * rho / (1 - rho)
	r.L = r.Lq + a
	r.WMinutes = r.L / lambda
	r.WqMinutes = r.WMinutes - 1/mu
	return r
}
