package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/queuesim/sim"
	"github.com/inference-sim/queuesim/sim/workload"
)

// Scenario is the YAML scenario file. Flags that are explicitly set on the
// command line override the values it contains.
type Scenario struct {
	Attendees        int         `yaml:"attendees"`
	Kiosks           int         `yaml:"kiosks"`
	SecondsAtKiosk   float64     `yaml:"seconds_at_kiosk"`
	MinutesPerSecond float64     `yaml:"minutes_per_second"`
	HorizonHours     float64     `yaml:"horizon_hours"`
	Seed             int64       `yaml:"seed"`
	Curve            CurveConfig `yaml:"curve"`
}

// CurveConfig selects the arrival curve: either a preset name or all seven
// control points in P0..P6 order. Points win when both are given.
type CurveConfig struct {
	Preset string           `yaml:"preset"`
	Points []workload.Point `yaml:"points"`
}

// defaultScenario holds the values used when neither file nor flag sets them.
func defaultScenario() Scenario {
	return Scenario{
		Attendees:        100,
		Kiosks:           1,
		SecondsAtKiosk:   60,
		MinutesPerSecond: 4,
		HorizonHours:     sim.DefaultHorizonHours,
		Seed:             42,
		Curve:            CurveConfig{Preset: workload.DefaultPreset},
	}
}

// loadScenario reads a scenario file on top of the defaults.
// Uses strict field checking so typos fail instead of being ignored.
func loadScenario(path string) (Scenario, error) {
	sc := defaultScenario()
	data, err := os.ReadFile(path)
	if err != nil {
		return sc, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	if err := parseScenario(data, &sc); err != nil {
		return sc, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	return sc, nil
}

func parseScenario(data []byte, sc *Scenario) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	return decoder.Decode(sc)
}

// applyFlags overrides scenario values with every scenario flag the user set
// explicitly on cmd.
func (sc *Scenario) applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("attendees") {
		sc.Attendees = numAttendees
	}
	if flags.Changed("kiosks") {
		sc.Kiosks = numKiosks
	}
	if flags.Changed("seconds-at-kiosk") {
		sc.SecondsAtKiosk = secondsAtKiosk
	}
	if flags.Changed("minutes-per-second") {
		sc.MinutesPerSecond = minutesPerSecond
	}
	if flags.Changed("horizon-hours") {
		sc.HorizonHours = horizonHours
	}
	if flags.Changed("seed") {
		sc.Seed = seed
	}
	if flags.Changed("preset") {
		sc.Curve = CurveConfig{Preset: preset}
	}
}

// resolveScenario returns the effective scenario for cmd: defaults, then the
// --scenario file if one was given, then explicit flags.
func resolveScenario(cmd *cobra.Command) (Scenario, error) {
	sc := defaultScenario()
	if scenarioPath != "" {
		loaded, err := loadScenario(scenarioPath)
		if err != nil {
			return sc, err
		}
		sc = loaded
	}
	sc.applyFlags(cmd)
	return sc, nil
}

// SimConfig converts the scenario into a validated simulation config.
func (sc Scenario) SimConfig() (sim.Config, error) {
	cfg := sim.Config{
		NumAttendees:   sc.Attendees,
		NumKiosks:      sc.Kiosks,
		SecondsAtKiosk: sc.SecondsAtKiosk,
		HorizonHours:   sc.HorizonHours,
	}
	return cfg, cfg.Validate()
}

// ArrivalCurve resolves the configured curve and validates it.
func (sc Scenario) ArrivalCurve() (workload.Curve, error) {
	if len(sc.Curve.Points) > 0 {
		if len(sc.Curve.Points) != len(workload.Curve{}) {
			return workload.Curve{}, &sim.ValidationError{Field: "curve.points",
				Message: fmt.Sprintf("need exactly %d points, got %d", len(workload.Curve{}), len(sc.Curve.Points))}
		}
		var c workload.Curve
		copy(c[:], sc.Curve.Points)
		return c, c.Validate()
	}
	name := sc.Curve.Preset
	if name == "" {
		name = workload.DefaultPreset
	}
	return workload.Preset(name)
}

// Schedule draws the arrival schedule for this scenario from the arrivals
// subsystem of its seed.
func (sc Scenario) Schedule() ([]int64, error) {
	c, err := sc.ArrivalCurve()
	if err != nil {
		return nil, err
	}
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(sc.Seed))
	return workload.GenerateArrivalTimes(c, sc.Attendees, sc.hours(), rng.ForSubsystem(sim.SubsystemArrivals))
}

func (sc Scenario) hours() float64 {
	return sim.Config{HorizonHours: sc.HorizonHours}.Hours()
}
