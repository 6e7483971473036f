package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/queuesim/sim"
	"github.com/inference-sim/queuesim/sim/workload"
)

const fullScenario = `
attendees: 250
kiosks: 3
seconds_at_kiosk: 45
minutes_per_second: 10
horizon_hours: 4
seed: 7
curve:
  points:
    - {x: 0, y: 0}
    - {x: 0.1, y: 0}
    - {x: 0.3, y: 1}
    - {x: 0.4, y: 1}
    - {x: 0.5, y: 1}
    - {x: 0.7, y: 0}
    - {x: 1, y: 0}
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenario_AllFields(t *testing.T) {
	// GIVEN a scenario file setting every field
	path := writeScenario(t, fullScenario)

	// WHEN it is loaded
	sc, err := loadScenario(path)

	// THEN every value comes from the file
	require.NoError(t, err)
	assert.Equal(t, 250, sc.Attendees)
	assert.Equal(t, 3, sc.Kiosks)
	assert.Equal(t, 45.0, sc.SecondsAtKiosk)
	assert.Equal(t, 10.0, sc.MinutesPerSecond)
	assert.Equal(t, 4.0, sc.HorizonHours)
	assert.Equal(t, int64(7), sc.Seed)
	require.Len(t, sc.Curve.Points, 7)
	assert.Equal(t, workload.Point{X: 0.4, Y: 1}, sc.Curve.Points[workload.P3])

	c, err := sc.ArrivalCurve()
	require.NoError(t, err)
	assert.Equal(t, 1.0, c[workload.P6].X)
}

func TestLoadScenario_PartialFileKeepsDefaults(t *testing.T) {
	sc, err := loadScenario(writeScenario(t, "kiosks: 2\ncurve:\n  preset: bell\n"))

	require.NoError(t, err)
	def := defaultScenario()
	assert.Equal(t, 2, sc.Kiosks)
	assert.Equal(t, def.Attendees, sc.Attendees)
	assert.Equal(t, def.SecondsAtKiosk, sc.SecondsAtKiosk)
	assert.Equal(t, "bell", sc.Curve.Preset)
}

func TestLoadScenario_UnknownFieldRejected(t *testing.T) {
	// GIVEN a typo in a field name
	_, err := loadScenario(writeScenario(t, "kiosk: 2\n"))

	// THEN loading fails instead of silently ignoring it
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kiosk")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := loadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyFlags_OnlyChangedFlagsOverride(t *testing.T) {
	// GIVEN a scenario from a file and a command where only --kiosks and --seed were set
	sc, err := loadScenario(writeScenario(t, fullScenario))
	require.NoError(t, err)
	cmd := &cobra.Command{Use: "test"}
	registerScenarioFlags(cmd)
	require.NoError(t, cmd.Flags().Set("kiosks", "5"))
	require.NoError(t, cmd.Flags().Set("seed", "99"))

	// WHEN flags are applied
	sc.applyFlags(cmd)

	// THEN the set flags win and the rest keep their file values
	assert.Equal(t, 5, sc.Kiosks)
	assert.Equal(t, int64(99), sc.Seed)
	assert.Equal(t, 250, sc.Attendees)
	assert.Equal(t, 45.0, sc.SecondsAtKiosk)
	assert.Len(t, sc.Curve.Points, 7)
}

func TestApplyFlags_PresetReplacesFilePoints(t *testing.T) {
	sc, err := loadScenario(writeScenario(t, fullScenario))
	require.NoError(t, err)
	cmd := &cobra.Command{Use: "test"}
	registerScenarioFlags(cmd)
	require.NoError(t, cmd.Flags().Set("preset", "flat"))

	sc.applyFlags(cmd)

	assert.Empty(t, sc.Curve.Points)
	c, err := sc.ArrivalCurve()
	require.NoError(t, err)
	want, _ := workload.Preset("flat")
	assert.Equal(t, want, c)
}

func TestScenario_ArrivalCurveErrors(t *testing.T) {
	sc := defaultScenario()
	sc.Curve = CurveConfig{Points: []workload.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}
	_, err := sc.ArrivalCurve()
	var verr *sim.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "curve.points", verr.Field)

	sc.Curve = CurveConfig{Preset: "spiky"}
	_, err = sc.ArrivalCurve()
	assert.Error(t, err)

	sc.Curve = CurveConfig{}
	c, err := sc.ArrivalCurve()
	require.NoError(t, err)
	want, _ := workload.Preset(workload.DefaultPreset)
	assert.Equal(t, want, c)
}

func TestScenario_SimConfigValidates(t *testing.T) {
	sc := defaultScenario()
	sc.Kiosks = 0
	_, err := sc.SimConfig()
	var verr *sim.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "kiosks", verr.Field)
}

func TestScenario_SeedDeterminesSchedule(t *testing.T) {
	// GIVEN the same scenario under two seeds
	a := defaultScenario()
	b := defaultScenario()
	b.Seed = a.Seed + 1

	s1, err := a.Schedule()
	require.NoError(t, err)
	s2, err := a.Schedule()
	require.NoError(t, err)
	s3, err := b.Schedule()
	require.NoError(t, err)

	// THEN the same seed reproduces the schedule and a different seed changes it
	assert.Equal(t, s1, s2)
	assert.NotEqual(t, s1, s3)
	assert.Len(t, s1, a.Attendees)
}
