package workload

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cross returns the z component of (b-a) x (c-b); zero means collinear.
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
}

func TestMovePoint_StartAnchor_CarriesP1(t *testing.T) {
	// GIVEN the bell curve
	c, err := Preset("bell")
	require.NoError(t, err)

	// WHEN P0 is dragged up by 0.2
	got, err := MovePoint(c, P0, 0, 0.2)
	require.NoError(t, err)

	// THEN P1 moves by the same delta
	assert.Equal(t, Point{0, 0.2}, got[P0])
	assert.InDelta(t, 0.37, got[P1].X, 1e-12)
	assert.InDelta(t, 0.2, got[P1].Y, 1e-12)
}

func TestMovePoint_EndAnchor_ClampsCarriedControl(t *testing.T) {
	c, err := Preset("double")
	require.NoError(t, err)

	// P6 is already at y=1; moving it down by 0.5 then up by 0.9 clamps P5 at 1
	got, err := MovePoint(c, P6, 1, 0.5)
	require.NoError(t, err)
	got, err = MovePoint(got, P6, 1, 1.4)
	require.NoError(t, err)

	assert.Equal(t, Point{1, 1}, got[P6])
	assert.Equal(t, 1.0, got[P5].Y)
}

func TestMovePoint_Peak_KeepsControlsCollinear(t *testing.T) {
	// GIVEN a curve with a skewed peak handle
	c := Curve{{0, 0}, {0.2, 0}, {0.3, 0.7}, {0.5, 0.9}, {0.65, 0.8}, {0.8, 0}, {1, 0}}
	distBefore := distance(c[P4], c[P3])

	// WHEN the peak anchor is dragged
	got, err := MovePoint(c, P3, 0.45, 0.8)
	require.NoError(t, err)

	// THEN P2, P3 and P4 are collinear and P4 kept its distance from P3
	assert.Equal(t, Point{0.45, 0.8}, got[P3])
	assert.InDelta(t, 0, cross(got[P2], got[P3], got[P4]), 1e-12)
	assert.InDelta(t, distBefore, distance(got[P4], got[P3]), 1e-12)
	// AND P4 sits on the far side of P3 from P2
	assert.Greater(t, got[P4].X, got[P3].X)
}

func TestMovePoint_Peak_ClampedBetweenEndAnchors(t *testing.T) {
	c, err := Preset(DefaultPreset)
	require.NoError(t, err)

	got, err := MovePoint(c, P3, 0.9, 1)
	require.NoError(t, err)

	assert.Equal(t, c[P6].X, got[P3].X)
	assert.NoError(t, got.Validate())
}

func TestUpdatePeakControl_CannotCrossPeak(t *testing.T) {
	c, err := Preset("bell")
	require.NoError(t, err)

	// WHEN P2 is dragged to the right of P3
	got := UpdatePeakControl(c, P2, 0.7, 0.9)

	// THEN it stops 0.01 left of the peak and P4 swings to stay collinear
	assert.InDelta(t, c[P3].X-0.01, got[P2].X, 1e-12)
	assert.InDelta(t, 0, cross(got[P2], got[P3], got[P4]), 1e-12)
	assert.InDelta(t, distance(c[P4], c[P3]), distance(got[P4], got[P3]), 1e-12)

	// AND symmetrically for P4 dragged left of the peak
	got = UpdatePeakControl(c, P4, 0.1, 0.5)
	assert.InDelta(t, c[P3].X+0.01, got[P4].X, 1e-12)
	assert.InDelta(t, 0, cross(got[P2], got[P3], got[P4]), 1e-12)
	assert.InDelta(t, distance(c[P2], c[P3]), distance(got[P2], got[P3]), 1e-12)
}

func TestEnforceG1Continuity_DegenerateDirection_LeavesP4(t *testing.T) {
	c := Curve{{0, 0}, {0.2, 0}, {0.5, 1}, {0.5, 1}, {0.7, 0.6}, {0.8, 0}, {1, 0}}

	got := EnforceG1Continuity(c)

	assert.Equal(t, c[P4], got[P4])
}

func TestMovePoint_FreeControl_ClampsToUnitSquare(t *testing.T) {
	c, err := Preset("bell")
	require.NoError(t, err)

	got, err := MovePoint(c, P5, 1.5, -0.2)
	require.NoError(t, err)
	assert.Equal(t, Point{1, 0}, got[P5])

	_, err = MovePoint(c, 9, 0, 0)
	assert.Error(t, err)
}

func TestNormalize_Clamps(t *testing.T) {
	assert.Equal(t, Point{0, 1}, Normalize(-3, 2))
	p := Normalize(0.25, 0.75)
	assert.False(t, math.IsNaN(p.X))
	assert.Equal(t, Point{0.25, 0.75}, p)
}
