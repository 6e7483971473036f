package workload

import (
	"fmt"
	"math"

	"github.com/inference-sim/queuesim/sim"
)

// Point is a position in normalized curve space: X is the fraction of the
// horizon, Y the relative arrival intensity.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Indices into a Curve.
const (
	P0 = iota // start anchor
	P1        // first segment control
	P2        // peak control, left of P3
	P3        // peak anchor, joint of both segments
	P4        // peak control, right of P3
	P5        // second segment control
	P6        // end anchor
)

// Curve is a two-segment piecewise cubic Bézier spline: P0-P1-P2-P3 then
// P3-P4-P5-P6.
type Curve [7]Point

// Validate checks that every coordinate is finite, that the anchors lie in
// the unit square, and that anchor x values are non-decreasing so the curve
// remains a function of time.
func (c Curve) Validate() error {
	for i, p := range c {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return &sim.ValidationError{Field: pointName(i), Message: "coordinates must be finite"}
		}
	}
	for _, i := range []int{P0, P3, P6} {
		p := c[i]
		if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
			return &sim.ValidationError{Field: pointName(i), Message: fmt.Sprintf("anchor (%.3f, %.3f) outside [0,1]", p.X, p.Y)}
		}
	}
	if c[P0].X > c[P3].X || c[P3].X > c[P6].X {
		return &sim.ValidationError{Field: "curve", Message: fmt.Sprintf(
			"anchor x values must be non-decreasing, got p0=%.3f p3=%.3f p6=%.3f", c[P0].X, c[P3].X, c[P6].X)}
	}
	return nil
}

// Values flattens the curve into the 14 x/y fields p0x, p0y ... p6y.
func (c Curve) Values() []float64 {
	out := make([]float64, 0, 2*len(c))
	for _, p := range c {
		out = append(out, p.X, p.Y)
	}
	return out
}

// CurveFromValues builds a Curve from 14 numbers ordered p0x, p0y ... p6y.
func CurveFromValues(values []float64) (Curve, error) {
	var c Curve
	if len(values) != 2*len(c) {
		return c, &sim.ValidationError{Field: "curve", Message: fmt.Sprintf("expected %d values, got %d", 2*len(c), len(values))}
	}
	for i := range c {
		c[i] = Point{X: values[2*i], Y: values[2*i+1]}
	}
	return c, c.Validate()
}

func pointName(i int) string {
	return fmt.Sprintf("p%d", i)
}
