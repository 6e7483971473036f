package workload

import (
	"fmt"
	"math"
)

// peakSeparation is the minimum horizontal gap kept between P3 and a peak
// control point dragged towards it.
const peakSeparation = 0.01

// Normalize clamps a position into the unit square.
func Normalize(x, y float64) Point {
	return Point{X: clamp01(x), Y: clamp01(y)}
}

// MovePoint drags point idx to (x, y) and returns the updated curve, keeping
// the neighbouring points consistent:
//   - P0 and P6 carry their adjacent control (P1, P5) by the same delta.
//   - P3 carries P2 and P4 by the same delta, then restores collinearity.
//   - P2 and P4 stay on their side of P3 and swing the opposite control.
//   - P1 and P5 move freely.
//
// Anchor x values are clamped so P0.X <= P3.X <= P6.X continues to hold.
func MovePoint(c Curve, idx int, x, y float64) (Curve, error) {
	if idx < P0 || idx > P6 {
		return c, fmt.Errorf("control point index %d out of range [0,6]", idx)
	}
	target := Normalize(x, y)
	switch idx {
	case P0:
		target.X = min(target.X, c[P3].X)
		c = carry(c, P0, P1, target)
	case P6:
		target.X = max(target.X, c[P3].X)
		c = carry(c, P6, P5, target)
	case P3:
		target.X = min(max(target.X, c[P0].X), c[P6].X)
		dx, dy := target.X-c[P3].X, target.Y-c[P3].Y
		c[P3] = target
		c[P2] = Normalize(c[P2].X+dx, c[P2].Y+dy)
		c[P4] = Normalize(c[P4].X+dx, c[P4].Y+dy)
		c = EnforceG1Continuity(c)
	case P2, P4:
		c = UpdatePeakControl(c, idx, target.X, target.Y)
	default:
		c[idx] = target
	}
	return c, nil
}

// carry moves anchor to target and translates its control point by the same
// delta, each axis clamped to [0,1].
func carry(c Curve, anchor, control int, target Point) Curve {
	dx, dy := target.X-c[anchor].X, target.Y-c[anchor].Y
	c[anchor] = target
	c[control] = Normalize(c[control].X+dx, c[control].Y+dy)
	return c
}

// EnforceG1Continuity reprojects P4 onto the ray from P2 through P3, keeping
// its current distance from P3. A degenerate P2 == P3 leaves P4 untouched.
func EnforceG1Continuity(c Curve) Curve {
	dist := distance(c[P4], c[P3])
	if dir, ok := unit(c[P2], c[P3]); ok {
		c[P4] = Point{X: c[P3].X + dir.X*dist, Y: c[P3].Y + dir.Y*dist}
	}
	return c
}

// UpdatePeakControl moves P2 or P4 to (x, y) while keeping it strictly on its
// side of P3, then swings the opposite peak control so P2, P3 and P4 stay
// collinear with the opposite control's distance from P3 unchanged.
func UpdatePeakControl(c Curve, idx int, x, y float64) Curve {
	peak := c[P3]
	opposite := P4
	switch idx {
	case P2:
		if x >= peak.X {
			x = peak.X - peakSeparation
		}
	case P4:
		opposite = P2
		if x <= peak.X {
			x = peak.X + peakSeparation
		}
	default:
		return c
	}
	c[idx] = Point{X: x, Y: y}
	dist := distance(c[opposite], peak)
	if dir, ok := unit(c[idx], peak); ok {
		c[opposite] = Point{X: peak.X + dir.X*dist, Y: peak.Y + dir.Y*dist}
	}
	return c
}

// unit returns the unit vector pointing from a to b.
func unit(a, b Point) (Point, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx == 0 && dy == 0 {
		return Point{}, false
	}
	length := math.Hypot(dx, dy)
	return Point{X: dx / length, Y: dy / length}, true
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
