package workload

// CubicBezier evaluates one coordinate of a cubic Bézier segment at t.
func CubicBezier(t, p0, p1, p2, p3 float64) float64 {
	u := 1 - t
	return u*u*u*p0 + 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t*p3
}

// Sample evaluates the spline at curve parameter t in [0,1]. The first
// segment is used while t <= P3.X, the second one after it; t is rescaled
// into the chosen segment, with a zero-width segment mapping to 0. t >= 1
// always yields P6, even when the peak sits at x=1.
func (c Curve) Sample(t float64) Point {
	if t >= 1 {
		return c[P6]
	}
	peak := c[P3].X
	if t <= peak {
		local := 0.0
		if peak > 0 {
			local = t / peak
		}
		return segment(local, c[P0], c[P1], c[P2], c[P3])
	}
	local := 0.0
	if width := 1 - peak; width > 0 {
		local = (t - peak) / width
	}
	return segment(local, c[P3], c[P4], c[P5], c[P6])
}

func segment(t float64, p0, p1, p2, p3 Point) Point {
	return Point{
		X: CubicBezier(t, p0.X, p1.X, p2.X, p3.X),
		Y: CubicBezier(t, p0.Y, p1.Y, p2.Y, p3.Y),
	}
}
