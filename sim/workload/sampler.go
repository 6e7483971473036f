package workload

import (
	"math"
	"math/rand"
	"slices"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/inference-sim/queuesim/sim"
)

// SampleResolution is the number of steps the curve is sampled at when
// building the arrival distribution (SampleResolution+1 samples).
const SampleResolution = 1000

// flatTolerance is the relative spread under which sampled intensities are
// treated as constant.
const flatTolerance = 1e-9

type weightedSample struct {
	x      float64
	weight float64
}

// GenerateArrivalTimes draws n arrival offsets (milliseconds from the start
// of the run) distributed like the curve's intensity over horizonHours.
// The result has exactly n entries, sorted ascending, each below the horizon.
//
// A curve whose sampled intensity is zero everywhere or constant yields an
// even spread from 0 to P6.X of the horizon and consumes no randomness.
// Otherwise each arrival is an independent inverse-transform draw from rng;
// a nil rng uses a time-seeded source.
func GenerateArrivalTimes(c Curve, n int, horizonHours float64, rng *rand.Rand) ([]int64, error) {
	if n <= 0 {
		return nil, &sim.ValidationError{Field: "attendees", Message: "must be greater than 0"}
	}
	if math.IsNaN(horizonHours) || math.IsInf(horizonHours, 0) || horizonHours <= 0 {
		return nil, &sim.ValidationError{Field: "horizon-hours", Message: "must be a positive number"}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	horizonMs := sim.HorizonMs(horizonHours)
	samples := sampleCurve(c)
	if isFlat(samples) {
		logrus.Debugf("Curve intensity is flat; spreading %d arrivals evenly", n)
		return uniformArrivals(n, c[P6].X, horizonMs), nil
	}

	weights := make([]float64, len(samples))
	for i, s := range samples {
		weights[i] = s.weight
	}
	floats.Scale(1/floats.Sum(weights), weights)
	cumulative := floats.CumSum(make([]float64, len(weights)), weights)
	cumulative[len(cumulative)-1] = 1

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	arrivals := make([]int64, n)
	for i := range arrivals {
		u := rng.Float64()
		idx := min(sort.SearchFloat64s(cumulative, u), len(samples)-1)
		arrivals[i] = toOffsetMs(samples[idx].x, horizonMs)
	}
	slices.Sort(arrivals)
	return arrivals, nil
}

// sampleCurve evaluates the curve at SampleResolution+1 evenly spaced
// parameters, keeping only samples inside the curve's time domain.
func sampleCurve(c Curve) []weightedSample {
	end := c[P6].X
	samples := make([]weightedSample, 0, SampleResolution+1)
	for i := 0; i <= SampleResolution; i++ {
		p := c.Sample(float64(i) / SampleResolution)
		if p.X > end {
			continue
		}
		samples = append(samples, weightedSample{x: p.X, weight: max(0, p.Y)})
	}
	return samples
}

func isFlat(samples []weightedSample) bool {
	if len(samples) == 0 {
		return true
	}
	lo, hi := samples[0].weight, samples[0].weight
	for _, s := range samples[1:] {
		lo = min(lo, s.weight)
		hi = max(hi, s.weight)
	}
	return hi == 0 || hi-lo <= flatTolerance*hi
}

func uniformArrivals(n int, end, horizonMs float64) []int64 {
	arrivals := make([]int64, n)
	if n == 1 {
		return arrivals
	}
	for i := range arrivals {
		arrivals[i] = toOffsetMs(float64(i)/float64(n-1)*end, horizonMs)
	}
	return arrivals
}

// toOffsetMs converts a curve x position to milliseconds, clamped to stay
// strictly inside the horizon.
func toOffsetMs(x, horizonMs float64) int64 {
	ms := math.Floor(x * horizonMs)
	return int64(min(max(ms, 0), horizonMs-1))
}
