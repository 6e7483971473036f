// sim/metrics_utils.go
package sim

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// QueueLengthStats returns the maximum and mean of the observed queue
// lengths. For an empty series the maximum is 0 and the mean is NaN.
func QueueLengthStats(lengths []int) (maxLen int, mean float64) {
	if len(lengths) == 0 {
		return 0, math.NaN()
	}
	xs := make([]float64, len(lengths))
	for i, l := range lengths {
		xs[i] = float64(l)
	}
	return int(floats.Max(xs)), stat.Mean(xs, nil)
}

// CalculateMean returns the arithmetic mean, or NaN for an empty slice.
func CalculateMean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	return stat.Mean(data, nil)
}

// CalculatePercentile returns the p-th percentile (0..100) using the
// empirical quantile, or NaN for an empty slice. data is not modified.
func CalculatePercentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(data)
	slices.Sort(sorted)
	return stat.Quantile(p/100, stat.Empirical, sorted, nil)
}
