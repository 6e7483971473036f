package trace

import "gonum.org/v1/gonum/stat"

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalAdmissions   int
	TotalCompletions  int
	MaxImbalance      int         // largest (longest - shortest) queue spread seen at an admission
	KioskDistribution map[int]int // kiosk index → attendees admitted
	MeanServiceMs     float64     // mean span from reaching the front to service end
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		KioskDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalAdmissions = len(st.Admissions)
	for _, a := range st.Admissions {
		summary.KioskDistribution[a.Kiosk]++
		if d := spread(a.QueueLengths); d > summary.MaxImbalance {
			summary.MaxImbalance = d
		}
	}

	summary.TotalCompletions = len(st.Completions)
	if len(st.Completions) > 0 {
		spans := make([]float64, len(st.Completions))
		for i, c := range st.Completions {
			spans[i] = c.ServiceEndMs - c.ReachedFrontMs
		}
		summary.MeanServiceMs = stat.Mean(spans, nil)
	}
	return summary
}

func spread(lengths []int) int {
	if len(lengths) == 0 {
		return 0
	}
	lo, hi := lengths[0], lengths[0]
	for _, l := range lengths[1:] {
		lo = min(lo, l)
		hi = max(hi, l)
	}
	return hi - lo
}
