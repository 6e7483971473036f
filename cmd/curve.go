package cmd

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/queuesim/sim/workload"
)

var (
	drags       []string // Point moves, e.g. p3=0.4,0.8
	showOffsets bool     // Print every arrival offset
)

// histogramWidth is the bar length of the busiest hour.
const histogramWidth = 50

// curveCmd prints the arrival curve and the schedule it produces
var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Inspect an arrival curve and the arrival schedule it generates",
	Run: func(cmd *cobra.Command, args []string) {
		sc, err := resolveScenario(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		c, err := sc.ArrivalCurve()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		c, err = applyDrags(c, drags)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		// Schedule draws from the scenario's curve, so hand it the edited one.
		sc.Curve = CurveConfig{Points: c[:]}
		schedule, err := sc.Schedule()
		if err != nil {
			logrus.Fatalf("unable to generate arrival schedule: %v", err)
		}
		writeCurveReport(os.Stdout, c, schedule, sc.hours(), showOffsets)
	},
}

// parseDrag parses "p<idx>=<x>,<y>".
func parseDrag(s string) (idx int, x, y float64, err error) {
	name, coords, ok := strings.Cut(s, "=")
	if !ok || len(name) != 2 || (name[0] != 'p' && name[0] != 'P') {
		return 0, 0, 0, fmt.Errorf("invalid drag %q: want p<0-6>=<x>,<y>", s)
	}
	idx, err = strconv.Atoi(name[1:])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid drag %q: %w", s, err)
	}
	xs, ys, ok := strings.Cut(coords, ",")
	if !ok {
		return 0, 0, 0, fmt.Errorf("invalid drag %q: want p<0-6>=<x>,<y>", s)
	}
	if x, err = strconv.ParseFloat(strings.TrimSpace(xs), 64); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid drag %q: %w", s, err)
	}
	if y, err = strconv.ParseFloat(strings.TrimSpace(ys), 64); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid drag %q: %w", s, err)
	}
	return idx, x, y, nil
}

// applyDrags moves points in order, as an editor would.
func applyDrags(c workload.Curve, moves []string) (workload.Curve, error) {
	for _, m := range moves {
		idx, x, y, err := parseDrag(m)
		if err != nil {
			return c, err
		}
		if c, err = workload.MovePoint(c, idx, x, y); err != nil {
			return c, err
		}
		logrus.Debugf("Moved P%d to (%.3f, %.3f)", idx, c[idx].X, c[idx].Y)
	}
	return c, nil
}

// hourlyHistogram counts arrivals per started hour of the horizon.
func hourlyHistogram(schedule []int64, hours float64) []int {
	buckets := make([]int, int(math.Ceil(hours)))
	for _, ms := range schedule {
		b := min(int(ms/3_600_000), len(buckets)-1)
		buckets[b]++
	}
	return buckets
}

func writeCurveReport(w io.Writer, c workload.Curve, schedule []int64, hours float64, offsets bool) {
	fmt.Fprintln(w, "=== Arrival Curve ===")
	for i, p := range c {
		fmt.Fprintf(w, "P%d                   : (%.3f, %.3f)\n", i, p.X, p.Y)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "=== Arrivals per Hour (%d attendees) ===\n", len(schedule))
	buckets := hourlyHistogram(schedule, hours)
	peak := 0
	for _, n := range buckets {
		peak = max(peak, n)
	}
	for h, n := range buckets {
		bar := 0
		if peak > 0 {
			bar = n * histogramWidth / peak
		}
		fmt.Fprintf(w, "hour %2d %5d %s\n", h, n, strings.Repeat("#", bar))
	}
	if offsets {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "=== Arrival Offsets (ms) ===")
		for _, ms := range schedule {
			fmt.Fprintln(w, ms)
		}
	}
}

func init() {
	registerScenarioFlags(curveCmd)
	curveCmd.Flags().StringArrayVar(&drags, "drag", nil, "Move a control point before sampling, e.g. --drag p3=0.4,0.8 (repeatable)")
	curveCmd.Flags().BoolVar(&showOffsets, "offsets", false, "Print every arrival offset")

	rootCmd.AddCommand(curveCmd)
}
