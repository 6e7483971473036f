package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/queuesim/sim"
	"github.com/inference-sim/queuesim/sim/workload"
)

var (
	maxKiosks    int // Largest kiosk count in the sweep
	replications int // Schedules drawn per kiosk count
	parallelism  int // Simulations run at once
)

// sweepRow aggregates the replications of one kiosk count. Means skip
// replications where the value is undefined (NaN).
type sweepRow struct {
	Kiosks             int
	Replications       int
	MeanCompleted      float64
	MeanUnserved       float64
	MeanMaxQueue       float64
	MeanAvgQueue       float64
	MeanTimeInSystemMs float64
}

// sweepCmd runs the same scenario against 1..max-kiosks kiosks
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Compare kiosk counts on the same arrival schedules",
	Run: func(cmd *cobra.Command, args []string) {
		sc, err := resolveScenario(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		rows, err := runSweep(cmd.Context(), sc, maxKiosks, replications, parallelism)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		writeSweepReport(os.Stdout, sc, rows)
	},
}

// sweepSchedules draws one schedule per replication. Replication 0 uses the
// arrivals subsystem so it matches `run` with the same seed.
func sweepSchedules(sc Scenario, reps int) ([][]int64, error) {
	c, err := sc.ArrivalCurve()
	if err != nil {
		return nil, err
	}
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(sc.Seed))
	schedules := make([][]int64, reps)
	for r := range schedules {
		name := sim.SubsystemArrivals
		if r > 0 {
			name = sim.SubsystemReplication(r)
		}
		if schedules[r], err = workload.GenerateArrivalTimes(c, sc.Attendees, sc.hours(), rng.ForSubsystem(name)); err != nil {
			return nil, err
		}
	}
	return schedules, nil
}

// runSweep simulates every (kiosk count, replication) pair headless, at most
// parallel at a time. Schedules are shared read-only between goroutines.
func runSweep(ctx context.Context, sc Scenario, maxK, reps, parallel int) ([]sweepRow, error) {
	if maxK <= 0 {
		return nil, &sim.ValidationError{Field: "max-kiosks", Message: fmt.Sprintf("must be greater than 0, got %d", maxK)}
	}
	if reps <= 0 {
		return nil, &sim.ValidationError{Field: "replications", Message: fmt.Sprintf("must be greater than 0, got %d", reps)}
	}
	base, err := sc.SimConfig()
	if err != nil {
		return nil, err
	}
	schedules, err := sweepSchedules(sc, reps)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	results := make([][]*sim.Summary, maxK)
	for k := range results {
		results[k] = make([]*sim.Summary, reps)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, parallel))
	for k := 1; k <= maxK; k++ {
		for r := 0; r < reps; r++ {
			k, r := k, r
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				cfg := base
				cfg.NumKiosks = k
				s := sim.NewSimulator()
				if err := s.Initialise(cfg, schedules[r]); err != nil {
					return err
				}
				results[k-1][r] = s.Run()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make([]sweepRow, maxK)
	for k, sums := range results {
		rows[k] = aggregate(k+1, sums)
	}
	return rows, nil
}

func aggregate(kiosks int, sums []*sim.Summary) sweepRow {
	pick := func(f func(*sim.Summary) float64) float64 {
		xs := make([]float64, 0, len(sums))
		for _, s := range sums {
			if v := f(s); !math.IsNaN(v) {
				xs = append(xs, v)
			}
		}
		if len(xs) == 0 {
			return math.NaN()
		}
		return stat.Mean(xs, nil)
	}
	return sweepRow{
		Kiosks:             kiosks,
		Replications:       len(sums),
		MeanCompleted:      pick(func(s *sim.Summary) float64 { return float64(s.CompletedCount) }),
		MeanUnserved:       pick(func(s *sim.Summary) float64 { return float64(s.Unserved) }),
		MeanMaxQueue:       pick(func(s *sim.Summary) float64 { return float64(s.MaxQueueLength) }),
		MeanAvgQueue:       pick(func(s *sim.Summary) float64 { return s.AverageQueueLength }),
		MeanTimeInSystemMs: pick(func(s *sim.Summary) float64 { return s.MeanTimeInSystemMs }),
	}
}

func writeSweepReport(w io.Writer, sc Scenario, rows []sweepRow) {
	fmt.Fprintln(w, "=== Kiosk Sweep ===")
	fmt.Fprintf(w, "Attendees            : %d\n", sc.Attendees)
	fmt.Fprintf(w, "Seconds At Kiosk     : %.1f\n", sc.SecondsAtKiosk)
	if len(rows) > 0 {
		fmt.Fprintf(w, "Replications         : %d\n", rows[0].Replications)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%7s %10s %9s %10s %10s %12s\n", "kiosks", "completed", "unserved", "max queue", "avg queue", "in system s")
	for _, r := range rows {
		fmt.Fprintf(w, "%7d %10.1f %9.1f %10.1f %10.2f %12.1f\n", r.Kiosks, r.MeanCompleted, r.MeanUnserved,
			r.MeanMaxQueue, r.MeanAvgQueue, r.MeanTimeInSystemMs/1000)
	}
}

func init() {
	registerScenarioFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&maxKiosks, "max-kiosks", 4, "Largest kiosk count to simulate")
	sweepCmd.Flags().IntVar(&replications, "replications", 1, "Arrival schedules drawn per kiosk count")
	sweepCmd.Flags().IntVar(&parallelism, "parallel", runtime.NumCPU(), "Simulations run concurrently")

	rootCmd.AddCommand(sweepCmd)
}
