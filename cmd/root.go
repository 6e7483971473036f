package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/queuesim/sim"
	"github.com/inference-sim/queuesim/sim/clock"
	"github.com/inference-sim/queuesim/sim/trace"
)

var (
	// Scenario flags, shared by run, curve and sweep
	numAttendees     int     // Attendees in the arrival schedule
	numKiosks        int     // Kiosks, one queue each
	secondsAtKiosk   float64 // Service duration per attendee
	minutesPerSecond float64 // Simulated minutes per wall-clock second
	horizonHours     float64 // Simulated hours before the run is cut off
	seed             int64   // Seed for the arrival schedule
	preset           string  // Arrival curve preset
	scenarioPath     string  // Optional YAML scenario file

	// Output and behaviour flags
	logLevel    string // Log verbosity level
	traceLevel  string // Decision trace level
	jsonOutput  bool   // Print the summary as JSON
	headless    bool   // Step as fast as possible instead of following the clock
	interactive bool   // Read pause/speed commands from stdin
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "queuesim",
	Short: "Tick-based simulator for kiosk queues at events",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd executes one simulation using parameters from flags and the scenario file
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the kiosk queue simulation",
	Run: func(cmd *cobra.Command, args []string) {
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}
		sc, err := resolveScenario(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		cfg, err := sc.SimConfig()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		schedule, err := sc.Schedule()
		if err != nil {
			logrus.Fatalf("unable to generate arrival schedule: %v", err)
		}

		logrus.Infof("Starting simulation: %d attendees, %d kiosks, %.1fs per service, seed=%d",
			cfg.NumAttendees, cfg.NumKiosks, cfg.SecondsAtKiosk, sc.Seed)
		startTime := time.Now()

		s := sim.NewSimulator()
		s.EnableTrace(trace.TraceConfig{Level: trace.TraceLevel(traceLevel)})

		var summary *sim.Summary
		if headless {
			if err := s.Initialise(cfg, schedule); err != nil {
				logrus.Fatalf("%v", err)
			}
			summary = s.Run()
		} else {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			var controls io.Reader
			if interactive {
				controls = os.Stdin
			}
			summary, err = runClocked(ctx, s, cfg, schedule, sc.MinutesPerSecond, controls)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		if summary == nil {
			logrus.Warn("Simulation interrupted before completion.")
			return
		}

		if err := writeSummary(os.Stdout, summary, jsonOutput); err != nil {
			logrus.Fatalf("unable to write summary: %v", err)
		}
		if s.Trace != nil {
			printTraceSummary(os.Stdout, trace.Summarize(s.Trace), cfg.NumKiosks)
		}
		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// runClocked drives s with a clock until the run completes or ctx is done.
// Commands read from controls (if non-nil) pause, resume or retime the clock.
// It returns nil without error when interrupted.
func runClocked(ctx context.Context, s *sim.Simulator, cfg sim.Config, schedule []int64,
	speed float64, controls io.Reader) (*sim.Summary, error) {
	period, err := clock.PeriodFromSpeed(speed)
	if err != nil {
		return nil, err
	}
	c, err := clock.New(s, period)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	completed := make(chan *sim.Summary, 1)
	if err := c.Subscribe(func(ev sim.Event) {
		switch ev.Kind {
		case sim.EventTick:
			logrus.Debugf("minute %d processed", ev.Minute)
		case sim.EventPaused, sim.EventResumed:
			logrus.Infof("Clock %s at minute %d", ev.Kind, ev.Minute)
		case sim.EventCompleted:
			completed <- ev.Summary
		}
	}); err != nil {
		return nil, err
	}
	if err := c.Initialise(cfg, schedule); err != nil {
		return nil, err
	}
	if controls != nil {
		go readControls(ctx, c, controls, cancel)
	}

	select {
	case sum := <-completed:
		return sum, nil
	case <-ctx.Done():
		return nil, nil
	}
}

func writeSummary(w io.Writer, sum *sim.Summary, asJSON bool) error {
	if asJSON {
		return sum.WriteJSON(w)
	}
	sum.Print(w)
	return nil
}

func printTraceSummary(w io.Writer, ts *trace.TraceSummary, kiosks int) {
	fmt.Fprintln(w, "=== Decision Trace ===")
	fmt.Fprintf(w, "Admissions           : %d\n", ts.TotalAdmissions)
	fmt.Fprintf(w, "Completions          : %d\n", ts.TotalCompletions)
	fmt.Fprintf(w, "Max Queue Imbalance  : %d\n", ts.MaxImbalance)
	fmt.Fprintf(w, "Mean Service (s)     : %.3f\n", ts.MeanServiceMs/1000)
	for k := 0; k < kiosks; k++ {
		fmt.Fprintf(w, "Kiosk %-3d Admissions : %d\n", k, ts.KioskDistribution[k])
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerScenarioFlags adds the flags that describe a scenario to cmd.
func registerScenarioFlags(cmd *cobra.Command) {
	def := defaultScenario()
	cmd.Flags().IntVar(&numAttendees, "attendees", def.Attendees, "Number of attendees arriving over the horizon")
	cmd.Flags().IntVar(&numKiosks, "kiosks", def.Kiosks, "Number of kiosks")
	cmd.Flags().Float64Var(&secondsAtKiosk, "seconds-at-kiosk", def.SecondsAtKiosk, "Seconds each attendee spends at a kiosk")
	cmd.Flags().Float64Var(&horizonHours, "horizon-hours", def.HorizonHours, "Simulated hours before the run is cut off")
	cmd.Flags().Int64Var(&seed, "seed", def.Seed, "Seed for the arrival schedule")
	cmd.Flags().StringVar(&preset, "preset", def.Curve.Preset, "Arrival curve preset (default, bell, flat, double)")
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario file; explicitly set flags override it")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	registerScenarioFlags(runCmd)
	runCmd.Flags().Float64Var(&minutesPerSecond, "minutes-per-second", defaultScenario().MinutesPerSecond, "Simulated minutes per wall-clock second")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", string(trace.TraceLevelNone), "Decision trace level (none, decisions)")
	runCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the summary as JSON")
	runCmd.Flags().BoolVar(&headless, "headless", false, "Step the simulation without a wall clock")
	runCmd.Flags().BoolVar(&interactive, "interactive", false, "Read commands from stdin: p (pause/resume), s <minutes-per-second>, q (quit)")

	rootCmd.AddCommand(runCmd)
}
