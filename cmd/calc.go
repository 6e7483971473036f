package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/queuesim/sim/queueing"
)

var calcInput queueing.Input

// calcCmd sizes a kiosk bank with the closed-form M/M/c model
var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute M/M/c queue statistics and recommend a kiosk count",
	Run: func(cmd *cobra.Command, args []string) {
		report, err := queueing.Evaluate(calcInput)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		writeCalcReport(os.Stdout, calcInput, report)
	},
}

func writeCalcReport(w io.Writer, in queueing.Input, report *queueing.Report) {
	fmt.Fprintln(w, "=== Queueing Calculator ===")
	fmt.Fprintf(w, "Arrival Rate         : %.3f / min\n", report.ArrivalRatePerMinute)
	fmt.Fprintf(w, "Service Rate         : %.3f / min per kiosk\n", report.ServiceRatePerMinute)
	fmt.Fprintf(w, "Goal Time In System  : %.0f s\n", in.ServiceGoalSeconds)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%7s %6s %8s %8s %8s %10s %10s  %s\n", "kiosks", "util", "P(wait)", "L", "Lq", "W (s)", "Wq (s)", "goal")
	for _, r := range report.Results {
		if !r.Stable {
			fmt.Fprintf(w, "%7d %5d%% %8s %8s %8s %10s %10s  %s\n", r.Servers, r.UtilizationPercent(), "-", "-", "-", "-", "-", "unstable")
			continue
		}
		goal := "no"
		if r.MeetsGoal {
			goal = "yes"
		}
		fmt.Fprintf(w, "%7d %5d%% %8.3f %8.3f %8.3f %10.1f %10.1f  %s\n", r.Servers, r.UtilizationPercent(),
			r.PWait, r.L, r.Lq, r.AvgTimeInSystemSeconds(), r.WqMinutes*60, goal)
	}
	fmt.Fprintln(w)
	if report.HasRecommendation() {
		fmt.Fprintf(w, "Recommended kiosks: %d\n", report.Recommended)
	} else {
		fmt.Fprintf(w, "No kiosk count up to %d meets the goal.\n", len(report.Results))
	}
}

func init() {
	calcCmd.Flags().Float64Var(&calcInput.ArrivalsPerHour, "arrivals-per-hour", 30, "Mean attendee arrivals per hour")
	calcCmd.Flags().Float64Var(&calcInput.ServiceSeconds, "service-seconds", 120, "Mean seconds one kiosk needs per attendee")
	calcCmd.Flags().Float64Var(&calcInput.ServiceGoalSeconds, "service-goal-seconds", 180, "Target mean time in system, in seconds")
	calcCmd.Flags().IntVar(&calcInput.MaxServers, "max-servers", queueing.DefaultMaxServers, "Largest kiosk count to evaluate")

	rootCmd.AddCommand(calcCmd)
}
