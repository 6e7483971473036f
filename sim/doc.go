// Package sim provides the tick-based queue simulation engine: attendees
// arrive on a schedule, join the shortest kiosk queue and are served FIFO,
// one simulated minute per tick.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - attendee.go: Attendee lifecycle (pending → queued → completed) and its timing stamps
//   - simulator.go: The per-tick step (admission, service, observation) and termination
//   - metrics.go: The end-of-run Summary and its text/JSON output
//
// # Architecture
//
// The sim package holds run state and the step; everything around it lives
// in sub-packages:
//   - sim/workload/: Arrival curves (Bézier control points, presets, editing) and schedule sampling
//   - sim/clock/: Wall-clock driver with pause, resume and cadence changes
//   - sim/queueing/: Closed-form M/M/c calculator for sizing a kiosk bank
//   - sim/trace/: Decision trace recording
//
// A Simulator is single-goroutine. Drive it with Run for headless use or hand
// it to a clock.Clock, which owns it from then on and publishes Events.
package sim
