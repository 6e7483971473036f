// Package clock drives a sim.Simulator in wall-clock time: one tick (one
// simulated minute) per period, with pause, resume and live cadence changes.
package clock

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/queuesim/sim"
)

// State is the lifecycle state of a Clock.
type State string

const (
	Idle      State = "idle"      // no schedule loaded
	Running   State = "running"   // ticking
	Paused    State = "paused"    // loaded, timer stopped
	Completed State = "completed" // simulator reported termination
	Closed    State = "closed"    // Close was called
)

var (
	ErrNotRunning = errors.New("clock: simulation is not running")
	ErrNotPaused  = errors.New("clock: simulation is not paused")
	ErrClosed     = errors.New("clock: closed")
)

// PeriodFromSpeed converts a speed in simulated minutes per wall-clock second
// into a tick period.
func PeriodFromSpeed(minutesPerSecond float64) (time.Duration, error) {
	if math.IsNaN(minutesPerSecond) || math.IsInf(minutesPerSecond, 0) || minutesPerSecond <= 0 {
		return 0, &sim.ValidationError{Field: "minutes-per-second", Message: fmt.Sprintf("must be a positive number, got %v", minutesPerSecond)}
	}
	return max(time.Duration(float64(time.Second)/minutesPerSecond), time.Microsecond), nil
}

// Clock owns a Simulator and a timer. Every method is safe to call from any
// goroutine: commands are executed one at a time on the clock's own
// goroutine, between ticks, so a tick is never interrupted and simulation
// state is only ever touched from that goroutine.
type Clock struct {
	cmds chan func()
	quit chan struct{}
	done chan struct{}

	// Owned by the loop goroutine.
	sim       *sim.Simulator
	state     State
	period    time.Duration
	ticker    *time.Ticker
	listeners []sim.Listener
}

// New starts an idle clock around s. period must be positive.
func New(s *sim.Simulator, period time.Duration) (*Clock, error) {
	if s == nil {
		return nil, errors.New("clock: simulator must not be nil")
	}
	if period <= 0 {
		return nil, &sim.ValidationError{Field: "period", Message: fmt.Sprintf("must be positive, got %v", period)}
	}
	c := &Clock{
		cmds:   make(chan func()),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		sim:    s,
		state:  Idle,
		period: period,
	}
	go c.loop()
	return c, nil
}

func (c *Clock) loop() {
	defer close(c.done)
	for {
		var tickC <-chan time.Time
		if c.ticker != nil {
			tickC = c.ticker.C
		}
		select {
		case fn := <-c.cmds:
			fn()
		case <-tickC:
			c.tick()
		case <-c.quit:
			c.stopTicker()
			return
		}
	}
}

// do runs fn on the loop goroutine and waits for it.
func (c *Clock) do(fn func() error) error {
	var err error
	finished := make(chan struct{})
	select {
	case c.cmds <- func() { err = fn(); close(finished) }:
	case <-c.done:
		return ErrClosed
	}
	<-finished
	return err
}

// Subscribe registers l for every subsequent event.
func (c *Clock) Subscribe(l sim.Listener) error {
	return c.do(func() error {
		c.listeners = append(c.listeners, l)
		return nil
	})
}

// Initialise loads a new run and starts ticking. Invalid input is rejected
// before anything changes, leaving the previous run and state untouched.
func (c *Clock) Initialise(cfg sim.Config, schedule []int64) error {
	return c.do(func() error {
		if err := c.sim.Initialise(cfg, schedule); err != nil {
			return err
		}
		c.stopTicker()
		c.emit(sim.Event{Kind: sim.EventReset, RunID: c.sim.RunID})
		c.start()
		return nil
	})
}

// Pause stops the timer. Only valid while Running.
func (c *Clock) Pause() error {
	return c.do(func() error {
		if c.state != Running {
			return ErrNotRunning
		}
		c.pause()
		return nil
	})
}

// Resume restarts the timer. Only valid while Paused.
func (c *Clock) Resume() error {
	return c.do(func() error {
		if c.state != Paused {
			return ErrNotPaused
		}
		c.start()
		return nil
	})
}

// Toggle pauses a running clock or resumes a paused one.
func (c *Clock) Toggle() error {
	return c.do(func() error {
		switch c.state {
		case Running:
			c.pause()
			return nil
		case Paused:
			c.start()
			return nil
		default:
			return ErrNotRunning
		}
	})
}

// SetPeriod changes the wall-clock time per tick. A running clock keeps its
// progress and fires the next tick one new period from now.
func (c *Clock) SetPeriod(period time.Duration) error {
	if period <= 0 {
		return &sim.ValidationError{Field: "period", Message: fmt.Sprintf("must be positive, got %v", period)}
	}
	return c.do(func() error {
		c.period = period
		if c.ticker != nil {
			c.ticker.Reset(period)
		}
		logrus.Debugf("Tick period set to %v", period)
		return nil
	})
}

// SetSpeed is SetPeriod expressed in simulated minutes per second.
func (c *Clock) SetSpeed(minutesPerSecond float64) error {
	period, err := PeriodFromSpeed(minutesPerSecond)
	if err != nil {
		return err
	}
	return c.SetPeriod(period)
}

// State returns the current lifecycle state, or Closed after Close.
func (c *Clock) State() State {
	var st State
	if err := c.do(func() error { st = c.state; return nil }); err != nil {
		return Closed
	}
	return st
}

// Period returns the current tick period.
func (c *Clock) Period() time.Duration {
	var p time.Duration
	_ = c.do(func() error { p = c.period; return nil })
	return p
}

// Summary returns the statistics of the last completed run, or nil.
func (c *Clock) Summary() *sim.Summary {
	var sum *sim.Summary
	_ = c.do(func() error { sum = c.sim.Summary(); return nil })
	return sum
}

// Close stops the clock goroutine. Further calls return ErrClosed.
func (c *Clock) Close() {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.quit <- struct{}{}:
	case <-c.done:
	}
	<-c.done
}

func (c *Clock) start() {
	c.state = Running
	if c.ticker == nil {
		c.ticker = time.NewTicker(c.period)
	}
	logrus.WithField("run", c.sim.RunID).Infof("Running from tick %d, one tick every %v", c.sim.CurrentTick, c.period)
	c.emit(sim.Event{Kind: sim.EventResumed, RunID: c.sim.RunID, Minute: c.sim.CurrentTick})
}

func (c *Clock) pause() {
	c.stopTicker()
	c.state = Paused
	logrus.WithField("run", c.sim.RunID).Infof("Paused at tick %d", c.sim.CurrentTick)
	c.emit(sim.Event{Kind: sim.EventPaused, RunID: c.sim.RunID, Minute: c.sim.CurrentTick})
}

func (c *Clock) stopTicker() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

func (c *Clock) tick() {
	minute, done := c.sim.Step()
	if !done {
		c.emit(sim.Event{Kind: sim.EventTick, RunID: c.sim.RunID, Minute: minute})
		return
	}
	c.stopTicker()
	c.state = Completed
	c.emit(sim.Event{Kind: sim.EventCompleted, RunID: c.sim.RunID, Minute: minute, Summary: c.sim.Summary()})
}

func (c *Clock) emit(ev sim.Event) {
	for _, l := range c.listeners {
		l(ev)
	}
}
