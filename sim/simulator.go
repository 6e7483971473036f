// sim/simulator.go
package sim

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/queuesim/sim/trace"
)

// Simulator holds the state of one queueing run: the attendees still to
// arrive, one queue per kiosk, the completed set and the queue lengths
// observed after every tick. It is owned by a single goroutine; nothing in
// here is safe for concurrent use.
type Simulator struct {
	RunID       string
	Config      Config
	CurrentTick int64
	Horizon     int64 // in ticks

	Kiosks []*Kiosk
	// Pending keeps schedule order; attendees leave it on admission.
	Pending   []*Attendee
	Completed []*Attendee

	CompletedCount       int
	ObservedQueueLengths []int

	// Trace is nil unless decision tracing was requested.
	Trace *trace.SimulationTrace

	done    bool
	summary *Summary
	log     *logrus.Entry
}

// NewSimulator returns an empty simulator. Call Initialise before stepping.
func NewSimulator() *Simulator {
	return &Simulator{log: logrus.NewEntry(logrus.StandardLogger())}
}

// EnableTrace records every admission and completion of subsequent runs.
func (s *Simulator) EnableTrace(cfg trace.TraceConfig) {
	if cfg.Level == trace.TraceLevelNone || cfg.Level == "" {
		s.Trace = nil
		return
	}
	s.Trace = trace.NewSimulationTrace(cfg)
}

// Initialise validates cfg and schedule, then replaces all run state.
// On error nothing is modified.
func (s *Simulator) Initialise(cfg Config, schedule []int64) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(schedule) != cfg.NumAttendees {
		return &SimulationError{Message: fmt.Sprintf("arrival schedule has %d entries but %d attendees were requested",
			len(schedule), cfg.NumAttendees)}
	}
	s.load(cfg, schedule)
	return nil
}

// load resets every field of the run. It performs no validation.
func (s *Simulator) load(cfg Config, schedule []int64) {
	s.RunID = uuid.NewString()
	s.Config = cfg
	s.CurrentTick = 0
	s.Horizon = cfg.HorizonTicks()
	s.Kiosks = newKiosks(cfg.NumKiosks)
	s.Pending = make([]*Attendee, len(schedule))
	for i, offset := range schedule {
		s.Pending[i] = NewAttendee(i+1, offset)
	}
	s.Completed = nil
	s.CompletedCount = 0
	s.ObservedQueueLengths = nil
	s.done = false
	s.summary = nil
	if s.Trace != nil {
		s.Trace = trace.NewSimulationTrace(s.Trace.Config)
	}
	s.log = logrus.WithField("run", s.RunID)
	s.log.Infof("Initialised run: %d attendees, %d kiosks, %.1fs per service, horizon=%d ticks",
		cfg.NumAttendees, cfg.NumKiosks, cfg.SecondsAtKiosk, s.Horizon)
}

// Done reports whether the run has terminated.
func (s *Simulator) Done() bool { return s.done }

// Step runs one tick: termination check, admission, service advancement and
// observation, then advances CurrentTick. It returns the minute that was
// processed and whether the run has terminated. Once terminated, further
// calls are no-ops.
func (s *Simulator) Step() (minute int64, done bool) {
	if s.done {
		return s.CurrentTick, true
	}
	if s.CurrentTick >= s.Horizon || (len(s.Pending) == 0 && s.QueuedCount() == 0) {
		s.finish()
		return s.CurrentTick, true
	}

	minute = s.CurrentTick
	s.admit()
	s.serve()
	s.observe()
	s.log.Debugf("[tick %04d] pending=%d queued=%d completed=%d", minute, len(s.Pending), s.QueuedCount(), s.CompletedCount)
	s.CurrentTick++
	return minute, false
}

// Run steps until termination and returns the run summary.
func (s *Simulator) Run() *Summary {
	for {
		if _, done := s.Step(); done {
			return s.summary
		}
	}
}

// Summary returns the end-of-run statistics, or nil while running.
func (s *Simulator) Summary() *Summary {
	return s.summary
}

// QueuedCount returns the number of attendees currently in any queue.
func (s *Simulator) QueuedCount() int {
	n := 0
	for _, k := range s.Kiosks {
		n += k.Queue.Len()
	}
	return n
}

// QueueLengths returns the instantaneous length of every queue.
func (s *Simulator) QueueLengths() []int {
	lengths := make([]int, len(s.Kiosks))
	for i, k := range s.Kiosks {
		lengths[i] = k.Queue.Len()
	}
	return lengths
}

// admit moves every attendee that has arrived by the end of the current tick
// into the shortest queue. Ties go to the lowest kiosk index.
func (s *Simulator) admit() {
	nowMs := s.CurrentTick * MillisPerTick
	remaining := s.Pending[:0]
	for _, a := range s.Pending {
		if a.ArrivalOffsetMs > nowMs {
			remaining = append(remaining, a)
			continue
		}
		target := s.shortestQueue()
		if s.Trace != nil {
			s.Trace.RecordAdmission(trace.AdmissionRecord{
				AttendeeID:   a.ID,
				Tick:         s.CurrentTick,
				Kiosk:        target,
				QueueLengths: s.QueueLengths(),
			})
		}
		a.State = StateQueued
		a.Kiosk = target
		a.QueueEntrySet = true
		a.QueueEntryOffsetMs = a.ArrivalOffsetMs
		s.Kiosks[target].Queue.Enqueue(a)
	}
	for i := len(remaining); i < len(s.Pending); i++ {
		s.Pending[i] = nil
	}
	s.Pending = remaining
}

func (s *Simulator) shortestQueue() int {
	best := 0
	for i := 1; i < len(s.Kiosks); i++ {
		if s.Kiosks[i].Queue.Len() < s.Kiosks[best].Queue.Len() {
			best = i
		}
	}
	return best
}

// ThroughputPerTick is the number of attendees a kiosk examines each tick.
// At least one, so slow kiosks still make progress every tick.
func ThroughputPerTick(secondsAtKiosk float64) int {
	minutesAtKiosk := secondsAtKiosk / 60
	return max(1, int(math.Floor(1/minutesAtKiosk)))
}

// serve advances every kiosk independently. The tick window is split into
// ThroughputPerTick slots; an attendee is stamped with its slot offset the
// first time it is seen at the front and completes once that stamp is more
// than one service duration in the past.
func (s *Simulator) serve() {
	secondsAtKiosk := s.Config.SecondsAtKiosk
	minutesAtKiosk := secondsAtKiosk / 60
	perTick := ThroughputPerTick(secondsAtKiosk)
	offsetPerSlot := secondsAtKiosk * 1000 / float64(perTick)
	startOffset := float64(max(0, s.CurrentTick-1) * MillisPerTick)
	threshold := (float64(s.CurrentTick) - minutesAtKiosk) * MillisPerTick

	for _, k := range s.Kiosks {
		slots := min(perTick, k.Queue.Len())
		for i := 0; i < slots; i++ {
			front := k.Queue.Peek()
			if front == nil {
				break
			}
			slotOffset := startOffset + float64(i)*offsetPerSlot
			if !front.ReachedFrontSet {
				front.markFront(slotOffset)
			}
			if front.ReachedFrontMs >= threshold {
				continue
			}
			k.Queue.Dequeue()
			s.complete(front, k.ID, slotOffset)
			if next := k.Queue.Peek(); next != nil {
				next.markFront(slotOffset)
			}
		}
	}
}

func (s *Simulator) complete(a *Attendee, kiosk int, endMs float64) {
	a.State = StateCompleted
	a.ServiceEndSet = true
	a.ServiceEndMs = endMs
	a.CompletedAtTick = s.CurrentTick
	s.Completed = append(s.Completed, a)
	s.CompletedCount++
	if s.Trace != nil {
		s.Trace.RecordCompletion(trace.CompletionRecord{
			AttendeeID:     a.ID,
			Tick:           s.CurrentTick,
			Kiosk:          kiosk,
			ReachedFrontMs: a.ReachedFrontMs,
			ServiceEndMs:   endMs,
		})
	}
}

func (s *Simulator) observe() {
	for _, k := range s.Kiosks {
		s.ObservedQueueLengths = append(s.ObservedQueueLengths, k.Queue.Len())
	}
}

func (s *Simulator) finish() {
	s.done = true
	s.summary = newSummary(s)
	s.log.Infof("[tick %04d] Simulation ended: completed=%d max queue=%d avg queue=%.2f",
		s.CurrentTick, s.CompletedCount, s.summary.MaxQueueLength, s.summary.AverageQueueLength)
}
