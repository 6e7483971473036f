package sim

// EventKind names a notification published while a run is driven by a clock.
type EventKind string

const (
	EventReset     EventKind = "reset"
	EventTick      EventKind = "tick"
	EventPaused    EventKind = "paused"
	EventResumed   EventKind = "resumed"
	EventCompleted EventKind = "completed"
)

// Event is delivered to every Listener. Minute is the simulated minute that
// was just processed (EventTick) or the current tick otherwise. Summary is
// only set on EventCompleted.
type Event struct {
	Kind    EventKind
	RunID   string
	Minute  int64
	Summary *Summary
}

// Listener receives events synchronously on the goroutine that drives the
// simulation. It must not call back into the clock's blocking methods.
type Listener func(Event)
