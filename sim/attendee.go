// Defines the Attendee struct that models one person moving through the kiosks.
// Tracks arrival, queue entry, time reached front and service end offsets.

package sim

import "fmt"

// AttendeeState represents the lifecycle state of an attendee.
type AttendeeState string

const (
	StatePending   AttendeeState = "pending"
	StateQueued    AttendeeState = "queued"
	StateCompleted AttendeeState = "completed"
)

// Attendee models a single attendee's lifecycle in the simulation.
// All offsets are milliseconds from simulation start.
type Attendee struct {
	ID              int   // 1-based, unique within a run
	ArrivalOffsetMs int64 // from the arrival schedule

	State AttendeeState

	Kiosk              int   // index of the kiosk whose queue the attendee joined, -1 while pending
	QueueEntrySet      bool  // Tracks whether QueueEntryOffsetMs has been set
	QueueEntryOffsetMs int64 // equal to ArrivalOffsetMs once admitted

	// Synthetic sub-tick stamps produced by the service scheduler.
	ReachedFrontSet bool
	ReachedFrontMs  float64
	ServiceEndSet   bool
	ServiceEndMs    float64
	CompletedAtTick int64
}

// NewAttendee creates a pending attendee.
func NewAttendee(id int, arrivalOffsetMs int64) *Attendee {
	return &Attendee{
		ID:              id,
		ArrivalOffsetMs: arrivalOffsetMs,
		State:           StatePending,
		Kiosk:           -1,
	}
}

// TimeInSystemMs is the span from arrival to service end, floored at zero
// like WaitMs. Only meaningful for completed attendees.
func (a *Attendee) TimeInSystemMs() float64 {
	return max(0, a.ServiceEndMs-float64(a.ArrivalOffsetMs))
}

// WaitMs is the span from queue entry until the attendee reached the front.
// The front stamp is snapped to tick boundaries, so it is floored at zero.
func (a *Attendee) WaitMs() float64 {
	return max(0, a.ReachedFrontMs-float64(a.QueueEntryOffsetMs))
}

func (a *Attendee) markFront(offsetMs float64) {
	a.ReachedFrontSet = true
	a.ReachedFrontMs = offsetMs
}

func (a Attendee) String() string {
	return fmt.Sprintf("Attendee: (ID: %d, State: %s, Kiosk: %d, ArrivalOffsetMs: %d)", a.ID, a.State, a.Kiosk, a.ArrivalOffsetMs)
}
