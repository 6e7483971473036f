// Package trace records per-run queueing decisions for offline analysis.
// It has no dependencies on sim/ and stores plain data types.
package trace

// AdmissionRecord captures a single admission: which kiosk an attendee was
// sent to and the queue lengths it was chosen from.
type AdmissionRecord struct {
	AttendeeID   int
	Tick         int64
	Kiosk        int
	QueueLengths []int // snapshot before the attendee was enqueued
}

// CompletionRecord captures an attendee leaving a kiosk.
type CompletionRecord struct {
	AttendeeID     int
	Tick           int64
	Kiosk          int
	ReachedFrontMs float64
	ServiceEndMs   float64
}
