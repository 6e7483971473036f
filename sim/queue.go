// Implements the Queue owned by each kiosk. Attendees are appended on
// admission and popped from the front when their service completes.

package sim

import (
	"fmt"
	"strings"
)

// Queue is the FIFO line of attendees in front of one kiosk.
type Queue struct {
	items []*Attendee
}

// Enqueue adds an attendee to the back of the queue.
func (q *Queue) Enqueue(a *Attendee) {
	if a == nil {
		panic("Enqueue: attendee must not be nil")
	}
	q.items = append(q.items, a)
}

// Len returns the number of attendees in the queue.
func (q *Queue) Len() int {
	return len(q.items)
}

// Peek returns the attendee at the front without removing it.
// Returns nil if the queue is empty.
func (q *Queue) Peek() *Attendee {
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0]
}

// Dequeue removes and returns the front attendee, or nil if empty.
func (q *Queue) Dequeue() *Attendee {
	if len(q.items) == 0 {
		return nil
	}
	front := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return front
}

// Items returns the queue contents for rendering.
// Callers MUST NOT append to or reslice the returned slice.
func (q *Queue) Items() []*Attendee {
	return q.items
}

func (q *Queue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, a := range q.items {
		sb.WriteString(fmt.Sprint(a.ID))
		if i < len(q.items)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
