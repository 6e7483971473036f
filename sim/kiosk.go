package sim

// Kiosk is one unit of service capacity. Every kiosk in a run shares the same
// service duration; only its queue differs.
type Kiosk struct {
	ID    int
	Queue *Queue
}

func newKiosks(n int) []*Kiosk {
	kiosks := make([]*Kiosk, n)
	for i := range kiosks {
		kiosks[i] = &Kiosk{ID: i, Queue: &Queue{}}
	}
	return kiosks
}
