package activity

import "sync"

// Tracker counts in-flight API requests. The request pipeline begins an
// activity when a call goes out and ends it when the call completes, success
// or failure, so the count is positive exactly while at least one request is
// outstanding. A counter rather than a flag: N concurrent requests must keep
// the indicator on from the first start to the last completion, whatever the
// interleaving.
type Tracker struct {
	mu          sync.Mutex
	inFlight    int
	subscribers []chan bool
}

// NewTracker returns a Tracker with nothing in flight.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin records the start of one request.
func (t *Tracker) Begin() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inFlight++
	if t.inFlight == 1 {
		t.notify(true)
	}
}

// End records the completion of one request. The count never goes negative.
func (t *Tracker) End() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inFlight == 0 {
		return
	}
	t.inFlight--
	if t.inFlight == 0 {
		t.notify(false)
	}
}

// InFlight returns the number of outstanding requests.
func (t *Tracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight
}

// Busy returns true while at least one request is outstanding.
func (t *Tracker) Busy() bool {
	return t.InFlight() > 0
}

// Subscribe returns a channel that receives true when the tracker transitions
// from idle to busy and false on the reverse transition. Notifications
// coalesce: a slow receiver observes the latest state, not every edge.
func (t *Tracker) Subscribe() <-chan bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	subscriber := make(chan bool, 1)
	t.subscribers = append(t.subscribers, subscriber)
	return subscriber
}

// notify is called with t.mu held.
func (t *Tracker) notify(busy bool) {
	for _, subscriber := range t.subscribers {
		select {
		case subscriber <- busy:
		default:
			select {
			case <-subscriber:
			default:
			}
			select {
			case subscriber <- busy:
			default:
			}
		}
	}
}
