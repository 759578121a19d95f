// internal/bus/bus.go
package bus

import (
	"sync"

	"github.com/kestrel-avionics/adcd/internal/report"
)

// Topic is a latest-value report topic. A publish overwrites the
// current value; there is no history and no acknowledgment. Each
// subscriber tracks independently which publication it last saw.
type Topic struct {
	mu   sync.Mutex
	last report.Report
	seq  uint64
	subs []*Subscription
}

func NewTopic() *Topic {
	return &Topic{}
}

// Publish replaces the current report and wakes subscribers.
// Best-effort: a subscriber that is not draining its notify channel
// misses the wakeup but still sees the newest value on next Update.
func (t *Topic) Publish(r report.Report) {
	t.mu.Lock()
	t.seq++
	t.last = r
	subs := t.subs
	t.mu.Unlock()

	for _, s := range subs {
		select {
		case s.notify <- struct{}{}:
		default:
		}
	}
}

// Subscribe registers a new subscriber. A fresh subscription has seen
// nothing, so a report published before Subscribe is still delivered
// by the first Update.
func (t *Topic) Subscribe() *Subscription {
	s := &Subscription{
		topic:  t,
		notify: make(chan struct{}, 1),
	}
	t.mu.Lock()
	t.subs = append(t.subs, s)
	t.mu.Unlock()
	return s
}

// Subscription is one consumer's view of a Topic.
type Subscription struct {
	topic *Topic
	seen  uint64

	notify chan struct{}
}

// Update returns the latest report iff it is newer than the last one
// this subscription saw. The check-and-copy is atomic with respect to
// Publish.
func (s *Subscription) Update() (report.Report, bool) {
	t := s.topic
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.seq == s.seen {
		return report.Report{}, false
	}
	s.seen = t.seq
	return t.last, true
}

// Notify returns a cap-1 channel signalled on every publish.
func (s *Subscription) Notify() <-chan struct{} {
	return s.notify
}

// Close detaches the subscription from its topic. Short-lived
// consumers must close, or the topic accumulates dead subscriber
// entries for the daemon's lifetime. Idempotent.
func (s *Subscription) Close() {
	t := s.topic
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, sub := range t.subs {
		if sub == s {
			t.subs = append(t.subs[:i], t.subs[i+1:]...)
			return
		}
	}
}
