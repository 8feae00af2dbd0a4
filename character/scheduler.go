package character

import "github.com/elliotchance/orderedmap/v2"

// Scheduler runs named callbacks once the character time reaches their deadline. Scheduling a
// name that is already pending replaces the pending callback.
type Scheduler struct {
	deadlines *orderedmap.OrderedMap[string, deadline]
}

type deadline struct {
	at float32
	f  func()
}

func NewScheduler() *Scheduler {
	return &Scheduler{deadlines: orderedmap.NewOrderedMap[string, deadline]()}
}

// Schedule runs f on the first tick at or after at.
func (s *Scheduler) Schedule(name string, at float32, f func()) {
	s.deadlines.Delete(name)
	s.deadlines.Set(name, deadline{at: at, f: f})
}

// Cancel removes a pending callback.
func (s *Scheduler) Cancel(name string) {
	s.deadlines.Delete(name)
}

// Pending reports whether a callback is scheduled under name.
func (s *Scheduler) Pending(name string) bool {
	_, ok := s.deadlines.Get(name)
	return ok
}

// Tick runs every callback that is due, in the order they were scheduled. Callbacks may
// schedule new ones, which run on a later tick at the earliest.
func (s *Scheduler) Tick(now float32) {
	var due []string
	for el := s.deadlines.Front(); el != nil; el = el.Next() {
		if el.Value.at <= now {
			due = append(due, el.Key)
		}
	}
	for _, name := range due {
		d, ok := s.deadlines.Get(name)
		if !ok || d.at > now {
			continue
		}
		s.deadlines.Delete(name)
		d.f()
	}
}
