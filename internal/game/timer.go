package game

// Timer is an elapsed-time accumulator compared against a threshold. It is
// advanced explicitly once per tick.
type Timer struct {
	Elapsed   float64
	Threshold float64
}

// NewTimer creates a timer that fires after threshold seconds.
func NewTimer(threshold float64) Timer {
	return Timer{Threshold: threshold}
}

// Advance adds dt and reports whether the threshold has been reached.
func (t *Timer) Advance(dt float64) bool {
	t.Elapsed += dt
	return t.Done()
}

// Done reports whether the threshold has been reached.
func (t *Timer) Done() bool { return t.Elapsed >= t.Threshold }

// Reset starts the timer over.
func (t *Timer) Reset() { t.Elapsed = 0 }

// Scheduler runs delayed callbacks on the simulation's own clock. All
// callbacks run synchronously inside Advance; nothing runs concurrently.
type Scheduler struct {
	now     float64
	seq     int
	pending []scheduled
}

type scheduled struct {
	at    float64
	seq   int
	owner Handle
	fn    func()
}

// NewScheduler creates an empty scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the scheduler clock in seconds.
func (s *Scheduler) Now() float64 { return s.now }

// After schedules fn to run once delay seconds from now. owner ties the
// callback to an object so CancelOwner can drop it when the object goes away.
func (s *Scheduler) After(owner Handle, delay float64, fn func()) {
	s.seq++
	s.pending = append(s.pending, scheduled{at: s.now + delay, seq: s.seq, owner: owner, fn: fn})
}

// CancelOwner drops every pending callback belonging to owner.
func (s *Scheduler) CancelOwner(owner Handle) {
	kept := s.pending[:0]
	for _, p := range s.pending {
		if p.owner != owner {
			kept = append(kept, p)
		}
	}
	s.pending = kept
}

// Pending returns the number of callbacks waiting to run.
func (s *Scheduler) Pending() int { return len(s.pending) }

// Advance moves the clock forward by dt and runs every callback that has
// come due, earliest first. Callbacks scheduled during Advance with a zero
// delay run in the same call.
func (s *Scheduler) Advance(dt float64) {
	s.now += dt
	for {
		due := -1
		for i, p := range s.pending {
			if p.at > s.now {
				continue
			}
			if due < 0 || p.at < s.pending[due].at || (p.at == s.pending[due].at && p.seq < s.pending[due].seq) {
				due = i
			}
		}
		if due < 0 {
			return
		}
		p := s.pending[due]
		s.pending = append(s.pending[:due], s.pending[due+1:]...)
		p.fn()
	}
}
