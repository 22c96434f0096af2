package game

import "testing"

func TestTimer_FiresAtThreshold(t *testing.T) {
	tm := NewTimer(0.5)
	if tm.Advance(0.25) {
		t.Fatal("timer fired early")
	}
	if !tm.Advance(0.25) {
		t.Fatal("timer should fire at its threshold")
	}
	tm.Reset()
	if tm.Done() {
		t.Fatal("reset timer should not be done")
	}
}

func TestScheduler_RunsInDueOrder(t *testing.T) {
	s := NewScheduler()
	var order []int
	s.After(1, 2.0, func() { order = append(order, 2) })
	s.After(2, 1.0, func() { order = append(order, 1) })
	s.After(3, 1.0, func() { order = append(order, 11) })

	s.Advance(0.5)
	if len(order) != 0 {
		t.Fatalf("nothing should run before it is due, got %v", order)
	}
	s.Advance(2.0)
	if len(order) != 3 || order[0] != 1 || order[1] != 11 || order[2] != 2 {
		t.Fatalf("unexpected order %v", order)
	}
	if s.Pending() != 0 {
		t.Fatalf("pending = %d after all ran", s.Pending())
	}
}

func TestScheduler_CancelOwner(t *testing.T) {
	s := NewScheduler()
	ran := false
	s.After(7, 1.0, func() { ran = true })
	s.CancelOwner(7)
	s.Advance(5)
	if ran {
		t.Fatal("cancelled callback ran")
	}
}

func TestScheduler_ZeroDelayFromCallback(t *testing.T) {
	s := NewScheduler()
	count := 0
	s.After(1, 1.0, func() {
		count++
		s.After(1, 0, func() { count++ })
	})
	s.Advance(1.0)
	if count != 2 {
		t.Fatalf("chained zero-delay callback should run in the same Advance, count=%d", count)
	}
}
