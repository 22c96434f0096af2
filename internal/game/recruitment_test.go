package game

import "testing"

func TestRecruitmentTracker_FiresOnceAtGoal(t *testing.T) {
	fired := 0
	rt := NewRecruitmentTracker(20, func(int) { fired++ })

	if rt.Observe(19) {
		t.Fatal("19/20 should not complete")
	}
	if fired != 0 {
		t.Fatal("callback ran before the goal")
	}
	if !rt.Observe(20) {
		t.Fatal("20/20 should complete")
	}
	for _, n := range []int{20, 21, 5, 0, 20} {
		if rt.Observe(n) {
			t.Fatalf("completion fired again at %d", n)
		}
	}
	if fired != 1 {
		t.Fatalf("callback ran %d times, want 1", fired)
	}
	if !rt.Complete() {
		t.Fatal("tracker should stay complete")
	}
}

func TestRecruitmentTracker_Progress(t *testing.T) {
	rt := NewRecruitmentTracker(20, nil)
	rt.Observe(7)
	if got := rt.Progress(); got != "Collected: 7/20" {
		t.Fatalf("progress = %q", got)
	}
}

func TestRecruitmentTracker_GoalAtLeastOne(t *testing.T) {
	rt := NewRecruitmentTracker(0, nil)
	if rt.Goal() != 1 {
		t.Fatalf("goal = %d, want 1", rt.Goal())
	}
	if rt.Observe(0) {
		t.Fatal("an empty roster never completes")
	}
}
