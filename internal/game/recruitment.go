package game

import "fmt"

// DefaultRecruitGoal is the stock number of chickens needed to finish.
const DefaultRecruitGoal = 20

// RecruitmentTracker watches the roster size and reports completion once.
type RecruitmentTracker struct {
	goal     int
	count    int
	complete bool

	onComplete func(count int)
}

// NewRecruitmentTracker creates a tracker for goal followers. onComplete
// may be nil.
func NewRecruitmentTracker(goal int, onComplete func(count int)) *RecruitmentTracker {
	if goal < 1 {
		goal = 1
	}
	return &RecruitmentTracker{goal: goal, onComplete: onComplete}
}

// Observe records the current roster size. It returns true on the first
// observation at or above the goal and never again.
func (rt *RecruitmentTracker) Observe(count int) bool {
	rt.count = count
	if rt.complete || count < rt.goal {
		return false
	}
	rt.complete = true
	if rt.onComplete != nil {
		rt.onComplete(count)
	}
	return true
}

// Complete reports whether the completion event has fired.
func (rt *RecruitmentTracker) Complete() bool { return rt.complete }

// Goal returns the target roster size.
func (rt *RecruitmentTracker) Goal() int { return rt.goal }

// Count returns the last observed roster size.
func (rt *RecruitmentTracker) Count() int { return rt.count }

// Progress returns the HUD counter text.
func (rt *RecruitmentTracker) Progress() string {
	return fmt.Sprintf("Collected: %d/%d", rt.count, rt.goal)
}
