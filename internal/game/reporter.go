package game

import (
	"fmt"
	"sort"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-behaviour reports (~10s at 60TPS).
const reportWindowTicks = 600

// SimReport is a snapshot of the world at one tick.
type SimReport struct {
	Tick int

	Following int
	Idle      int
	Captured  int
	Hunters   map[HunterState]int

	Stamina float64
	Goal    int
}

// SimReporter keeps a sliding window of snapshots.
type SimReporter struct {
	window  int
	history []SimReport
}

// NewSimReporter creates a reporter keeping windowTicks snapshots.
func NewSimReporter(windowTicks int) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{window: windowTicks}
}

// Collect snapshots w.
func (r *SimReporter) Collect(w *World) {
	rep := SimReport{
		Tick:    w.Tick,
		Hunters: make(map[HunterState]int),
		Stamina: w.Player.Stamina(),
		Goal:    w.Tracker.Goal(),
	}
	for _, c := range w.Chickens() {
		switch c.State() {
		case FollowerIdle:
			rep.Idle++
		case FollowerFollowing:
			rep.Following++
		case FollowerCaptured:
			rep.Captured++
		}
	}
	for _, h := range w.Hunters() {
		rep.Hunters[h.State()]++
	}
	r.history = append(r.history, rep)
	if len(r.history) > r.window {
		r.history = r.history[len(r.history)-r.window:]
	}
}

// Latest returns the newest snapshot, or nil.
func (r *SimReporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns the snapshots in the window, oldest first.
func (r *SimReporter) History() []SimReport {
	return r.history
}

// FormatLatest renders the newest snapshot as one line.
func (r *SimReporter) FormatLatest() string {
	rep := r.Latest()
	if rep == nil {
		return "no data"
	}
	var states []string
	for _, s := range []HunterState{HunterPatrol, HunterChase, HunterCapturing, HunterCooldown, HunterVanishing} {
		if n := rep.Hunters[s]; n > 0 {
			states = append(states, fmt.Sprintf("%s=%d", s, n))
		}
	}
	return fmt.Sprintf("T=%d following=%d/%d idle=%d captured=%d stamina=%.0f hunters[%s]",
		rep.Tick, rep.Following, rep.Goal, rep.Idle, rep.Captured, rep.Stamina, strings.Join(states, " "))
}

// RunReport summarises a finished run from its log.
type RunReport struct {
	Recruits       int
	Releases       int
	Captures       int
	PeakRoster     int
	FirstContact   int // tick of the first hunter acquisition, -1 if none
	CompletionTick int // -1 if the goal was never met
	LeaderCaught   int
	Retargets      int
	Vanished       []string
	PerHunter      map[string]int
}

// BuildReport scans a SimLog for run-level markers.
func BuildReport(sl *SimLog) RunReport {
	rep := RunReport{FirstContact: -1, CompletionTick: -1, PerHunter: map[string]int{}}
	for _, e := range sl.Entries() {
		switch e.Category {
		case "roster":
			switch e.Key {
			case "add":
				rep.Recruits++
			case "remove":
				rep.Releases++
			}
			if n := int(e.NumVal); n > rep.PeakRoster {
				rep.PeakRoster = n
			}
		case "hunter":
			switch e.Key {
			case "acquire":
				if rep.FirstContact < 0 {
					rep.FirstContact = e.Tick
				}
			case "capture":
				rep.Captures++
				rep.PerHunter[e.Agent]++
			case "leader_caught":
				rep.LeaderCaught++
			case "retarget":
				rep.Retargets++
			case "vanish":
				rep.Vanished = append(rep.Vanished, e.Agent)
			}
		case "recruit":
			if e.Key == "complete" && rep.CompletionTick < 0 {
				rep.CompletionTick = e.Tick
			}
		}
	}
	return rep
}

// String renders the report as a few labelled lines.
func (rr RunReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "recruits=%d releases=%d peak_roster=%d completion_tick=%d\n",
		rr.Recruits, rr.Releases, rr.PeakRoster, rr.CompletionTick)
	fmt.Fprintf(&sb, "first_contact=%d captures=%d retargets=%d leader_caught=%d\n",
		rr.FirstContact, rr.Captures, rr.Retargets, rr.LeaderCaught)
	labels := make([]string, 0, len(rr.PerHunter))
	for l := range rr.PerHunter {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, fmt.Sprintf("%s=%d", l, rr.PerHunter[l]))
	}
	fmt.Fprintf(&sb, "captures_by_hunter: %s\n", strings.Join(parts, " "))
	fmt.Fprintf(&sb, "vanished: %s\n", strings.Join(rr.Vanished, " "))
	return sb.String()
}
