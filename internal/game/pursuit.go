package game

import "fmt"

// HunterState is the behavioural state of a hunter.
type HunterState int

const (
	HunterPatrol HunterState = iota
	HunterChase
	HunterCapturing
	HunterCooldown
	// HunterVanishing is entered once the capture quota is met. The hunter
	// waits, fades, and is destroyed; nothing leaves this state.
	HunterVanishing
)

func (s HunterState) String() string {
	switch s {
	case HunterPatrol:
		return "patrol"
	case HunterChase:
		return "chase"
	case HunterCapturing:
		return "capturing"
	case HunterCooldown:
		return "cooldown"
	case HunterVanishing:
		return "vanishing"
	default:
		return "unknown"
	}
}

// HunterConfig holds the tunables for hunters.
type HunterConfig struct {
	PatrolSpeed      float64
	ChaseSpeed       float64
	StoppingDistance float64 // patrol waypoint arrival threshold
	PatrolWait       float64 // dwell at each waypoint
	EyeHeight        float64
	View             ViewCone
	SearchInterval   float64 // seconds between target searches
	SearchRadius     float64 // unrestricted radius once a target has been seen
	CaptureRange     float64
	CaptureDelay     float64 // halt before a capture lands
	Cooldown         float64 // pause after a capture or catching the leader
	MaxCaptures      int
	VanishDelay      float64 // wait after the final capture before fading
	VanishFade       float64
	// LeaderOnly makes a guard: it looks only for the leader, chases it for
	// good once seen and never captures, so it has no quota to vanish on.
	LeaderOnly bool
}

func (c HunterConfig) targetMask() Category {
	if c.LeaderOnly {
		return CategoryLeader
	}
	return CategoryTargets
}

// DefaultHunterConfig returns the stock hunter tunables.
func DefaultHunterConfig() HunterConfig {
	return HunterConfig{
		PatrolSpeed:      3.0,
		ChaseSpeed:       5.0,
		StoppingDistance: 0.5,
		PatrolWait:       2.0,
		EyeHeight:        1.6,
		View:             ViewCone{Radius: 10, Angle: 90},
		SearchInterval:   0.5,
		SearchRadius:     30,
		CaptureRange:     1.5,
		CaptureDelay:     0.5,
		Cooldown:         2.0,
		MaxCaptures:      3,
		VanishDelay:      2.0,
		VanishFade:       1.5,
	}
}

// Hunter is a pursuit agent. It patrols until something enters its view
// cone, then chases the nearest visible target for the rest of its life,
// capturing chickens until it reaches its quota and vanishes.
type Hunter struct {
	id      Handle
	cfg     HunterConfig
	nav     Navigator
	space   SpatialQuery
	life    Lifecycle
	targets TargetDirectory
	j       journal

	state HunterState

	waypoints   []Vec3
	patrolIndex int
	waiting     bool
	dwell       Timer

	search    Timer
	hasTarget bool
	target    Handle
	lastKnown Vec3

	victim   Handle
	capture  Timer
	cooldown Timer
	captures int

	vanish Timer
	faded  bool
}

// NewHunter creates a hunter that patrols waypoints in order, starting with
// the first.
func NewHunter(id Handle, cfg HunterConfig, nav Navigator, space SpatialQuery, life Lifecycle, targets TargetDirectory, waypoints []Vec3) *Hunter {
	h := &Hunter{
		id:        id,
		cfg:       cfg,
		nav:       nav,
		space:     space,
		life:      life,
		targets:   targets,
		waypoints: append([]Vec3(nil), waypoints...),
		dwell:     NewTimer(cfg.PatrolWait),
		search:    NewTimer(cfg.SearchInterval),
		capture:   NewTimer(cfg.CaptureDelay),
		cooldown:  NewTimer(cfg.Cooldown),
		vanish:    NewTimer(cfg.VanishDelay),
		j:         journal{label: fmt.Sprintf("H%d", id), kind: "hunter"},
	}
	if cfg.LeaderOnly {
		h.j = journal{label: fmt.Sprintf("G%d", id), kind: "guard"}
	}
	nav.SetSpeed(cfg.PatrolSpeed)
	if len(h.waypoints) > 0 {
		nav.SetDestination(h.waypoints[0])
	}
	return h
}

func (h *Hunter) attachLog(sl *SimLog, tick *int) {
	h.j.log = sl
	h.j.tick = tick
}

func (h *Hunter) Handle() Handle { return h.id }
func (h *Hunter) Label() string { return h.j.label }
func (h *Hunter) State() HunterState { return h.state }
func (h *Hunter) HasTarget() bool { return h.hasTarget }
func (h *Hunter) Target() Handle { return h.target }
func (h *Hunter) LastKnown() Vec3 { return h.lastKnown }
func (h *Hunter) Captures() int { return h.captures }
func (h *Hunter) PatrolIndex() int { return h.patrolIndex }
func (h *Hunter) Position() Vec3 { return h.nav.Position() }
func (h *Hunter) Forward() Vec3 { return h.nav.Forward() }
func (h *Hunter) Config() HunterConfig { return h.cfg }
func (h *Hunter) Guard() bool { return h.cfg.LeaderOnly }

// Gone reports whether the hunter has handed itself to the fade-out.
func (h *Hunter) Gone() bool { return h.faded }

func (h *Hunter) eye() Vec3 {
	return h.nav.Position().Add(Vec3{Y: h.cfg.EyeHeight})
}

// Tick advances the hunter by dt seconds.
func (h *Hunter) Tick(dt float64) {
	if h.state == HunterVanishing {
		h.tickVanishing(dt)
		return
	}
	if !h.cfg.LeaderOnly && h.captures >= h.cfg.MaxCaptures {
		h.beginVanishing()
		return
	}

	if h.search.Advance(dt) && h.state != HunterCapturing && h.state != HunterCooldown {
		h.search.Reset()
		switch {
		case !h.hasTarget:
			h.searchView()
		case !h.cfg.LeaderOnly:
			h.retarget()
		}
	}

	switch h.state {
	case HunterPatrol:
		h.patrol(dt)
	case HunterChase:
		h.chase()
	case HunterCapturing:
		h.tickCapturing(dt)
	case HunterCooldown:
		if h.cooldown.Advance(dt) {
			h.setState(HunterChase)
			h.nav.SetSpeed(h.cfg.ChaseSpeed)
			h.nav.Resume()
		}
	}
}

func (h *Hunter) setState(s HunterState) {
	if h.state == s {
		return
	}
	h.j.add("hunter", "state", h.state.String()+" → "+s.String(), 0)
	h.state = s
}

func (h *Hunter) patrol(dt float64) {
	if len(h.waypoints) == 0 {
		return
	}
	if !h.waiting {
		if h.nav.RemainingDistance() <= h.cfg.StoppingDistance {
			h.waiting = true
			h.dwell.Reset()
		}
		return
	}
	if h.dwell.Advance(dt) {
		h.waiting = false
		h.patrolIndex = (h.patrolIndex + 1) % len(h.waypoints)
		h.nav.SetDestination(h.waypoints[h.patrolIndex])
		h.j.verbose("hunter", "waypoint", fmt.Sprintf("→ %d", h.patrolIndex), float64(h.patrolIndex))
	}
}

// visible resolves a query hit to a live, uncaptured target with a clear
// line from the eye.
func (h *Hunter) visible(hit Handle) (Target, bool) {
	t, ok := h.targets.Target(hit)
	if !ok || t.Captured() {
		return nil, false
	}
	if h.space.RaycastBlocked(h.eye(), t.Position()) {
		return nil, false
	}
	return t, true
}

// searchView looks for the nearest visible target inside the view cone.
func (h *Hunter) searchView() {
	eye := h.eye()
	fwd := h.nav.Forward()
	var best Target
	bestDist := 0.0
	for _, hit := range h.space.OverlapSphere(eye, h.cfg.View.Radius, h.cfg.targetMask()) {
		t, ok := h.targets.Target(hit)
		if !ok || !h.cfg.View.Contains(eye, fwd, t.Position()) {
			continue
		}
		if t, ok = h.visible(hit); !ok {
			continue
		}
		d := eye.FlatDist(t.Position())
		if best == nil || d < bestDist {
			best, bestDist = t, d
		}
	}
	if best == nil {
		return
	}
	h.hasTarget = true
	h.target = best.Handle()
	h.lastKnown = best.Position()
	h.waiting = false
	h.setState(HunterChase)
	h.nav.SetSpeed(h.cfg.ChaseSpeed)
	h.nav.Resume()
	h.j.add("hunter", "acquire", fmt.Sprintf("%s at %.1fm", targetLabel(best), bestDist), bestDist)
}

// retarget switches to the nearest visible target within SearchRadius. With
// nothing visible the current target, or its last known position, is kept.
func (h *Hunter) retarget() {
	pos := h.nav.Position()
	var best Target
	bestDist := 0.0
	for _, hit := range h.space.OverlapSphere(pos, h.cfg.SearchRadius, h.cfg.targetMask()) {
		t, ok := h.visible(hit)
		if !ok {
			continue
		}
		d := pos.FlatDist(t.Position())
		if d > h.cfg.SearchRadius {
			continue
		}
		if best == nil || d < bestDist {
			best, bestDist = t, d
		}
	}
	if best == nil {
		if _, ok := h.currentTarget(); !ok && h.target != NoHandle {
			h.j.add("hunter", "target_lost", fmt.Sprintf("heading to (%.1f, %.1f)", h.lastKnown.X, h.lastKnown.Z), 0)
			h.target = NoHandle
		}
		return
	}
	if best.Handle() != h.target {
		prev := "none"
		if h.target != NoHandle {
			prev = handleLabel(h.targets, h.target)
		}
		h.j.add("hunter", "retarget", prev+" → "+targetLabel(best), bestDist)
		h.target = best.Handle()
	}
	h.lastKnown = best.Position()
}

// currentTarget resolves the chase target, treating a destroyed or
// captured target as lost.
func (h *Hunter) currentTarget() (Target, bool) {
	if h.target == NoHandle {
		return nil, false
	}
	t, ok := h.targets.Target(h.target)
	if !ok || t.Captured() {
		return nil, false
	}
	return t, true
}

func (h *Hunter) chase() {
	t, ok := h.currentTarget()
	if !ok {
		h.nav.SetDestination(h.lastKnown)
		return
	}
	tp := t.Position()
	h.nav.SetDestination(tp)
	h.lastKnown = tp
	// A guard tracks the leader through walls and never lets go.
	if h.cfg.LeaderOnly {
		return
	}

	if h.nav.Position().FlatDist(tp) > h.cfg.CaptureRange {
		return
	}
	if t.Capturable() {
		h.victim = t.Handle()
		h.capture.Reset()
		h.nav.Stop()
		h.setState(HunterCapturing)
		return
	}
	h.j.add("hunter", "leader_caught", targetLabel(t), 0)
	if s, ok := t.(spottable); ok {
		s.Spotted(h.j.label)
	}
	h.enterCooldown()
}

func (h *Hunter) tickCapturing(dt float64) {
	if !h.capture.Advance(dt) {
		return
	}
	if t, ok := h.targets.Target(h.victim); ok && !t.Captured() && h.captures < h.cfg.MaxCaptures {
		t.Capture()
		h.captures++
		h.j.add("hunter", "capture", fmt.Sprintf("%s (%d/%d)", targetLabel(t), h.captures, h.cfg.MaxCaptures), float64(h.captures))
	}
	if h.target == h.victim {
		h.target = NoHandle
	}
	h.victim = NoHandle
	if h.captures >= h.cfg.MaxCaptures {
		h.beginVanishing()
		return
	}
	h.enterCooldown()
}

func (h *Hunter) enterCooldown() {
	h.cooldown.Reset()
	h.nav.Stop()
	h.setState(HunterCooldown)
}

func (h *Hunter) beginVanishing() {
	h.nav.Stop()
	h.vanish.Reset()
	h.setState(HunterVanishing)
	h.j.add("hunter", "quota", fmt.Sprintf("%d/%d", h.captures, h.cfg.MaxCaptures), float64(h.captures))
}

func (h *Hunter) tickVanishing(dt float64) {
	if h.faded || !h.vanish.Advance(dt) {
		return
	}
	h.faded = true
	h.life.FadeThenDestroy(h.id, h.cfg.VanishFade)
	h.j.add("hunter", "vanish", fmt.Sprintf("%.1fs", h.cfg.VanishFade), h.cfg.VanishFade)
}

// spottable is implemented by targets that react to being caught without
// being captured.
type spottable interface {
	Spotted(by string)
}

// labeled is implemented by agents that carry a log label.
type labeled interface {
	Label() string
}

func targetLabel(t Target) string {
	if l, ok := t.(labeled); ok {
		return l.Label()
	}
	return fmt.Sprintf("#%d", t.Handle())
}

func handleLabel(dir TargetDirectory, h Handle) string {
	if t, ok := dir.Target(h); ok {
		return targetLabel(t)
	}
	return fmt.Sprintf("#%d", h)
}
