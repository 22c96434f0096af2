package game

import "fmt"

// FollowerState is the behavioural state of a chicken.
type FollowerState int

const (
	FollowerIdle FollowerState = iota
	FollowerFollowing
	FollowerCaptured
)

func (s FollowerState) String() string {
	switch s {
	case FollowerIdle:
		return "idle"
	case FollowerFollowing:
		return "following"
	case FollowerCaptured:
		return "captured"
	default:
		return "unknown"
	}
}

// FollowerConfig holds the tunables for chickens.
type FollowerConfig struct {
	Speed            float64 // navigation speed while following
	StoppingDistance float64 // how close the navigator gets before stopping
	RefreshInterval  float64 // seconds between slot recomputations
	CaptureFadeDelay float64 // seconds between capture and the start of the fade
	CaptureFade      float64 // fade duration before removal
	Formation        FormationParams
}

// DefaultFollowerConfig returns the stock chicken tunables.
func DefaultFollowerConfig() FollowerConfig {
	return FollowerConfig{
		Speed:            3.5,
		StoppingDistance: 0.3,
		RefreshInterval:  0.5,
		CaptureFadeDelay: 2.0,
		CaptureFade:      1.0,
		Formation:        DefaultFormationParams(),
	}
}

// Chicken is a follower agent. It idles until a leader recruits it, then
// walks to its formation slot, refreshing the slot on a fixed interval.
// Captured is terminal.
type Chicken struct {
	id     Handle
	cfg    FollowerConfig
	nav    Navigator
	life   Lifecycle
	leader Leader
	j      journal

	state   FollowerState
	dest    Vec3
	hasDest bool
	refresh Timer

	captured Timer
	fading   bool
}

// NewChicken creates an idle chicken driven by nav.
func NewChicken(id Handle, cfg FollowerConfig, nav Navigator, life Lifecycle) *Chicken {
	return &Chicken{
		id:       id,
		cfg:      cfg,
		nav:      nav,
		life:     life,
		refresh:  NewTimer(cfg.RefreshInterval),
		captured: NewTimer(cfg.CaptureFadeDelay),
		j:        journal{label: fmt.Sprintf("C%d", id), kind: "chicken"},
	}
}

// attachLog wires the chicken's events into a shared log.
func (c *Chicken) attachLog(sl *SimLog, tick *int) {
	c.j.log = sl
	c.j.tick = tick
}

func (c *Chicken) Handle() Handle { return c.id }
func (c *Chicken) Label() string { return c.j.label }
func (c *Chicken) State() FollowerState { return c.state }
func (c *Chicken) Position() Vec3 { return c.nav.Position() }
func (c *Chicken) Capturable() bool { return true }
func (c *Chicken) Captured() bool { return c.state == FollowerCaptured }
func (c *Chicken) Following() bool { return c.state == FollowerFollowing }
func (c *Chicken) Destination() (Vec3, bool) { return c.dest, c.hasDest }

// Join starts following leader. The caller has already put the chicken on
// the leader's roster. Only an idle chicken can join.
func (c *Chicken) Join(leader Leader) bool {
	if c.state != FollowerIdle || leader == nil {
		return false
	}
	c.leader = leader
	c.state = FollowerFollowing
	c.nav.SetSpeed(c.cfg.Speed)
	c.nav.Resume()
	c.retarget()
	c.refresh.Reset()
	c.j.add("follower", "join", fmt.Sprintf("slot %d", c.slotIndex()), float64(c.slotIndex()))
	return true
}

// Tick advances the chicken by dt seconds.
func (c *Chicken) Tick(dt float64) {
	switch c.state {
	case FollowerIdle:
		return
	case FollowerCaptured:
		if !c.fading && c.captured.Advance(dt) {
			c.fading = true
			c.life.FadeThenDestroy(c.id, c.cfg.CaptureFade)
			c.j.add("follower", "fade", fmt.Sprintf("%.1fs", c.cfg.CaptureFade), c.cfg.CaptureFade)
		}
		return
	}

	if c.refresh.Advance(dt) || !c.hasDest {
		c.refresh.Reset()
		c.retarget()
	}
	c.nav.Resume()
}

// retarget recomputes the destination and hands it to the navigator.
func (c *Chicken) retarget() {
	if c.leader == nil {
		return
	}
	region, ok := c.leader.FollowRegion()
	if !ok {
		c.dest = FallbackSlot(c.leader.Position(), c.leader.Forward(), c.cfg.Formation.BaseDistance)
	} else {
		total := 1
		if roster := c.leader.Followers(); roster != nil {
			total = max(1, roster.Count())
		}
		c.dest = ComputeSlot(region, c.cfg.Formation, c.slotIndex(), total)
	}
	c.hasDest = true
	c.nav.SetDestination(c.dest)
	c.j.verbose("follower", "slot", fmt.Sprintf("(%.1f, %.1f)", c.dest.X, c.dest.Z), 0)
}

// slotIndex is the chicken's roster index, or its synthetic stand-in.
func (c *Chicken) slotIndex() int {
	if c.leader != nil {
		if roster := c.leader.Followers(); roster != nil {
			if i, ok := roster.IndexOf(c.id); ok {
				return i
			}
		}
	}
	return SyntheticIndex(c.id)
}

// Capture moves the chicken into its terminal state. It leaves the roster,
// stops moving, and fades out after CaptureFadeDelay.
func (c *Chicken) Capture() {
	if c.state == FollowerCaptured {
		return
	}
	prev := c.state
	c.state = FollowerCaptured
	c.nav.Stop()
	if c.leader != nil {
		c.leader.Release(c.id)
	}
	c.captured.Reset()
	c.j.add("follower", "captured", prev.String()+" → captured", 0)
}
