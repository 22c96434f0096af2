package game

import (
	"math"
	"slices"
)

// fakeNav records navigation commands without moving anything unless a test
// moves it by hand.
type fakeNav struct {
	pos       Vec3
	fwd       Vec3
	dest      Vec3
	hasDest   bool
	stopped   bool
	speed     float64
	remaining float64 // < 0 means "distance to dest"
	sets      int
}

func newFakeNav(pos Vec3) *fakeNav {
	return &fakeNav{pos: pos, fwd: Forward(0), remaining: -1}
}

func (n *fakeNav) SetDestination(p Vec3) {
	n.dest, n.hasDest = p, true
	n.sets++
}

func (n *fakeNav) RemainingDistance() float64 {
	if n.remaining >= 0 {
		return n.remaining
	}
	if !n.hasDest {
		return 0
	}
	return n.pos.FlatDist(n.dest)
}

func (n *fakeNav) Stop() { n.stopped = true }
func (n *fakeNav) Resume() { n.stopped = false }
func (n *fakeNav) HasPath() bool { return n.hasDest }
func (n *fakeNav) SetSpeed(s float64) { n.speed = s }
func (n *fakeNav) Position() Vec3 { return n.pos }
func (n *fakeNav) Forward() Vec3 { return n.fwd }

// fakeTarget is a chase target placed by hand.
type fakeTarget struct {
	h          Handle
	pos        Vec3
	capturable bool
	captured   bool
	captures   int
	spotted    int
}

func (t *fakeTarget) Handle() Handle { return t.h }
func (t *fakeTarget) Position() Vec3 { return t.pos }
func (t *fakeTarget) Capturable() bool { return t.capturable }
func (t *fakeTarget) Captured() bool { return t.captured }
func (t *fakeTarget) Spotted(string) { t.spotted++ }
func (t *fakeTarget) Capture() {
	t.captures++
	if t.capturable {
		t.captured = true
	}
}

// fakeScene is a SpatialQuery, TargetDirectory and Lifecycle over a map of
// fake targets and a list of walls.
type fakeScene struct {
	targets map[Handle]*fakeTarget
	walls   []Box
	fades   map[Handle]float64
	gone    []Handle
}

func newFakeScene(targets ...*fakeTarget) *fakeScene {
	fs := &fakeScene{targets: map[Handle]*fakeTarget{}, fades: map[Handle]float64{}}
	for _, t := range targets {
		fs.targets[t.h] = t
	}
	return fs
}

func (fs *fakeScene) OverlapSphere(center Vec3, radius float64, mask Category) []Handle {
	var out []Handle
	for h, t := range fs.targets {
		cat := CategoryFollower
		if !t.capturable {
			cat = CategoryLeader
		}
		if cat&mask == 0 {
			continue
		}
		if center.FlatDist(t.pos) <= radius {
			out = append(out, h)
		}
	}
	slices.Sort(out)
	return out
}

func (fs *fakeScene) RaycastBlocked(from, to Vec3) bool {
	return !ClearLine(from, to, fs.walls)
}

func (fs *fakeScene) Target(h Handle) (Target, bool) {
	t, ok := fs.targets[h]
	if !ok {
		return nil, false
	}
	return t, true
}

func (fs *fakeScene) Instantiate(PrefabKind, Vec3, float64) Handle { return NoHandle }
func (fs *fakeScene) Destroy(h Handle) { fs.gone = append(fs.gone, h) }
func (fs *fakeScene) FadeThenDestroy(h Handle, s float64) { fs.fades[h] = s }
func (fs *fakeScene) FindByTag(string) (Handle, bool) { return NoHandle, false }

// fakeLeader is a stationary leader with a real roster.
type fakeLeader struct {
	pos      Vec3
	fwd      Vec3
	noRegion bool
	roster   *Roster
	released []Handle
}

func newFakeLeader() *fakeLeader {
	return &fakeLeader{fwd: Forward(0), roster: NewRoster(DefaultMaxFollowers)}
}

func (l *fakeLeader) Position() Vec3 { return l.pos }
func (l *fakeLeader) Forward() Vec3 { return l.fwd }
func (l *fakeLeader) Followers() RosterView { return l.roster }
func (l *fakeLeader) FollowRegion() (Region, bool) {
	if l.noRegion {
		return Region{}, false
	}
	return NewRegion(l.pos, l.fwd, 8, 10), true
}
func (l *fakeLeader) Release(h Handle) bool {
	l.released = append(l.released, h)
	return l.roster.Remove(h)
}

func near(a, b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}
