package game

import (
	"fmt"
	"math"
	"slices"
)

// TagPlayer is the tag the leader is registered under.
const TagPlayer = "Player"

// agentRadius is the footprint of each prefab kind in the spatial index.
var agentRadius = map[PrefabKind]float64{
	PrefabChicken: 0.4,
	PrefabHunter:  0.5,
	PrefabLeader:  0.5,
}

var agentCategory = map[PrefabKind]Category{
	PrefabChicken: CategoryFollower,
	PrefabHunter:  CategoryHunter,
	PrefabLeader:  CategoryLeader,
}

type entity struct {
	kind      PrefabKind
	tag       string
	pos       Vec3
	yaw       float64
	fading    bool
	fadeStart float64
	fadeFor   float64
}

// Scene is the in-memory object store behind the agents. It implements
// Lifecycle and SpatialQuery and hands out a NavAgent per moving object.
type Scene struct {
	space *Space
	grid  *NavGrid
	sched *Scheduler

	next      Handle
	entities  map[Handle]*entity
	agents    map[Handle]*NavAgent
	obstacles []Box
	destroyed []Handle
}

// NewScene creates an empty scene. grid may be nil, in which case agents
// walk straight lines.
func NewScene(grid *NavGrid) *Scene {
	return &Scene{
		space:    NewSpace(),
		grid:     grid,
		sched:    NewScheduler(),
		entities: make(map[Handle]*entity),
		agents:   make(map[Handle]*NavAgent),
	}
}

// Scheduler exposes the scene clock.
func (s *Scene) Scheduler() *Scheduler { return s.sched }

// Space exposes the spatial index.
func (s *Scene) Space() *Space { return s.space }

// Grid returns the nav grid, or nil.
func (s *Scene) Grid() *NavGrid { return s.grid }

// AddObstacle adds a wall to the spatial index. The nav grid is built
// separately from the same boxes.
func (s *Scene) AddObstacle(b Box) {
	s.obstacles = append(s.obstacles, b)
	s.space.AddObstacle(b)
}

// Obstacles returns the walls added so far.
func (s *Scene) Obstacles() []Box { return s.obstacles }

// Instantiate creates an object of the given kind and returns its handle.
// Chickens and hunters get a NavAgent; the leader is tagged TagPlayer.
func (s *Scene) Instantiate(kind PrefabKind, pos Vec3, yaw float64) Handle {
	s.next++
	h := s.next
	e := &entity{kind: kind, pos: pos, yaw: yaw}
	s.entities[h] = e
	s.space.AddAgent(h, agentCategory[kind], pos, agentRadius[kind])
	switch kind {
	case PrefabLeader:
		e.tag = TagPlayer
	default:
		s.agents[h] = &NavAgent{
			grid:     s.grid,
			pos:      pos,
			yaw:      yaw,
			turnRate: 2 * math.Pi,
		}
	}
	return h
}

// Destroy removes h immediately. Pending callbacks owned by h are dropped.
func (s *Scene) Destroy(h Handle) {
	if _, ok := s.entities[h]; !ok {
		return
	}
	delete(s.entities, h)
	delete(s.agents, h)
	s.space.Remove(h)
	s.sched.CancelOwner(h)
	s.destroyed = append(s.destroyed, h)
}

// FadeThenDestroy fades h out over seconds and then destroys it. A second
// call while fading is ignored.
func (s *Scene) FadeThenDestroy(h Handle, seconds float64) {
	e, ok := s.entities[h]
	if !ok || e.fading {
		return
	}
	e.fading = true
	e.fadeStart = s.sched.Now()
	e.fadeFor = seconds
	s.sched.After(h, seconds, func() { s.Destroy(h) })
}

// FindByTag returns the first live object carrying tag.
func (s *Scene) FindByTag(tag string) (Handle, bool) {
	for _, h := range s.Handles() {
		if s.entities[h].tag == tag {
			return h, true
		}
	}
	return NoHandle, false
}

// SetTag labels h.
func (s *Scene) SetTag(h Handle, tag string) {
	if e, ok := s.entities[h]; ok {
		e.tag = tag
	}
}

// Alive reports whether h exists.
func (s *Scene) Alive(h Handle) bool {
	_, ok := s.entities[h]
	return ok
}

// Kind returns the prefab kind of h.
func (s *Scene) Kind(h Handle) (PrefabKind, bool) {
	e, ok := s.entities[h]
	if !ok {
		return 0, false
	}
	return e.kind, true
}

// Alpha returns h's opacity: 1 normally, falling to 0 over a fade.
func (s *Scene) Alpha(h Handle) float64 {
	e, ok := s.entities[h]
	if !ok {
		return 0
	}
	if !e.fading || e.fadeFor <= 0 {
		return 1
	}
	return math.Max(0, 1-(s.sched.Now()-e.fadeStart)/e.fadeFor)
}

// Position returns where h is.
func (s *Scene) Position(h Handle) (Vec3, bool) {
	if a, ok := s.agents[h]; ok {
		return a.pos, true
	}
	e, ok := s.entities[h]
	if !ok {
		return Vec3{}, false
	}
	return e.pos, true
}

// Place moves an object that is not driven by a NavAgent.
func (s *Scene) Place(h Handle, pos Vec3, yaw float64) {
	e, ok := s.entities[h]
	if !ok {
		return
	}
	e.pos, e.yaw = pos, yaw
	s.space.Move(h, pos)
}

// Agent returns h's navigator.
func (s *Scene) Agent(h Handle) (*NavAgent, bool) {
	a, ok := s.agents[h]
	return a, ok
}

// Handles returns every live handle in ascending order.
func (s *Scene) Handles() []Handle {
	out := make([]Handle, 0, len(s.entities))
	for h := range s.entities {
		out = append(out, h)
	}
	slices.Sort(out)
	return out
}

// OverlapSphere implements SpatialQuery.
func (s *Scene) OverlapSphere(center Vec3, radius float64, mask Category) []Handle {
	return s.space.OverlapSphere(center, radius, mask)
}

// RaycastBlocked implements SpatialQuery.
func (s *Scene) RaycastBlocked(from, to Vec3) bool {
	return s.space.RaycastBlocked(from, to)
}

// Advance moves every nav agent, then runs due scheduler callbacks.
func (s *Scene) Advance(dt float64) {
	for _, h := range s.Handles() {
		a, ok := s.agents[h]
		if !ok {
			continue
		}
		a.step(dt)
		e := s.entities[h]
		e.pos, e.yaw = a.pos, a.yaw
		s.space.Move(h, a.pos)
	}
	s.sched.Advance(dt)
}

// DrainDestroyed returns and clears the handles destroyed since the last call.
func (s *Scene) DrainDestroyed() []Handle {
	out := s.destroyed
	s.destroyed = nil
	return out
}

func (s *Scene) String() string {
	return fmt.Sprintf("scene{objects=%d agents=%d pending=%d}", len(s.entities), len(s.agents), s.sched.Pending())
}

// NavAgent follows grid paths toward a destination. It implements Navigator.
type NavAgent struct {
	grid     *NavGrid
	pos      Vec3
	yaw      float64
	turnRate float64 // radians per second
	speed    float64
	stopping float64

	dest    Vec3
	hasDest bool
	path    []Vec3
	stopped bool
}

// SetStoppingDistance sets how close the agent gets before it stops moving.
func (a *NavAgent) SetStoppingDistance(d float64) { a.stopping = d }

func (a *NavAgent) SetSpeed(speed float64) { a.speed = speed }
func (a *NavAgent) Stop() { a.stopped = true }
func (a *NavAgent) Resume() { a.stopped = false }
func (a *NavAgent) HasPath() bool { return len(a.path) > 0 }
func (a *NavAgent) Position() Vec3 { return a.pos }
func (a *NavAgent) Forward() Vec3 { return Forward(a.yaw) }

// Destination returns the last requested destination.
func (a *NavAgent) Destination() (Vec3, bool) { return a.dest, a.hasDest }

// Path returns the remaining waypoints.
func (a *NavAgent) Path() []Vec3 { return a.path }

// SetDestination plans a path to p. An unreachable p leaves the agent
// without a path.
func (a *NavAgent) SetDestination(p Vec3) {
	a.dest, a.hasDest = p, true
	if a.grid == nil {
		a.path = []Vec3{p.Flat()}
		return
	}
	a.path = a.grid.FindPath(a.pos, p)
}

// RemainingDistance is the length of the rest of the path, or zero when
// there is none.
func (a *NavAgent) RemainingDistance() float64 {
	d := 0.0
	prev := a.pos.Flat()
	for _, w := range a.path {
		d += prev.Dist(w)
		prev = w
	}
	return d
}

func (a *NavAgent) step(dt float64) {
	if a.stopped || len(a.path) == 0 || a.RemainingDistance() <= a.stopping {
		return
	}
	budget := a.speed * dt
	for budget > 0 && len(a.path) > 0 {
		w := a.path[0]
		to := w.Sub(a.pos.Flat())
		d := to.Len()
		if d > 1e-9 {
			a.yaw = TurnToward(a.yaw, YawOf(to), a.turnRate*dt)
		}
		if d > budget {
			a.pos = a.pos.Add(to.Scale(budget / d))
			return
		}
		a.pos = Vec3{X: w.X, Y: a.pos.Y, Z: w.Z}
		budget -= d
		if len(a.path) == 1 {
			return
		}
		a.path = a.path[1:]
	}
}
