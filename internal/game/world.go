package game

import (
	"fmt"
	"math/rand"
	"slices"
)

// TickRate is the fixed simulation rate.
const TickRate = 60

// WorldConfig gathers every tunable the world needs.
type WorldConfig struct {
	Bounds      Box
	CellSize    float64
	Clearance   float64 // obstacle padding for the nav grid
	PlayerStart Vec3
	PlayerYaw   float64
	Player      PlayerConfig
	Follower    FollowerConfig
	Hunter      HunterConfig
	RecruitGoal int
	Spawn       SpawnConfig
}

// DefaultWorldConfig returns the stock world: a 100m square yard with the
// leader in the middle.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Bounds:      Box{MinX: -50, MinZ: -50, MaxX: 50, MaxZ: 50},
		CellSize:    DefaultCellSize,
		Clearance:   0.4,
		Player:      DefaultPlayerConfig(),
		Follower:    DefaultFollowerConfig(),
		Hunter:      DefaultHunterConfig(),
		RecruitGoal: DefaultRecruitGoal,
		Spawn:       DefaultSpawnConfig(),
	}
}

// World owns the scene and every agent and advances them in a fixed order:
// leader, chickens, hunters, movement and timers, then the tracker.
type World struct {
	Config   WorldConfig
	Scene    *Scene
	Player   *Player
	Tracker  *RecruitmentTracker
	SimLog   *SimLog
	Thoughts *ThoughtLog
	Tick     int
	Elapsed  float64

	chickens map[Handle]*Chicken
	hunters  map[Handle]*Hunter
	rng      *rand.Rand
	seen     int
}

// NewWorld builds the nav grid and scene for obstacles and places the
// leader. sl may be nil.
func NewWorld(cfg WorldConfig, obstacles []Box, seed int64, sl *SimLog) *World {
	grid := NewNavGrid(cfg.Bounds, cfg.CellSize, obstacles, cfg.Clearance)
	scene := NewScene(grid)
	for _, b := range obstacles {
		scene.AddObstacle(b)
	}
	w := &World{
		Config:   cfg,
		Scene:    scene,
		SimLog:   sl,
		Thoughts: NewThoughtLog(),
		chickens: make(map[Handle]*Chicken),
		hunters:  make(map[Handle]*Hunter),
		rng:      rand.New(rand.NewSource(seed)), // #nosec G404 -- gameplay randomness
	}
	id := scene.Instantiate(PrefabLeader, cfg.PlayerStart, cfg.PlayerYaw)
	w.Player = NewPlayer(id, cfg.Player, cfg.PlayerStart, cfg.PlayerYaw, scene)
	w.Player.attachLog(sl, &w.Tick)
	w.Tracker = NewRecruitmentTracker(cfg.RecruitGoal, func(count int) {
		w.SimLog.Add(w.Tick, "--", "--", "recruit", "complete", fmt.Sprintf("%d/%d", count, cfg.RecruitGoal), float64(count))
	})
	return w
}

// Rand exposes the world's seeded RNG.
func (w *World) Rand() *rand.Rand { return w.rng }

// AddChicken places an idle chicken.
func (w *World) AddChicken(pos Vec3, yaw float64) *Chicken {
	id := w.Scene.Instantiate(PrefabChicken, pos, yaw)
	nav, _ := w.Scene.Agent(id)
	nav.SetStoppingDistance(w.Config.Follower.StoppingDistance)
	c := NewChicken(id, w.Config.Follower, nav, w.Scene)
	c.attachLog(w.SimLog, &w.Tick)
	w.chickens[id] = c
	return c
}

// SpawnFlock scatters the configured number of chickens around the spawn
// centre.
func (w *World) SpawnFlock() []*Chicken {
	sp := w.Config.Spawn
	pos, yaw := ScatterInDisc(w.rng, sp.Center, sp.Radius, sp.Count)
	out := make([]*Chicken, 0, len(pos))
	for i := range pos {
		p := pos[i]
		if g := w.Scene.Grid(); g != nil && !g.Walkable(p) {
			continue
		}
		out = append(out, w.AddChicken(p, yaw[i]))
	}
	w.SimLog.Add(w.Tick, "--", "--", "stage", "spawn", fmt.Sprintf("%d chickens", len(out)), float64(len(out)))
	return out
}

// AddHunter places a hunter that patrols waypoints.
func (w *World) AddHunter(pos Vec3, yaw float64, waypoints []Vec3) *Hunter {
	return w.addHunter(w.Config.Hunter, pos, yaw, waypoints)
}

// AddGuard places a leader-only hunter that patrols waypoints with the
// hunter tunables.
func (w *World) AddGuard(pos Vec3, yaw float64, waypoints []Vec3) *Hunter {
	cfg := w.Config.Hunter
	cfg.LeaderOnly = true
	return w.addHunter(cfg, pos, yaw, waypoints)
}

func (w *World) addHunter(cfg HunterConfig, pos Vec3, yaw float64, waypoints []Vec3) *Hunter {
	id := w.Scene.Instantiate(PrefabHunter, pos, yaw)
	nav, _ := w.Scene.Agent(id)
	nav.SetStoppingDistance(0)
	h := NewHunter(id, cfg, nav, w.Scene, w.Scene, w, waypoints)
	h.attachLog(w.SimLog, &w.Tick)
	w.hunters[id] = h
	h.j.add("hunter", "spawn", fmt.Sprintf("(%.1f, %.1f)", pos.X, pos.Z), 0)
	return h
}

// Target implements TargetDirectory.
func (w *World) Target(h Handle) (Target, bool) {
	if w.Player != nil && h == w.Player.Handle() {
		return w.Player, true
	}
	if c, ok := w.chickens[h]; ok {
		return c, true
	}
	return nil, false
}

// Chicken looks up a live chicken.
func (w *World) Chicken(h Handle) (*Chicken, bool) {
	c, ok := w.chickens[h]
	return c, ok
}

// Chickens returns live chickens in handle order.
func (w *World) Chickens() []*Chicken {
	out := make([]*Chicken, 0, len(w.chickens))
	for _, h := range sortedKeys(w.chickens) {
		out = append(out, w.chickens[h])
	}
	return out
}

// Hunters returns live hunters in handle order.
func (w *World) Hunters() []*Hunter {
	out := make([]*Hunter, 0, len(w.hunters))
	for _, h := range sortedKeys(w.hunters) {
		out = append(out, w.hunters[h])
	}
	return out
}

func sortedKeys[V any](m map[Handle]V) []Handle {
	keys := make([]Handle, 0, len(m))
	for h := range m {
		keys = append(keys, h)
	}
	slices.Sort(keys)
	return keys
}

// RecruitNearest recruits the closest idle chicken within the leader's
// recruit radius.
func (w *World) RecruitNearest() (*Chicken, bool) {
	pos := w.Player.Position()
	var best *Chicken
	bestDist := 0.0
	for _, h := range w.Scene.OverlapSphere(pos, w.Config.Player.RecruitRadius, CategoryFollower) {
		c, ok := w.chickens[h]
		if !ok || c.State() != FollowerIdle {
			continue
		}
		d := pos.FlatDist(c.Position())
		if best == nil || d < bestDist {
			best, bestDist = c, d
		}
	}
	if best == nil || !w.Player.Recruit(best) {
		return nil, false
	}
	return best, true
}

// Step advances the world by one tick of dt seconds.
func (w *World) Step(in Input, dt float64) {
	w.Tick++
	w.Elapsed += dt

	w.Player.Update(in, dt)
	w.Scene.Place(w.Player.Handle(), w.Player.Position(), w.Player.Yaw())
	if in.Recruit {
		w.RecruitNearest()
	}

	for _, c := range w.Chickens() {
		c.Tick(dt)
	}
	for _, h := range w.Hunters() {
		h.Tick(dt)
	}

	w.Scene.Advance(dt)
	for _, h := range w.Scene.DrainDestroyed() {
		if c, ok := w.chickens[h]; ok {
			w.SimLog.Add(w.Tick, c.Label(), "chicken", "follower", "destroyed", "", 0)
			delete(w.chickens, h)
		}
		if hu, ok := w.hunters[h]; ok {
			w.SimLog.Add(w.Tick, hu.Label(), "hunter", "hunter", "destroyed", fmt.Sprintf("%d captures", hu.Captures()), float64(hu.Captures()))
			delete(w.hunters, h)
		}
	}

	w.Tracker.Observe(w.Player.Roster().Count())

	for _, e := range w.SimLog.Since(w.seen) {
		w.Thoughts.AddEntry(e)
	}
	w.seen = w.SimLog.Len()
}

// Run advances n ticks at the fixed rate with no input.
func (w *World) Run(n int) {
	for i := 0; i < n; i++ {
		w.Step(Input{}, 1.0/TickRate)
	}
}
