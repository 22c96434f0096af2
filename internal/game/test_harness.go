package game

// TestSim is a headless simulation harness shared by tests and the
// headless-report command. It has no Ebiten dependency and supports
// deterministic seeding and structured logging.
type TestSim struct {
	World  *World
	SimLog *SimLog
	Config WorldConfig

	Chickens []*Chicken // in option order
	Hunters  []*Hunter  // in option order

	seed     int64
	walls    []Box
	input    func(tick int) Input
	flock    bool
	recruits []int // indexes into Chickens recruited at start
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra   simOptionKind = iota // config, walls, seed, verbose: applied first
	simOptAgent                        // chickens and hunters: applied after the world is built
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithConfig replaces the whole world configuration.
func WithConfig(cfg WorldConfig) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Config = cfg
	}}
}

// WithBounds sets the playfield extent.
func WithBounds(minX, minZ, maxX, maxZ float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Config.Bounds = Box{MinX: minX, MinZ: minZ, MaxX: maxX, MaxZ: maxZ}
	}}
}

// WithWall adds an obstacle.
func WithWall(minX, minZ, maxX, maxZ float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.walls = append(ts.walls, Box{MinX: minX, MinZ: minZ, MaxX: maxX, MaxZ: maxZ})
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.seed = seed
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithLeader places the leader.
func WithLeader(x, z, yaw float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Config.PlayerStart = V3(x, 0, z)
		ts.Config.PlayerYaw = yaw
	}}
}

// WithRecruitGoal sets the number of chickens needed to finish.
func WithRecruitGoal(n int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Config.RecruitGoal = n
	}}
}

// WithHunterConfig overrides hunter tunables.
func WithHunterConfig(cfg HunterConfig) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Config.Hunter = cfg
	}}
}

// WithInput drives the leader with a per-tick input function.
func WithInput(fn func(tick int) Input) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.input = fn
	}}
}

// WithFlock spawns the configured flock of count chickens in a disc.
func WithFlock(count int, cx, cz, radius float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Config.Spawn = SpawnConfig{Count: count, Center: V3(cx, 0, cz), Radius: radius}
		ts.flock = true
	}}
}

// WithChicken adds an idle chicken at (x, z).
func WithChicken(x, z float64) SimOption {
	return SimOption{simOptAgent, func(ts *TestSim) {
		ts.Chickens = append(ts.Chickens, ts.World.AddChicken(V3(x, 0, z), 0))
	}}
}

// WithFollower adds a chicken at (x, z) that is recruited before the first tick.
func WithFollower(x, z float64) SimOption {
	return SimOption{simOptAgent, func(ts *TestSim) {
		ts.recruits = append(ts.recruits, len(ts.Chickens))
		ts.Chickens = append(ts.Chickens, ts.World.AddChicken(V3(x, 0, z), 0))
	}}
}

// WithHunter adds a hunter at (x, z) facing yaw, patrolling the given
// waypoints given as x, z pairs.
func WithHunter(x, z, yaw float64, waypoints ...[2]float64) SimOption {
	return SimOption{simOptAgent, func(ts *TestSim) {
		ts.Hunters = append(ts.Hunters, ts.World.AddHunter(V3(x, 0, z), yaw, flatPoints(waypoints)))
	}}
}

// WithGuard adds a leader-only guard. It is appended to Hunters.
func WithGuard(x, z, yaw float64, waypoints ...[2]float64) SimOption {
	return SimOption{simOptAgent, func(ts *TestSim) {
		ts.Hunters = append(ts.Hunters, ts.World.AddGuard(V3(x, 0, z), yaw, flatPoints(waypoints)))
	}}
}

func flatPoints(pairs [][2]float64) []Vec3 {
	pts := make([]Vec3, len(pairs))
	for i, p := range pairs {
		pts[i] = V3(p[0], 0, p[1])
	}
	return pts
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (config, walls, seed, verbose)
//  2. Build the world (nav grid, scene, leader, optional flock)
//  3. Chickens and hunters
//  4. Initial recruits
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		Config: DefaultWorldConfig(),
		SimLog: NewSimLog(false),
		seed:   1,
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	ts.World = NewWorld(ts.Config, ts.walls, ts.seed, ts.SimLog)
	if ts.flock {
		ts.Chickens = append(ts.Chickens, ts.World.SpawnFlock()...)
	}
	for _, o := range opts {
		if o.kind == simOptAgent {
			o.fn(ts)
		}
	}
	for _, i := range ts.recruits {
		ts.World.Player.Recruit(ts.Chickens[i])
	}
	return ts
}

// Tick returns the current tick.
func (ts *TestSim) Tick() int { return ts.World.Tick }

// RunTicks advances the simulation n ticks at the fixed rate.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		in := Input{}
		if ts.input != nil {
			in = ts.input(ts.World.Tick)
		}
		ts.World.Step(in, 1.0/TickRate)
	}
}

// RunSeconds advances the simulation by roughly s seconds.
func (ts *TestSim) RunSeconds(s float64) {
	ts.RunTicks(int(s*TickRate + 0.5))
}

// RunUntil advances until cond holds or limit ticks pass. It reports
// whether cond became true.
func (ts *TestSim) RunUntil(limit int, cond func() bool) bool {
	for i := 0; i < limit; i++ {
		if cond() {
			return true
		}
		ts.RunTicks(1)
	}
	return cond()
}
