// Package tuning loads the YAML stage and agent tunables, validates them
// against an embedded JSON schema and converts them to game configs.
package tuning

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Chicken-King/internal/game"
)

//go:embed default.yaml
var defaultYAML []byte

//go:embed tuning.schema.json
var schemaJSON []byte

// ErrInvalid is wrapped by every error caused by a document that fails
// schema validation.
var ErrInvalid = errors.New("invalid tuning")

const schemaURL = "tuning.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

type Tuning struct {
	World    World    `yaml:"world"`
	Player   Player   `yaml:"player"`
	Follower Follower `yaml:"follower"`
	Hunter   Hunter   `yaml:"hunter"`
	Spawn    Spawn    `yaml:"spawn"`
	Stage    Stage    `yaml:"stage"`
}

type World struct {
	HalfExtent  float64 `yaml:"half_extent"`
	CellSize    float64 `yaml:"cell_size"`
	Clearance   float64 `yaml:"clearance"`
	RecruitGoal int     `yaml:"recruit_goal"`
	Seed        int64   `yaml:"seed"`
}

type Player struct {
	Start            []float64 `yaml:"start"`
	Yaw              float64   `yaml:"yaw"`
	MoveSpeed        float64   `yaml:"move_speed"`
	CrouchSpeed      float64   `yaml:"crouch_speed"`
	SprintSpeed      float64   `yaml:"sprint_speed"`
	MaxStamina       float64   `yaml:"max_stamina"`
	StaminaDrain     float64   `yaml:"stamina_drain"`
	StaminaRegen     float64   `yaml:"stamina_regen"`
	MinSprintStamina float64   `yaml:"min_sprint_stamina"`
	TurnRate         float64   `yaml:"turn_rate"`
	FootstepInterval float64   `yaml:"footstep_interval"`
	FootstepVolume   float64   `yaml:"footstep_volume"`
	CrouchVolume     float64   `yaml:"crouch_volume"`
	FollowLength     float64   `yaml:"follow_length"`
	FollowWidth      float64   `yaml:"follow_width"`
	MaxFollowers     int       `yaml:"max_followers"`
	RecruitRadius    float64   `yaml:"recruit_radius"`
}

type Follower struct {
	Speed            float64   `yaml:"speed"`
	StoppingDistance float64   `yaml:"stopping_distance"`
	RefreshInterval  float64   `yaml:"refresh_interval"`
	CaptureFadeDelay float64   `yaml:"capture_fade_delay"`
	CaptureFade      float64   `yaml:"capture_fade"`
	Formation        Formation `yaml:"formation"`
}

type Formation struct {
	RowSpacing    float64 `yaml:"row_spacing"`
	ColumnSpacing float64 `yaml:"column_spacing"`
	BaseDistance  float64 `yaml:"base_distance"`
}

type Hunter struct {
	PatrolSpeed      float64 `yaml:"patrol_speed"`
	ChaseSpeed       float64 `yaml:"chase_speed"`
	StoppingDistance float64 `yaml:"stopping_distance"`
	PatrolWait       float64 `yaml:"patrol_wait"`
	EyeHeight        float64 `yaml:"eye_height"`
	ViewRadius       float64 `yaml:"view_radius"`
	ViewAngle        float64 `yaml:"view_angle"`
	SearchInterval   float64 `yaml:"search_interval"`
	SearchRadius     float64 `yaml:"search_radius"`
	CaptureRange     float64 `yaml:"capture_range"`
	CaptureDelay     float64 `yaml:"capture_delay"`
	Cooldown         float64 `yaml:"cooldown"`
	MaxCaptures      int     `yaml:"max_captures"`
	VanishDelay      float64 `yaml:"vanish_delay"`
	VanishFade       float64 `yaml:"vanish_fade"`
}

type Spawn struct {
	Count  int       `yaml:"count"`
	Center []float64 `yaml:"center"`
	Radius float64   `yaml:"radius"`
}

// Stage is the farmyard layout: walls as [minX, minZ, maxX, maxZ] and the
// hunters placed at start.
type Stage struct {
	Walls   [][]float64   `yaml:"walls"`
	Hunters []HunterSpawn `yaml:"hunters"`
	Script  string        `yaml:"script"`
}

// HunterSpawn places one hunter. Kind "guard" makes it a leader-only
// guard; empty or "hunter" is a regular hunter.
type HunterSpawn struct {
	Kind   string      `yaml:"kind"`
	At     []float64   `yaml:"at"`
	Yaw    float64     `yaml:"yaw"`
	Patrol [][]float64 `yaml:"patrol"`
}

// Default returns the embedded stock tuning.
func Default() Tuning {
	t, err := parseOver(Tuning{}, defaultYAML, "default.yaml")
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads and validates a tuning file. Keys it omits keep their
// default values.
func Load(path string) (Tuning, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("tuning: read %s: %w", path, err)
	}
	return Parse(raw, path)
}

// Parse validates raw and overlays it on the defaults. name is only used
// in error messages.
func Parse(raw []byte, name string) (Tuning, error) {
	return parseOver(Default(), raw, name)
}

func parseOver(base Tuning, raw []byte, name string) (Tuning, error) {
	if err := Validate(raw, name); err != nil {
		return Tuning{}, err
	}
	t := base
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Tuning{}, fmt.Errorf("tuning: decode %s: %w", name, err)
	}
	return t, nil
}

// Validate checks raw YAML against the tuning schema. Schema violations
// wrap ErrInvalid.
func Validate(raw []byte, name string) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("tuning: decode %s: %w", name, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	// Round-trip through JSON so the validator sees JSON types.
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("tuning: validate %s: %w: %w", name, ErrInvalid, err)
	}
	var inst any
	if err := json.Unmarshal(js, &inst); err != nil {
		return fmt.Errorf("tuning: validate %s: %w", name, err)
	}
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("tuning: compile schema: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("tuning: validate %s: %w: %w", name, ErrInvalid, err)
	}
	return nil
}

func vec(p []float64) game.Vec3 {
	if len(p) < 2 {
		return game.Vec3{}
	}
	return game.V3(p[0], 0, p[1])
}

// WorldConfig converts the tuning to the simulation's configuration.
func (t Tuning) WorldConfig() game.WorldConfig {
	cfg := game.DefaultWorldConfig()
	e := t.World.HalfExtent
	cfg.Bounds = game.Box{MinX: -e, MinZ: -e, MaxX: e, MaxZ: e}
	cfg.CellSize = t.World.CellSize
	cfg.Clearance = t.World.Clearance
	cfg.RecruitGoal = t.World.RecruitGoal
	cfg.PlayerStart = vec(t.Player.Start)
	cfg.PlayerYaw = t.Player.Yaw

	p := t.Player
	cfg.Player = game.PlayerConfig{
		MoveSpeed:        p.MoveSpeed,
		CrouchSpeed:      p.CrouchSpeed,
		SprintSpeed:      p.SprintSpeed,
		MaxStamina:       p.MaxStamina,
		StaminaDrain:     p.StaminaDrain,
		StaminaRegen:     p.StaminaRegen,
		MinSprintStamina: p.MinSprintStamina,
		TurnRate:         p.TurnRate,
		FootstepInterval: p.FootstepInterval,
		FootstepVolume:   p.FootstepVolume,
		CrouchVolume:     p.CrouchVolume,
		FollowLength:     p.FollowLength,
		FollowWidth:      p.FollowWidth,
		MaxFollowers:     p.MaxFollowers,
		RecruitRadius:    p.RecruitRadius,
	}

	f := t.Follower
	cfg.Follower = game.FollowerConfig{
		Speed:            f.Speed,
		StoppingDistance: f.StoppingDistance,
		RefreshInterval:  f.RefreshInterval,
		CaptureFadeDelay: f.CaptureFadeDelay,
		CaptureFade:      f.CaptureFade,
		Formation: game.FormationParams{
			RowSpacing:    f.Formation.RowSpacing,
			ColumnSpacing: f.Formation.ColumnSpacing,
			BaseDistance:  f.Formation.BaseDistance,
		},
	}

	cfg.Hunter = t.HunterConfig()
	cfg.Spawn = game.SpawnConfig{
		Count:  t.Spawn.Count,
		Center: vec(t.Spawn.Center),
		Radius: t.Spawn.Radius,
	}
	return cfg
}

// HunterConfig converts the hunter section.
func (t Tuning) HunterConfig() game.HunterConfig {
	h := t.Hunter
	return game.HunterConfig{
		PatrolSpeed:      h.PatrolSpeed,
		ChaseSpeed:       h.ChaseSpeed,
		StoppingDistance: h.StoppingDistance,
		PatrolWait:       h.PatrolWait,
		EyeHeight:        h.EyeHeight,
		View:             game.ViewCone{Radius: h.ViewRadius, Angle: h.ViewAngle},
		SearchInterval:   h.SearchInterval,
		SearchRadius:     h.SearchRadius,
		CaptureRange:     h.CaptureRange,
		CaptureDelay:     h.CaptureDelay,
		Cooldown:         h.Cooldown,
		MaxCaptures:      h.MaxCaptures,
		VanishDelay:      h.VanishDelay,
		VanishFade:       h.VanishFade,
	}
}

// Walls returns the stage obstacles.
func (t Tuning) Walls() []game.Box {
	out := make([]game.Box, 0, len(t.Stage.Walls))
	for _, w := range t.Stage.Walls {
		if len(w) < 4 {
			continue
		}
		out = append(out, game.Box{MinX: min(w[0], w[2]), MinZ: min(w[1], w[3]), MaxX: max(w[0], w[2]), MaxZ: max(w[1], w[3])})
	}
	return out
}

// Stage hunter kinds.
const (
	KindHunter = "hunter"
	KindGuard  = "guard"
)

// Placement is a converted stage hunter.
type Placement struct {
	Guard  bool
	At     game.Vec3
	Yaw    float64
	Patrol []game.Vec3
}

// Hunters returns the stage's hunter placements.
func (t Tuning) Hunters() []Placement {
	out := make([]Placement, 0, len(t.Stage.Hunters))
	for _, h := range t.Stage.Hunters {
		pl := Placement{Guard: h.Kind == KindGuard, At: vec(h.At), Yaw: h.Yaw}
		for _, p := range h.Patrol {
			pl.Patrol = append(pl.Patrol, vec(p))
		}
		out = append(out, pl)
	}
	return out
}

// Build creates a world for this tuning with the stage hunters placed and
// the flock spawned. sl may be nil.
func (t Tuning) Build(seed int64, sl *game.SimLog) *game.World {
	w := game.NewWorld(t.WorldConfig(), t.Walls(), seed, sl)
	w.SpawnFlock()
	for _, h := range t.Hunters() {
		if h.Guard {
			w.AddGuard(h.At, h.Yaw, h.Patrol)
			continue
		}
		w.AddHunter(h.At, h.Yaw, h.Patrol)
	}
	return w
}
