package game

import (
	"fmt"
	"math"
)

// PlayerConfig holds the tunables for the leader.
type PlayerConfig struct {
	MoveSpeed        float64
	CrouchSpeed      float64
	SprintSpeed      float64
	MaxStamina       float64
	StaminaDrain     float64 // per second while sprinting
	StaminaRegen     float64 // per second otherwise
	MinSprintStamina float64 // stamina needed to start a sprint
	TurnRate         float64 // heading lerp factor per second
	FootstepInterval float64
	FootstepVolume   float64
	CrouchVolume     float64
	FollowLength     float64 // follow region apex-to-base distance
	FollowWidth      float64 // follow region base width
	MaxFollowers     int
	RecruitRadius    float64
}

// DefaultPlayerConfig returns the stock leader tunables.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		MoveSpeed:        5.0,
		CrouchSpeed:      2.5,
		SprintSpeed:      8.0,
		MaxStamina:       100,
		StaminaDrain:     25,
		StaminaRegen:     15,
		MinSprintStamina: 10,
		TurnRate:         10,
		FootstepInterval: 0.5,
		FootstepVolume:   0.7,
		CrouchVolume:     0.3,
		FollowLength:     8,
		FollowWidth:      10,
		MaxFollowers:     DefaultMaxFollowers,
		RecruitRadius:    2.5,
	}
}

// Input is one tick of player intent. Move is a ground-plane direction in
// world space; its length is clamped to 1.
type Input struct {
	Move         Vec3
	Sprint       bool
	ToggleCrouch bool
	Recruit      bool
}

// Player is the leader. It owns the roster of following chickens and the
// follow region they are packed into.
type Player struct {
	id     Handle
	cfg    PlayerConfig
	space  SpatialQuery
	roster *Roster
	j      journal

	pos       Vec3
	yaw       float64
	stamina   float64
	sprinting bool
	crouching bool
	hiding    bool
	moving    bool
	footstep  Timer
	spotted   int
}

// NewPlayer creates a leader at pos facing yaw. space may be nil, in which
// case movement is never blocked.
func NewPlayer(id Handle, cfg PlayerConfig, pos Vec3, yaw float64, space SpatialQuery) *Player {
	return &Player{
		id:       id,
		cfg:      cfg,
		space:    space,
		roster:   NewRoster(cfg.MaxFollowers),
		pos:      pos,
		yaw:      yaw,
		stamina:  cfg.MaxStamina,
		footstep: NewTimer(cfg.FootstepInterval),
		j:        journal{label: "P", kind: "leader"},
	}
}

func (p *Player) attachLog(sl *SimLog, tick *int) {
	p.j.log = sl
	p.j.tick = tick
}

func (p *Player) Handle() Handle { return p.id }
func (p *Player) Label() string { return p.j.label }
func (p *Player) Position() Vec3 { return p.pos }
func (p *Player) Yaw() float64 { return p.yaw }
func (p *Player) Forward() Vec3 { return Forward(p.yaw) }
func (p *Player) Stamina() float64 { return p.stamina }
func (p *Player) Sprinting() bool { return p.sprinting }
func (p *Player) Crouching() bool { return p.crouching }
func (p *Player) Hiding() bool { return p.hiding }
func (p *Player) SetHiding(hiding bool) { p.hiding = hiding }
func (p *Player) Roster() *Roster { return p.roster }
func (p *Player) Followers() RosterView { return p.roster }
func (p *Player) Capturable() bool { return false }
func (p *Player) Captured() bool { return false }
func (p *Player) Capture() {}
func (p *Player) SpottedCount() int { return p.spotted }
func (p *Player) Config() PlayerConfig { return p.cfg }

// Spotted records a hunter reaching the leader. A hiding leader goes unseen.
func (p *Player) Spotted(by string) {
	if p.hiding {
		return
	}
	p.spotted++
	p.j.add("player", "spotted", "by "+by, float64(p.spotted))
}

// FollowRegion returns the triangle behind the leader.
func (p *Player) FollowRegion() (Region, bool) {
	if p.cfg.FollowWidth <= 0 || p.cfg.FollowLength <= 0 {
		return Region{}, false
	}
	return NewRegion(p.pos, p.Forward(), p.cfg.FollowLength, p.cfg.FollowWidth), true
}

// Enlist adds h to the roster.
func (p *Player) Enlist(h Handle) bool {
	if !p.roster.Add(h) {
		return false
	}
	p.j.add("roster", "add", fmt.Sprintf("C%d (%d/%d)", h, p.roster.Count(), p.roster.Capacity()), float64(p.roster.Count()))
	return true
}

// Release removes h from the roster.
func (p *Player) Release(h Handle) bool {
	if !p.roster.Remove(h) {
		return false
	}
	p.j.add("roster", "remove", fmt.Sprintf("C%d (%d/%d)", h, p.roster.Count(), p.roster.Capacity()), float64(p.roster.Count()))
	return true
}

// Recruit enlists c and tells it to follow. Nothing changes if the roster
// is full or c cannot join.
func (p *Player) Recruit(c *Chicken) bool {
	if c == nil || c.State() != FollowerIdle {
		return false
	}
	if !p.Enlist(c.Handle()) {
		return false
	}
	if !c.Join(p) {
		p.Release(c.Handle())
		return false
	}
	return true
}

// Update applies one tick of input.
func (p *Player) Update(in Input, dt float64) {
	if in.ToggleCrouch {
		p.crouching = !p.crouching
		p.j.add("player", "crouch", fmt.Sprintf("%v", p.crouching), 0)
	}

	move := in.Move.Flat()
	if move.Len() > 1 {
		move = move.Normalize()
	}
	p.moving = move.Len() > 0.1

	p.updateStamina(in.Sprint && p.moving && !p.crouching, dt)

	speed := p.cfg.MoveSpeed
	switch {
	case p.crouching:
		speed = p.cfg.CrouchSpeed
	case p.sprinting:
		speed = p.cfg.SprintSpeed
	}

	if !p.moving {
		p.footstep.Reset()
		return
	}

	next := p.pos.Add(move.Scale(speed * dt))
	if p.space == nil || !p.space.RaycastBlocked(p.pos, next) {
		p.pos = next
	}
	target := YawOf(move)
	p.yaw = normalizeAngle(p.yaw + normalizeAngle(target-p.yaw)*math.Min(1, p.cfg.TurnRate*dt))

	if p.footstep.Advance(dt) {
		p.footstep.Reset()
		vol := p.cfg.FootstepVolume
		if p.crouching {
			vol = p.cfg.CrouchVolume
		}
		p.j.verbose("player", "footstep", fmt.Sprintf("vol %.1f", vol), vol)
	}
}

func (p *Player) updateStamina(wantSprint bool, dt float64) {
	switch {
	case !wantSprint:
		p.sprinting = false
	case !p.sprinting && p.stamina >= p.cfg.MinSprintStamina:
		p.sprinting = true
	}
	if p.sprinting {
		p.stamina -= p.cfg.StaminaDrain * dt
		if p.stamina <= 0 {
			p.stamina = 0
			p.sprinting = false
			p.j.add("player", "exhausted", "sprint stopped", 0)
		}
		return
	}
	p.stamina = math.Min(p.cfg.MaxStamina, p.stamina+p.cfg.StaminaRegen*dt)
}

// NoiseLevel returns the loudness of the leader's last footstep cadence:
// zero when standing still.
func (p *Player) NoiseLevel() float64 {
	if !p.moving {
		return 0
	}
	if p.crouching {
		return p.cfg.CrouchVolume
	}
	return p.cfg.FootstepVolume
}
