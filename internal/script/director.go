// Package script runs tengo stage scripts that react to recruitment and
// capture events and can reshape the stage while it runs.
package script

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/Garsondee/Chicken-King/internal/game"
)

//go:embed stage.tengo
var defaultStage []byte

// ErrNoHook is returned by Call when the script leaves a hook undefined.
var ErrNoHook = errors.New("script: hook not defined")

// hookTimeout bounds a single hook call so a looping script cannot stall
// the tick that raised the event.
const hookTimeout = 250 * time.Millisecond

// Hook names.
const (
	HookProgress = "progress"
	HookComplete = "complete"
	HookCapture  = "capture"
)

const hookPrelude = `
on_progress := undefined
on_complete := undefined
on_capture := undefined
`

const hookDispatch = `
if __hook == "progress" && is_callable(on_progress) {
	on_progress(__engine, __state, __event)
} else if __hook == "complete" && is_callable(on_complete) {
	on_complete(__engine, __state, __event)
} else if __hook == "capture" && is_callable(on_capture) {
	on_capture(__engine, __state, __event)
}
`

// Director drives a compiled stage script against a world.
type Director struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	defined  map[string]bool

	world  *game.World
	seen   int
	count  int
	banner string
}

// NewDirector compiles src. name is used in errors and log entries.
func NewDirector(src []byte, name string) (*Director, error) {
	full := hookPrelude + "\n" + string(src) + "\n" + hookDispatch
	s := tengo.NewScript([]byte(full))
	_ = s.Add("__hook", "")
	_ = s.Add("__engine", map[string]any{})
	_ = s.Add("__state", map[string]any{})
	_ = s.Add("__event", map[string]any{})
	s.SetImports(stdlib.GetModuleMap("fmt", "math", "text"))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	d := &Director{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		defined:  map[string]bool{},
	}
	// A dry run resolves which hooks the script assigned.
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("script: init %s: %w", name, err)
	}
	for hook, global := range map[string]string{
		HookProgress: "on_progress",
		HookComplete: "on_complete",
		HookCapture:  "on_capture",
	} {
		d.defined[hook] = !compiled.Get(global).IsUndefined()
	}
	return d, nil
}

// DefaultDirector returns the built-in farmyard director.
func DefaultDirector() *Director {
	d, err := NewDirector(defaultStage, "stage.tengo")
	if err != nil {
		panic(err)
	}
	return d
}

// LoadDirector compiles the script at path.
func LoadDirector(path string) (*Director, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}
	return NewDirector(src, path)
}

// Defines reports whether the script implements hook.
func (d *Director) Defines(hook string) bool { return d.defined[hook] }

// Banner is the last announcement, or "".
func (d *Director) Banner() string { return d.banner }

// Attach points the director at w and skips events already logged.
func (d *Director) Attach(w *game.World) {
	d.world = w
	d.seen = w.SimLog.Len()
	d.count = w.Player.Roster().Count()
	d.banner = ""
}

// Update feeds new log entries to the script. Call it between world steps.
func (d *Director) Update() error {
	if d.world == nil {
		return nil
	}
	sl := d.world.SimLog
	entries := sl.Since(d.seen)
	d.seen = sl.Len()
	for _, e := range entries {
		hook, ev := d.translate(e)
		if hook == "" {
			continue
		}
		if err := d.Call(hook, ev); err != nil && !errors.Is(err, ErrNoHook) {
			return err
		}
	}
	return nil
}

// translate maps a log entry to a hook call.
func (d *Director) translate(e game.SimLogEntry) (string, map[string]any) {
	goal := d.world.Tracker.Goal()
	switch {
	case e.Category == "roster" && (e.Key == "add" || e.Key == "remove"):
		count := int(e.NumVal)
		if count == d.count {
			return "", nil
		}
		d.count = count
		return HookProgress, map[string]any{"count": count, "goal": goal, "change": e.Key}
	case e.Category == "recruit" && e.Key == "complete":
		return HookComplete, map[string]any{"count": int(e.NumVal), "goal": goal}
	case e.Category == "hunter" && e.Key == "capture":
		return HookCapture, map[string]any{"hunter": e.Agent, "victim": victimLabel(e.Value), "tick": e.Tick}
	}
	return "", nil
}

// victimLabel takes the first word of a capture entry, which names the
// captured chicken.
func victimLabel(v string) string {
	if f := strings.Fields(v); len(f) > 0 {
		return f[0]
	}
	return ""
}

// Call runs hook with ev.
func (d *Director) Call(hook string, ev map[string]any) error {
	if !d.defined[hook] {
		return fmt.Errorf("%w: %s", ErrNoHook, hook)
	}
	c := d.compiled
	if err := c.Set("__hook", hook); err != nil {
		return err
	}
	if err := c.Set("__engine", d.engine()); err != nil {
		return err
	}
	if err := c.Set("__state", d.state); err != nil {
		return err
	}
	if err := c.Set("__event", ev); err != nil {
		return err
	}
	defer func() { _ = c.Set("__hook", "") }()
	// RunContext turns VM panics such as integer division by zero into errors.
	ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
	defer cancel()
	if err := c.RunContext(ctx); err != nil {
		return fmt.Errorf("script: %s %s: %w", d.name, hook, err)
	}
	return nil
}

// State returns a copy of the script's persistent state.
func (d *Director) State() map[string]any {
	out, _ := objectToAny(d.state).(map[string]any)
	return out
}

func (d *Director) tick() int {
	if d.world == nil {
		return 0
	}
	return d.world.Tick
}

func (d *Director) emit(key, value string) {
	if d.world == nil {
		return
	}
	d.world.SimLog.Add(d.world.Tick, "--", "--", "stage", key, value, 0)
}

func (d *Director) engine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["emit"] = &tengo.UserFunction{Name: "emit", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		key := strings.TrimSpace(objectAsString(args[0]))
		if key == "" {
			return tengo.FalseValue, nil
		}
		val := ""
		if len(args) > 1 {
			val = objectAsString(args[1])
		}
		d.emit(key, val)
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		msg := strings.Join(parts, " ")
		if d.world != nil {
			d.world.Thoughts.Add(d.tick(), "DIR", "stage", msg)
		}
		d.emit("log", msg)
		return tengo.UndefinedValue, nil
	}}

	values["announce"] = &tengo.UserFunction{Name: "announce", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		d.banner = objectAsString(args[0])
		d.emit("announce", d.banner)
		return tengo.TrueValue, nil
	}}

	values["spawn_hunter"] = &tengo.UserFunction{Name: "spawn_hunter", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if d.world == nil || len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, okX := toFloat(objectToAny(args[0]))
		z, okZ := toFloat(objectToAny(args[1]))
		if !okX || !okZ {
			return nil, tengo.ErrInvalidArgumentType{Name: "x/z", Expected: "number", Found: args[0].TypeName()}
		}
		yaw := 0.0
		if len(args) > 2 {
			yaw, _ = toFloat(objectToAny(args[2]))
		}
		var waypoints []game.Vec3
		if len(args) > 3 {
			pts, _ := objectToAny(args[3]).([]any)
			for _, p := range pts {
				pair, _ := p.([]any)
				if len(pair) < 2 {
					continue
				}
				px, ok1 := toFloat(pair[0])
				pz, ok2 := toFloat(pair[1])
				if ok1 && ok2 {
					waypoints = append(waypoints, game.V3(px, 0, pz))
				}
			}
		}
		spawn := d.world.AddHunter
		if len(args) > 4 {
			switch kind := strings.Trim(args[4].String(), "\""); kind {
			case "guard":
				spawn = d.world.AddGuard
			case "hunter":
			default:
				return nil, tengo.ErrInvalidArgumentType{Name: "kind", Expected: "hunter or guard", Found: kind}
			}
		}
		h := spawn(game.V3(x, 0, z), yaw, waypoints)
		return &tengo.String{Value: h.Label()}, nil
	}}

	values["leader_position"] = &tengo.UserFunction{Name: "leader_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		p := game.Vec3{}
		if d.world != nil {
			p = d.world.Player.Position()
		}
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: p.X}, &tengo.Float{Value: p.Z}}}, nil
	}}

	values["roster_count"] = &tengo.UserFunction{Name: "roster_count", Value: func(args ...tengo.Object) (tengo.Object, error) {
		n := 0
		if d.world != nil {
			n = d.world.Player.Roster().Count()
		}
		return &tengo.Int{Value: int64(n)}, nil
	}}

	values["hunter_count"] = &tengo.UserFunction{Name: "hunter_count", Value: func(args ...tengo.Object) (tengo.Object, error) {
		n := 0
		if d.world != nil {
			n = len(d.world.Hunters())
		}
		return &tengo.Int{Value: int64(n)}, nil
	}}

	values["tick"] = &tengo.UserFunction{Name: "tick", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(d.tick())}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.ImmutableArray:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
