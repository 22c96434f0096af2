// Package viewer is the interactive Ebiten front end: it drives the leader
// from the keyboard, renders the farmyard top-down and hot-reloads tuning.
package viewer

import (
	"fmt"
	"log"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Chicken-King/internal/game"
	"github.com/Garsondee/Chicken-King/internal/record"
	"github.com/Garsondee/Chicken-King/internal/script"
	"github.com/Garsondee/Chicken-King/internal/tuning"
)

const (
	screenW       = 1600
	screenH       = 900
	borderWidth   = 16
	logPanelWidth = 440
	logLineHeight = 14
	pixelsPerM    = 9.0
)

// Options configures a viewer session.
type Options struct {
	Tuning  tuning.Tuning
	Watcher *tuning.Watcher // optional hot reload source
	Script  func() (*script.Director, error)
	Seed    int64
	Record  *record.Writer // optional
}

// Game implements ebiten.Game.
type Game struct {
	opts Options

	world    *game.World
	sl       *game.SimLog
	director *script.Director
	reporter *game.SimReporter

	keys      *keys
	cam       camera
	simSpeed  float64
	tickAccum float64
	showHUD   bool
	showCones bool

	status      string
	statusUntil int
}

// New builds a viewer and starts the first stage.
func New(opts Options) *Game {
	g := &Game{
		opts:     opts,
		keys:     newKeys(ebiten.IsKeyPressed),
		simSpeed: 1,
		showHUD:  true,
		cam: camera{
			scale: pixelsPerM,
			w:     screenW - logPanelWidth - 2*borderWidth,
			h:     screenH - 2*borderWidth,
			offX:  borderWidth,
			offY:  borderWidth,
		},
	}
	g.restart()
	return g
}

// World exposes the running world.
func (g *Game) World() *game.World { return g.world }

// restart rebuilds the stage from the current tuning.
func (g *Game) restart() {
	g.sl = game.NewSimLog(false)
	g.world = g.opts.Tuning.Build(g.opts.Seed, g.sl)
	g.reporter = game.NewSimReporter(0)
	g.cam.center = g.world.Player.Position()
	g.tickAccum = 0
	g.director = nil
	if g.opts.Script != nil {
		d, err := g.opts.Script()
		if err != nil {
			g.flash(fmt.Sprintf("script: %v", err))
			log.Printf("viewer: %v", err)
		} else {
			d.Attach(g.world)
			g.director = d
		}
	}
}

// flash shows a status message for a few seconds.
func (g *Game) flash(msg string) {
	g.status = msg
	g.statusUntil = g.world.Tick + 4*game.TickRate
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	g.pollTuning()
	in := g.handleInput()

	if g.simSpeed <= 0 {
		return nil
	}
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.simTick(in)
		// Edge-triggered actions apply to the first tick only.
		in.ToggleCrouch, in.Recruit = false, false
	}
	g.cam.follow(g.world.Player.Position(), g.world.Config.Bounds, 0.12)
	return nil
}

// simTick advances the world one fixed step and lets the director react.
func (g *Game) simTick(in game.Input) {
	g.world.Step(in, 1.0/game.TickRate)
	if g.director != nil {
		if err := g.director.Update(); err != nil {
			g.flash(err.Error())
			log.Printf("viewer: %v", err)
			g.director = nil
		}
	}
	if g.world.Tick%game.TickRate == 0 {
		g.reporter.Collect(g.world)
	}
	if g.opts.Record != nil {
		if err := g.opts.Record.Follow(g.sl); err != nil {
			log.Printf("viewer: record: %v", err)
			g.opts.Record = nil
		}
	}
}

func (g *Game) pollTuning() {
	if g.opts.Watcher == nil {
		return
	}
	t, ok, err := g.opts.Watcher.Poll()
	if err != nil {
		g.flash(fmt.Sprintf("tuning: %v", err))
		return
	}
	if !ok {
		return
	}
	g.opts.Tuning = t
	g.restart()
	g.flash("tuning reloaded")
}

// handleInput processes viewer keys and returns the leader's input.
func (g *Game) handleInput() game.Input {
	k := g.keys
	defer k.next()

	in := leaderInput(k)

	if k.pressed(ebiten.KeyH) {
		g.world.Player.SetHiding(!g.world.Player.Hiding())
	}
	if k.pressed(ebiten.KeyTab) {
		g.showHUD = !g.showHUD
	}
	if k.pressed(ebiten.KeyV) {
		g.showCones = !g.showCones
	}
	if k.pressed(ebiten.KeyR) {
		g.restart()
		g.flash("stage restarted")
	}
	if k.pressed(ebiten.KeyY) {
		g.copyReport()
	}

	speeds := []float64{0, 0.5, 1, 2, 4}
	if k.pressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if k.pressed(ebiten.KeyComma) {
		for i, s := range speeds {
			if s >= g.simSpeed && i > 0 {
				g.simSpeed = speeds[i-1]
				break
			}
		}
	}
	if k.pressed(ebiten.KeyPeriod) {
		for _, s := range speeds {
			if s > g.simSpeed {
				g.simSpeed = s
				break
			}
		}
	}
	return in
}

// reportText is what the copy key puts on the clipboard.
func (g *Game) reportText() string {
	return g.reporter.FormatLatest() + "\n" + game.BuildReport(g.sl).String()
}

func (g *Game) copyReport() {
	if err := clipboard.WriteAll(g.reportText()); err != nil {
		g.flash(fmt.Sprintf("clipboard: %v", err))
		return
	}
	g.flash("report copied")
}

// Layout implements ebiten.Game.
func (g *Game) Layout(_, _ int) (int, int) {
	return screenW, screenH
}

// Run opens the window and blocks until it closes.
func Run(opts Options) error {
	ebiten.SetWindowTitle("Chicken King")
	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetTPS(game.TickRate)
	return ebiten.RunGame(New(opts))
}
