package viewer

import (
	"math"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Chicken-King/internal/game"
	"github.com/Garsondee/Chicken-King/internal/script"
	"github.com/Garsondee/Chicken-King/internal/tuning"
)

// fakeKeys is a keyboard the test holds keys down on.
type fakeKeys map[ebiten.Key]bool

func (f fakeKeys) read(k ebiten.Key) bool { return f[k] }

func newTestGame(t *testing.T, withScript bool) (*Game, fakeKeys) {
	t.Helper()
	opts := Options{Tuning: tuning.Default(), Seed: 3}
	if withScript {
		opts.Script = func() (*script.Director, error) { return script.DefaultDirector(), nil }
	}
	g := New(opts)
	held := fakeKeys{}
	g.keys = newKeys(held.read)
	return g, held
}

func TestCamera_RoundTrip(t *testing.T) {
	c := camera{center: game.V3(5, 0, -3), scale: 10, w: 800, h: 600, offX: 16, offY: 16}
	sx, sy := c.toScreen(game.V3(7, 0, -1))
	if sx != 16+400+20 || sy != 16+300-20 {
		t.Fatalf("toScreen = (%v, %v)", sx, sy)
	}
	p := c.toWorld(int(sx), int(sy))
	if math.Abs(p.X-7) > 1e-9 || math.Abs(p.Z+1) > 1e-9 {
		t.Fatalf("toWorld = %v", p)
	}
	if c.metres(0.5) != 5 {
		t.Fatalf("metres(0.5) = %v", c.metres(0.5))
	}
}

func TestViewRectContains(t *testing.T) {
	c := camera{w: 100, h: 50, offX: 16, offY: 16}
	if !viewRectContains(c, 16, 16) || !viewRectContains(c, 115, 65) {
		t.Fatal("corners inside the viewport should hit")
	}
	if viewRectContains(c, 116, 20) || viewRectContains(c, 20, 10) {
		t.Fatal("points outside the viewport should miss")
	}
}

func TestCamera_FollowClampsToBounds(t *testing.T) {
	c := camera{scale: 10, w: 200, h: 100}
	bounds := game.Box{MinX: -50, MinZ: -50, MaxX: 50, MaxZ: 50}
	for i := 0; i < 200; i++ {
		c.follow(game.V3(60, 0, -60), bounds, 0.5)
	}
	if math.Abs(c.center.X-40) > 1e-6 || math.Abs(c.center.Z+45) > 1e-6 {
		t.Fatalf("camera should stop at the yard edge, got %v", c.center)
	}
}

func TestClampSpan_InvertedCentres(t *testing.T) {
	if v := clampSpan(9, 4, -2); v != 1 {
		t.Fatalf("inverted span should centre, got %v", v)
	}
	if v := clampSpan(9, -2, 4); v != 4 {
		t.Fatalf("expected clamp to 4, got %v", v)
	}
}

func TestLeaderInput_Mapping(t *testing.T) {
	held := fakeKeys{ebiten.KeyW: true, ebiten.KeyArrowRight: true, ebiten.KeyShiftLeft: true, ebiten.KeyE: true}
	k := newKeys(held.read)

	in := leaderInput(k)
	if in.Move != game.V3(1, 0, 1) {
		t.Fatalf("move = %v", in.Move)
	}
	if !in.Sprint || !in.Recruit || in.ToggleCrouch {
		t.Fatalf("unexpected flags %+v", in)
	}

	// Still held next frame: recruit is edge-triggered.
	k.next()
	if leaderInput(k).Recruit {
		t.Fatal("recruit should fire once per key press")
	}
	held[ebiten.KeyE] = false
	k.next()
	leaderInput(k)
	k.next()
	held[ebiten.KeySpace] = true
	if !leaderInput(k).Recruit {
		t.Fatal("space should recruit too")
	}
}

func TestLeaderInput_OpposingKeysCancel(t *testing.T) {
	held := fakeKeys{ebiten.KeyA: true, ebiten.KeyD: true}
	if in := leaderInput(newKeys(held.read)); !in.Move.IsZero() {
		t.Fatalf("left+right should cancel, got %v", in.Move)
	}
}

func TestHUDLines(t *testing.T) {
	g, _ := newTestGame(t, false)
	lines := hudLines(g.world, 2)
	if lines[0] != "Collected: 0/20" {
		t.Fatalf("first HUD line = %q", lines[0])
	}
	if !strings.Contains(lines[3], "speed 2.0x") {
		t.Fatalf("speed line = %q", lines[3])
	}
	g.world.Player.SetHiding(true)
	if !strings.Contains(hudLines(g.world, 1)[1], "HIDDEN") {
		t.Fatal("hiding should show on the stamina line")
	}
}

func TestUpdate_StepsAndPauses(t *testing.T) {
	g, held := newTestGame(t, true)
	for i := 0; i < 30; i++ {
		if err := g.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if g.world.Tick != 30 {
		t.Fatalf("expected 30 ticks, got %d", g.world.Tick)
	}

	held[ebiten.KeyP] = true
	_ = g.Update()
	held[ebiten.KeyP] = false
	paused := g.world.Tick
	for i := 0; i < 10; i++ {
		_ = g.Update()
	}
	if g.world.Tick != paused {
		t.Fatalf("paused world advanced from %d to %d", paused, g.world.Tick)
	}
}

func TestUpdate_SpeedAndRestart(t *testing.T) {
	g, held := newTestGame(t, false)
	held[ebiten.KeyPeriod] = true
	_ = g.Update()
	held[ebiten.KeyPeriod] = false
	if g.simSpeed != 2 {
		t.Fatalf("expected 2x, got %v", g.simSpeed)
	}
	_ = g.Update()
	if g.world.Tick != 4 {
		t.Fatalf("2x speed should run two ticks per frame, got %d", g.world.Tick)
	}

	held[ebiten.KeyComma] = true
	_ = g.Update()
	held[ebiten.KeyComma] = false
	if g.simSpeed != 1 {
		t.Fatalf("expected 1x, got %v", g.simSpeed)
	}

	held[ebiten.KeyR] = true
	_ = g.Update()
	if g.world.Tick != 1 {
		t.Fatalf("restart should rebuild the world, tick = %d", g.world.Tick)
	}
	if g.status != "stage restarted" {
		t.Fatalf("status = %q", g.status)
	}
}

func TestUpdate_MoveKeysDriveLeader(t *testing.T) {
	g, held := newTestGame(t, false)
	start := g.world.Player.Position()
	held[ebiten.KeyW] = true
	for i := 0; i < 60; i++ {
		_ = g.Update()
	}
	if d := g.world.Player.Position().Z - start.Z; d < 1 {
		t.Fatalf("leader should walk north, moved %.2f", d)
	}
}

func TestReportText(t *testing.T) {
	g, _ := newTestGame(t, false)
	for i := 0; i < game.TickRate; i++ {
		g.simTick(game.Input{})
	}
	text := g.reportText()
	if !strings.Contains(text, "T=60") {
		t.Fatalf("report should carry the latest snapshot, got:\n%s", text)
	}
}
