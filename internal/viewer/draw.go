package viewer

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/Garsondee/Chicken-King/internal/game"
)

// fade scales a premultiplied colour by alpha.
func fade(c color.RGBA, alpha float64) color.RGBA {
	a := math.Max(0, math.Min(1, alpha))
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}

func chickenColor(s game.FollowerState) color.RGBA {
	switch s {
	case game.FollowerFollowing:
		return colornames.Gold
	case game.FollowerCaptured:
		return colornames.Lightgray
	default:
		return colornames.Wheat
	}
}

func hunterColor(s game.HunterState) color.RGBA {
	switch s {
	case game.HunterChase:
		return colornames.Firebrick
	case game.HunterCapturing:
		return colornames.Darkviolet
	case game.HunterCooldown:
		return colornames.Slategray
	case game.HunterVanishing:
		return colornames.Dimgray
	default:
		return colornames.Indianred
	}
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})
	g.drawWorld(screen)

	ox, oy := float32(g.cam.offX), float32(g.cam.offY)
	gw, gh := float32(g.cam.w), float32(g.cam.h)
	vector.StrokeRect(screen, ox-1, oy-1, gw+2, gh+2, 2.0, color.RGBA{R: 65, G: 90, B: 65, A: 255}, false)

	g.drawThoughtLog(screen, g.cam.offX+g.cam.w+borderWidth, screenH)
	g.drawHUD(screen)
}

func (g *Game) drawWorld(screen *ebiten.Image) {
	w := g.world
	c := g.cam

	// Clip to the viewport by drawing into a sub-image.
	view := screen.SubImage(viewRect(c)).(*ebiten.Image)
	view.Fill(colornames.Darkolivegreen)

	b := w.Config.Bounds
	x0, y0 := c.toScreen(game.Vec3{X: b.MinX, Z: b.MaxZ})
	x1, y1 := c.toScreen(game.Vec3{X: b.MaxX, Z: b.MinZ})
	vector.FillRect(view, x0, y0, x1-x0, y1-y0, colornames.Olivedrab, false)
	vector.StrokeRect(view, x0, y0, x1-x0, y1-y0, 2, colornames.Saddlebrown, false)

	for _, o := range w.Scene.Obstacles() {
		ax, ay := c.toScreen(game.Vec3{X: o.MinX, Z: o.MaxZ})
		bx, by := c.toScreen(game.Vec3{X: o.MaxX, Z: o.MinZ})
		vector.FillRect(view, ax+2, ay+2, bx-ax, by-ay, color.RGBA{R: 10, G: 8, B: 6, A: 90}, false)
		vector.FillRect(view, ax, ay, bx-ax, by-ay, colornames.Sienna, false)
		vector.StrokeRect(view, ax, ay, bx-ax, by-ay, 1, colornames.Saddlebrown, false)
	}

	p := w.Player
	if region, ok := p.FollowRegion(); ok && g.showHUD {
		g.drawRegion(view, region, p.Roster().Count())
	}

	for _, ch := range w.Chickens() {
		pos := ch.Position()
		sx, sy := c.toScreen(pos)
		col := fade(chickenColor(ch.State()), w.Scene.Alpha(ch.Handle()))
		vector.FillCircle(view, sx, sy, c.metres(0.4), col, true)
		if dest, ok := ch.Destination(); ok && ch.Following() && g.showHUD {
			dx, dy := c.toScreen(dest)
			vector.StrokeLine(view, sx, sy, dx, dy, 1, color.RGBA{R: 255, G: 215, B: 0, A: 60}, true)
		}
	}

	for _, h := range w.Hunters() {
		g.drawHunter(view, h)
	}

	px, py := c.toScreen(p.Position())
	col := colornames.Royalblue
	if p.Hiding() {
		col = colornames.Slategray
	}
	r := 0.5
	if p.Crouching() {
		r = 0.38
	}
	vector.FillCircle(view, px, py, c.metres(r), col, true)
	fx, fy := c.toScreen(p.Position().Add(p.Forward().Scale(0.9)))
	vector.StrokeLine(view, px, py, fx, fy, 2, colornames.White, true)
	if n := p.NoiseLevel(); n > 0 {
		vector.StrokeCircle(view, px, py, c.metres(1.5*n), 1, color.RGBA{R: 200, G: 200, B: 255, A: 50}, true)
	}
}

func (g *Game) drawRegion(dst *ebiten.Image, r game.Region, count int) {
	c := g.cam
	ax, ay := c.toScreen(r.Apex)
	bx, by := c.toScreen(r.BaseA)
	cx, cy := c.toScreen(r.BaseB)
	edge := color.RGBA{R: 240, G: 230, B: 140, A: 70}
	vector.StrokeLine(dst, ax, ay, bx, by, 1, edge, true)
	vector.StrokeLine(dst, bx, by, cx, cy, 1, edge, true)
	vector.StrokeLine(dst, cx, cy, ax, ay, 1, edge, true)

	params := g.world.Config.Follower.Formation
	for i := 0; i < count; i++ {
		sx, sy := c.toScreen(game.ComputeSlot(r, params, i, count))
		vector.StrokeCircle(dst, sx, sy, c.metres(0.15), 1, color.RGBA{R: 240, G: 230, B: 140, A: 110}, true)
	}
}

func (g *Game) drawHunter(dst *ebiten.Image, h *game.Hunter) {
	c := g.cam
	pos := h.Position()
	sx, sy := c.toScreen(pos)
	alpha := g.world.Scene.Alpha(h.Handle())

	if g.showCones || (!h.HasTarget() && alpha > 0) {
		view := h.Config().View
		yaw := game.YawOf(h.Forward())
		half := view.Angle * math.Pi / 360
		const steps = 24
		var path vector.Path
		path.MoveTo(sx, sy)
		for i := 0; i <= steps; i++ {
			a := yaw - half + 2*half*float64(i)/steps
			ex, ey := c.toScreen(pos.Add(game.Forward(a).Scale(view.Radius)))
			path.LineTo(ex, ey)
		}
		path.Close()
		opts := &vector.DrawPathOptions{AntiAlias: true}
		opts.ColorScale.ScaleWithColor(fade(color.RGBA{R: 255, G: 80, B: 60, A: 255}, 0.18*alpha))
		vector.FillPath(dst, &path, &vector.FillOptions{}, opts)
	}

	body := hunterColor(h.State())
	if h.Guard() {
		body = colornames.Darkorange
	}
	vector.FillCircle(dst, sx, sy, c.metres(0.5), fade(body, alpha), true)
	fx, fy := c.toScreen(pos.Add(h.Forward().Scale(1.0)))
	vector.StrokeLine(dst, sx, sy, fx, fy, 2, fade(colornames.Black, alpha), true)

	if h.HasTarget() && g.showCones {
		lx, ly := c.toScreen(h.LastKnown())
		vector.StrokeLine(dst, lx-3, ly-3, lx+3, ly+3, 1, colornames.Orangered, true)
		vector.StrokeLine(dst, lx-3, ly+3, lx+3, ly-3, 1, colornames.Orangered, true)
	}
	if h.State() == game.HunterChase {
		if t, ok := g.world.Target(h.Target()); ok {
			tx, ty := c.toScreen(t.Position())
			vector.StrokeLine(dst, sx, sy, tx, ty, 1, color.RGBA{R: 255, G: 40, B: 40, A: 90}, true)
		}
	}
	ebitenutil.DebugPrintAt(dst, h.Label(), int(sx)+8, int(sy)-8)
}

// hudLines is the status block in the top-left corner.
func hudLines(w *game.World, speed float64) []string {
	p := w.Player
	flags := ""
	if p.Sprinting() {
		flags += " SPRINT"
	}
	if p.Crouching() {
		flags += " CROUCH"
	}
	if p.Hiding() {
		flags += " HIDDEN"
	}
	lines := []string{
		w.Tracker.Progress(),
		fmt.Sprintf("Stamina: %3.0f/%.0f%s", p.Stamina(), p.Config().MaxStamina, flags),
		fmt.Sprintf("Hunters: %d  Spotted: %d", len(w.Hunters()), p.SpottedCount()),
		fmt.Sprintf("T=%d  speed %.1fx", w.Tick, speed),
	}
	if w.Tracker.Complete() {
		lines = append(lines, "GOAL REACHED")
	}
	return lines
}

var legend = []string{
	"WASD/arrows move   Shift sprint   C crouch",
	"Space/E recruit    H hide         V view cones",
	"P pause  , . speed  R restart  Y copy report  Tab HUD",
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	x, y := g.cam.offX+8, g.cam.offY+6
	vector.FillRect(screen, float32(x-4), float32(y-2), 300, 76, color.RGBA{R: 0, G: 0, B: 0, A: 140}, false)
	for i, l := range hudLines(g.world, g.simSpeed) {
		ebitenutil.DebugPrintAt(screen, l, x, y+i*logLineHeight)
	}

	p := g.world.Player
	frac := float32(p.Stamina() / math.Max(1, p.Config().MaxStamina))
	barCol := colornames.Limegreen
	if frac < 0.25 {
		barCol = colornames.Orangered
	}
	vector.FillRect(screen, float32(x+200), float32(y+logLineHeight+3), 80*frac, 6, barCol, false)
	vector.StrokeRect(screen, float32(x+200), float32(y+logLineHeight+3), 80, 6, 1, colornames.White, false)

	if g.director != nil && g.director.Banner() != "" {
		msg := g.director.Banner()
		bx := g.cam.offX + g.cam.w/2 - len(msg)*3
		ebitenutil.DebugPrintAt(screen, msg, bx, g.cam.offY+10)
	}
	if mx, my := ebiten.CursorPosition(); viewRectContains(g.cam, mx, my) {
		p := g.cam.toWorld(mx, my)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("(%.1f, %.1f)", p.X, p.Z), mx+12, my+12)
	}
	if g.status != "" && g.world.Tick < g.statusUntil {
		ebitenutil.DebugPrintAt(screen, g.status, x, g.cam.offY+g.cam.h-20)
	}
	if g.showHUD {
		ly := g.cam.offY + g.cam.h - 20 - len(legend)*logLineHeight
		for i, l := range legend {
			ebitenutil.DebugPrintAt(screen, l, g.cam.offX+g.cam.w-340, ly+i*logLineHeight)
		}
	}
}

// drawThoughtLog renders the event panel on the right side of the screen.
func (g *Game) drawThoughtLog(screen *ebiten.Image, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "FARMYARD LOG", panelX+8, 2)

	entries := g.world.Thoughts.Recent()
	maxVisible := (panelH - 24) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	const recent = 3
	y := 20
	for i, e := range entries {
		if i >= len(entries)-recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 30, G: 40, B: 30, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, kindColor(e.Kind), false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%5d [%s] %s", e.Tick, e.Label, e.Message), panelX+12, y)
		y += logLineHeight
	}
}

func kindColor(kind string) color.RGBA {
	switch kind {
	case "hunter":
		return colornames.Firebrick
	case "guard":
		return colornames.Darkorange
	case "chicken":
		return colornames.Gold
	case "leader":
		return colornames.Royalblue
	case "stage":
		return colornames.Khaki
	default:
		return colornames.Gray
	}
}
