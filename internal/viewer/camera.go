package viewer

import (
	"image"

	"github.com/Garsondee/Chicken-King/internal/game"
)

// camera maps the ground plane onto the viewport: +X is right, +Z is up.
type camera struct {
	center game.Vec3
	scale  float64 // pixels per metre
	w, h   int     // viewport size
	offX   int
	offY   int
}

func (c camera) toScreen(p game.Vec3) (float32, float32) {
	x := float64(c.offX) + float64(c.w)/2 + (p.X-c.center.X)*c.scale
	y := float64(c.offY) + float64(c.h)/2 - (p.Z-c.center.Z)*c.scale
	return float32(x), float32(y)
}

func (c camera) toWorld(sx, sy int) game.Vec3 {
	return game.Vec3{
		X: c.center.X + (float64(sx-c.offX)-float64(c.w)/2)/c.scale,
		Z: c.center.Z - (float64(sy-c.offY)-float64(c.h)/2)/c.scale,
	}
}

func (c camera) metres(d float64) float32 { return float32(d * c.scale) }

// follow eases the camera toward p and keeps the view inside bounds.
func (c *camera) follow(p game.Vec3, bounds game.Box, rate float64) {
	c.center = c.center.Add(p.Sub(c.center).Flat().Scale(rate))
	halfW := float64(c.w) / 2 / c.scale
	halfH := float64(c.h) / 2 / c.scale
	c.center.X = clampSpan(c.center.X, bounds.MinX+halfW, bounds.MaxX-halfW)
	c.center.Z = clampSpan(c.center.Z, bounds.MinZ+halfH, bounds.MaxZ-halfH)
}

// clampSpan clamps v to [lo, hi], or centres it when the span is inverted.
func clampSpan(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return min(max(v, lo), hi)
}

func viewRect(c camera) image.Rectangle {
	return image.Rect(c.offX, c.offY, c.offX+c.w, c.offY+c.h)
}

func viewRectContains(c camera, x, y int) bool {
	return image.Pt(x, y).In(viewRect(c))
}
