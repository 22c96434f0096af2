package game

import "math"

// Box is an axis-aligned obstacle footprint on the ground plane.
type Box struct {
	MinX, MinZ float64
	MaxX, MaxZ float64
}

// Expand returns b grown by pad on every side.
func (b Box) Expand(pad float64) Box {
	return Box{b.MinX - pad, b.MinZ - pad, b.MaxX + pad, b.MaxZ + pad}
}

// Center returns the midpoint of the box at ground level.
func (b Box) Center() Vec3 {
	return Vec3{X: (b.MinX + b.MaxX) / 2, Z: (b.MinZ + b.MaxZ) / 2}
}

// ContainsPoint reports whether p's ground projection is inside b.
func (b Box) ContainsPoint(p Vec3) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Z >= b.MinZ && p.Z <= b.MaxZ
}

// ClearLine returns true if the ground-plane segment from a to b crosses
// none of the boxes.
func ClearLine(a, b Vec3, boxes []Box) bool {
	for _, bx := range boxes {
		if _, hit := segmentBoxHitT(a.X, a.Z, b.X, b.Z, bx); hit {
			return false
		}
	}
	return true
}

// segmentBoxHitT returns the first segment parameter t in [0,1] where the
// line from (ox,oz)->(ex,ez) enters the box. The bool is false when no hit exists.
func segmentBoxHitT(ox, oz, ex, ez float64, b Box) (float64, bool) {
	tMin, tMax, ok := slab(ox, ex-ox, b.MinX, b.MaxX, 0, 1)
	if !ok {
		return 0, false
	}
	tMin, tMax, ok = slab(oz, ez-oz, b.MinZ, b.MaxZ, tMin, tMax)
	if !ok {
		return 0, false
	}
	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	return math.Max(tMin, 0), true
}

// slab clips [tMin,tMax] against one axis of a box.
func slab(o, d, lo, hi, tMin, tMax float64) (float64, float64, bool) {
	if math.Abs(d) < 1e-12 {
		return tMin, tMax, o >= lo && o <= hi
	}
	inv := 1.0 / d
	t1 := (lo - o) * inv
	t2 := (hi - o) * inv
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	tMin = math.Max(tMin, t1)
	tMax = math.Min(tMax, t2)
	return tMin, tMax, tMin <= tMax
}
