package game

import "math"

// ViewCone is a hunter's forward-facing detection volume on the ground
// plane. It is only used before the first target is acquired.
type ViewCone struct {
	Radius float64 // metres
	Angle  float64 // degrees, total arc width
}

// Contains reports whether p lies within the cone of an observer at eye
// facing fwd. A point exactly on the cone edge is outside.
func (v ViewCone) Contains(eye, fwd, p Vec3) bool {
	d := p.Flat().Sub(eye.Flat())
	dist := d.Len()
	if dist > v.Radius {
		return false
	}
	if dist < 1e-6 {
		return true
	}
	half := v.Angle * math.Pi / 360.0
	return angleBetween(fwd, d) < half
}

// TurnToward rotates heading toward target by at most rate radians.
func TurnToward(heading, target, rate float64) float64 {
	diff := normalizeAngle(target - heading)
	if math.Abs(diff) <= rate {
		return target
	}
	if diff > 0 {
		return normalizeAngle(heading + rate)
	}
	return normalizeAngle(heading - rate)
}
