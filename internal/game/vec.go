package game

import "math"

// Vec3 is a point or direction in world space. Y is up; the agents live on
// the X/Z ground plane.
type Vec3 struct {
	X, Y, Z float64
}

// V3 is shorthand for a Vec3 literal.
func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }
func (v Vec3) Dist(o Vec3) float64 { return v.Sub(o).Len() }
func (v Vec3) Flat() Vec3 { return Vec3{v.X, 0, v.Z} }
func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }
func (v Vec3) FlatDist(o Vec3) float64 { return v.Flat().Dist(o.Flat()) }

// Normalize returns the unit vector in the direction of v, or the zero
// vector when v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Forward returns the ground-plane unit vector for a yaw angle.
// Yaw 0 faces +Z; positive yaw turns toward +X.
func Forward(yaw float64) Vec3 {
	return Vec3{X: math.Sin(yaw), Z: math.Cos(yaw)}
}

// RightOf returns the ground-plane right-hand direction for a forward vector.
func RightOf(fwd Vec3) Vec3 {
	return Vec3{X: fwd.Z, Z: -fwd.X}.Normalize()
}

// YawOf returns the yaw angle of a ground-plane direction.
func YawOf(dir Vec3) float64 {
	return math.Atan2(dir.X, dir.Z)
}

// normalizeAngle wraps an angle to [-pi, pi].
func normalizeAngle(a float64) float64 {
	return math.Remainder(a, 2*math.Pi)
}

// angleBetween returns the unsigned angle in radians between two
// ground-plane directions.
func angleBetween(a, b Vec3) float64 {
	a, b = a.Flat().Normalize(), b.Flat().Normalize()
	if a.IsZero() || b.IsZero() {
		return math.Pi
	}
	d := a.Dot(b)
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return math.Acos(d)
}
