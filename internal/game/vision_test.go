package game

import (
	"math"
	"testing"
)

func TestViewCone_DirectlyAhead(t *testing.T) {
	v := ViewCone{Radius: 10, Angle: 90}
	if !v.Contains(V3(0, 1.6, 0), Forward(0), V3(0, 0, 5)) {
		t.Fatal("target directly in front should be in cone")
	}
}

func TestViewCone_BehindObserver(t *testing.T) {
	v := ViewCone{Radius: 10, Angle: 90}
	if v.Contains(V3(0, 0, 0), Forward(0), V3(0, 0, -5)) {
		t.Fatal("target directly behind should not be in cone")
	}
}

func TestViewCone_EdgeOfArc(t *testing.T) {
	v := ViewCone{Radius: 10, Angle: 90}
	half := math.Pi / 4
	in := Forward(half - 0.001).Scale(5)
	out := Forward(half + 0.001).Scale(5)
	if !v.Contains(Vec3{}, Forward(0), in) {
		t.Fatal("target just inside the arc should be in cone")
	}
	if v.Contains(Vec3{}, Forward(0), out) {
		t.Fatal("target just outside the arc should not be in cone")
	}
}

func TestViewCone_Range(t *testing.T) {
	v := ViewCone{Radius: 10, Angle: 90}
	if !v.Contains(Vec3{}, Forward(0), V3(0, 0, 10)) {
		t.Fatal("target at exactly the radius should be in cone")
	}
	if v.Contains(Vec3{}, Forward(0), V3(0, 0, 10.01)) {
		t.Fatal("target beyond radius should not be in cone")
	}
}

func TestViewCone_HeightIgnored(t *testing.T) {
	v := ViewCone{Radius: 10, Angle: 90}
	if !v.Contains(V3(0, 1.6, 0), Forward(0), V3(0, 8, 9)) {
		t.Fatal("vertical offset should not affect the cone test")
	}
}

func TestTurnToward_SmallDiffSnaps(t *testing.T) {
	if h := TurnToward(0, 0.05, 0.12); h != 0.05 {
		t.Fatalf("expected heading to snap to 0.05, got %.4f", h)
	}
}

func TestTurnToward_StepsByRate(t *testing.T) {
	if h := TurnToward(0, 2, 0.12); math.Abs(h-0.12) > 1e-9 {
		t.Fatalf("expected 0.12, got %.4f", h)
	}
	if h := TurnToward(0, -2, 0.12); math.Abs(h+0.12) > 1e-9 {
		t.Fatalf("expected -0.12, got %.4f", h)
	}
}

func TestTurnToward_WrapsShortWay(t *testing.T) {
	h := TurnToward(3, -3, 0.1)
	if h < 3 {
		t.Fatalf("should turn through π rather than back through 0, got %.4f", h)
	}
}

func TestNormalizeAngle(t *testing.T) {
	for _, huge := range []float64{1e300, -1e300, math.MaxFloat64} {
		if a := normalizeAngle(huge); math.IsNaN(a) || math.Abs(a) > math.Pi {
			t.Fatalf("normalizeAngle(%g) = %g, want a value in [-π, π]", huge, a)
		}
	}
	if a := normalizeAngle(3 * math.Pi); math.Abs(math.Abs(a)-math.Pi) > 1e-9 {
		t.Fatalf("3π should normalize to ±π, got %.4f", a)
	}
	if a := normalizeAngle(-3 * math.Pi); math.Abs(math.Abs(a)-math.Pi) > 1e-9 {
		t.Fatalf("-3π should normalize to ±π, got %.4f", a)
	}
	if normalizeAngle(0) != 0 {
		t.Fatal("0 should normalize to 0")
	}
}

func TestYawOf_MatchesForward(t *testing.T) {
	for _, yaw := range []float64{0, 0.5, math.Pi / 2, -2} {
		if got := YawOf(Forward(yaw)); math.Abs(got-yaw) > 1e-9 {
			t.Fatalf("YawOf(Forward(%v)) = %v", yaw, got)
		}
	}
	if r := RightOf(Forward(0)); !near(r, V3(1, 0, 0), 1e-9) {
		t.Fatalf("right of +Z should be +X, got %v", r)
	}
}
