package game

import (
	"math"
	"math/rand"
	"testing"
)

func TestComputeSlot_FirstSlotCentredBehindApex(t *testing.T) {
	r := Region{Apex: V3(0, 0, 0), BaseA: V3(-1, 0, -5), BaseB: V3(1, 0, -5)}
	p := DefaultFormationParams()
	got := ComputeSlot(r, p, 0, 1)
	if math.Abs(got.X) > 1e-9 {
		t.Fatalf("slot 0 should be centred, got x=%.4f", got.X)
	}
	if math.Abs(got.Z-(-p.BaseDistance)) > 1e-9 {
		t.Fatalf("slot 0 should sit %.1f behind the apex, got z=%.4f", p.BaseDistance, got.Z)
	}
	if got.Y != 0 {
		t.Fatalf("slot should be on the apex plane, got y=%.4f", got.Y)
	}
}

func TestComputeSlot_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7)) // #nosec G404 -- test
	p := DefaultFormationParams()
	for i := 0; i < 200; i++ {
		apex := V3(rng.Float64()*40-20, rng.Float64()*3, rng.Float64()*40-20)
		r := NewRegion(apex, Forward(rng.Float64()*2*math.Pi), 1+rng.Float64()*10, rng.Float64()*12)
		total := 1 + rng.Intn(60)
		idx := rng.Intn(total)
		a := ComputeSlot(r, p, idx, total)
		b := ComputeSlot(r, p, idx, total)
		if a != b {
			t.Fatalf("slot %d/%d differs between calls: %v vs %v", idx, total, a, b)
		}
		if a.Y != apex.Y {
			t.Fatalf("slot y=%.3f should match apex y=%.3f", a.Y, apex.Y)
		}
	}
}

func TestRowCapacity_Formula(t *testing.T) {
	cases := []struct {
		width float64
		row   int
		want  int
	}{
		{10, 0, 4},  // floor(3.0/0.8)+1
		{10, 1, 5},  // floor(3.7/0.8)+1
		{10, 10, 13}, // full width
		{10, 25, 13}, // clamped at full width
		{0, 0, 1},
		{0.5, 3, 1},
	}
	for _, c := range cases {
		if got := RowCapacity(c.width, 0.8, c.row); got != c.want {
			t.Fatalf("RowCapacity(%.1f, row %d) = %d, want %d", c.width, c.row, got, c.want)
		}
	}
}

func TestRowCapacity_AtLeastOne(t *testing.T) {
	for _, w := range []float64{0, 0.01, 1, 3.3, 50} {
		for _, cs := range []float64{-1, 0, 0.2, 0.8, 100} {
			for row := 0; row < 30; row++ {
				if RowCapacity(w, cs, row) < 1 {
					t.Fatalf("RowCapacity(%.2f, %.2f, %d) < 1", w, cs, row)
				}
			}
		}
	}
}

func TestSlotCell_RowMajorPacking(t *testing.T) {
	// width 10, spacing 0.8: row 0 holds 4, row 1 holds 5.
	cases := []struct{ idx, row, col int }{
		{0, 0, 0}, {3, 0, 3}, {4, 1, 0}, {8, 1, 4}, {9, 2, 0},
	}
	for _, c := range cases {
		row, col, _ := SlotCell(10, 0.8, c.idx)
		if row != c.row || col != c.col {
			t.Fatalf("index %d: got row %d col %d, want row %d col %d", c.idx, row, col, c.row, c.col)
		}
	}
}

func TestSlotCell_NegativeIndexClamped(t *testing.T) {
	row, col, _ := SlotCell(10, 0.8, -3)
	if row != 0 || col != 0 {
		t.Fatalf("negative index should map to row 0 col 0, got %d,%d", row, col)
	}
}

func TestComputeSlot_RowIsCentred(t *testing.T) {
	r := NewRegion(V3(0, 0, 0), Forward(0), 8, 10)
	p := DefaultFormationParams()
	sum := 0.0
	for i := 0; i < 4; i++ {
		sum += ComputeSlot(r, p, i, 4).X
	}
	if math.Abs(sum) > 1e-9 {
		t.Fatalf("row 0 offsets should cancel out, sum=%.4f", sum)
	}
	first := ComputeSlot(r, p, 0, 4)
	if math.Abs(first.X-(-1.2)) > 1e-9 {
		t.Fatalf("first column of a 4-wide row should be 1.5 spacings left, got x=%.3f", first.X)
	}
}

func TestComputeSlot_RowsStepBack(t *testing.T) {
	r := NewRegion(V3(0, 0, 0), Forward(0), 8, 10)
	p := DefaultFormationParams()
	row0 := ComputeSlot(r, p, 0, 10)
	row1 := ComputeSlot(r, p, 4, 10)
	if math.Abs((row0.Z-row1.Z)-p.RowSpacing) > 1e-9 {
		t.Fatalf("row 1 should be one row spacing behind row 0: %.3f vs %.3f", row0.Z, row1.Z)
	}
}

func TestComputeSlot_DistinctSlots(t *testing.T) {
	r := NewRegion(V3(5, 0, 5), Forward(1.2), 8, 10)
	p := DefaultFormationParams()
	seen := map[[2]int64]int{}
	for i := 0; i < DefaultMaxFollowers; i++ {
		s := ComputeSlot(r, p, i, DefaultMaxFollowers)
		k := [2]int64{int64(math.Round(s.X * 1000)), int64(math.Round(s.Z * 1000))}
		if prev, ok := seen[k]; ok {
			t.Fatalf("slots %d and %d coincide at %v", prev, i, s)
		}
		seen[k] = i
	}
}

func TestNewRegion_Axes(t *testing.T) {
	r := NewRegion(V3(0, 0, 0), Forward(0), 8, 10)
	if !near(r.BaseA, V3(5, 0, -8), 1e-9) || !near(r.BaseB, V3(-5, 0, -8), 1e-9) {
		t.Fatalf("unexpected corners %v %v", r.BaseA, r.BaseB)
	}
	if !near(r.BackwardAxis(), V3(0, 0, -1), 1e-9) {
		t.Fatalf("backward axis = %v", r.BackwardAxis())
	}
	if !near(r.RightAxis(), V3(1, 0, 0), 1e-9) {
		t.Fatalf("right axis = %v", r.RightAxis())
	}
	if math.Abs(r.BaseWidth()-10) > 1e-9 {
		t.Fatalf("base width = %.3f", r.BaseWidth())
	}
}

func TestSyntheticIndex(t *testing.T) {
	if got := SyntheticIndex(1234); got != 34 {
		t.Fatalf("SyntheticIndex(1234) = %d", got)
	}
	if SyntheticIndex(7) == SyntheticIndex(8) {
		t.Fatal("neighbouring handles should not share a synthetic slot")
	}
}

func TestFallbackSlot_BehindLeader(t *testing.T) {
	got := FallbackSlot(V3(3, 0, 3), Forward(0), 2)
	if !near(got, V3(3, 0, 1), 1e-9) {
		t.Fatalf("fallback slot = %v", got)
	}
}
