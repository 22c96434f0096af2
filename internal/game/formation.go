package game

import "math"

// Region is the triangular catchment area behind a leader. Apex is the
// leader's position; BaseA and BaseB are the two far corners. The right
// axis runs from BaseB toward BaseA.
type Region struct {
	Apex  Vec3
	BaseA Vec3
	BaseB Vec3
}

// NewRegion builds the follow triangle for a leader at pos facing fwd.
// length is the apex-to-base distance and width the base edge length.
func NewRegion(pos, fwd Vec3, length, width float64) Region {
	fwd = fwd.Flat().Normalize()
	if fwd.IsZero() {
		fwd = Forward(0)
	}
	right := RightOf(fwd)
	base := pos.Sub(fwd.Scale(length))
	half := right.Scale(width / 2)
	return Region{
		Apex:  pos,
		BaseA: base.Add(half),
		BaseB: base.Sub(half),
	}
}

// BackwardAxis is the unit vector from the apex toward the base midpoint.
func (r Region) BackwardAxis() Vec3 {
	mid := r.BaseA.Add(r.BaseB).Scale(0.5)
	return mid.Sub(r.Apex).Normalize()
}

// RightAxis is the unit vector along the base edge.
func (r Region) RightAxis() Vec3 {
	return r.BaseA.Sub(r.BaseB).Normalize()
}

// BaseWidth is the length of the base edge.
func (r Region) BaseWidth() float64 {
	return r.BaseA.Dist(r.BaseB)
}

// FormationParams are the fixed spacings used to pack followers into rows.
type FormationParams struct {
	RowSpacing    float64 // distance between consecutive rows
	ColumnSpacing float64 // distance between neighbours in a row
	BaseDistance  float64 // gap between the apex and row 0
}

// DefaultFormationParams returns the stock spacings.
func DefaultFormationParams() FormationParams {
	return FormationParams{
		RowSpacing:    1.0,
		ColumnSpacing: 0.8,
		BaseDistance:  2.0,
	}
}

// rowWidthFraction is the share of the base width row r may use.
// Rows widen linearly from 30% at the apex to the full width at row 10.
func rowWidthFraction(row int) float64 {
	return math.Min(0.3+0.7*(float64(row)/10), 1.0)
}

// RowCapacity returns how many followers fit in row r of a region with the
// given base width. It is always at least 1.
func RowCapacity(baseWidth, columnSpacing float64, row int) int {
	if columnSpacing <= 0 || baseWidth <= 0 || math.IsNaN(baseWidth) {
		return 1
	}
	n := int(math.Floor(baseWidth*rowWidthFraction(row)/columnSpacing)) + 1
	if n < 1 {
		return 1
	}
	return n
}

// SlotCell locates index in the row-major packing: the row, the column in
// that row, and the row's capacity.
func SlotCell(baseWidth, columnSpacing float64, index int) (row, col, rowCap int) {
	if index < 0 {
		index = 0
	}
	before := 0
	for {
		rowCap = RowCapacity(baseWidth, columnSpacing, row)
		if index < before+rowCap {
			break
		}
		before += rowCap
		row++
	}
	col = index - before
	if col < 0 {
		col = 0
	}
	if col > rowCap-1 {
		col = rowCap - 1
	}
	return row, col, rowCap
}

// ComputeSlot maps a follower's roster index onto a world position inside
// the region. The result depends only on its inputs. totalCount is accepted
// for callers that track it but does not change the packing.
func ComputeSlot(r Region, p FormationParams, index, totalCount int) Vec3 {
	width := r.BaseWidth()
	row, col, rowCap := SlotCell(width, p.ColumnSpacing, index)

	anchor := r.Apex.Add(r.BackwardAxis().Scale(p.BaseDistance + p.RowSpacing*float64(row)))
	offset := (float64(col) - float64(rowCap-1)/2) * p.ColumnSpacing
	pos := anchor.Add(r.RightAxis().Scale(offset))
	pos.Y = r.Apex.Y
	return pos
}

// SyntheticIndex is the stand-in slot index for a follower that has no
// roster entry. Distinct handles spread over 100 slots.
func SyntheticIndex(h Handle) int {
	return int(h % 100)
}

// FallbackSlot is the point directly behind a leader used when no region is
// available.
func FallbackSlot(leaderPos, leaderFwd Vec3, distance float64) Vec3 {
	return leaderPos.Sub(leaderFwd.Flat().Normalize().Scale(distance))
}
