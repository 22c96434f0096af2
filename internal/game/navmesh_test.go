package game

import (
	"math"
	"testing"
)

func openGrid() *NavGrid {
	return NewNavGrid(Box{MinX: -20, MinZ: -20, MaxX: 20, MaxZ: 20}, 0.5, nil, 0)
}

func TestNavGrid_UnblockedByDefault(t *testing.T) {
	ng := openGrid()
	if ng.IsBlocked(0, 0) {
		t.Fatal("empty grid should have no blocked cells")
	}
	if ng.IsBlocked(ng.cols-1, ng.rows-1) {
		t.Fatal("corner cell should not be blocked")
	}
}

func TestNavGrid_ObstacleBlocksCells(t *testing.T) {
	ng := NewNavGrid(Box{MinX: 0, MinZ: 0, MaxX: 10, MaxZ: 10}, 0.5, []Box{{MinX: 2, MinZ: 2, MaxX: 4, MaxZ: 4}}, 0)
	if !ng.IsBlocked(4, 4) || !ng.IsBlocked(7, 7) {
		t.Fatal("cells inside the obstacle should be blocked")
	}
	if ng.IsBlocked(2, 2) {
		t.Fatal("cell outside the obstacle should be open")
	}
}

func TestNavGrid_ClearancePadsObstacle(t *testing.T) {
	ng := NewNavGrid(Box{MinX: 0, MinZ: 0, MaxX: 10, MaxZ: 10}, 0.5, []Box{{MinX: 2, MinZ: 2, MaxX: 4, MaxZ: 4}}, 0.4)
	// Padded start at x=1.6 → cell 3.
	if !ng.IsBlocked(3, 4) {
		t.Fatal("cell within clearance should be blocked")
	}
}

func TestNavGrid_OOB_IsBlocked(t *testing.T) {
	ng := openGrid()
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {ng.cols, 0}, {0, ng.rows}} {
		if !ng.IsBlocked(c[0], c[1]) {
			t.Fatalf("out-of-bounds cell %v should be blocked", c)
		}
	}
}

func TestNavGrid_CellRoundTrip(t *testing.T) {
	ng := openGrid()
	cx, cz := ng.WorldToCell(V3(-19.9, 0, 0.3))
	if cx != 0 || cz != 40 {
		t.Fatalf("expected (0,40) got (%d,%d)", cx, cz)
	}
	c := ng.CellToWorld(cx, cz)
	if !near(c, V3(-19.75, 0, 0.25), 1e-9) {
		t.Fatalf("cell centre = %v", c)
	}
}

func TestNavGrid_FindPath_Straight(t *testing.T) {
	ng := openGrid()
	path := ng.FindPath(V3(-10, 0, 0), V3(10, 0, 0))
	if len(path) != 1 {
		t.Fatalf("open line should be a single leg, got %d waypoints", len(path))
	}
	if !near(path[0], V3(10, 0, 0), 1e-9) {
		t.Fatalf("path should end at the goal, got %v", path[0])
	}
}

func TestNavGrid_FindPath_AroundWall(t *testing.T) {
	wall := Box{MinX: -1, MinZ: -10, MaxX: 1, MaxZ: 10}
	ng := NewNavGrid(Box{MinX: -20, MinZ: -20, MaxX: 20, MaxZ: 20}, 0.5, []Box{wall}, 0.3)
	from, to := V3(-5, 0, 0), V3(5, 0, 0)
	path := ng.FindPath(from, to)
	if len(path) < 2 {
		t.Fatalf("expected a detour, got %v", path)
	}
	prev := from
	for _, w := range path {
		if !ClearLine(prev, w, []Box{wall}) {
			t.Fatalf("leg %v → %v crosses the wall", prev, w)
		}
		prev = w
	}
	if !near(path[len(path)-1], to, 1e-9) {
		t.Fatalf("path should end at the goal, got %v", path[len(path)-1])
	}
}

func TestNavGrid_FindPath_GoalInsideObstacle(t *testing.T) {
	wall := Box{MinX: 4, MinZ: -1, MaxX: 6, MaxZ: 1}
	ng := NewNavGrid(Box{MinX: -20, MinZ: -20, MaxX: 20, MaxZ: 20}, 0.5, []Box{wall}, 0)
	path := ng.FindPath(V3(0, 0, 0), V3(5, 0, 0))
	if path == nil {
		t.Fatal("goal inside a wall should resolve to the nearest open cell")
	}
	last := path[len(path)-1]
	if wall.ContainsPoint(last) {
		t.Fatalf("path ends inside the wall at %v", last)
	}
	if math.Abs(last.X-5) > 2 {
		t.Fatalf("path should end near the requested goal, got %v", last)
	}
}

func TestNavGrid_FindPath_Enclosed(t *testing.T) {
	walls := []Box{
		{MinX: 3, MinZ: -3, MaxX: 10, MaxZ: -2},
		{MinX: 3, MinZ: 2, MaxX: 10, MaxZ: 3},
		{MinX: 3, MinZ: -3, MaxX: 4, MaxZ: 3},
		{MinX: 9, MinZ: -3, MaxX: 10, MaxZ: 3},
	}
	ng := NewNavGrid(Box{MinX: -20, MinZ: -20, MaxX: 20, MaxZ: 20}, 0.5, walls, 0)
	if path := ng.FindPath(V3(-5, 0, 0), V3(6.5, 0, 0)); path != nil {
		t.Fatalf("sealed room should be unreachable, got %v", path)
	}
}
