package game

import (
	"container/heap"
	"math"
)

// DefaultCellSize is the nav grid resolution in metres.
const DefaultCellSize = 0.5

// NavGrid is a ground-plane walkability grid where true = blocked.
type NavGrid struct {
	origin    Vec3
	cell      float64
	cols      int
	rows      int
	blocked   []bool
	obstacles []Box // expanded by clearance, used for path smoothing
}

// NewNavGrid builds a walkability grid covering bounds. Each cell that
// overlaps an obstacle (padded by clearance) is blocked.
func NewNavGrid(bounds Box, cell float64, obstacles []Box, clearance float64) *NavGrid {
	if cell <= 0 {
		cell = DefaultCellSize
	}
	cols := int(math.Ceil((bounds.MaxX - bounds.MinX) / cell))
	rows := int(math.Ceil((bounds.MaxZ - bounds.MinZ) / cell))
	cols, rows = max(cols, 1), max(rows, 1)
	ng := &NavGrid{
		origin:  Vec3{X: bounds.MinX, Z: bounds.MinZ},
		cell:    cell,
		cols:    cols,
		rows:    rows,
		blocked: make([]bool, cols*rows),
	}

	for _, o := range obstacles {
		b := o.Expand(clearance)
		ng.obstacles = append(ng.obstacles, b)

		c0x, c0z := ng.WorldToCell(Vec3{X: b.MinX, Z: b.MinZ})
		c1x, c1z := ng.WorldToCell(Vec3{X: b.MaxX, Z: b.MaxZ})
		c0x, c0z = max(0, c0x), max(0, c0z)
		c1x, c1z = min(cols-1, c1x), min(rows-1, c1z)
		for cz := c0z; cz <= c1z; cz++ {
			for cx := c0x; cx <= c1x; cx++ {
				ng.blocked[cz*cols+cx] = true
			}
		}
	}
	return ng
}

// IsBlocked returns true if the cell at (cx, cz) is not walkable.
func (ng *NavGrid) IsBlocked(cx, cz int) bool {
	if cx < 0 || cz < 0 || cx >= ng.cols || cz >= ng.rows {
		return true
	}
	return ng.blocked[cz*ng.cols+cx]
}

// WorldToCell converts a world position to grid cell coordinates.
func (ng *NavGrid) WorldToCell(p Vec3) (int, int) {
	return int(math.Floor((p.X - ng.origin.X) / ng.cell)), int(math.Floor((p.Z - ng.origin.Z) / ng.cell))
}

// CellToWorld converts grid cell coordinates to the world-space cell centre.
func (ng *NavGrid) CellToWorld(cx, cz int) Vec3 {
	return Vec3{
		X: ng.origin.X + (float64(cx)+0.5)*ng.cell,
		Z: ng.origin.Z + (float64(cz)+0.5)*ng.cell,
	}
}

// Walkable reports whether p lies on an open cell.
func (ng *NavGrid) Walkable(p Vec3) bool {
	cx, cz := ng.WorldToCell(p)
	return !ng.IsBlocked(cx, cz)
}

// nearestOpen finds the closest open cell to (cx, cz) within a few rings.
func (ng *NavGrid) nearestOpen(cx, cz int) (int, int, bool) {
	if !ng.IsBlocked(cx, cz) {
		return cx, cz, true
	}
	for r := 1; r <= 8; r++ {
		bestD := math.MaxFloat64
		bx, bz, found := 0, 0, false
		for dz := -r; dz <= r; dz++ {
			for dx := -r; dx <= r; dx++ {
				if max(absInt(dx), absInt(dz)) != r || ng.IsBlocked(cx+dx, cz+dz) {
					continue
				}
				if d := math.Hypot(float64(dx), float64(dz)); d < bestD {
					bestD, bx, bz, found = d, cx+dx, cz+dz, true
				}
			}
		}
		if found {
			return bx, bz, true
		}
	}
	return 0, 0, false
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// --- A* pathfinding ---

type pathNode struct {
	cx, cz int
	g, h   float64
	parent *pathNode
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int           { return len(ol) }
func (ol openList) Less(i, j int) bool { return (ol[i].g + ol[i].h) < (ol[j].g + ol[j].h) }
func (ol openList) Swap(i, j int) {
	ol[i], ol[j] = ol[j], ol[i]
	ol[i].index = i
	ol[j].index = j
}
func (ol *openList) Push(x interface{}) {
	n := x.(*pathNode)
	n.index = len(*ol)
	*ol = append(*ol, n)
}
func (ol *openList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

var dirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// FindPath returns ground-plane waypoints from `from` to `to`, ending at
// `to` itself when its cell is open. A goal inside an obstacle is moved to
// the nearest open cell. Returns nil if no path exists.
func (ng *NavGrid) FindPath(from, to Vec3) []Vec3 {
	scx, scz := ng.WorldToCell(from)
	gcx, gcz := ng.WorldToCell(to)
	scx, scz, ok := ng.nearestOpen(scx, scz)
	if !ok {
		return nil
	}
	goalOpen := !ng.IsBlocked(gcx, gcz)
	if goalOpen && ClearLine(from, to, ng.obstacles) {
		return []Vec3{to.Flat()}
	}
	if gcx, gcz, ok = ng.nearestOpen(gcx, gcz); !ok {
		return nil
	}

	key := func(cx, cz int) int { return cz*ng.cols + cx }
	heuristic := func(ax, az, bx, bz int) float64 {
		dx := math.Abs(float64(ax - bx))
		dz := math.Abs(float64(az - bz))
		return dx + dz + (math.Sqrt2-2)*math.Min(dx, dz)
	}

	start := &pathNode{cx: scx, cz: scz, h: heuristic(scx, scz, gcx, gcz)}
	ol := &openList{start}
	heap.Init(ol)

	closed := make(map[int]bool)
	best := map[int]*pathNode{key(scx, scz): start}

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.cx == gcx && cur.cz == gcz {
			path := ng.buildPath(cur)
			if goalOpen {
				path[len(path)-1] = to.Flat()
			}
			return ng.smooth(from.Flat(), path)
		}
		k := key(cur.cx, cur.cz)
		if closed[k] {
			continue
		}
		closed[k] = true

		for _, d := range dirs {
			nx, nz := cur.cx+d[0], cur.cz+d[1]
			if ng.IsBlocked(nx, nz) {
				continue
			}
			// Prevent diagonal corner-cutting through blocked cells.
			if d[0] != 0 && d[1] != 0 {
				if ng.IsBlocked(cur.cx+d[0], cur.cz) || ng.IsBlocked(cur.cx, cur.cz+d[1]) {
					continue
				}
			}
			nk := key(nx, nz)
			if closed[nk] {
				continue
			}
			cost := 1.0
			if d[0] != 0 && d[1] != 0 {
				cost = math.Sqrt2
			}
			g := cur.g + cost
			if prev, ok := best[nk]; ok && g >= prev.g {
				continue
			}
			node := &pathNode{cx: nx, cz: nz, g: g, h: heuristic(nx, nz, gcx, gcz), parent: cur}
			best[nk] = node
			heap.Push(ol, node)
		}
	}
	return nil
}

func (ng *NavGrid) buildPath(end *pathNode) []Vec3 {
	var cells [][2]int
	for n := end; n != nil; n = n.parent {
		cells = append(cells, [2]int{n.cx, n.cz})
	}
	// Reverse
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	path := make([]Vec3, len(cells))
	for i, c := range cells {
		path[i] = ng.CellToWorld(c[0], c[1])
	}
	return path
}

// smooth drops waypoints that can be skipped on a straight, obstacle-free
// line. The start cell centre is replaced by the real start point.
func (ng *NavGrid) smooth(from Vec3, path []Vec3) []Vec3 {
	if len(path) == 0 {
		return path
	}
	out := make([]Vec3, 0, len(path))
	anchor := from
	i := 0
	for i < len(path) {
		j := len(path) - 1
		for j > i && !ClearLine(anchor, path[j], ng.obstacles) {
			j--
		}
		out = append(out, path[j])
		anchor = path[j]
		i = j + 1
	}
	return out
}
