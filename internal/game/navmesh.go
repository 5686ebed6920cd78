package game

import (
	"container/heap"
	"math"
)

const (
	defaultCellSize  = 0.5 // world units per nav cell
	defaultClearance = 0.5 // body radius kept clear of obstacles
)

// NavGrid is a walkability grid over the arena floor, origin at (0,0).
// It is read-only after construction and safe to share between agents.
type NavGrid struct {
	cols    int
	rows    int
	cell    float64
	blocked []bool
	walls   []Box // obstacles inflated by the clearance
}

// NewNavGrid builds a grid for a width x depth arena. Each cell that overlaps
// an obstacle (grown by clearance) is blocked.
func NewNavGrid(width, depth, cell float64, obstacles []Box, clearance float64) *NavGrid {
	if cell <= 0 {
		cell = defaultCellSize
	}
	cols := int(math.Ceil(width / cell))
	rows := int(math.Ceil(depth / cell))
	ng := &NavGrid{
		cols:    cols,
		rows:    rows,
		cell:    cell,
		blocked: make([]bool, cols*rows),
	}

	for _, o := range obstacles {
		b := o.Inflate(clearance)
		ng.walls = append(ng.walls, b)

		cMinX := max(0, int(math.Floor(b.MinX/cell)))
		cMinZ := max(0, int(math.Floor(b.MinZ/cell)))
		cMaxX := min(cols-1, int(math.Ceil(b.MaxX/cell))-1)
		cMaxZ := min(rows-1, int(math.Ceil(b.MaxZ/cell))-1)
		for cz := cMinZ; cz <= cMaxZ; cz++ {
			for cx := cMinX; cx <= cMaxX; cx++ {
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
	return int(math.Floor(p.X / ng.cell)), int(math.Floor(p.Z / ng.cell))
}

// CellToWorld converts grid cell coordinates to the cell's center.
func (ng *NavGrid) CellToWorld(cx, cz int) Vec3 {
	return Vec3{X: (float64(cx) + 0.5) * ng.cell, Z: (float64(cz) + 0.5) * ng.cell}
}

// Walkable reports whether p lies on an open cell.
func (ng *NavGrid) Walkable(p Vec3) bool {
	cx, cz := ng.WorldToCell(p)
	return !ng.IsBlocked(cx, cz)
}

// Nearest snaps p to the closest walkable point within radius.
func (ng *NavGrid) Nearest(p Vec3, radius float64) (Vec3, bool) {
	p = p.Flat()
	if ng.Walkable(p) {
		return p, true
	}
	cx, cz := ng.WorldToCell(p)
	reach := int(math.Ceil(radius / ng.cell))
	best := math.Inf(1)
	var found Vec3
	for dz := -reach; dz <= reach; dz++ {
		for dx := -reach; dx <= reach; dx++ {
			if ng.IsBlocked(cx+dx, cz+dz) {
				continue
			}
			c := ng.CellToWorld(cx+dx, cz+dz)
			if d := c.FlatDist(p); d <= radius && d < best {
				best = d
				found = c
			}
		}
	}
	return found, !math.IsInf(best, 1)
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
func (ol openList) Swap(i, j int)      { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x any)        { n := x.(*pathNode); n.index = len(*ol); *ol = append(*ol, n) }
func (ol *openList) Pop() any {
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

// FindPath returns smoothed waypoints from `from` to `to`, ending exactly at
// `to`. Returns nil if no path exists.
func (ng *NavGrid) FindPath(from, to Vec3) []Vec3 {
	scx, scz := ng.WorldToCell(from)
	gcx, gcz := ng.WorldToCell(to)
	if ng.IsBlocked(gcx, gcz) {
		return nil
	}
	if ng.IsBlocked(scx, scz) {
		snapped, ok := ng.Nearest(from, 2*ng.cell)
		if !ok {
			return nil
		}
		scx, scz = ng.WorldToCell(snapped)
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

	closed := make([]bool, ng.cols*ng.rows)
	best := make([]*pathNode, ng.cols*ng.rows)
	best[key(scx, scz)] = start

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.cx == gcx && cur.cz == gcz {
			return ng.smooth(from, ng.buildPath(cur, to))
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
			// No diagonal corner-cutting through blocked cells.
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
			if prev := best[nk]; prev != nil && g >= prev.g {
				continue
			}
			node := &pathNode{cx: nx, cz: nz, g: g, h: heuristic(nx, nz, gcx, gcz), parent: cur}
			best[nk] = node
			heap.Push(ol, node)
		}
	}
	return nil
}

func (ng *NavGrid) buildPath(end *pathNode, goal Vec3) []Vec3 {
	var cells [][2]int
	for n := end; n != nil; n = n.parent {
		cells = append(cells, [2]int{n.cx, n.cz})
	}
	path := make([]Vec3, len(cells))
	for i, c := range cells {
		path[len(cells)-1-i] = ng.CellToWorld(c[0], c[1])
	}
	path[len(path)-1] = goal.Flat()
	return path
}

// smooth drops waypoints that can be skipped in a straight line.
func (ng *NavGrid) smooth(from Vec3, path []Vec3) []Vec3 {
	out := make([]Vec3, 0, len(path))
	anchor := from.Flat()
	i := 0
	for i < len(path) {
		j := len(path) - 1
		for j > i && !SegmentClear(anchor, path[j], ng.walls) {
			j--
		}
		out = append(out, path[j])
		anchor = path[j]
		i = j + 1
	}
	return out
}

// --- Navigator ---

// GridNavigator steers one body across a NavGrid. Path planning is deferred
// to the next Advance, so a fresh destination reports a pending path for one
// tick.
type GridNavigator struct {
	grid  *NavGrid
	speed float64

	pos Vec3
	vel Vec3

	dest    Vec3
	stop    float64
	path    []Vec3
	next    int
	pending bool
	active  bool
}

// NewGridNavigator places a body on grid at pos moving at speed units/s.
func NewGridNavigator(grid *NavGrid, pos Vec3, speed float64) *GridNavigator {
	return &GridNavigator{grid: grid, speed: speed, pos: pos.Flat()}
}

// SetSpeed changes the travel speed.
func (gn *GridNavigator) SetSpeed(s float64) { gn.speed = s }

func (gn *GridNavigator) SetDestination(p Vec3, stop float64) bool {
	p = p.Flat()
	if !gn.grid.Walkable(p) {
		return false
	}
	gn.dest = p
	gn.stop = stop
	gn.path = nil
	gn.next = 0
	gn.pending = true
	gn.active = true
	return true
}

func (gn *GridNavigator) Stop() {
	gn.active = false
	gn.pending = false
	gn.path = nil
	gn.vel = Vec3{}
}

func (gn *GridNavigator) SampleValidPosition(p Vec3, radius float64) (Vec3, bool) {
	return gn.grid.Nearest(p, radius)
}

func (gn *GridNavigator) IsOnNavigableSurface() bool { return gn.grid.Walkable(gn.pos) }
func (gn *GridNavigator) IsPathPending() bool        { return gn.pending }
func (gn *GridNavigator) Velocity() Vec3             { return gn.vel }
func (gn *GridNavigator) Position() Vec3             { return gn.pos }

// RemainingDistance is the path length left, or the straight-line distance
// while planning.
func (gn *GridNavigator) RemainingDistance() float64 {
	if !gn.active {
		return 0
	}
	if gn.pending {
		return gn.pos.FlatDist(gn.dest)
	}
	total := 0.0
	at := gn.pos
	for _, wp := range gn.path[gn.next:] {
		total += at.FlatDist(wp)
		at = wp
	}
	return total
}

// Path returns the waypoints still ahead.
func (gn *GridNavigator) Path() []Vec3 {
	if !gn.active || gn.pending {
		return nil
	}
	return gn.path[gn.next:]
}

func (gn *GridNavigator) Advance(dt float64) {
	gn.vel = Vec3{}
	if !gn.active || dt <= 0 {
		return
	}
	if gn.pending {
		gn.pending = false
		gn.path = gn.grid.FindPath(gn.pos, gn.dest)
		gn.next = 0
		if gn.path == nil {
			gn.active = false
			return
		}
	}
	remaining := gn.RemainingDistance()
	if remaining <= gn.stop {
		return
	}
	budget := math.Min(gn.speed*dt, remaining-gn.stop)
	start := gn.pos
	for budget > 0 && gn.next < len(gn.path) {
		wp := gn.path[gn.next]
		d := gn.pos.FlatDist(wp)
		if d <= budget {
			gn.pos = wp
			budget -= d
			gn.next++
			continue
		}
		gn.pos = gn.pos.Add(wp.Sub(gn.pos).Scale(budget / d))
		budget = 0
	}
	gn.vel = gn.pos.Sub(start).Scale(1 / dt)
	if gn.next >= len(gn.path) {
		gn.active = false
	}
}

func (gn *GridNavigator) Warp(p Vec3) {
	gn.pos = p.Flat()
	gn.vel = Vec3{}
	gn.path = nil
	gn.active = false
	gn.pending = false
}
