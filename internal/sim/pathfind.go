package sim

import (
	"container/heap"
	"math"
)

// PathfindParams configures one A* query (spec §4.2).
type PathfindParams struct {
	AvoidDanger    bool
	DangerThreshold float64 // θ_d
	DangerPenalty   float64 // λ_d, cost added per unit danger when AvoidDanger
}

// GridPathfinder runs A* over a CellGrid, wall- and danger-aware,
// grounded on the teacher's NavGrid.FindPath (internal/game/navmesh.go)
// generalized with a danger cost term and a deterministic tie-break
// (spec §4.2: "tie-break on (lower f, lower h, lower raster id)").
type GridPathfinder struct {
	grid *CellGrid
}

// NewGridPathfinder builds a pathfinder over grid. The grid is shared,
// read-only for the duration of a FindPath call (spec §3 Ownership).
func NewGridPathfinder(grid *CellGrid) *GridPathfinder {
	return &GridPathfinder{grid: grid}
}

type pathNode struct {
	cx, cy int
	id     CellId // raster id of (cx, cy), spec §4.2's deterministic tie-break key
	g, h   float64
	parent *pathNode
	index  int
}

func (n *pathNode) f() float64 { return n.g + n.h }

type openList []*pathNode

func (ol openList) Len() int { return len(ol) }
func (ol openList) Less(i, j int) bool {
	a, b := ol[i], ol[j]
	fa, fb := a.f(), b.f()
	if fa != fb {
		return fa < fb
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.id < b.id
}
func (ol openList) Swap(i, j int) { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x any) {
	n := x.(*pathNode)
	n.index = len(*ol)
	*ol = append(*ol, n)
}
func (ol *openList) Pop() any {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

// dirs8 enumerates the 8-connected neighbor offsets once, in a fixed
// order, so iteration itself never introduces nondeterminism.
var dirs8 = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// FindPath returns an ordered list of cell-center waypoints from start
// to goal, or ok=false (spec's NoPathFound) if no path exists. Start
// and goal snap to the nearest valid cell within a bounded search
// radius if they land on an invalid cell (spec §4.2).
func (pf *GridPathfinder) FindPath(start, goal Point, params PathfindParams) ([]Point, bool) {
	scx, scy := pf.grid.CellCoord(start.X, start.Y)
	gcx, gcy := pf.grid.CellCoord(goal.X, goal.Y)

	if !pf.isValid(scx, scy, params) {
		var ok bool
		scx, scy, ok = pf.nearestValidCell(scx, scy, params)
		if !ok {
			return nil, false
		}
	}
	if !pf.isValid(gcx, gcy, params) {
		var ok bool
		gcx, gcy, ok = pf.nearestValidCell(gcx, gcy, params)
		if !ok {
			return nil, false
		}
	}

	heuristic := func(cx, cy int) float64 {
		dx := math.Abs(float64(cx - gcx))
		dy := math.Abs(float64(cy - gcy))
		return math.Max(dx, dy) * CellSize
	}

	startNode := &pathNode{cx: scx, cy: scy, id: pf.key(scx, scy), g: 0, h: heuristic(scx, scy)}
	ol := &openList{startNode}
	heap.Init(ol)

	best := map[CellId]*pathNode{pf.key(scx, scy): startNode}
	closed := map[CellId]bool{}

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		ck := pf.key(cur.cx, cur.cy)
		if closed[ck] {
			continue
		}
		closed[ck] = true

		if cur.cx == gcx && cur.cy == gcy {
			return pf.reconstruct(cur), true
		}

		for _, d := range dirs8 {
			nx, ny := cur.cx+d[0], cur.cy+d[1]
			if !pf.isValid(nx, ny, params) {
				continue
			}
			nk := pf.key(nx, ny)
			if closed[nk] {
				continue
			}
			cost := 1.0
			if d[0] != 0 && d[1] != 0 {
				cost = math.Sqrt2
			}
			if params.AvoidDanger {
				cell, _ := pf.grid.At(nx, ny)
				cost += params.DangerPenalty * cell.Danger
			}
			g := cur.g + cost
			if prev, ok := best[nk]; ok && g >= prev.g {
				continue
			}
			node := &pathNode{cx: nx, cy: ny, id: nk, g: g, h: heuristic(nx, ny), parent: cur}
			best[nk] = node
			heap.Push(ol, node)
		}
	}
	return nil, false
}

// key returns the CellId raster id backing the A* open/closed sets and
// the tie-break order (spec §4.2: "lower raster id").
func (pf *GridPathfinder) key(cx, cy int) CellId { return pf.grid.index(cx, cy) }

func (pf *GridPathfinder) isValid(cx, cy int, params PathfindParams) bool {
	cell, ok := pf.grid.At(cx, cy)
	if !ok || cell.IsWall || cell.IsBurning {
		return false
	}
	if params.AvoidDanger && cell.Danger > params.DangerThreshold {
		return false
	}
	return true
}

// nearestValidCell does a bounded ring search outward from (cx, cy)
// for the nearest cell satisfying isValid, matching spec §4.2's
// "snaps to the nearest valid cell within a small bounded search".
func (pf *GridPathfinder) nearestValidCell(cx, cy int, params PathfindParams) (int, int, bool) {
	const maxRing = 8
	if pf.isValid(cx, cy, params) {
		return cx, cy, true
	}
	for ring := 1; ring <= maxRing; ring++ {
		for dy := -ring; dy <= ring; dy++ {
			for dx := -ring; dx <= ring; dx++ {
				if math.Max(math.Abs(float64(dx)), math.Abs(float64(dy))) != float64(ring) {
					continue
				}
				nx, ny := cx+dx, cy+dy
				if pf.isValid(nx, ny, params) {
					return nx, ny, true
				}
			}
		}
	}
	return 0, 0, false
}

func (pf *GridPathfinder) reconstruct(end *pathNode) []Point {
	var cells []*pathNode
	for n := end; n != nil; n = n.parent {
		cells = append(cells, n)
	}
	path := make([]Point, len(cells))
	for i, n := range cells {
		path[len(cells)-1-i] = pf.grid.CellCenter(n.cx, n.cy)
	}
	return path
}
