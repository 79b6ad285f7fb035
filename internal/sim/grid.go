package sim

import "math"

// CellSize is the edge length in meters of one hazard/pathfinding cell
// (spec §3: "0.5 m square unit of the grid").
const CellSize = 0.5

// Cell is one grid unit of the hazard/pathfinding field (spec §3).
type Cell struct {
	RoomID          RoomId
	HasRoom         bool
	IsWall          bool
	IsBurning       bool
	BurnStartedTick int
	Danger          float64
}

// CellGrid is the flat cell arena backing both the hazard field and the
// pathfinder, modeled on the teacher's NavGrid
// (internal/game/navmesh.go) but carrying room/fire/danger state
// instead of a bare walkability bit.
type CellGrid struct {
	cols, rows int
	minX, minY float64 // world-space origin of cell (0,0)
	cells      []Cell
}

// NewCellGrid allocates a grid starting at (minX, minY) at CellSize
// resolution, with ceil((maxX-minX)/CellSize)+1 columns and
// ceil((maxY-minY)/CellSize)+1 rows, so a position lying exactly on
// maxX or maxY still falls inside the grid.
func NewCellGrid(minX, minY, maxX, maxY float64) *CellGrid {
	cols := int(math.Ceil((maxX-minX)/CellSize)) + 1
	rows := int(math.Ceil((maxY-minY)/CellSize)) + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &CellGrid{
		cols:  cols,
		rows:  rows,
		minX:  minX,
		minY:  minY,
		cells: make([]Cell, cols*rows),
	}
}

// Cols and Rows expose the grid dimensions for iteration.
func (g *CellGrid) Cols() int { return g.cols }
func (g *CellGrid) Rows() int { return g.rows }

// CellCoord converts a world position to grid coordinates, snapping to
// the containing cell (mirrors the teacher's WorldToCell).
func (g *CellGrid) CellCoord(x, y float64) (cx, cy int) {
	cx = int(math.Floor((x - g.minX) / CellSize))
	cy = int(math.Floor((y - g.minY) / CellSize))
	return
}

// CellCenter converts grid coordinates back to the world-space center
// of that cell (mirrors the teacher's CellToWorld).
func (g *CellGrid) CellCenter(cx, cy int) Point {
	return Point{
		X: g.minX + float64(cx)*CellSize + CellSize/2,
		Y: g.minY + float64(cy)*CellSize + CellSize/2,
	}
}

// InBounds reports whether (cx, cy) is within the grid.
func (g *CellGrid) InBounds(cx, cy int) bool {
	return cx >= 0 && cy >= 0 && cx < g.cols && cy < g.rows
}

// index packs (cx, cy) into the CellId used to key the flat cells
// slice and, by the pathfinder, as the deterministic raster tie-break
// id (spec §4.2: "tie-break on ... lower raster id").
func (g *CellGrid) index(cx, cy int) CellId { return CellId(cy*g.cols + cx) }

// At returns the cell at (cx, cy); the second return is false when out
// of bounds.
func (g *CellGrid) At(cx, cy int) (Cell, bool) {
	if !g.InBounds(cx, cy) {
		return Cell{}, false
	}
	return g.cells[g.index(cx, cy)], true
}

// set mutates the cell at (cx, cy); no-op out of bounds.
func (g *CellGrid) set(cx, cy int, c Cell) {
	if !g.InBounds(cx, cy) {
		return
	}
	g.cells[g.index(cx, cy)] = c
}

// AtWorld is a convenience wrapper combining CellCoord + At.
func (g *CellGrid) AtWorld(x, y float64) (Cell, bool) {
	cx, cy := g.CellCoord(x, y)
	return g.At(cx, cy)
}

// neighbors8 returns the 8-connected neighbor coordinates of (cx, cy)
// that lie within the grid.
func (g *CellGrid) neighbors8(cx, cy int) [][2]int {
	out := make([][2]int, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := cx+dx, cy+dy
			if g.InBounds(nx, ny) {
				out = append(out, [2]int{nx, ny})
			}
		}
	}
	return out
}

// markWalls marks the perimeter cells of every non-Hallway, non-Exit
// room as walls, punching a door-width opening where a Connection
// records a door facing a Hallway (spec §3). Stair rooms get walls too
// (they are small dedicated cells, same footprint rule as offices).
//
// Grounded on original_source/sim/pathfinding/grid_astar.py's
// _build_wall_cells, generalized to the spec's door-width constant
// instead of a hardcoded loop variable.
func markWalls(grid *CellGrid, rooms map[RoomId]*Room, conns []Connection, doorWidthM float64) {
	roomDoorSide := map[RoomId]struct{ top, bottom, left, right bool }{}
	for _, c := range conns {
		for _, pair := range [][2]RoomId{{c.RoomA, c.RoomB}, {c.RoomB, c.RoomA}} {
			self, other := pair[0], pair[1]
			r, ok := rooms[self]
			if !ok || r.Kind == Hallway || r.Kind == Exit {
				continue
			}
			o, ok := rooms[other]
			if !ok || o.Kind != Hallway {
				continue
			}
			e := roomDoorSide[self]
			if o.Center.Y < r.Center.Y {
				e.top = true
			} else if o.Center.Y > r.Center.Y {
				e.bottom = true
			}
			if o.Center.X < r.Center.X {
				e.left = true
			} else if o.Center.X > r.Center.X {
				e.right = true
			}
			roomDoorSide[self] = e
		}
	}

	for id, r := range rooms {
		if r.Kind == Hallway || r.Kind == Exit {
			continue
		}
		sides := roomDoorSide[id]
		x1, y1 := r.Center.X-r.Width/2, r.Center.Y-r.Height/2
		x2, y2 := r.Center.X+r.Width/2, r.Center.Y+r.Height/2
		half := doorWidthM / 2

		for x := x1; x <= x2; x += CellSize {
			if sides.top && math.Abs(x-r.Center.X) <= half {
				continue
			}
			markWallAt(grid, x, y1, id)
		}
		for x := x1; x <= x2; x += CellSize {
			if sides.bottom && math.Abs(x-r.Center.X) <= half {
				continue
			}
			markWallAt(grid, x, y2, id)
		}
		for y := y1; y <= y2; y += CellSize {
			if sides.left && math.Abs(y-r.Center.Y) <= half {
				continue
			}
			markWallAt(grid, x1, y, id)
		}
		for y := y1; y <= y2; y += CellSize {
			if sides.right && math.Abs(y-r.Center.Y) <= half {
				continue
			}
			markWallAt(grid, x2, y, id)
		}
	}
}

func markWallAt(grid *CellGrid, x, y float64, room RoomId) {
	cx, cy := grid.CellCoord(x, y)
	cell, ok := grid.At(cx, cy)
	if !ok {
		return
	}
	cell.IsWall = true
	cell.HasRoom = true
	cell.RoomID = room
	grid.set(cx, cy, cell)
}

// tagRoomInteriors assigns a RoomID to every interior (non-wall) cell
// falling within a room's footprint, so danger-at-room aggregation and
// get_room_at_position style lookups work.
func tagRoomInteriors(grid *CellGrid, rooms map[RoomId]*Room) {
	for id, r := range rooms {
		x1, y1 := r.Center.X-r.Width/2, r.Center.Y-r.Height/2
		x2, y2 := r.Center.X+r.Width/2, r.Center.Y+r.Height/2
		cMinX, cMinY := grid.CellCoord(x1, y1)
		cMaxX, cMaxY := grid.CellCoord(x2, y2)
		for cy := cMinY; cy <= cMaxY; cy++ {
			for cx := cMinX; cx <= cMaxX; cx++ {
				cell, ok := grid.At(cx, cy)
				if !ok || cell.IsWall {
					continue
				}
				cell.HasRoom = true
				cell.RoomID = id
				grid.set(cx, cy, cell)
			}
		}
	}
}
