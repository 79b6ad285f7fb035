package sim

import (
	"sort"
)

// Environment owns Rooms, Connections, and the Cell grid for the
// lifetime of a simulation (spec §3 Ownership). The Pathfinder and
// Policy hold only a read-only reference to it.
type Environment struct {
	Name string

	rooms   map[RoomId]*Room
	roomIDs []RoomId // stable creation order, for deterministic iteration
	conns   []Connection
	adj     map[RoomId][]Connection

	exits []RoomId
	grid  *CellGrid

	doorBlockMarginCells int
}

// NewEnvironment validates layout and builds the owned Rooms,
// Connections, and Cell grid. Returns a *ConfigurationError if any
// invariant in spec §3 is violated.
func NewEnvironment(layout Layout, doorBlockMarginCells int) (*Environment, error) {
	if len(layout.Rooms) == 0 {
		return nil, configErrorf("layout %q has no rooms", layout.Name)
	}

	env := &Environment{
		Name:                 layout.Name,
		rooms:                make(map[RoomId]*Room, len(layout.Rooms)),
		adj:                  make(map[RoomId][]Connection),
		doorBlockMarginCells: doorBlockMarginCells,
	}

	minX, minY := layout.Rooms[0].Center.X, layout.Rooms[0].Center.Y
	maxX, maxY := minX, minY

	for i := range layout.Rooms {
		r := layout.Rooms[i]
		if r.Kind != Office && r.EvacueeCountInitial != 0 {
			return nil, configErrorf("room %d (%s) is non-office but has evacuees", r.ID, r.Kind)
		}
		r.EvacueesRemaining = r.EvacueeCountInitial
		r.Area = r.Width * r.Height
		room := r
		env.rooms[room.ID] = &room
		env.roomIDs = append(env.roomIDs, room.ID)

		x1, y1 := room.Center.X-room.Width/2-2, room.Center.Y-room.Height/2-2
		x2, y2 := room.Center.X+room.Width/2+2, room.Center.Y+room.Height/2+2
		minX, minY = minF(minX, x1), minF(minY, y1)
		maxX, maxY = maxF(maxX, x2), maxF(maxY, y2)
	}
	sort.Slice(env.roomIDs, func(i, j int) bool { return env.roomIDs[i] < env.roomIDs[j] })

	env.conns = append(env.conns, layout.Connections...)
	for _, c := range layout.Connections {
		if _, ok := env.rooms[c.RoomA]; !ok {
			return nil, configErrorf("connection references unknown room %d", c.RoomA)
		}
		if _, ok := env.rooms[c.RoomB]; !ok {
			return nil, configErrorf("connection references unknown room %d", c.RoomB)
		}
		env.adj[c.RoomA] = append(env.adj[c.RoomA], c)
		env.adj[c.RoomB] = append(env.adj[c.RoomB], c)
	}

	env.exits = append(env.exits, layout.Exits...)
	if len(env.exits) == 0 {
		for _, id := range env.roomIDs {
			if env.rooms[id].Kind == Exit {
				env.exits = append(env.exits, id)
			}
		}
	}
	if len(env.exits) == 0 {
		return nil, configErrorf("layout %q has no exits", layout.Name)
	}

	if err := env.validateConnectivity(); err != nil {
		return nil, err
	}

	doorWidth := layout.DoorWidth
	if doorWidth <= 0 {
		doorWidth = 2.0
	}
	env.grid = NewCellGrid(minX, minY, maxX, maxY)
	markWalls(env.grid, env.rooms, env.conns, doorWidth)
	tagRoomInteriors(env.grid, env.rooms)

	return env, nil
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// validateConnectivity checks spec §3's Connection invariants: the
// walkable-room graph is connected, every Office connects to exactly
// one Hallway, and every Hallway reaches at least one Exit via BFS.
func (env *Environment) validateConnectivity() error {
	for _, id := range env.roomIDs {
		r := env.rooms[id]
		if r.Kind != Office {
			continue
		}
		hallwayCount := 0
		for _, c := range env.adj[id] {
			other, _ := c.other(id)
			if env.rooms[other].Kind == Hallway {
				hallwayCount++
			}
		}
		if hallwayCount != 1 {
			return configErrorf("office room %d connects to %d hallways, want exactly 1", id, hallwayCount)
		}
	}

	exitSet := make(map[RoomId]bool, len(env.exits))
	for _, id := range env.exits {
		exitSet[id] = true
	}

	for _, id := range env.roomIDs {
		r := env.rooms[id]
		if r.Kind != Hallway {
			continue
		}
		if !env.bfsReachesAny(id, exitSet) {
			return configErrorf("hallway room %d cannot reach any exit", id)
		}
	}

	// Whole-graph connectivity over walkable rooms.
	if len(env.roomIDs) > 0 {
		visited := map[RoomId]bool{}
		env.bfs(env.roomIDs[0], visited)
		for _, id := range env.roomIDs {
			if !visited[id] {
				return configErrorf("room %d is unreachable from room %d (disconnected layout)", id, env.roomIDs[0])
			}
		}
	}
	return nil
}

func (env *Environment) bfs(start RoomId, visited map[RoomId]bool) {
	queue := []RoomId{start}
	visited[start] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range env.adj[cur] {
			other, _ := c.other(cur)
			if !visited[other] {
				visited[other] = true
				queue = append(queue, other)
			}
		}
	}
}

func (env *Environment) bfsReachesAny(start RoomId, targets map[RoomId]bool) bool {
	if targets[start] {
		return true
	}
	visited := map[RoomId]bool{start: true}
	queue := []RoomId{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range env.adj[cur] {
			other, _ := c.other(cur)
			if targets[other] {
				return true
			}
			if !visited[other] {
				visited[other] = true
				queue = append(queue, other)
			}
		}
	}
	return false
}

// Room returns the room by id.
func (env *Environment) Room(id RoomId) (*Room, bool) {
	r, ok := env.rooms[id]
	return r, ok
}

// Rooms returns rooms in stable creation order.
func (env *Environment) Rooms() []*Room {
	out := make([]*Room, len(env.roomIDs))
	for i, id := range env.roomIDs {
		out[i] = env.rooms[id]
	}
	return out
}

// Exits returns the exit room ids in stable order.
func (env *Environment) Exits() []RoomId {
	out := make([]RoomId, len(env.exits))
	copy(out, env.exits)
	return out
}

// Grid exposes the owned cell grid for read access by the pathfinder
// and hazard field, which both hold it for the duration of a call only
// (spec §3 Ownership).
func (env *Environment) Grid() *CellGrid { return env.grid }

// UnclearedOfficeRooms returns, in stable id order, the office rooms
// that are not yet cleared or still have evacuees remaining (spec §4.3
// room selection iterates deterministically).
func (env *Environment) UnclearedOfficeRooms() []*Room {
	var out []*Room
	for _, id := range env.roomIDs {
		r := env.rooms[id]
		if r.Kind == Office && (!r.Cleared || r.EvacueesRemaining > 0) {
			out = append(out, r)
		}
	}
	return out
}

// TotalEvacuees sums EvacueeCountInitial across all rooms.
func (env *Environment) TotalEvacuees() int {
	total := 0
	for _, id := range env.roomIDs {
		total += env.rooms[id].EvacueeCountInitial
	}
	return total
}

// RemainingEvacuees sums EvacueesRemaining across all rooms (spec
// §4.5 termination: "all evacuees rescued").
func (env *Environment) RemainingEvacuees() int {
	total := 0
	for _, id := range env.roomIDs {
		total += env.rooms[id].EvacueesRemaining
	}
	return total
}

// TotalOfficeRooms and ClearedOfficeRooms back Result.TotalRooms /
// RoomsCleared (spec §4.6, offices only).
func (env *Environment) TotalOfficeRooms() int {
	n := 0
	for _, id := range env.roomIDs {
		if env.rooms[id].Kind == Office {
			n++
		}
	}
	return n
}

func (env *Environment) ClearedOfficeRooms() int {
	n := 0
	for _, id := range env.roomIDs {
		if r := env.rooms[id]; r.Kind == Office && r.Cleared {
			n++
		}
	}
	return n
}

// RoomAtPosition returns the room owning the cell under (x, y), if any.
func (env *Environment) RoomAtPosition(x, y float64) (RoomId, bool) {
	cell, ok := env.grid.AtWorld(x, y)
	if !ok || !cell.HasRoom {
		return noRoom, false
	}
	return cell.RoomID, true
}

// NearestExit returns the exit whose center is nearest to pos by
// Manhattan distance, breaking ties on lower RoomId (spec requires
// deterministic selection throughout).
func (env *Environment) NearestExit(pos Point) (RoomId, bool) {
	var best RoomId
	bestDist := -1.0
	found := false
	for _, id := range env.exits {
		r := env.rooms[id]
		d := manhattan(pos, r.Center)
		if !found || d < bestDist || (d == bestDist && id < best) {
			found = true
			bestDist = d
			best = id
		}
	}
	return best, found
}

func manhattan(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// DoorBlocked reports whether any cell within DoorBlockMarginCells of
// the room's recorded door positions is burning or has danger above
// 0.85 (spec §4.3's "door is on fire" check, spec §9's door_block_margin
// parameter). A room with no recorded door positions is never blocked
// by this check (hallways/exits).
func (env *Environment) DoorBlocked(room *Room, hazard *HazardField) bool {
	margin := env.doorBlockMarginCells
	// 5x3-style patch: +-margin rows, +-2*margin columns (5x3 at the
	// default margin of 1), matching the original's
	// door-facing-wider-than-tall safety patch.
	for _, door := range room.DoorPositions {
		cx, cy := env.grid.CellCoord(door.X, door.Y)
		for dy := -margin; dy <= margin; dy++ {
			for dx := -2 * margin; dx <= 2*margin; dx++ {
				nx, ny := cx+dx, cy+dy
				if hazard.IsBurningAt(nx, ny) || hazard.DangerAt(nx, ny) > 0.85 {
					return true
				}
			}
		}
	}
	return false
}
