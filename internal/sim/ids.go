package sim

import "fmt"

// RoomId identifies a Room in the environment's room arena.
type RoomId uint32

// CellId identifies a Cell in the hazard/pathfinding grid, packed from
// its (x, y) grid coordinates by CellGrid.index. It backs the flat
// cells slice and, in the pathfinder, doubles as the deterministic
// raster id used for A* tie-breaking (spec §4.2).
type CellId uint32

// AgentId identifies an Agent in the simulator's agent arena.
type AgentId uint32

// noRoom is the all-ones sentinel meaning "no room", since RoomId 0
// is a valid room. Callers that need an optional room use (RoomId, bool).
const noRoom RoomId = ^RoomId(0)

func (id RoomId) String() string {
	if id == noRoom {
		return "room<none>"
	}
	return fmt.Sprintf("room#%d", uint32(id))
}

func (id CellId) String() string {
	return fmt.Sprintf("cell#%d", uint32(id))
}

func (id AgentId) String() string {
	return fmt.Sprintf("agent#%d", uint32(id))
}
