package sim

// RoomKind distinguishes the four kinds of rooms a layout can contain.
// Only Office rooms hold evacuees and are searched/cleared.
type RoomKind int

const (
	Office RoomKind = iota
	Hallway
	Exit
	Stair
)

func (k RoomKind) String() string {
	switch k {
	case Office:
		return "office"
	case Hallway:
		return "hallway"
	case Exit:
		return "exit"
	case Stair:
		return "stair"
	default:
		return "unknown"
	}
}

// Point is a 2D position in meters.
type Point struct {
	X, Y float64
}

// Room models one room of the layout (spec §3). Rooms live in a single
// contiguous arena owned by the Environment and are referenced
// everywhere else by RoomId.
type Room struct {
	ID   RoomId
	Kind RoomKind
	Floor int

	Center Point
	Width  float64
	Height float64
	Area   float64

	// DoorPositions are the world-space centers of door openings on
	// this room's perimeter, used by the decision engine's
	// door-on-fire check (spec §4.3).
	DoorPositions []Point

	EvacueeCountInitial int
	EvacueesRemaining   int

	Discovered bool
	Cleared    bool
	ClearedTick int

	// Hazard is the mean danger level over this room's footprint,
	// recomputed each hazard tick (spec §3).
	Hazard float64
}

// IsSearchable reports whether this room is a candidate for the
// decision engine's room-selection pass (offices only, spec §4.3).
func (r *Room) IsSearchable() bool {
	return r.Kind == Office
}

// discoverEvacuees marks the room discovered and returns the count
// found; idempotent after the first call (spec §4.4, search completion).
func (r *Room) discoverEvacuees() int {
	r.Discovered = true
	return r.EvacueesRemaining
}

// pickupOne decrements EvacueesRemaining by one pickup, never going
// negative (spec §3 invariant: evacuees_remaining monotonically
// nonincreasing, never below zero).
func (r *Room) pickupOne() bool {
	if r.EvacueesRemaining <= 0 {
		return false
	}
	r.EvacueesRemaining--
	return true
}

// markCleared sets Cleared true (monotone, spec §3 invariant) and
// records the tick it happened on, the first time only.
func (r *Room) markCleared(tick int) {
	if r.Cleared {
		return
	}
	r.Cleared = true
	r.ClearedTick = tick
}

// Connection is an undirected edge between two rooms (spec §3).
type Connection struct {
	RoomA, RoomB RoomId
	Distance     float64
	IsStair      bool
	DoorPosition Point
}

// other returns the room on the far side of the connection from id.
func (c Connection) other(id RoomId) (RoomId, bool) {
	switch id {
	case c.RoomA:
		return c.RoomB, true
	case c.RoomB:
		return c.RoomA, true
	default:
		return noRoom, false
	}
}
