package sim

// AgentSnapshot is a read-only view of one agent's per-tick state, for
// a visualization or telemetry consumer external to the core.
type AgentSnapshot struct {
	ID       AgentId
	Position Point
	Floor    int
	State    AgentState
	Carrying bool
	Trail    []Point
}

// RoomSnapshot is a read-only view of one room's per-tick state.
type RoomSnapshot struct {
	ID                RoomId
	Kind              RoomKind
	Center            Point
	EvacueesRemaining int
	Cleared           bool
	Hazard            float64
}

// CellSnapshot is a read-only view of one grid cell, used by a
// visualization consumer that wants to render the danger field without
// holding a reference to the live CellGrid.
type CellSnapshot struct {
	CX, CY    int
	IsWall    bool
	IsBurning bool
	Danger    float64
}

// Snapshot is a complete, decoupled-from-the-simulator view of one
// tick's world state (spec §3's read path for an external renderer or
// batch collector; never mutated by, nor aliasing, Simulator internals).
type Snapshot struct {
	Tick    int
	SimTime float64
	Agents  []AgentSnapshot
	Rooms   []RoomSnapshot
	Cells   []CellSnapshot
}

// Snapshot renders the simulator's current state into a Snapshot. The
// returned value shares no memory with the simulator: mutating it, or
// continuing to Step the simulator, cannot affect the other.
func (s *Simulator) Snapshot() Snapshot {
	snap := Snapshot{Tick: s.tick, SimTime: s.simTime}

	for _, a := range s.agents {
		snap.Agents = append(snap.Agents, AgentSnapshot{
			ID:       a.ID,
			Position: a.Position,
			Floor:    a.Floor,
			State:    a.State,
			Carrying: a.CarryingEvacuee,
			Trail:    a.Trail(),
		})
	}

	for _, r := range s.env.Rooms() {
		snap.Rooms = append(snap.Rooms, RoomSnapshot{
			ID:                r.ID,
			Kind:              r.Kind,
			Center:            r.Center,
			EvacueesRemaining: r.EvacueesRemaining,
			Cleared:           r.Cleared,
			Hazard:            r.Hazard,
		})
	}

	grid := s.env.Grid()
	for cy := 0; cy < grid.Rows(); cy++ {
		for cx := 0; cx < grid.Cols(); cx++ {
			cell, ok := grid.At(cx, cy)
			if !ok {
				continue
			}
			snap.Cells = append(snap.Cells, CellSnapshot{
				CX: cx, CY: cy,
				IsWall:    cell.IsWall,
				IsBurning: cell.IsBurning,
				Danger:    cell.Danger,
			})
		}
	}

	return snap
}
