package sim

import "math"

// AgentState enumerates the responder state machine states (spec §3,
// §4.4). Evacuees are not agents: per spec §9's redesign note they are
// collapsed to a scalar count owned by Room.
type AgentState int

const (
	Idle AgentState = iota
	Moving
	Searching
	Dragging
	Escaping
	Queued
	Dead
	Safe
)

func (s AgentState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Moving:
		return "moving"
	case Searching:
		return "searching"
	case Dragging:
		return "dragging"
	case Escaping:
		return "escaping"
	case Queued:
		return "queued"
	case Dead:
		return "dead"
	case Safe:
		return "safe"
	default:
		return "unknown"
	}
}

// maxTrailLength bounds the position history ring buffer (SPEC_FULL.md
// supplemented feature #4, grounded on the original's
// Agent.max_history_length = 100).
const maxTrailLength = 100

// Agent is one responder (spec §3). Agents live in the Simulator's
// arena and are referenced elsewhere by AgentId.
type Agent struct {
	ID       AgentId
	Position Point
	Floor    int

	CurrentRoom RoomId
	HasRoom     bool

	State AgentState

	TargetRoom  RoomId
	HasTarget   bool
	WaypointPath  []Point
	WaypointIndex int

	CarryingEvacuee     bool
	SourceRoomOfCarried RoomId
	HasSourceRoom       bool
	PendingRescuePriority float64

	IsDead      bool
	HasEscaped  bool

	DistanceTraveled         float64
	CumulativeHazardExposure float64
	RescuedCount             int

	TimeInState           float64
	ActionTimeRemaining   float64

	// QueuedStairRoom is the stair room this agent is waiting on while
	// State == Queued (SPEC_FULL.md supplemented feature #5).
	QueuedStairRoom RoomId
	HasQueuedStair  bool

	// HeldStairRoom is the stair room this agent currently occupies, if
	// any, and must release when it steps off the stair footprint.
	HeldStairRoom    RoomId
	HasHeldStairRoom bool

	trail []Point
}

// HasHeldStairRoomField reports whether the agent currently holds a
// stair occupancy slot.
func (a *Agent) HasHeldStairRoomField() bool { return a.HasHeldStairRoom }

// newAgent constructs an Agent at a spawn position, current room
// determined by the caller (Simulator, which has the Environment).
func newAgent(id AgentId, pos Point, floor int, room RoomId, hasRoom bool) *Agent {
	return &Agent{
		ID:          id,
		Position:    pos,
		Floor:       floor,
		CurrentRoom: room,
		HasRoom:     hasRoom,
		State:       Idle,
		trail:       []Point{pos},
	}
}

// Terminal reports whether the agent has reached a terminal state
// (Dead or Safe) and therefore never updates again (spec §3 invariant).
func (a *Agent) Terminal() bool {
	return a.State == Dead || a.State == Safe
}

// moveTowards advances the agent's position toward target by at most
// speed*dt meters, recording distance and trail. Returns true if the
// target was reached this call (within a 0.1 m threshold, spec §4.4).
// Grounded on original_source/sim/agents/agent.py::move_towards.
func (a *Agent) moveTowards(target Point, speed, dt float64) bool {
	dx := target.X - a.Position.X
	dy := target.Y - a.Position.Y
	dist := math.Hypot(dx, dy)

	if dist < 0.1 {
		a.Position = target
		a.recordTrail()
		return true
	}

	move := math.Min(speed*dt, dist)
	a.Position.X += (dx / dist) * move
	a.Position.Y += (dy / dist) * move
	a.DistanceTraveled += move
	a.recordTrail()
	return dist-move < 0.1
}

func (a *Agent) recordTrail() {
	a.trail = append(a.trail, a.Position)
	if len(a.trail) > maxTrailLength {
		a.trail = a.trail[1:]
	}
}

// Trail returns the bounded recent-position history (SPEC_FULL.md
// supplemented feature #4), for a visualization collaborator.
func (a *Agent) Trail() []Point {
	out := make([]Point, len(a.trail))
	copy(out, a.trail)
	return out
}

// accumulateHazardExposure adds hazard*dt to cumulative exposure (spec
// §4.2.5 / original_source agent.py::accumulate_hazard_exposure),
// called every tick the agent is alive regardless of state.
func (a *Agent) accumulateHazardExposure(hazard, dt float64) {
	a.CumulativeHazardExposure += hazard * dt
}

// setPath assigns a new waypoint path and resets the waypoint cursor.
func (a *Agent) setPath(target RoomId, path []Point) {
	a.TargetRoom = target
	a.HasTarget = true
	a.WaypointPath = path
	a.WaypointIndex = 0
}

// clearTarget drops the current target/path (spec: Agent.clear_target).
func (a *Agent) clearTarget() {
	a.HasTarget = false
	a.TargetRoom = noRoom
	a.WaypointPath = nil
	a.WaypointIndex = 0
}

// currentSpeed returns the agent's speed for this tick given the
// movement speed table and whether the next edge is a stair (spec
// §4.4: "speed = drag_speed if carrying, stair_speed on stair edges,
// else hall_speed").
func (a *Agent) currentSpeed(speeds AgentSpeeds, onStair bool) float64 {
	switch {
	case a.CarryingEvacuee:
		return speeds.Drag
	case onStair:
		return speeds.Stairs
	default:
		return speeds.Hall
	}
}
