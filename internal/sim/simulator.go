package sim

import "math/rand"

// TerminationReason identifies why Run/Step stopped (spec §4.5, §7).
type TerminationReason int

const (
	NotTerminated TerminationReason = iota
	AllRescued
	AllAgentsDead
	TimeLimit
	NoProgressReason
)

func (r TerminationReason) String() string {
	switch r {
	case AllRescued:
		return "all_rescued"
	case AllAgentsDead:
		return "all_agents_dead"
	case TimeLimit:
		return "time_limit"
	case NoProgressReason:
		return "no_progress"
	default:
		return "running"
	}
}

// Simulator is the tick-driven engine (spec §4.5). It exclusively owns
// Agents and the Event log (spec §3 Ownership) and is a pure function
// of (world, rng) to (world', events') per tick (spec §5): no
// background goroutines, no suspension points.
type Simulator struct {
	layout Layout
	params Parameters

	env    *Environment
	hazard *HazardField
	pf     *GridPathfinder
	policy Policy

	agents []*Agent
	stairs map[RoomId]*StairQueue

	events EventLog

	tick    int
	simTime float64
	rng     *rand.Rand

	terminated bool
	reason     TerminationReason

	noProgressCounter int
	lastSignature     float64

	rescuePriorities []float64
}

// NewSimulator validates params and layout, builds the owned
// Environment/HazardField/Pathfinder/Policy, ignites the configured
// cells, and spawns the agent roster. Returns a *ConfigurationError on
// any invalid input (spec §7: "the core never starts with a bad
// world").
func NewSimulator(layout Layout, params Parameters) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	env, err := NewEnvironment(layout, params.Policy.DoorBlockMarginCells)
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		layout: layout,
		params: params,
		env:    env,
		hazard: NewHazardField(env.Grid(), params.Hazard),
		pf:     NewGridPathfinder(env.Grid()),
		policy: NewPolicy(params.Policy.Kind),
		stairs: make(map[RoomId]*StairQueue),
		rng:    rand.New(rand.NewSource(int64(params.Simulation.RandomSeed))), //nolint:gosec // deterministic sim RNG, not security sensitive
	}
	for _, p := range layout.IgnitionCells {
		s.hazard.IgniteWorld(p.X, p.Y, 0)
	}
	s.spawnAgents()
	s.refreshRoomHazard()
	s.checkCompletion()
	return s, nil
}

func (s *Simulator) spawnAgents() {
	n := s.params.Agents.Count
	if n == 0 || len(s.layout.AgentStarts) == 0 {
		return
	}
	for i := 0; i < n; i++ {
		start := s.layout.AgentStarts[i%len(s.layout.AgentStarts)]
		room, hasRoom := s.env.RoomAtPosition(start.Position.X, start.Position.Y)
		s.agents = append(s.agents, newAgent(AgentId(i), start.Position, start.Floor, room, hasRoom))
	}
}

func (s *Simulator) stairQueue(room RoomId) *StairQueue {
	q, ok := s.stairs[room]
	if !ok {
		q = &StairQueue{}
		s.stairs[room] = q
	}
	return q
}

// Agents returns the agent roster in stable id order.
func (s *Simulator) Agents() []*Agent {
	out := make([]*Agent, len(s.agents))
	copy(out, s.agents)
	return out
}

// Environment exposes the owned Environment for read access (e.g. by a
// Snapshot consumer).
func (s *Simulator) Environment() *Environment { return s.env }

// Tick and SimTime expose the simulator's clock.
func (s *Simulator) Tick() int          { return s.tick }
func (s *Simulator) SimTime() float64   { return s.simTime }
func (s *Simulator) Terminated() bool   { return s.terminated }
func (s *Simulator) Reason() TerminationReason { return s.reason }

// Events returns the full event stream accumulated so far.
func (s *Simulator) Events() []Event { return s.events.Events() }

// Step executes exactly one tick of the simulation (spec §4.5) and
// returns the events emitted during that tick. It is a no-op returning
// nil once Terminated() is true.
func (s *Simulator) Step() []Event {
	if s.terminated {
		return nil
	}
	startIdx := len(s.events.events)

	dt := s.params.Simulation.TickDuration

	// 1. hazard update (spec §5: "hazard updates precede all agent updates").
	s.hazard.Tick(s.tick, dt, s.rng)
	s.refreshRoomHazard()

	// 2. safety check.
	s.checkAgentSafety()

	// 3. per-agent step, stable id order (spec §4.5, §5).
	for _, agent := range s.agents {
		if agent.Terminal() {
			continue
		}
		s.stepAgent(agent, dt)
		agent.TimeInState += dt
		if !agent.Terminal() {
			danger := s.hazard.DangerAtWorld(agent.Position.X, agent.Position.Y)
			agent.accumulateHazardExposure(danger, dt)
		}
	}

	s.updateNoProgress()

	// 4. termination check.
	s.checkCompletion()

	// 5 & 6. events already appended via emit; advance clock.
	s.tick++
	s.simTime += dt

	return s.events.events[startIdx:]
}

// Run executes Step until termination or maxTicks is reached (0 means
// unbounded, bounded internally by time_cap/dt as a backstop).
func (s *Simulator) Run(maxTicks int) []Event {
	if maxTicks <= 0 {
		maxTicks = int(s.params.Simulation.TimeCap/s.params.Simulation.TickDuration) + 2
	}
	for !s.terminated && s.tick < maxTicks {
		s.Step()
	}
	return s.Events()
}

// Reset restores the simulator to its just-constructed state using the
// original layout and parameters (SPEC_FULL.md supplemented feature
// #6), underlying the replay property in spec §8 item 7.
func (s *Simulator) Reset() error {
	fresh, err := NewSimulator(s.layout, s.params)
	if err != nil {
		return err
	}
	*s = *fresh
	return nil
}

func (s *Simulator) emit(kind EventKind, agent *Agent, room RoomId, hasRoom bool, data map[string]any) {
	var agentID AgentId
	hasAgent := false
	if agent != nil {
		agentID = agent.ID
		hasAgent = true
	}
	s.events.emit(s.tick, s.simTime, kind, agentID, hasAgent, room, hasRoom, data)
}

func (s *Simulator) refreshRoomHazard() {
	for _, room := range s.env.Rooms() {
		room.Hazard = roomMeanDanger(s.env, s.hazard, room)
	}
}

// checkAgentSafety marks agents dead whose current cell is burning or
// over the kill threshold (spec §4.4 death threshold, checked
// "end-of-tick against the cell the agent currently occupies" — here
// at the top of the tick, immediately after the hazard update that
// just ran, which is equivalent since no agent moves between the
// hazard update and this check).
func (s *Simulator) checkAgentSafety() {
	for _, agent := range s.agents {
		if agent.Terminal() {
			continue
		}
		cx, cy := s.env.Grid().CellCoord(agent.Position.X, agent.Position.Y)
		danger := s.hazard.DangerAt(cx, cy)
		burning := s.hazard.IsBurningAt(cx, cy)
		if burning || danger > s.params.Policy.KillThreshold {
			s.killAgent(agent)
		}
	}
}

func (s *Simulator) killAgent(agent *Agent) {
	if agent.Terminal() {
		return
	}
	if agent.HasHeldStairRoomField() {
		s.releaseStairHeldBy(agent)
	}
	agent.IsDead = true
	agent.State = Dead
	s.emit(AgentDied, agent, agent.CurrentRoom, agent.HasRoom, map[string]any{})
}

func (s *Simulator) agentByID(id AgentId) *Agent {
	for _, a := range s.agents {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *Simulator) decisionCtx() decisionContext {
	return decisionContext{env: s.env, hazard: s.hazard, pf: s.pf, params: s.params.Policy}
}

// stepAgent dispatches one non-terminal agent through its state
// machine for this tick (spec §4.4).
func (s *Simulator) stepAgent(agent *Agent, dt float64) {
	switch agent.State {
	case Idle:
		s.decide(agent)
	case Moving:
		if s.advanceAlongPath(agent, dt) {
			s.handleRoomArrival(agent)
		}
	case Searching:
		s.advanceSearching(agent, dt)
	case Dragging:
		if s.advanceAlongPath(agent, dt) {
			s.handleDragArrival(agent)
		}
	case Escaping:
		if s.advanceAlongPath(agent, dt) {
			agent.State = Safe
			agent.HasEscaped = true
			s.emit(AgentArrive, agent, agent.TargetRoom, agent.HasTarget, map[string]any{"safe": true})
		}
	case Queued:
		// passive: promoted to Moving by releaseStairHeldBy when the
		// stair's current occupant steps off.
	}
}

// decide runs the configured Policy for an Idle agent (spec §4.3/§4.4).
// A miss (NoFeasibleRoom) is a return value, not an error (spec §7/§9):
// the agent stays Idle and retries next tick, unless the mission is
// already complete, in which case it heads for the nearest exit.
func (s *Simulator) decide(agent *Agent) {
	ctx := s.decisionCtx()
	if cand, ok := s.policy.SelectTarget(ctx, agent); ok {
		agent.setPath(cand.Room.ID, cand.Path)
		agent.State = Moving
		agent.TimeInState = 0
		return
	}
	if s.env.RemainingEvacuees() == 0 {
		if path, exitID, ok := escapeRoute(ctx, agent.Position); ok {
			agent.setPath(exitID, path)
			agent.State = Escaping
			agent.TimeInState = 0
		}
	}
}

// advanceAlongPath moves agent one tick along its committed waypoint
// path, handling stair-queue gating and lethal-cell avoidance (spec
// §4.4). Returns true once the final waypoint has been reached.
func (s *Simulator) advanceAlongPath(agent *Agent, dt float64) bool {
	if agent.WaypointIndex >= len(agent.WaypointPath) {
		return true
	}
	target := agent.WaypointPath[agent.WaypointIndex]

	targetRoom, hasRoom := s.env.RoomAtPosition(target.X, target.Y)
	onStair := false
	if hasRoom {
		if room, ok := s.env.Room(targetRoom); ok && room.Kind == Stair {
			onStair = true
			if !agent.HasHeldStairRoom || agent.HeldStairRoom != targetRoom {
				sq := s.stairQueue(targetRoom)
				if !sq.TryAcquire(agent.ID) {
					sq.Enqueue(agent.ID)
					agent.State = Queued
					agent.QueuedStairRoom = targetRoom
					agent.HasQueuedStair = true
					s.emit(AgentQueued, agent, targetRoom, true, nil)
					return false
				}
				if agent.HasHeldStairRoom {
					s.releaseStairHeldBy(agent)
				}
				agent.HeldStairRoom = targetRoom
				agent.HasHeldStairRoom = true
			}
		} else if agent.HasHeldStairRoom {
			s.releaseStairHeldBy(agent)
		}
	}

	cx, cy := s.env.Grid().CellCoord(target.X, target.Y)
	lethal := s.hazard.IsBurningAt(cx, cy) || s.hazard.DangerAt(cx, cy) > s.params.Policy.KillThreshold
	if lethal {
		// Moving (pause), replan next tick (spec §4.4 transition table).
		if agent.HasTarget {
			if room, ok := s.env.Room(agent.TargetRoom); ok {
				if p, ok := s.pf.FindPath(agent.Position, room.Center, PathfindParams{
					AvoidDanger:     true,
					DangerThreshold: s.params.Policy.DangerThresholdPath,
					DangerPenalty:   s.params.Policy.PathDangerPenalty,
				}); ok {
					agent.WaypointPath = p
					agent.WaypointIndex = 0
				}
			}
		}
		return false
	}

	speed := agent.currentSpeed(s.params.Agents.Speeds, onStair)
	if !agent.moveTowards(target, speed, dt) {
		return false
	}
	agent.WaypointIndex++
	if hasRoom {
		agent.CurrentRoom = targetRoom
		agent.HasRoom = true
	}
	return agent.WaypointIndex >= len(agent.WaypointPath)
}

// releaseStairHeldBy frees the stair segment agent currently occupies
// and promotes the FIFO head, if any, straight from Queued to Moving
// (spec §4.4).
func (s *Simulator) releaseStairHeldBy(agent *Agent) {
	if !agent.HasHeldStairRoom {
		return
	}
	room := agent.HeldStairRoom
	q := s.stairQueue(room)
	promoted, ok := q.Release(agent.ID)
	agent.HasHeldStairRoom = false
	if !ok {
		return
	}
	if pa := s.agentByID(promoted); pa != nil {
		pa.HeldStairRoom = room
		pa.HasHeldStairRoom = true
		if pa.State == Queued {
			pa.State = Moving
			pa.HasQueuedStair = false
		}
	}
}

// handleRoomArrival runs when a Moving agent reaches the center of its
// target office room (spec §4.4).
func (s *Simulator) handleRoomArrival(agent *Agent) {
	room, ok := s.env.Room(agent.TargetRoom)
	if !ok {
		agent.clearTarget()
		agent.State = Idle
		return
	}
	switch {
	case !room.Cleared:
		agent.State = Searching
		agent.TimeInState = 0
		danger := roomMeanDanger(s.env, s.hazard, room)
		agent.ActionTimeRemaining = serviceTime(s.params.Agents.ServiceTimeBase, room, danger, s.params.Policy)
		s.emit(RoomSearchStart, agent, room.ID, true, nil)
	case room.EvacueesRemaining > 0:
		s.pickupAndDrag(agent, room)
	default:
		agent.clearTarget()
		agent.State = Idle
	}
}

// advanceSearching counts down a Searching agent's remaining service
// time and, on completion, discovers the room's evacuees and either
// starts dragging one out or frees the agent (spec §4.4).
func (s *Simulator) advanceSearching(agent *Agent, dt float64) {
	agent.ActionTimeRemaining -= dt
	if agent.ActionTimeRemaining > 0 {
		return
	}
	room, ok := s.env.Room(agent.TargetRoom)
	if !ok {
		agent.clearTarget()
		agent.State = Idle
		return
	}
	found := room.discoverEvacuees()
	room.markCleared(s.tick)
	s.emit(RoomCleared, agent, room.ID, true, map[string]any{"evacuees_found": found})
	if found <= 0 {
		agent.clearTarget()
		agent.State = Idle
		return
	}
	s.emit(EvacueeFound, agent, room.ID, true, map[string]any{"count": found})
	s.pickupAndDrag(agent, room)
}

// pickupAndDrag commits room's next evacuee to agent and routes it to
// the nearest reachable exit (spec §4.4). If no exit is reachable the
// evacuee is left in the room and the agent returns to Idle to retry.
func (s *Simulator) pickupAndDrag(agent *Agent, room *Room) {
	ctx := s.decisionCtx()
	priority, _, _ := priorityIndex(ctx, agent.Position, room)
	path, exitID, ok := escapeRoute(ctx, agent.Position)
	if !ok {
		agent.clearTarget()
		agent.State = Idle
		return
	}
	room.pickupOne()
	agent.CarryingEvacuee = true
	agent.SourceRoomOfCarried = room.ID
	agent.HasSourceRoom = true
	agent.PendingRescuePriority = priority
	agent.setPath(exitID, path)
	agent.State = Dragging
	agent.TimeInState = 0
}

// handleDragArrival runs when a Dragging agent reaches an exit,
// completing one rescue (spec §4.4). The rescue priority recorded is
// the value pickupAndDrag computed from the agent's position at
// pickup; it is not recomputed from the agent's position at delivery.
func (s *Simulator) handleDragArrival(agent *Agent) {
	var roomID RoomId
	hasRoom := false
	if agent.HasSourceRoom {
		roomID = agent.SourceRoomOfCarried
		hasRoom = true
	}
	priority := agent.PendingRescuePriority
	s.rescuePriorities = append(s.rescuePriorities, priority)
	agent.RescuedCount++
	agent.CarryingEvacuee = false
	agent.HasSourceRoom = false
	s.emit(EvacueeRescued, agent, roomID, hasRoom, map[string]any{"priority": priority})
	agent.clearTarget()
	agent.State = Idle
}

// checkCompletion evaluates the four termination conditions in
// priority order (spec §4.5, §7): all_rescued, all_agents_dead,
// time_limit, no_progress. A zero-agent roster short-circuits to
// time_limit immediately rather than spinning empty ticks (spec §9
// boundary: agents.count=0).
func (s *Simulator) checkCompletion() {
	if s.terminated {
		return
	}
	carrying := false
	for _, a := range s.agents {
		if a.CarryingEvacuee {
			carrying = true
			break
		}
	}
	if s.env.RemainingEvacuees() == 0 && !carrying {
		s.finish(AllRescued)
		return
	}
	if len(s.agents) == 0 {
		s.finish(TimeLimit)
		return
	}
	allDead := true
	for _, a := range s.agents {
		if a.State != Dead {
			allDead = false
			break
		}
	}
	if allDead {
		s.finish(AllAgentsDead)
		return
	}
	if s.simTime+s.params.Simulation.TickDuration >= s.params.Simulation.TimeCap {
		s.finish(TimeLimit)
		return
	}
	if s.params.Simulation.NoProgressEnabled && s.noProgressCounter >= s.params.Simulation.NoProgressTicks {
		s.finish(NoProgressReason)
		return
	}
}

func (s *Simulator) finish(reason TerminationReason) {
	s.terminated = true
	s.reason = reason
	s.emit(SimulationEnd, nil, 0, false, map[string]any{"reason": reason.String()})
}

// updateNoProgress tracks whether the world's observable state changed
// this tick, driving the advisory no_progress watchdog (spec §7).
func (s *Simulator) updateNoProgress() {
	if !s.params.Simulation.NoProgressEnabled {
		return
	}
	sig := s.stateSignature()
	if sig == s.lastSignature {
		s.noProgressCounter++
	} else {
		s.noProgressCounter = 0
		s.lastSignature = sig
	}
}

func (s *Simulator) stateSignature() float64 {
	sig := float64(s.env.RemainingEvacuees()) * 1000
	for _, a := range s.agents {
		sig += a.Position.X + a.Position.Y*7 + float64(a.State)*13
	}
	return sig
}
