package sim

// TestHarness is a scenario-building harness used by package tests. It
// mirrors the shape of a headless test simulation builder: ordered
// option passes construct a Layout and Parameters, then NewSimulator
// assembles the real thing. Simulator-level tests build their
// scenarios through it; the environment and policy tests construct a
// Layout directly.
type TestHarness struct {
	layout Layout
	params Parameters
}

// scenarioOptionKind controls the pass in which an option is applied,
// matching the three-phase shape of a builder that must see
// infrastructure before rooms and rooms before agents.
type scenarioOptionKind int

const (
	optInfra scenarioOptionKind = iota // seed, time cap, policy, hazard — applied first
	optRoom                            // rooms, connections, exits, ignition — applied second
	optAgent                           // agent starts, agent count — applied last
)

// ScenarioOption is a builder function applied to a TestHarness during
// NewScenario.
type ScenarioOption struct {
	kind scenarioOptionKind
	fn   func(*TestHarness)
}

// WithSeed sets the deterministic RNG seed.
func WithSeed(seed uint64) ScenarioOption {
	return ScenarioOption{optInfra, func(h *TestHarness) { h.params.Simulation.RandomSeed = seed }}
}

// WithTimeCap sets the simulation time budget in seconds.
func WithTimeCap(seconds float64) ScenarioOption {
	return ScenarioOption{optInfra, func(h *TestHarness) { h.params.Simulation.TimeCap = seconds }}
}

// WithTickDuration sets the per-tick simulated duration in seconds.
func WithTickDuration(dt float64) ScenarioOption {
	return ScenarioOption{optInfra, func(h *TestHarness) { h.params.Simulation.TickDuration = dt }}
}

// WithPolicy selects the decision-engine strategy.
func WithPolicy(kind PolicyKind) ScenarioOption {
	return ScenarioOption{optInfra, func(h *TestHarness) { h.params.Policy.Kind = kind }}
}

// WithHazardEnabled toggles fire spread/danger propagation.
func WithHazardEnabled(enabled bool) ScenarioOption {
	return ScenarioOption{optInfra, func(h *TestHarness) { h.params.Hazard.Enabled = enabled }}
}

// WithKillThreshold overrides the danger level that kills an agent.
func WithKillThreshold(threshold float64) ScenarioOption {
	return ScenarioOption{optInfra, func(h *TestHarness) { h.params.Policy.KillThreshold = threshold }}
}

// WithDoorWidth sets the door opening width in meters.
func WithDoorWidth(width float64) ScenarioOption {
	return ScenarioOption{optInfra, func(h *TestHarness) { h.layout.DoorWidth = width }}
}

// WithNoProgressWatchdog enables the advisory watchdog with the given
// consecutive-no-change tick threshold.
func WithNoProgressWatchdog(ticks int) ScenarioOption {
	return ScenarioOption{optInfra, func(h *TestHarness) {
		h.params.Simulation.NoProgressEnabled = true
		h.params.Simulation.NoProgressTicks = ticks
	}}
}

// RoomSpec describes one room to add via WithRoom. Tests pick their
// own RoomId values (small sequential integers read top-to-bottom) so
// they can reference a room in WithConnection/WithExit before or after the WithRoom call that defines it.
type RoomSpec struct {
	ID                  RoomId
	Kind                RoomKind
	Center              Point
	Width, Height       float64
	EvacueeCount        int
	DoorPositions       []Point
}

// WithRoom adds a fully specified room (including its own pre-chosen
// ID) to the layout being built.
func WithRoom(spec RoomSpec) ScenarioOption {
	return ScenarioOption{optRoom, func(h *TestHarness) {
		h.layout.Rooms = append(h.layout.Rooms, Room{
			ID:                  spec.ID,
			Kind:                spec.Kind,
			Center:              spec.Center,
			Width:               spec.Width,
			Height:              spec.Height,
			EvacueeCountInitial: spec.EvacueeCount,
			DoorPositions:       spec.DoorPositions,
		})
	}}
}

// WithConnection adds an undirected connection between two rooms.
func WithConnection(a, b RoomId, distance float64, isStair bool, door Point) ScenarioOption {
	return ScenarioOption{optRoom, func(h *TestHarness) {
		h.layout.Connections = append(h.layout.Connections, Connection{
			RoomA: a, RoomB: b, Distance: distance, IsStair: isStair, DoorPosition: door,
		})
	}}
}

// WithExit designates a room as a building exit.
func WithExit(id RoomId) ScenarioOption {
	return ScenarioOption{optRoom, func(h *TestHarness) { h.layout.Exits = append(h.layout.Exits, id) }}
}

// WithIgnition schedules a cell to be on fire at tick 0.
func WithIgnition(x, y float64) ScenarioOption {
	return ScenarioOption{optRoom, func(h *TestHarness) {
		h.layout.IgnitionCells = append(h.layout.IgnitionCells, Point{X: x, Y: y})
	}}
}

// WithAgentStart adds one agent spawn point.
func WithAgentStart(x, y float64, floor int) ScenarioOption {
	return ScenarioOption{optAgent, func(h *TestHarness) {
		h.layout.AgentStarts = append(h.layout.AgentStarts, AgentStart{Position: Point{X: x, Y: y}, Floor: floor})
	}}
}

// WithAgentCount sets the responder count directly (overriding the
// default of one agent per WithAgentStart spawn).
func WithAgentCount(n int) ScenarioOption {
	return ScenarioOption{optAgent, func(h *TestHarness) { h.params.Agents.Count = n }}
}

// NewScenario builds a Simulator from the given options in three
// ordered passes (infra, rooms, agents), defaulting agents.count to
// the number of WithAgentStart calls when not explicitly overridden.
func NewScenario(name string, opts ...ScenarioOption) (*Simulator, error) {
	h := &TestHarness{
		layout: Layout{Name: name},
		params: DefaultParameters(),
	}
	h.params.Agents.Count = -1 // unset until WithAgentCount or the start-count default

	for _, o := range opts {
		if o.kind == optInfra {
			o.fn(h)
		}
	}
	for _, o := range opts {
		if o.kind == optRoom {
			o.fn(h)
		}
	}
	for _, o := range opts {
		if o.kind == optAgent {
			o.fn(h)
		}
	}

	if h.params.Agents.Count < 0 {
		h.params.Agents.Count = len(h.layout.AgentStarts)
	}

	return NewSimulator(h.layout, h.params)
}
