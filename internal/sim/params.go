package sim

import "fmt"

// AgentSpeeds holds the three movement speeds an agent can have (spec
// §4.4).
type AgentSpeeds struct {
	Hall   float64 // agents.speed_hall, m/s
	Stairs float64 // agents.speed_stairs, m/s
	Drag   float64 // agents.speed_drag, m/s
}

// SimulationParams controls tick pacing and the watchdog (spec §6,
// §7 NoProgress).
type SimulationParams struct {
	TickDuration float64 // seconds per tick
	TimeCap      float64 // seconds
	RandomSeed   uint64

	NoProgressEnabled bool
	NoProgressTicks   int // N consecutive no-change ticks before short-circuit
}

// AgentParams configures the responder team (spec §6).
type AgentParams struct {
	Count           int
	Speeds          AgentSpeeds
	ServiceTimeBase float64 // τ_base, seconds
}

// PolicyKind selects which dispatch strategy a Simulator uses (spec §9:
// "exposed as a polymorphic interface ... tagged variants").
type PolicyKind int

const (
	PriorityPolicy PolicyKind = iota
	StaticPolicy
	GreedyPolicy
)

func (k PolicyKind) String() string {
	switch k {
	case PriorityPolicy:
		return "priority"
	case StaticPolicy:
		return "static"
	case GreedyPolicy:
		return "greedy"
	default:
		return "unknown"
	}
}

// PolicyParams configures the decision engine's priority formula,
// service-time formula, and danger thresholds (spec §4.3, §6).
//
// Field-to-formula mapping (spec's enumerated policy.* options map onto
// the symbols in spec §4.3 as follows, since the option names aren't
// 1:1 with the formula's γ_a/γ_h symbols): AreaWeight == γ_a, EvacueeWeight scales E_i, HazardWeight ==
// γ_h (added — needed by §4.3's service-time formula but not separately
// enumerated in §6; kept tunable rather than hardcoded).
type PolicyParams struct {
	Beta   float64 // β
	Lambda float64 // λ
	DMin   float64 // d_min, meters

	AreaWeight    float64 // γ_a
	EvacueeWeight float64 // scales E_i
	HazardWeight  float64 // γ_h
	AreaRef       float64 // A_ref, m²

	DangerThresholdPath   float64 // θ_d for room-dispatch paths
	DangerThresholdEscape float64 // θ_d for escape-route paths
	KillThreshold         float64 // θ_kill
	PathDangerPenalty     float64 // λ_d, A* edge-cost danger weight

	DoorBlockMarginCells int // spec §9 Open Question: exposed, not hardcoded

	Kind PolicyKind
}

// Parameters is the full external parameter struct the core consumes
// (spec §6). No file I/O, no env vars: constructing one is the
// harness's job.
type Parameters struct {
	Simulation SimulationParams
	Agents     AgentParams
	Hazard     HazardParams
	Policy     PolicyParams
}

// DefaultParameters returns the spec §4.3/§6 defaults.
func DefaultParameters() Parameters {
	return Parameters{
		Simulation: SimulationParams{
			TickDuration:      1.0,
			TimeCap:           600,
			RandomSeed:        42,
			NoProgressEnabled: false,
			NoProgressTicks:   200,
		},
		Agents: AgentParams{
			Count: 2,
			Speeds: AgentSpeeds{
				Hall:   1.5,
				Stairs: 0.8,
				Drag:   0.6,
			},
			ServiceTimeBase: 5.0,
		},
		Hazard: DefaultHazardParams(),
		Policy: PolicyParams{
			Beta:                  10,
			Lambda:                10,
			DMin:                  5,
			AreaWeight:            0.5,
			EvacueeWeight:         1.0,
			HazardWeight:          0.5,
			AreaRef:               100,
			DangerThresholdPath:   0.80,
			DangerThresholdEscape: 0.85,
			KillThreshold:         0.95,
			PathDangerPenalty:     10.0,
			DoorBlockMarginCells:  1,
			Kind:                  PriorityPolicy,
		},
	}
}

// Validate checks the parameter ranges spec §7 requires to be rejected
// at construction time rather than producing undefined behavior.
func (p Parameters) Validate() error {
	if p.Simulation.TickDuration <= 0 {
		return configErrorf("simulation.tick_duration must be positive, got %v", p.Simulation.TickDuration)
	}
	if p.Simulation.TimeCap <= 0 {
		return configErrorf("simulation.time_cap must be positive, got %v", p.Simulation.TimeCap)
	}
	if p.Agents.Count < 0 {
		return configErrorf("agents.count must be non-negative, got %d", p.Agents.Count)
	}
	if p.Agents.Speeds.Hall <= 0 || p.Agents.Speeds.Stairs <= 0 || p.Agents.Speeds.Drag <= 0 {
		return configErrorf("agent speeds must be positive, got %+v", p.Agents.Speeds)
	}
	if p.Agents.ServiceTimeBase < 0 {
		return configErrorf("agents.service_time_base must be non-negative, got %v", p.Agents.ServiceTimeBase)
	}
	if p.Hazard.MaxDanger < 0 || p.Hazard.MaxDanger > 1.0 {
		return configErrorf("hazard.max_danger must be in [0,1], got %v", p.Hazard.MaxDanger)
	}
	if p.Hazard.DangerRadius <= 0 {
		return configErrorf("hazard.danger_radius must be positive, got %v", p.Hazard.DangerRadius)
	}
	if p.Policy.DMin <= 0 {
		return configErrorf("policy.d_min must be positive, got %v", p.Policy.DMin)
	}
	if p.Policy.KillThreshold < 0 || p.Policy.KillThreshold > 1.0 {
		return configErrorf("policy.kill_threshold must be in [0,1], got %v", p.Policy.KillThreshold)
	}
	if p.Policy.DoorBlockMarginCells < 0 {
		return configErrorf("policy.door_block_margin_cells must be non-negative, got %d", p.Policy.DoorBlockMarginCells)
	}
	return nil
}

func (p Parameters) String() string {
	return fmt.Sprintf("Parameters{agents=%d policy=%s seed=%d}", p.Agents.Count, p.Policy.Kind, p.Simulation.RandomSeed)
}
