package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/oakfield-labs/sweepsim/internal/sim"
)

// ScenarioFile is the TOML shape of an on-disk scenario, the one place
// file I/O and external configuration enter this module (spec §6: the
// core never touches a file or an env var). Grounded on
// internal/config/config.go's City struct, generalized from a city
// topology to a building layout plus simulation parameters.
type ScenarioFile struct {
	Name string `toml:"name"`

	Rooms       []roomSpec       `toml:"rooms"`
	Connections []connectionSpec `toml:"connections"`
	Exits       []uint32         `toml:"exits"`
	DoorWidth   float64          `toml:"door_width"`
	Ignition    []pointSpec      `toml:"ignition"`
	AgentStarts []agentStartSpec `toml:"agent_starts"`

	Simulation simulationSpec `toml:"simulation"`
	Agents     agentsSpec     `toml:"agents"`
	Hazard     hazardSpec     `toml:"hazard"`
	Policy     policySpec     `toml:"policy"`
}

type pointSpec struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
}

type roomSpec struct {
	ID            uint32      `toml:"id"`
	Kind          string      `toml:"kind"`
	Center        pointSpec   `toml:"center"`
	Width         float64     `toml:"width"`
	Height        float64     `toml:"height"`
	Evacuees      int         `toml:"evacuees"`
	DoorPositions []pointSpec `toml:"door_positions"`
}

type connectionSpec struct {
	RoomA    uint32    `toml:"room_a"`
	RoomB    uint32    `toml:"room_b"`
	Distance float64   `toml:"distance"`
	IsStair  bool      `toml:"is_stair"`
	Door     pointSpec `toml:"door"`
}

type agentStartSpec struct {
	Position pointSpec `toml:"position"`
	Floor    int       `toml:"floor"`
}

type simulationSpec struct {
	TickDuration    float64 `toml:"tick_duration"`
	TimeCap         float64 `toml:"time_cap"`
	RandomSeed      uint64  `toml:"random_seed"`
	NoProgressTicks int     `toml:"no_progress_ticks"`
}

type agentsSpec struct {
	Count           int     `toml:"count"`
	SpeedHall       float64 `toml:"speed_hall"`
	SpeedStairs     float64 `toml:"speed_stairs"`
	SpeedDrag       float64 `toml:"speed_drag"`
	ServiceTimeBase float64 `toml:"service_time_base"`
}

type hazardSpec struct {
	Enabled       *bool   `toml:"enabled"`
	SpreadRate    float64 `toml:"spread_rate"`
	DangerRadius  float64 `toml:"danger_radius"`
	DangerFalloff float64 `toml:"danger_falloff"`
	MaxDanger     float64 `toml:"max_danger"`
}

type policySpec struct {
	Kind                  string  `toml:"kind"`
	Beta                  float64 `toml:"beta"`
	Lambda                float64 `toml:"lambda"`
	DMin                  float64 `toml:"d_min"`
	AreaWeight            float64 `toml:"area_weight"`
	EvacueeWeight         float64 `toml:"evacuee_weight"`
	HazardWeight          float64 `toml:"hazard_weight"`
	AreaRef               float64 `toml:"area_ref"`
	DangerThresholdPath   float64 `toml:"danger_threshold_path"`
	DangerThresholdEscape float64 `toml:"danger_threshold_escape"`
	KillThreshold         float64 `toml:"kill_threshold"`
	PathDangerPenalty     float64 `toml:"path_danger_penalty"`
	DoorBlockMarginCells  int     `toml:"door_block_margin_cells"`
}

// LoadScenario parses a TOML scenario file into a sim.Layout and
// sim.Parameters, defaulting anything the file omits from
// sim.DefaultParameters().
func LoadScenario(path string) (sim.Layout, sim.Parameters, error) {
	var file ScenarioFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return sim.Layout{}, sim.Parameters{}, fmt.Errorf("decode scenario %q: %w", path, err)
	}
	return file.toLayout(), file.toParameters(), nil
}

func (f ScenarioFile) toLayout() sim.Layout {
	layout := sim.Layout{
		Name:      f.Name,
		DoorWidth: f.DoorWidth,
	}
	for _, r := range f.Rooms {
		doors := make([]sim.Point, len(r.DoorPositions))
		for i, d := range r.DoorPositions {
			doors[i] = sim.Point{X: d.X, Y: d.Y}
		}
		layout.Rooms = append(layout.Rooms, sim.Room{
			ID:                  sim.RoomId(r.ID),
			Kind:                parseRoomKind(r.Kind),
			Center:              sim.Point{X: r.Center.X, Y: r.Center.Y},
			Width:               r.Width,
			Height:              r.Height,
			EvacueeCountInitial: r.Evacuees,
			DoorPositions:       doors,
		})
	}
	for _, c := range f.Connections {
		layout.Connections = append(layout.Connections, sim.Connection{
			RoomA:        sim.RoomId(c.RoomA),
			RoomB:        sim.RoomId(c.RoomB),
			Distance:     c.Distance,
			IsStair:      c.IsStair,
			DoorPosition: sim.Point{X: c.Door.X, Y: c.Door.Y},
		})
	}
	for _, id := range f.Exits {
		layout.Exits = append(layout.Exits, sim.RoomId(id))
	}
	for _, p := range f.Ignition {
		layout.IgnitionCells = append(layout.IgnitionCells, sim.Point{X: p.X, Y: p.Y})
	}
	for _, a := range f.AgentStarts {
		layout.AgentStarts = append(layout.AgentStarts, sim.AgentStart{
			Position: sim.Point{X: a.Position.X, Y: a.Position.Y},
			Floor:    a.Floor,
		})
	}
	return layout
}

func (f ScenarioFile) toParameters() sim.Parameters {
	p := sim.DefaultParameters()

	if f.Simulation.TickDuration > 0 {
		p.Simulation.TickDuration = f.Simulation.TickDuration
	}
	if f.Simulation.TimeCap > 0 {
		p.Simulation.TimeCap = f.Simulation.TimeCap
	}
	if f.Simulation.RandomSeed != 0 {
		p.Simulation.RandomSeed = f.Simulation.RandomSeed
	}
	if f.Simulation.NoProgressTicks > 0 {
		p.Simulation.NoProgressEnabled = true
		p.Simulation.NoProgressTicks = f.Simulation.NoProgressTicks
	}

	if f.Agents.Count > 0 {
		p.Agents.Count = f.Agents.Count
	}
	if f.Agents.SpeedHall > 0 {
		p.Agents.Speeds.Hall = f.Agents.SpeedHall
	}
	if f.Agents.SpeedStairs > 0 {
		p.Agents.Speeds.Stairs = f.Agents.SpeedStairs
	}
	if f.Agents.SpeedDrag > 0 {
		p.Agents.Speeds.Drag = f.Agents.SpeedDrag
	}
	if f.Agents.ServiceTimeBase > 0 {
		p.Agents.ServiceTimeBase = f.Agents.ServiceTimeBase
	}

	if f.Hazard.SpreadRate > 0 {
		p.Hazard.SpreadRate = f.Hazard.SpreadRate
	}
	if f.Hazard.DangerRadius > 0 {
		p.Hazard.DangerRadius = f.Hazard.DangerRadius
	}
	if f.Hazard.DangerFalloff > 0 {
		p.Hazard.DangerFalloff = f.Hazard.DangerFalloff
	}
	if f.Hazard.MaxDanger > 0 {
		p.Hazard.MaxDanger = f.Hazard.MaxDanger
	}
	if f.Hazard.Enabled != nil {
		p.Hazard.Enabled = *f.Hazard.Enabled
	}

	if f.Policy.Kind != "" {
		p.Policy.Kind = parsePolicyKind(f.Policy.Kind)
	}
	if f.Policy.Beta > 0 {
		p.Policy.Beta = f.Policy.Beta
	}
	if f.Policy.Lambda > 0 {
		p.Policy.Lambda = f.Policy.Lambda
	}
	if f.Policy.DMin > 0 {
		p.Policy.DMin = f.Policy.DMin
	}
	if f.Policy.AreaWeight > 0 {
		p.Policy.AreaWeight = f.Policy.AreaWeight
	}
	if f.Policy.EvacueeWeight > 0 {
		p.Policy.EvacueeWeight = f.Policy.EvacueeWeight
	}
	if f.Policy.HazardWeight > 0 {
		p.Policy.HazardWeight = f.Policy.HazardWeight
	}
	if f.Policy.AreaRef > 0 {
		p.Policy.AreaRef = f.Policy.AreaRef
	}
	if f.Policy.DangerThresholdPath > 0 {
		p.Policy.DangerThresholdPath = f.Policy.DangerThresholdPath
	}
	if f.Policy.DangerThresholdEscape > 0 {
		p.Policy.DangerThresholdEscape = f.Policy.DangerThresholdEscape
	}
	if f.Policy.KillThreshold > 0 {
		p.Policy.KillThreshold = f.Policy.KillThreshold
	}
	if f.Policy.PathDangerPenalty > 0 {
		p.Policy.PathDangerPenalty = f.Policy.PathDangerPenalty
	}
	if f.Policy.DoorBlockMarginCells > 0 {
		p.Policy.DoorBlockMarginCells = f.Policy.DoorBlockMarginCells
	}

	return p
}

func parseRoomKind(s string) sim.RoomKind {
	switch s {
	case "hallway":
		return sim.Hallway
	case "exit":
		return sim.Exit
	case "stair":
		return sim.Stair
	default:
		return sim.Office
	}
}

func parsePolicyKind(s string) sim.PolicyKind {
	switch s {
	case "static":
		return sim.StaticPolicy
	case "greedy":
		return sim.GreedyPolicy
	default:
		return sim.PriorityPolicy
	}
}
