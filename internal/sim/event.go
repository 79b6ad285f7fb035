package sim

import "fmt"

// EventKind enumerates the simulation event types (spec §3).
type EventKind int

const (
	AgentMove EventKind = iota
	AgentArrive
	RoomSearchStart
	RoomCleared
	EvacueeFound
	EvacueeRescued
	AgentQueued
	AgentDied
	SimulationEnd
)

func (k EventKind) String() string {
	switch k {
	case AgentMove:
		return "agent_move"
	case AgentArrive:
		return "agent_arrive"
	case RoomSearchStart:
		return "room_search_start"
	case RoomCleared:
		return "room_cleared"
	case EvacueeFound:
		return "evacuee_found"
	case EvacueeRescued:
		return "evacuee_rescued"
	case AgentQueued:
		return "agent_queued"
	case AgentDied:
		return "agent_died"
	case SimulationEnd:
		return "simulation_end"
	default:
		return "unknown"
	}
}

// Event is one append-only record in the simulation's event stream
// (spec §3). Modeled on the teacher's SimLogEntry
// (internal/game/sim_log.go), generalized with a typed Kind and an
// open Data payload instead of a single formatted string.
type Event struct {
	Tick    int
	SimTime float64
	Kind    EventKind
	AgentID AgentId
	HasAgent bool
	RoomID  RoomId
	HasRoom bool
	Data    map[string]any

	seq int // stream-wide emission sequence, for ordering (spec §5)
}

// String renders a fixed-width debug line, mirroring
// SimLogEntry.String().
func (e Event) String() string {
	agent := "--"
	if e.HasAgent {
		agent = e.AgentID.String()
	}
	room := "--"
	if e.HasRoom {
		room = e.RoomID.String()
	}
	return fmt.Sprintf("[T=%05d] %-6s %-18s room=%-10s %v", e.Tick, agent, e.Kind, room, e.Data)
}

// EventLog is the simulator's append-only event stream (spec §3, §6).
// The Simulator is the exclusive owner and writer.
type EventLog struct {
	events []Event
	seq    int
}

// emit appends a new event for the given tick, assigning it the next
// emission sequence number of the log; the counter never resets, so it
// increases across ticks as well as within one (spec §5 ordering
// guarantee: "events within a tick are ordered by (emitting agent id,
// emission sequence)").
func (l *EventLog) emit(tick int, simTime float64, kind EventKind, agentID AgentId, hasAgent bool, roomID RoomId, hasRoom bool, data map[string]any) Event {
	e := Event{
		Tick: tick, SimTime: simTime, Kind: kind,
		AgentID: agentID, HasAgent: hasAgent,
		RoomID: roomID, HasRoom: hasRoom,
		Data: data,
		seq:  l.seq,
	}
	l.seq++
	l.events = append(l.events, e)
	return e
}

// Events returns the full event stream in emission order.
func (l *EventLog) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Filter returns events of the given kind, in emission order.
func (l *EventLog) Filter(kind EventKind) []Event {
	var out []Event
	for _, e := range l.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
