package sim

import "math"

// resultEpsilon guards the SR formula's denominator against division
// by zero on a zero-length, zero-responder run (spec §4.6).
const resultEpsilon = 1e-6

// defaultAvgRescuePriority is reported when no evacuee was rescued
// (SPEC_FULL.md supplemented feature #2, grounded on
// original_source/evacuation-simulator/src/room_priority.py's
// DEFAULT_AVG_PRIORITY constant).
const defaultAvgRescuePriority = 100.0

// Result is the terminal summary of a finished run (spec §4.6).
type Result struct {
	TerminationReason TerminationReason
	Ticks             int
	SimTime           float64

	TotalEvacuees    int
	EvacueesRescued  int
	EvacueesRemaining int
	RescueRate       float64
	AgentsDied       int
	AgentsSurvived   int
	AgentsEscaped    int

	TotalRooms   int
	RoomsCleared int

	MaxHazard         float64
	AvgHazardExposure float64
	AvgRescuePriority float64
	SuccessScore      float64 // SR, spec §4.6

	TotalDistanceTraveled    float64
	TotalHazardExposure      float64
}

// Result computes a terminal summary of the simulator's current state.
// Calling it before Terminated() is true still returns a consistent
// partial snapshot (useful for mid-run telemetry), but TerminationReason
// will read NotTerminated.
func (s *Simulator) Result() Result {
	res := Result{
		TerminationReason: s.reason,
		Ticks:             s.tick,
		SimTime:           s.simTime,
		TotalEvacuees:     s.env.TotalEvacuees(),
		EvacueesRemaining: s.env.RemainingEvacuees(),
		TotalRooms:        s.env.TotalOfficeRooms(),
		RoomsCleared:      s.env.ClearedOfficeRooms(),
		MaxHazard:         s.hazard.MaxObserved(),
	}
	for _, a := range s.agents {
		res.EvacueesRescued += a.RescuedCount
		res.TotalDistanceTraveled += a.DistanceTraveled
		res.TotalHazardExposure += a.CumulativeHazardExposure
		if a.IsDead {
			res.AgentsDied++
		} else {
			res.AgentsSurvived++
		}
		if a.HasEscaped {
			res.AgentsEscaped++
		}
	}
	if res.TotalEvacuees > 0 {
		res.RescueRate = float64(res.EvacueesRescued) / float64(res.TotalEvacuees)
	}
	if len(s.agents) > 0 {
		res.AvgHazardExposure = res.TotalHazardExposure / float64(len(s.agents))
	}

	if len(s.rescuePriorities) == 0 {
		res.AvgRescuePriority = defaultAvgRescuePriority
	} else {
		sum := 0.0
		for _, p := range s.rescuePriorities {
			sum += p
		}
		res.AvgRescuePriority = sum / float64(len(s.rescuePriorities))
	}

	responders := float64(s.params.Agents.Count)
	denom := math.Max(resultEpsilon, s.simTime*responders)
	res.SuccessScore = (float64(res.EvacueesRescued) * res.AvgRescuePriority) / denom

	return res
}
