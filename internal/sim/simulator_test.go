package sim

import (
	"testing"
)

// basicScenario builds a minimal office/hallway/exit building: one
// office with evacuees, one hallway, one exit, one agent spawned in
// the hallway. extra options are appended after the fixed layout so
// callers can add hazard/policy/agent overrides.
func basicScenario(t *testing.T, evacuees int, extra ...ScenarioOption) *Simulator {
	t.Helper()
	opts := []ScenarioOption{
		WithSeed(1),
		WithRoom(RoomSpec{ID: 0, Kind: Office, Center: Point{5, 12}, Width: 4, Height: 4, EvacueeCount: evacuees, DoorPositions: []Point{{5, 10}}}),
		WithRoom(RoomSpec{ID: 1, Kind: Hallway, Center: Point{5, 6}, Width: 10, Height: 4}),
		WithRoom(RoomSpec{ID: 2, Kind: Exit, Center: Point{5, 0}, Width: 4, Height: 2}),
		WithConnection(0, 1, 6, false, Point{5, 10}),
		WithConnection(1, 2, 6, false, Point{5, 2}),
		WithExit(2),
		WithAgentStart(5, 6, 0),
	}
	opts = append(opts, extra...)
	sim, err := NewScenario("basic", opts...)
	if err != nil {
		t.Fatalf("NewScenario: %v", err)
	}
	return sim
}

func TestSingleAgentRescuesAllEvacuees(t *testing.T) {
	sim := basicScenario(t, 3)
	sim.Run(0)

	if sim.Reason() != AllRescued {
		t.Fatalf("termination reason = %s, want all_rescued", sim.Reason())
	}
	res := sim.Result()
	if res.EvacueesRescued != 3 {
		t.Fatalf("rescued = %d, want 3", res.EvacueesRescued)
	}
	if res.EvacueesRemaining != 0 {
		t.Fatalf("remaining = %d, want 0", res.EvacueesRemaining)
	}
	if res.RoomsCleared != 1 {
		t.Fatalf("rooms cleared = %d, want 1", res.RoomsCleared)
	}
}

func TestZeroEvacueesTerminatesImmediately(t *testing.T) {
	sim := basicScenario(t, 0)
	sim.Run(0)

	if sim.Reason() != AllRescued {
		t.Fatalf("termination reason = %s, want all_rescued", sim.Reason())
	}
	if sim.Tick() > 1 {
		t.Fatalf("tick = %d, want termination on tick 0 or 1 with nothing to rescue", sim.Tick())
	}
}

func TestZeroAgentsShortCircuitsToTimeLimit(t *testing.T) {
	sim := basicScenario(t, 2, WithAgentCount(0))
	sim.Run(0)

	if sim.Reason() != TimeLimit {
		t.Fatalf("termination reason = %s, want time_limit", sim.Reason())
	}
	if len(sim.Agents()) != 0 {
		t.Fatalf("agent count = %d, want 0", len(sim.Agents()))
	}
}

func TestKillThresholdZeroKillsEveryAgentNearHazard(t *testing.T) {
	sim := basicScenario(t, 2,
		WithHazardEnabled(true),
		WithKillThreshold(0),
		WithIgnition(5, 6), // ignite the cell the agent spawns in
	)
	sim.Step()

	for _, a := range sim.Agents() {
		if a.State != Dead {
			t.Fatalf("agent %s state = %s, want dead", a.ID, a.State)
		}
	}
}

func TestStaticPolicyVisitsRoomsInAscendingOrder(t *testing.T) {
	sim, err := NewScenario("static-order",
		WithSeed(2),
		WithPolicy(StaticPolicy),
		WithRoom(RoomSpec{ID: 0, Kind: Office, Center: Point{5, 12}, Width: 4, Height: 4, EvacueeCount: 1, DoorPositions: []Point{{5, 10}}}),
		WithRoom(RoomSpec{ID: 1, Kind: Office, Center: Point{15, 12}, Width: 4, Height: 4, EvacueeCount: 1, DoorPositions: []Point{{15, 10}}}),
		WithRoom(RoomSpec{ID: 2, Kind: Hallway, Center: Point{10, 6}, Width: 20, Height: 4}),
		WithRoom(RoomSpec{ID: 3, Kind: Exit, Center: Point{10, 0}, Width: 4, Height: 2}),
		WithConnection(0, 2, 6, false, Point{5, 10}),
		WithConnection(1, 2, 6, false, Point{15, 10}),
		WithConnection(2, 3, 6, false, Point{10, 2}),
		WithExit(3),
		WithAgentStart(10, 6, 0),
	)
	if err != nil {
		t.Fatalf("NewScenario: %v", err)
	}

	var firstTarget RoomId
	gotFirst := false
	for i := 0; i < 30 && !gotFirst; i++ {
		sim.Step()
		if a := sim.Agents()[0]; a.HasTarget {
			firstTarget = a.TargetRoom
			gotFirst = true
		}
	}
	if !gotFirst {
		t.Fatalf("agent never picked a target")
	}
	if firstTarget != 0 {
		t.Fatalf("static policy first target = %d, want room 0 (ascending id order)", firstTarget)
	}
}

func TestAgentNeverUpdatesAfterTerminal(t *testing.T) {
	sim := basicScenario(t, 1, WithHazardEnabled(true), WithKillThreshold(0), WithIgnition(5, 6))
	sim.Step()
	agent := sim.Agents()[0]
	if agent.State != Dead {
		t.Fatalf("expected agent dead after ignited-at-spawn tick")
	}
	posBefore := agent.Position
	sim.Step()
	sim.Step()
	agentAfter := sim.Agents()[0]
	if agentAfter.Position != posBefore {
		t.Fatalf("dead agent moved: before=%v after=%v", posBefore, agentAfter.Position)
	}
}

func TestEvacueesRemainingNeverGoesNegative(t *testing.T) {
	sim := basicScenario(t, 1)
	sim.Run(0)
	for _, r := range sim.Environment().Rooms() {
		if r.EvacueesRemaining < 0 {
			t.Fatalf("room %s evacuees_remaining = %d, must never go negative", r.ID, r.EvacueesRemaining)
		}
	}
}

func TestResultAvgRescuePriorityDefaultsWhenNoneRescued(t *testing.T) {
	sim := basicScenario(t, 1, WithAgentCount(0))
	sim.Run(0)
	res := sim.Result()
	if res.EvacueesRescued != 0 {
		t.Fatalf("expected no rescues with zero agents")
	}
	if res.AvgRescuePriority != defaultAvgRescuePriority {
		t.Fatalf("avg rescue priority = %v, want default %v", res.AvgRescuePriority, defaultAvgRescuePriority)
	}
}

func TestResetReplaysIdentically(t *testing.T) {
	sim := basicScenario(t, 2)
	firstEvents := sim.Run(0)
	firstResult := sim.Result()

	if err := sim.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	secondEvents := sim.Run(0)
	secondResult := sim.Result()

	if len(firstEvents) != len(secondEvents) {
		t.Fatalf("event count differs after reset: %d vs %d", len(firstEvents), len(secondEvents))
	}
	if firstResult.EvacueesRescued != secondResult.EvacueesRescued {
		t.Fatalf("rescued count differs after reset: %d vs %d", firstResult.EvacueesRescued, secondResult.EvacueesRescued)
	}
	if firstResult.Ticks != secondResult.Ticks {
		t.Fatalf("tick count differs after reset: %d vs %d", firstResult.Ticks, secondResult.Ticks)
	}
}

func TestStairQueueSerializesTwoAgents(t *testing.T) {
	sim, err := NewScenario("stairs",
		WithSeed(3),
		WithRoom(RoomSpec{ID: 0, Kind: Office, Center: Point{5, 18}, Width: 4, Height: 4, EvacueeCount: 1, DoorPositions: []Point{{5, 16}}}),
		WithRoom(RoomSpec{ID: 1, Kind: Hallway, Center: Point{5, 12}, Width: 6, Height: 4}),
		WithRoom(RoomSpec{ID: 2, Kind: Stair, Center: Point{5, 6}, Width: 2, Height: 4}),
		WithRoom(RoomSpec{ID: 3, Kind: Hallway, Center: Point{5, 2}, Width: 6, Height: 2}),
		WithRoom(RoomSpec{ID: 4, Kind: Exit, Center: Point{5, -2}, Width: 4, Height: 2}),
		WithConnection(0, 1, 6, false, Point{5, 16}),
		WithConnection(1, 2, 4, true, Point{5, 8}),
		WithConnection(2, 3, 4, true, Point{5, 4}),
		WithConnection(3, 4, 4, false, Point{5, 0}),
		WithExit(4),
		WithAgentStart(5, 12, 0),
		WithAgentStart(5, 12, 0),
	)
	if err != nil {
		t.Fatalf("NewScenario: %v", err)
	}

	for i := 0; i < 120 && !sim.Terminated(); i++ {
		sim.Step()
		onStair := 0
		for _, a := range sim.Agents() {
			if a.HasHeldStairRoom && a.HeldStairRoom == 2 {
				onStair++
			}
		}
		if onStair > 1 {
			t.Fatalf("step %d: %d agents hold the stair, want at most 1", i, onStair)
		}
	}

	if len(sim.events.Filter(AgentQueued)) == 0 {
		t.Fatalf("expected the second agent to queue for the occupied stair")
	}
	if sim.Result().EvacueesRescued != 1 {
		t.Fatalf("rescued = %d, want 1", sim.Result().EvacueesRescued)
	}
}
