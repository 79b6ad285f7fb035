package sim

import "testing"

func TestSuccessScorePositiveAndSimTimeAdvances(t *testing.T) {
	fast := basicScenario(t, 2)
	fast.Run(0)
	fastResult := fast.Result()

	slow := basicScenario(t, 2, WithTickDuration(0.1))
	slow.Run(0)
	slowResult := slow.Result()

	if fastResult.SuccessScore <= 0 {
		t.Fatalf("expected a positive success score, got %v", fastResult.SuccessScore)
	}
	if slowResult.SimTime <= 0 {
		t.Fatalf("expected nonzero sim time for the slow run")
	}
}

func TestSuccessScoreDenominatorGuardsZeroResponders(t *testing.T) {
	sim := basicScenario(t, 1, WithAgentCount(0))
	sim.Run(0)
	res := sim.Result()
	if res.SuccessScore != 0 {
		t.Fatalf("success score with zero rescues should be 0, got %v", res.SuccessScore)
	}
}

func TestResultRescueRateAndHazardSummaryFields(t *testing.T) {
	sim := basicScenario(t, 3)
	sim.Run(0)
	res := sim.Result()

	if res.RescueRate != 1.0 {
		t.Fatalf("rescue rate = %v, want 1.0 with all evacuees rescued", res.RescueRate)
	}
	if res.MaxHazard != 0 {
		t.Fatalf("max hazard = %v, want 0 with no ignition cells configured", res.MaxHazard)
	}
	if res.AgentsEscaped != 0 {
		t.Fatalf("agents escaped = %d, want 0: the responder returns idle after its last delivery rather than walking to an exit", res.AgentsEscaped)
	}
}
