package sim

import "testing"

func TestMoveTowardsReachesTargetWithinThreshold(t *testing.T) {
	a := newAgent(0, Point{0, 0}, 0, noRoom, false)
	reached := a.moveTowards(Point{0.05, 0}, 10, 1.0)
	if !reached {
		t.Fatalf("expected to snap to target within the 0.1m threshold")
	}
	if a.Position != (Point{0.05, 0}) {
		t.Fatalf("position = %v, want snapped to target", a.Position)
	}
}

func TestMoveTowardsCapsDistanceBySpeed(t *testing.T) {
	a := newAgent(0, Point{0, 0}, 0, noRoom, false)
	reached := a.moveTowards(Point{10, 0}, 1.0, 1.0)
	if reached {
		t.Fatalf("should not reach a far target in one tick")
	}
	if a.Position.X != 1.0 || a.Position.Y != 0 {
		t.Fatalf("position = %v, want (1,0) after moving at 1 m/s for 1s", a.Position)
	}
	if a.DistanceTraveled != 1.0 {
		t.Fatalf("distance traveled = %v, want 1.0", a.DistanceTraveled)
	}
}

func TestTrailIsBoundedRingBuffer(t *testing.T) {
	a := newAgent(0, Point{0, 0}, 0, noRoom, false)
	for i := 0; i < maxTrailLength+50; i++ {
		a.moveTowards(Point{float64(i + 1), 0}, 100, 1.0)
	}
	trail := a.Trail()
	if len(trail) > maxTrailLength {
		t.Fatalf("trail length = %d, want <= %d", len(trail), maxTrailLength)
	}
}

func TestTerminalStatesNeverUpdateAgain(t *testing.T) {
	for _, st := range []AgentState{Dead, Safe} {
		a := newAgent(0, Point{0, 0}, 0, noRoom, false)
		a.State = st
		if !a.Terminal() {
			t.Fatalf("state %s should be terminal", st)
		}
	}
	for _, st := range []AgentState{Idle, Moving, Searching, Dragging, Escaping, Queued} {
		a := newAgent(0, Point{0, 0}, 0, noRoom, false)
		a.State = st
		if a.Terminal() {
			t.Fatalf("state %s should not be terminal", st)
		}
	}
}

func TestAccumulateHazardExposureIsAdditive(t *testing.T) {
	a := newAgent(0, Point{0, 0}, 0, noRoom, false)
	a.accumulateHazardExposure(0.5, 1.0)
	a.accumulateHazardExposure(0.25, 2.0)
	want := 0.5*1.0 + 0.25*2.0
	if a.CumulativeHazardExposure != want {
		t.Fatalf("cumulative exposure = %v, want %v", a.CumulativeHazardExposure, want)
	}
}

func TestCurrentSpeedPrecedence(t *testing.T) {
	speeds := AgentSpeeds{Hall: 1.5, Stairs: 0.8, Drag: 0.6}
	a := newAgent(0, Point{0, 0}, 0, noRoom, false)

	if got := a.currentSpeed(speeds, false); got != speeds.Hall {
		t.Fatalf("speed = %v, want hall speed %v", got, speeds.Hall)
	}
	if got := a.currentSpeed(speeds, true); got != speeds.Stairs {
		t.Fatalf("speed = %v, want stair speed %v", got, speeds.Stairs)
	}
	a.CarryingEvacuee = true
	if got := a.currentSpeed(speeds, true); got != speeds.Drag {
		t.Fatalf("speed = %v, want drag speed %v even on a stair", got, speeds.Drag)
	}
}
