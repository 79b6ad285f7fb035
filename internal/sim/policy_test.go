package sim

import (
	"math/rand"
	"testing"
)

func twoOfficeLayout(t *testing.T, nearEvacuees, farEvacuees int) (*Environment, *HazardField, *GridPathfinder) {
	t.Helper()
	layout := Layout{
		Name: "two-office",
		Rooms: []Room{
			{ID: 0, Kind: Office, Center: Point{5, 6}, Width: 4, Height: 4, EvacueeCountInitial: nearEvacuees, DoorPositions: []Point{{5, 4}}},
			{ID: 1, Kind: Office, Center: Point{25, 6}, Width: 4, Height: 4, EvacueeCountInitial: farEvacuees, DoorPositions: []Point{{25, 4}}},
			{ID: 2, Kind: Hallway, Center: Point{15, 2}, Width: 30, Height: 4},
			{ID: 3, Kind: Exit, Center: Point{15, -2}, Width: 4, Height: 2},
		},
		Connections: []Connection{
			{RoomA: 0, RoomB: 2, Distance: 4, DoorPosition: Point{5, 4}},
			{RoomA: 1, RoomB: 2, Distance: 4, DoorPosition: Point{25, 4}},
			{RoomA: 2, RoomB: 3, Distance: 4, DoorPosition: Point{15, 0}},
		},
		Exits:     []RoomId{3},
		DoorWidth: 2,
	}
	env, err := NewEnvironment(layout, 1)
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	hz := NewHazardField(env.Grid(), DefaultHazardParams())
	return env, hz, NewGridPathfinder(env.Grid())
}

func TestPriorityPolicyPrefersMoreEvacuees(t *testing.T) {
	env, hz, pf := twoOfficeLayout(t, 1, 5)
	ctx := decisionContext{env: env, hazard: hz, pf: pf, params: DefaultParameters().Policy}

	agent := newAgent(0, Point{15, 2}, 0, noRoom, false)
	cand, ok := priorityPolicy{}.SelectTarget(ctx, agent)
	if !ok {
		t.Fatalf("expected a candidate room")
	}
	if cand.Room.ID != 1 {
		t.Fatalf("priority policy picked room %d, want room 1 (more evacuees)", cand.Room.ID)
	}
}

func TestGreedyPolicyPrefersNearerRoomRegardlessOfCount(t *testing.T) {
	env, hz, pf := twoOfficeLayout(t, 1, 5)
	ctx := decisionContext{env: env, hazard: hz, pf: pf, params: DefaultParameters().Policy}

	agent := newAgent(0, Point{6, 2}, 0, noRoom, false)
	cand, ok := greedyPolicy{}.SelectTarget(ctx, agent)
	if !ok {
		t.Fatalf("expected a candidate room")
	}
	if cand.Room.ID != 0 {
		t.Fatalf("greedy policy picked room %d, want room 0 (nearer)", cand.Room.ID)
	}
}

func TestStaticPolicySkipsRoomWithoutEvacuees(t *testing.T) {
	env, hz, pf := twoOfficeLayout(t, 0, 5)
	ctx := decisionContext{env: env, hazard: hz, pf: pf, params: DefaultParameters().Policy}

	agent := newAgent(0, Point{15, 2}, 0, noRoom, false)
	// Room 0 has no evacuees so it's not a candidate at all (UnclearedOfficeRooms
	// still lists it since Cleared is false, but priorityIndex returns 0 for it).
	cand, ok := staticPolicy{}.SelectTarget(ctx, agent)
	if !ok {
		t.Fatalf("expected a candidate room")
	}
	if cand.Room.ID != 1 {
		t.Fatalf("static policy picked room %d, want room 1 (first with a feasible path and evacuees)", cand.Room.ID)
	}
}

func TestPriorityIndexZeroWhenDoorBlocked(t *testing.T) {
	env, hz, pf := twoOfficeLayout(t, 3, 0)
	ctx := decisionContext{env: env, hazard: hz, pf: pf, params: DefaultParameters().Policy}
	room, _ := env.Room(0)

	hz.IgniteWorld(5, 4, 0)
	hz.Tick(0, 0, rand.New(rand.NewSource(1)))

	p, path, _ := priorityIndex(ctx, Point{15, 2}, room)
	if p != 0 || path != nil {
		t.Fatalf("expected zero priority and nil path with a burning door, got p=%v path=%v", p, path)
	}
}
