package sim

import "testing"

func validLayout() Layout {
	return Layout{
		Name: "valid",
		Rooms: []Room{
			{ID: 0, Kind: Office, Center: Point{5, 6}, Width: 4, Height: 4, EvacueeCountInitial: 2},
			{ID: 1, Kind: Hallway, Center: Point{5, 2}, Width: 10, Height: 4},
			{ID: 2, Kind: Exit, Center: Point{5, -2}, Width: 4, Height: 2},
		},
		Connections: []Connection{
			{RoomA: 0, RoomB: 1, Distance: 4},
			{RoomA: 1, RoomB: 2, Distance: 4},
		},
		Exits: []RoomId{2},
	}
}

func TestNewEnvironmentAcceptsValidLayout(t *testing.T) {
	if _, err := NewEnvironment(validLayout(), 1); err != nil {
		t.Fatalf("NewEnvironment rejected a valid layout: %v", err)
	}
}

func TestNewEnvironmentRejectsEmptyLayout(t *testing.T) {
	if _, err := NewEnvironment(Layout{Name: "empty"}, 1); err == nil {
		t.Fatalf("expected a ConfigurationError for an empty layout")
	}
}

func TestNewEnvironmentRejectsEvacueesInNonOffice(t *testing.T) {
	l := validLayout()
	l.Rooms[1].EvacueeCountInitial = 3 // hallway
	if _, err := NewEnvironment(l, 1); err == nil {
		t.Fatalf("expected a ConfigurationError for evacuees in a non-office room")
	}
}

func TestNewEnvironmentRejectsOfficeWithoutExactlyOneHallway(t *testing.T) {
	l := validLayout()
	l.Rooms = append(l.Rooms, Room{ID: 3, Kind: Hallway, Center: Point{15, 2}, Width: 4, Height: 4})
	l.Connections = append(l.Connections, Connection{RoomA: 0, RoomB: 3, Distance: 10})
	if _, err := NewEnvironment(l, 1); err == nil {
		t.Fatalf("expected a ConfigurationError for an office connected to two hallways")
	}
}

func TestNewEnvironmentRejectsDisconnectedLayout(t *testing.T) {
	l := validLayout()
	l.Rooms = append(l.Rooms, Room{ID: 3, Kind: Office, Center: Point{100, 100}, Width: 4, Height: 4})
	if _, err := NewEnvironment(l, 1); err == nil {
		t.Fatalf("expected a ConfigurationError for a disconnected room")
	}
}

func TestNewEnvironmentRejectsNoExits(t *testing.T) {
	l := validLayout()
	l.Exits = nil
	l.Rooms[2].Kind = Hallway // remove the only Exit-kind room too
	if _, err := NewEnvironment(l, 1); err == nil {
		t.Fatalf("expected a ConfigurationError when no exits exist")
	}
}

func TestRoomAtPositionFindsOfficeInterior(t *testing.T) {
	env, err := NewEnvironment(validLayout(), 1)
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	id, ok := env.RoomAtPosition(5, 6)
	if !ok || id != 0 {
		t.Fatalf("RoomAtPosition(5,6) = (%d, %v), want (0, true)", id, ok)
	}
}

func TestNearestExitBreaksTiesOnLowerID(t *testing.T) {
	l := validLayout()
	l.Rooms = append(l.Rooms, Room{ID: 3, Kind: Exit, Center: Point{5, -2}, Width: 4, Height: 2})
	l.Connections = append(l.Connections, Connection{RoomA: 1, RoomB: 3, Distance: 4})
	l.Exits = append(l.Exits, 3)
	env, err := NewEnvironment(l, 1)
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	id, ok := env.NearestExit(Point{5, 2})
	if !ok || id != 2 {
		t.Fatalf("NearestExit tie = (%d, %v), want (2, true)", id, ok)
	}
}
