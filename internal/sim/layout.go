package sim

// Layout is the external input struct the core consumes (spec §6): a
// validated building description produced by a layout-file-parsing
// collaborator outside the core's scope. Connections and Exits refer to
// rooms by Room.ID; NewEnvironment keys rooms by that ID, which need
// not equal the room's index in Rooms.
type Layout struct {
	Name        string
	Rooms       []Room
	Connections []Connection
	AgentStarts []AgentStart
	Exits       []RoomId

	// DoorWidth is the width in meters of a punched door opening in an
	// office/stair perimeter wall (spec §3: "door of width 2 m").
	DoorWidth float64

	// IgnitionCells lists the initial burning cell coordinates (spec
	// §6 hazard.ignition_cells), given directly in world coordinates.
	IgnitionCells []Point
}

// AgentStart is one configured responder spawn position (spec §3
// Lifecycle: "agents are created at simulation start at configured
// spawn positions").
type AgentStart struct {
	Position Point
	Floor    int
}
