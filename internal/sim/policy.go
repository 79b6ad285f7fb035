package sim

import (
	"math"
	"sort"
)

// RoomCandidate is a scored, reachable room with its committed path
// (spec §4.3 RoomScore, generalized across the three policies).
type RoomCandidate struct {
	Room     *Room
	Priority float64
	Path     []Point
}

// decisionContext bundles the read-only references a Policy needs for
// one selection call (spec §3 Ownership: "Pathfinder and Decision
// Engine hold read-only references to the Environment and agent
// positions for the duration of a decision call").
type decisionContext struct {
	env    *Environment
	hazard *HazardField
	pf     *GridPathfinder
	params PolicyParams
}

// Policy is the decision-engine strategy interface (spec §9: "exposed
// as a polymorphic interface ... tagged variants for each concrete
// policy. No runtime reflection; compile-time dispatch"). Grounded on
// the teacher's goal system (internal/game/blackboard.go) for the
// shape of a scored-selection strategy, generalized from a per-tick
// goal pick to a per-idle-agent room pick.
type Policy interface {
	Kind() PolicyKind
	// SelectTarget returns the best uncleared office room for agent to
	// head to next, or ok=false if none is reachable (spec's
	// NoFeasibleRoom, a return value per spec §9).
	SelectTarget(ctx decisionContext, agent *Agent) (RoomCandidate, bool)
}

// NewPolicy constructs the concrete Policy for kind (spec §9 tagged
// dispatch, no reflection).
func NewPolicy(kind PolicyKind) Policy {
	switch kind {
	case StaticPolicy:
		return staticPolicy{}
	case GreedyPolicy:
		return greedyPolicy{}
	default:
		return priorityPolicy{}
	}
}

// roomMeanDanger averages Danger over every grid cell tagged to room
// (spec §4.3's D_i term).
func roomMeanDanger(env *Environment, hazard *HazardField, room *Room) float64 {
	grid := env.Grid()
	sum, n := 0.0, 0
	x1, y1 := room.Center.X-room.Width/2, room.Center.Y-room.Height/2
	x2, y2 := room.Center.X+room.Width/2, room.Center.Y+room.Height/2
	cMinX, cMinY := grid.CellCoord(x1, y1)
	cMaxX, cMaxY := grid.CellCoord(x2, y2)
	for cy := cMinY; cy <= cMaxY; cy++ {
		for cx := cMinX; cx <= cMaxX; cx++ {
			cell, ok := grid.At(cx, cy)
			if !ok || cell.IsWall || !cell.HasRoom || cell.RoomID != room.ID {
				continue
			}
			sum += hazard.DangerAt(cx, cy)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// priorityIndex computes P_i for room from callerPos (spec §4.3):
//
//	P_i = A_i · E_i · (β + λ·D_i) / max(d_pi, d_min)
//
// A_i is 1 iff a danger-aware path exists to the room and its door is
// not on fire; P_i is 0 when E_i is 0, A_i is 0, or the door is
// blocked. Returns the priority, the committed path (nil if A_i==0),
// and the mean room danger D_i (needed by callers for service time).
func priorityIndex(ctx decisionContext, from Point, room *Room) (priority float64, path []Point, danger float64) {
	danger = roomMeanDanger(ctx.env, ctx.hazard, room)
	evacuees := float64(room.EvacueesRemaining) * ctx.params.EvacueeWeight

	if room.EvacueesRemaining == 0 {
		return 0, nil, danger
	}
	if ctx.env.DoorBlocked(room, ctx.hazard) {
		return 0, nil, danger
	}

	p, ok := ctx.pf.FindPath(from, room.Center, PathfindParams{
		AvoidDanger:     true,
		DangerThreshold: ctx.params.DangerThresholdPath,
		DangerPenalty:   ctx.params.PathDangerPenalty,
	})
	if !ok {
		return 0, nil, danger
	}

	dist := manhattan(from, room.Center)
	denom := math.Max(dist, ctx.params.DMin)
	priority = evacuees * (ctx.params.Beta + ctx.params.Lambda*danger) / denom
	return priority, p, danger
}

// serviceTime computes τ_i, the seconds needed to fully search room
// (spec §4.3):
//
//	τ_i = τ_base · (1 + area_i/A_ref · γ_a) · (1 + D_i · γ_h)
func serviceTime(serviceTimeBase float64, room *Room, danger float64, params PolicyParams) float64 {
	areaFactor := 1 + (room.Area/params.AreaRef)*params.AreaWeight
	hazardFactor := 1 + danger*params.HazardWeight
	return serviceTimeBase * areaFactor * hazardFactor
}

// candidateRooms returns uncleared office rooms in stable RoomId order,
// matching spec §4.5's "stable id order" processing requirement.
func candidateRooms(env *Environment) []*Room {
	rooms := env.UnclearedOfficeRooms()
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms
}

// priorityPolicy implements spec §4.3's weighted-priority room
// selection: argmax P_i, ties broken on lower room id.
type priorityPolicy struct{}

func (priorityPolicy) Kind() PolicyKind { return PriorityPolicy }

func (priorityPolicy) SelectTarget(ctx decisionContext, agent *Agent) (RoomCandidate, bool) {
	var best RoomCandidate
	found := false
	for _, room := range candidateRooms(ctx.env) {
		p, path, _ := priorityIndex(ctx, agent.Position, room)
		if p <= 0 {
			continue
		}
		if !found || p > best.Priority {
			found = true
			best = RoomCandidate{Room: room, Priority: p, Path: path}
		}
	}
	return best, found
}

// staticPolicy implements spec scenario D: visit uncleared offices in
// fixed ascending room-id order, independent of priority weighting.
type staticPolicy struct{}

func (staticPolicy) Kind() PolicyKind { return StaticPolicy }

func (staticPolicy) SelectTarget(ctx decisionContext, agent *Agent) (RoomCandidate, bool) {
	for _, room := range candidateRooms(ctx.env) {
		p, path, _ := priorityIndex(ctx, agent.Position, room)
		if path == nil {
			continue
		}
		return RoomCandidate{Room: room, Priority: p, Path: path}, true
	}
	return RoomCandidate{}, false
}

// greedyPolicy implements nearest-uncleared-room selection (spec's
// "greedy-nearest"), ignoring the weighting terms of P_i but still
// reporting P_i for metrics/accessibility purposes.
type greedyPolicy struct{}

func (greedyPolicy) Kind() PolicyKind { return GreedyPolicy }

func (greedyPolicy) SelectTarget(ctx decisionContext, agent *Agent) (RoomCandidate, bool) {
	var best RoomCandidate
	bestDist := math.Inf(1)
	found := false
	for _, room := range candidateRooms(ctx.env) {
		if room.EvacueesRemaining == 0 {
			continue
		}
		if ctx.env.DoorBlocked(room, ctx.hazard) {
			continue
		}
		dist := manhattan(agent.Position, room.Center)
		path, ok := ctx.pf.FindPath(agent.Position, room.Center, PathfindParams{
			AvoidDanger:     true,
			DangerThreshold: ctx.params.DangerThresholdPath,
			DangerPenalty:   ctx.params.PathDangerPenalty,
		})
		if !ok {
			continue
		}
		if !found || dist < bestDist || (dist == bestDist && room.ID < best.Room.ID) {
			p, _, _ := priorityIndex(ctx, agent.Position, room)
			found = true
			bestDist = dist
			best = RoomCandidate{Room: room, Priority: p, Path: path}
		}
	}
	return best, found
}

// escapeRoute finds the nearest exit reachable with the escape danger
// threshold (spec §4.3's escape-route fallback).
func escapeRoute(ctx decisionContext, from Point) ([]Point, RoomId, bool) {
	var bestPath []Point
	var bestExit RoomId
	bestLen := math.Inf(1)
	found := false
	for _, exitID := range ctx.env.Exits() {
		room, ok := ctx.env.Room(exitID)
		if !ok {
			continue
		}
		path, ok := ctx.pf.FindPath(from, room.Center, PathfindParams{
			AvoidDanger:     true,
			DangerThreshold: ctx.params.DangerThresholdEscape,
			DangerPenalty:   ctx.params.PathDangerPenalty,
		})
		if !ok {
			continue
		}
		length := float64(len(path))
		if !found || length < bestLen || (length == bestLen && exitID < bestExit) {
			found = true
			bestLen = length
			bestPath = path
			bestExit = exitID
		}
	}
	return bestPath, bestExit, found
}
