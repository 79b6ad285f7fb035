package sim

import (
	"math"
	"math/rand"
)

// HazardParams configures fire ignition, spread, and danger falloff
// (spec §4.1).
type HazardParams struct {
	Enabled       bool
	SpreadRate    float64 // α_spread, per second
	DangerRadius  float64 // meters
	DangerFalloff float64 // exponent applied to the linear falloff term; 1.0 = spec default
	MaxDanger     float64 // ≤ 1.0
}

// DefaultHazardParams returns the spec §6 defaults.
func DefaultHazardParams() HazardParams {
	return HazardParams{
		Enabled:       true,
		SpreadRate:    0.02,
		DangerRadius:  3.0,
		DangerFalloff: 1.0,
		MaxDanger:     1.0,
	}
}

// HazardField owns the grid's fire/danger state and is the single
// writer of burning/danger cells during a tick (spec §5). It is
// deterministic given the seeded RNG passed to tick.
type HazardField struct {
	grid       *CellGrid
	params     HazardParams
	burning    [][2]int // ordered list of burning cell coords, for deterministic iteration
	maxObserved float64  // highest per-cell danger ever recomputed, for Result.MaxHazard
}

// NewHazardField wraps grid with hazard bookkeeping.
func NewHazardField(grid *CellGrid, params HazardParams) *HazardField {
	return &HazardField{grid: grid, params: params}
}

// Ignite marks the cell at (cx, cy) burning, unless it is a wall (spec
// §4.1 ignite). Returns false if the cell was a wall or out of bounds.
func (h *HazardField) Ignite(cx, cy int, tick int) bool {
	cell, ok := h.grid.At(cx, cy)
	if !ok || cell.IsWall || cell.IsBurning {
		return false
	}
	cell.IsBurning = true
	cell.BurnStartedTick = tick
	h.grid.set(cx, cy, cell)
	h.burning = append(h.burning, [2]int{cx, cy})
	return true
}

// IgniteWorld ignites the cell under a world-space position.
func (h *HazardField) IgniteWorld(x, y float64, tick int) bool {
	cx, cy := h.grid.CellCoord(x, y)
	return h.Ignite(cx, cy, tick)
}

// DangerAt returns the danger level at (cx, cy); 0 out of bounds.
func (h *HazardField) DangerAt(cx, cy int) float64 {
	cell, ok := h.grid.At(cx, cy)
	if !ok {
		return 0
	}
	return cell.Danger
}

// DangerAtWorld is the world-space convenience form of DangerAt.
func (h *HazardField) DangerAtWorld(x, y float64) float64 {
	cx, cy := h.grid.CellCoord(x, y)
	return h.DangerAt(cx, cy)
}

// IsBurningAt reports whether the cell at (cx, cy) is on fire.
func (h *HazardField) IsBurningAt(cx, cy int) bool {
	cell, ok := h.grid.At(cx, cy)
	return ok && cell.IsBurning
}

// Tick advances fire spread and recomputes danger for one step (spec
// §4.1). It is a pure function of the current grid state and rng; no
// package-level or time-derived randomness is used (spec §5, §9).
func (h *HazardField) Tick(tick int, dt float64, rng *rand.Rand) {
	if !h.params.Enabled {
		return
	}
	h.spread(tick, dt, rng)
	h.recomputeDanger()
}

// spread attempts to ignite each neighbor of every currently-burning
// cell with probability 1 - exp(-α·dt), conditioned on the neighbor
// being non-wall (spec §4.1). New ignitions are collected first and
// applied after the scan so a freshly-ignited cell does not spread
// again within the same tick.
func (h *HazardField) spread(tick int, dt float64, rng *rand.Rand) {
	if len(h.burning) == 0 {
		return
	}
	pIgnite := 1 - math.Exp(-h.params.SpreadRate*dt)
	var newly [][2]int
	for _, b := range h.burning {
		for _, n := range h.grid.neighbors8(b[0], b[1]) {
			cell, ok := h.grid.At(n[0], n[1])
			if !ok || cell.IsWall || cell.IsBurning {
				continue
			}
			if rng.Float64() < pIgnite {
				newly = append(newly, n)
			}
		}
	}
	for _, n := range newly {
		h.Ignite(n[0], n[1], tick)
	}
}

// recomputeDanger sets every cell's danger to the max, over all burning
// cells within Chebyshev distance DangerRadius, of
// max(0, MaxDanger*(1 - d/DangerRadius))^DangerFalloff (spec §4.1).
// Wall cells block propagation: a cell behind a wall from every burning
// cell it would otherwise see keeps danger 0 (open-door-path-only
// propagation, the spec's default design choice, see SPEC_FULL.md).
func (h *HazardField) recomputeDanger() {
	if len(h.burning) == 0 {
		for i := range h.grid.cells {
			h.grid.cells[i].Danger = 0
		}
		return
	}
	next := make([]float64, len(h.grid.cells))
	radius := h.params.DangerRadius
	for _, b := range h.burning {
		bx, by := b[0], b[1]
		cellRadius := int(math.Ceil(radius / CellSize))
		for dy := -cellRadius; dy <= cellRadius; dy++ {
			for dx := -cellRadius; dx <= cellRadius; dx++ {
				cx, cy := bx+dx, by+dy
				if !h.grid.InBounds(cx, cy) {
					continue
				}
				cell, _ := h.grid.At(cx, cy)
				if cell.IsWall {
					continue
				}
				if !hasOpenPath(h.grid, bx, by, cx, cy) {
					continue
				}
				distM := math.Max(math.Abs(float64(dx)), math.Abs(float64(dy))) * CellSize
				if distM > radius {
					continue
				}
				d := math.Max(0, h.params.MaxDanger*(1-distM/radius))
				d = math.Pow(d, h.params.DangerFalloff)
				idx := h.grid.index(cx, cy)
				if d > next[idx] {
					next[idx] = d
				}
			}
		}
	}
	for i := range h.grid.cells {
		d := math.Min(next[i], h.params.MaxDanger)
		h.grid.cells[i].Danger = d
		if d > h.maxObserved {
			h.maxObserved = d
		}
	}
}

// MaxObserved returns the highest per-cell danger value recomputed over
// the lifetime of the field (spec §4.6 Result.max_hazard).
func (h *HazardField) MaxObserved() float64 { return h.maxObserved }

// hasOpenPath reports whether (bx,by) and (cx,cy) are mutually visible
// without a wall directly between them, approximated by a straight
// Bresenham walk. This is the mechanism by which a burning cell's
// danger does not leak into a room behind its wall except through a
// door opening (a non-wall cell along the line).
func hasOpenPath(grid *CellGrid, x0, y0, x1, y1 int) bool {
	dx := int(math.Abs(float64(x1 - x0)))
	dy := -int(math.Abs(float64(y1 - y0)))
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	for {
		if x == x1 && y == y1 {
			return true
		}
		e2 := 2 * err
		nx, ny := x, y
		if e2 >= dy {
			err += dy
			nx = x + sx
		}
		if e2 <= dx {
			err += dx
			ny = y + sy
		}
		if nx != x || ny != y {
			if !(nx == x1 && ny == y1) {
				cell, ok := grid.At(nx, ny)
				if ok && cell.IsWall {
					return false
				}
			}
			x, y = nx, ny
		} else {
			break
		}
	}
	return true
}
