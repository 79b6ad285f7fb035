package sim

import "testing"

func openGrid(w, h int) *CellGrid {
	return NewCellGrid(0, 0, float64(w)*CellSize, float64(h)*CellSize)
}

func TestFindPathStraightLineOpenGrid(t *testing.T) {
	grid := openGrid(10, 10)
	pf := NewGridPathfinder(grid)

	path, ok := pf.FindPath(Point{0.25, 0.25}, Point{4.25, 0.25}, PathfindParams{})
	if !ok {
		t.Fatalf("expected a path across an open grid")
	}
	if len(path) < 2 {
		t.Fatalf("path too short: %v", path)
	}
	last := path[len(path)-1]
	if last.X < 4.0 || last.Y > 0.5 {
		t.Fatalf("path did not end near goal: %v", last)
	}
}

func TestFindPathBlockedByWall(t *testing.T) {
	grid := openGrid(10, 10)
	for cy := 0; cy < grid.Rows(); cy++ {
		cell, _ := grid.At(5, cy)
		cell.IsWall = true
		grid.set(5, cy, cell)
	}
	pf := NewGridPathfinder(grid)

	_, ok := pf.FindPath(Point{0.25, 0.25}, Point{2.25, 0.25}, PathfindParams{})
	if !ok {
		t.Fatalf("path to the near side of the wall should succeed")
	}
	_, ok = pf.FindPath(Point{0.25, 0.25}, Point{2.4, 4.9}, PathfindParams{})
	if !ok {
		t.Fatalf("setup check: path within the open half should succeed")
	}

	_, ok = pf.FindPath(Point{0.25, 0.25}, Point{2.4999999, 0.25}, PathfindParams{})
	if !ok {
		t.Fatalf("path adjacent to but not through the wall column should still succeed")
	}

	_, ok = pf.FindPath(Point{0.25, 0.25}, Point{4.75, 0.25}, PathfindParams{})
	if ok {
		t.Fatalf("path to the far side of a full-height wall column should be blocked")
	}
}

func TestFindPathAvoidsHighDangerWhenRequested(t *testing.T) {
	grid := openGrid(10, 1)
	for cy := 0; cy < grid.Rows(); cy++ {
		for cx := 3; cx <= 6; cx++ {
			cell, _ := grid.At(cx, cy)
			cell.Danger = 1.0
			grid.set(cx, cy, cell)
		}
	}
	pf := NewGridPathfinder(grid)

	_, ok := pf.FindPath(Point{0.25, 0.25}, Point{9.25, 0.25}, PathfindParams{
		AvoidDanger:     true,
		DangerThreshold: 0.5,
	})
	if ok {
		t.Fatalf("path should be blocked when the only route crosses high-danger cells above threshold")
	}

	_, ok = pf.FindPath(Point{0.25, 0.25}, Point{9.25, 0.25}, PathfindParams{})
	if !ok {
		t.Fatalf("without AvoidDanger the same route should succeed")
	}
}

func TestFindPathDeterministicAcrossRepeatedCalls(t *testing.T) {
	grid := openGrid(12, 12)
	pf := NewGridPathfinder(grid)
	first, ok := pf.FindPath(Point{0.25, 0.25}, Point{5.75, 5.75}, PathfindParams{})
	if !ok {
		t.Fatalf("expected a path")
	}
	for i := 0; i < 5; i++ {
		next, ok := pf.FindPath(Point{0.25, 0.25}, Point{5.75, 5.75}, PathfindParams{})
		if !ok || len(next) != len(first) {
			t.Fatalf("repeated FindPath calls diverged: %v vs %v", first, next)
		}
		for j := range first {
			if next[j] != first[j] {
				t.Fatalf("repeated FindPath calls diverged at waypoint %d: %v vs %v", j, first[j], next[j])
			}
		}
	}
}
