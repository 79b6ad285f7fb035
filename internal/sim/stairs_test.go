package sim

import "testing"

func TestStairQueueTryAcquireAndRelease(t *testing.T) {
	var q StairQueue
	if !q.TryAcquire(1) {
		t.Fatalf("expected first acquire to succeed")
	}
	if q.TryAcquire(2) {
		t.Fatalf("second agent should not acquire an occupied stair")
	}
	q.Enqueue(2)
	q.Enqueue(2) // duplicate enqueue must be a no-op

	next, promoted := q.Release(1)
	if !promoted || next != 2 {
		t.Fatalf("Release(1) = (%d, %v), want (2, true)", next, promoted)
	}
	occ, ok := q.Occupant()
	if !ok || occ != 2 {
		t.Fatalf("occupant = (%d, %v), want (2, true)", occ, ok)
	}
}

func TestStairQueueFIFOOrder(t *testing.T) {
	var q StairQueue
	q.TryAcquire(1)
	q.Enqueue(2)
	q.Enqueue(3)

	next, _ := q.Release(1)
	if next != 2 {
		t.Fatalf("first promoted = %d, want 2 (FIFO)", next)
	}
	next, _ = q.Release(2)
	if next != 3 {
		t.Fatalf("second promoted = %d, want 3 (FIFO)", next)
	}
	_, promoted := q.Release(3)
	if promoted {
		t.Fatalf("releasing the last occupant with an empty queue should not promote anyone")
	}
}

func TestStairQueueReleaseByNonOccupantIsNoOp(t *testing.T) {
	var q StairQueue
	q.TryAcquire(1)
	if _, ok := q.Release(99); ok {
		t.Fatalf("release by a non-occupant should not succeed")
	}
	occ, ok := q.Occupant()
	if !ok || occ != 1 {
		t.Fatalf("occupant should remain 1, got (%d, %v)", occ, ok)
	}
}
