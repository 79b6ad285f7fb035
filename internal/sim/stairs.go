package sim

// StairQueue is a single stair's occupancy slot and FIFO waiting line
// (spec §4.4: "each stair has an occupancy slot and a FIFO queue").
// SPEC_FULL.md supplemented feature #5, grounded on
// original_source/sim/agents/agent_manager.py's
// is_stair_available/enqueue_for_stair/release_stair trio, made an
// explicit type instead of inline manager bookkeeping.
type StairQueue struct {
	occupant AgentId
	occupied bool
	waiting  []AgentId
}

// TryAcquire claims the stair for agent if it is free or already held
// by agent. Returns true on success.
func (q *StairQueue) TryAcquire(agent AgentId) bool {
	if !q.occupied {
		q.occupied = true
		q.occupant = agent
		return true
	}
	return q.occupant == agent
}

// Enqueue adds agent to the FIFO wait line if not already in it.
func (q *StairQueue) Enqueue(agent AgentId) {
	for _, a := range q.waiting {
		if a == agent {
			return
		}
	}
	q.waiting = append(q.waiting, agent)
}

// Release frees the stair if held by agent and returns the next agent
// to promote from the head of the queue, if any (spec §4.4: "Released
// → head of queue transitions Queued → Moving").
func (q *StairQueue) Release(agent AgentId) (AgentId, bool) {
	if !q.occupied || q.occupant != agent {
		return 0, false
	}
	q.occupied = false
	if len(q.waiting) == 0 {
		return 0, false
	}
	next := q.waiting[0]
	q.waiting = q.waiting[1:]
	q.occupied = true
	q.occupant = next
	return next, true
}

// Occupant returns the current occupant, if any.
func (q *StairQueue) Occupant() (AgentId, bool) {
	return q.occupant, q.occupied
}
