package sched

import (
	"fmt"

	"github.com/Workiva/go-datastructures/queue"
)

// RoundRobin (NC_RR) is non-clairvoyant: each job in a FIFO ring gets a
// fixed slice, cut short by the next arrival. An unfinished job re-enters
// the back of the ring after the jobs that arrived during its slice.
type RoundRobin struct {
	quantum int64
}

// NewRoundRobin creates a RoundRobin simulator. Panics on a non-positive quantum.
func NewRoundRobin(quantum int64) *RoundRobin {
	if quantum <= 0 {
		panic(fmt.Sprintf("round robin quantum must be positive, got %d", quantum))
	}
	return &RoundRobin{quantum: quantum}
}

func (rr *RoundRobin) Name() string { return PolicyRR }

// Quantum returns the slice length.
func (rr *RoundRobin) Quantum() int64 { return rr.quantum }

func (rr *RoundRobin) Simulate(jobs []Job) Outcome {
	a := newArena(PolicyRR, jobs)
	ring := queue.New(int64(len(a.jobs)))
	enqueue := func(slot int) {
		if err := ring.Put(slot); err != nil {
			violate(PolicyRR, a.clock, a.jobs[slot].Index, "ring rejected job: %v", err)
		}
	}
	for !a.finished() {
		a.admit(enqueue)
		if ring.Empty() {
			a.advance()
			continue
		}
		items, err := ring.Get(1)
		if err != nil || len(items) != 1 {
			violate(PolicyRR, a.clock, -1, "ring get failed: %v", err)
		}
		cur := items[0].(int)
		delta := min(rr.quantum, a.jobs[cur].RemainingTime, a.untilNextArrival())
		done := a.execute(cur, delta)
		a.admit(enqueue)
		if !done {
			enqueue(cur)
		}
	}
	return a.outcome()
}
