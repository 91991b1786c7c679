package sched

import (
	"cmp"

	"github.com/Workiva/go-datastructures/queue"
)

// SJF runs the smallest waiting job to completion. It is clairvoyant
// (sizes are known up front) but never preempts.
type SJF struct{}

func (SJF) Name() string { return PolicySJF }

// sjfItem is the priority-queue entry for one waiting job.
type sjfItem struct {
	size    int64
	arrival int64
	index   int
	slot    int
}

// Compare orders items by size, arrival, then job_index (ascending).
func (i sjfItem) Compare(other queue.Item) int {
	o := other.(sjfItem)
	if c := cmp.Compare(i.size, o.size); c != 0 {
		return c
	}
	if c := cmp.Compare(i.arrival, o.arrival); c != 0 {
		return c
	}
	return cmp.Compare(i.index, o.index)
}

func (SJF) Simulate(jobs []Job) Outcome {
	a := newArena(PolicySJF, jobs)
	pq := queue.NewPriorityQueue(len(a.jobs), false)
	push := func(slot int) {
		j := a.jobs[slot]
		if err := pq.Put(sjfItem{size: j.Size, arrival: j.ArrivalTime, index: j.Index, slot: slot}); err != nil {
			violate(PolicySJF, a.clock, j.Index, "priority queue rejected job: %v", err)
		}
	}
	for !a.finished() {
		a.admit(push)
		if pq.Empty() {
			a.advance()
			continue
		}
		// Get blocks on an empty queue; emptiness is checked above.
		items, err := pq.Get(1)
		if err != nil || len(items) != 1 {
			violate(PolicySJF, a.clock, -1, "priority queue get failed: %v", err)
		}
		cur := items[0].(sjfItem).slot
		a.execute(cur, a.jobs[cur].RemainingTime)
	}
	return a.outcome()
}
