package sched

import "fmt"

// MLFQ is a non-clairvoyant multi-level feedback queue. Level i (1-based)
// has quantum 2^(i-1); arrivals enter level 1 and a job that exhausts its
// quantum drops one level, saturating at the lowest.
type MLFQ struct {
	numQueues int
}

// NewMLFQ creates an MLFQ simulator. Panics on fewer than one level.
func NewMLFQ(numQueues int) *MLFQ {
	if numQueues <= 0 {
		panic(fmt.Sprintf("mlfq needs at least one queue, got %d", numQueues))
	}
	return &MLFQ{numQueues: numQueues}
}

func (m *MLFQ) Name() string { return PolicyMLFQ }

// NumQueues returns the number of priority levels.
func (m *MLFQ) NumQueues() int { return m.numQueues }

// levelQuantum returns the quantum of 0-based level l.
func levelQuantum(l int) int64 {
	return int64(1) << min(l, 62)
}

func (m *MLFQ) Simulate(jobs []Job) Outcome {
	a := newArena(PolicyMLFQ, jobs)
	levels := make([][]int, m.numQueues)
	level := make([]int, len(a.jobs))
	budget := make([]int64, len(a.jobs))

	cur := -1
	for !a.finished() {
		admitted := a.admit(func(slot int) {
			levels[0] = append(levels[0], slot)
			level[slot], budget[slot] = 0, levelQuantum(0)
		})
		if cur >= 0 && admitted > 0 {
			// Preempted by an arrival: keep level and unused quantum.
			l := level[cur]
			levels[l] = append([]int{cur}, levels[l]...)
			cur = -1
		}
		if cur < 0 {
			for l := range levels {
				if len(levels[l]) > 0 {
					cur, levels[l] = levels[l][0], levels[l][1:]
					break
				}
			}
			if cur < 0 {
				a.advance()
				continue
			}
		}

		delta := min(a.jobs[cur].RemainingTime, budget[cur], a.untilNextArrival())
		done := a.execute(cur, delta)
		budget[cur] -= delta
		switch {
		case done:
			cur = -1
		case budget[cur] == 0:
			l := min(level[cur]+1, m.numQueues-1)
			level[cur], budget[cur] = l, levelQuantum(l)
			levels[l] = append(levels[l], cur)
			cur = -1
		}
	}
	return a.outcome()
}
