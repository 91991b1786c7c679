package sched

// SRPT always runs the job with the least remaining work, preempting on
// every arrival.
type SRPT struct{}

func (SRPT) Name() string { return PolicySRPT }

func (SRPT) Simulate(jobs []Job) Outcome {
	a := newArena(PolicySRPT, jobs)
	h := newSlotHeap(a.jobs, srptLess)
	cur := -1
	for !a.finished() {
		admitted := a.admit(h.push)
		if cur >= 0 && admitted > 0 {
			h.push(cur)
			cur = -1
		}
		if cur < 0 {
			if cur = h.pop(); cur < 0 {
				a.advance()
				continue
			}
		}
		delta := min(a.jobs[cur].RemainingTime, a.untilNextArrival())
		if a.execute(cur, delta) {
			cur = -1
		}
	}
	return a.outcome()
}
