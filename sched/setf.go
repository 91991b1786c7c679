package sched

// SETF (Shortest Elapsed Time First) runs the job with the least attained
// service. A slice ends when the running job catches up with the next
// least-attained job (at least one unit), at the next arrival, or at
// completion; the job is then re-admitted with its updated elapsed time.
type SETF struct{}

func (SETF) Name() string { return PolicySETF }

func (SETF) Simulate(jobs []Job) Outcome {
	a := newArena(PolicySETF, jobs)
	h := newSlotHeap(a.jobs, setfLess)
	for !a.finished() {
		a.admit(h.push)
		cur := h.pop()
		if cur < 0 {
			a.advance()
			continue
		}
		delta := min(a.jobs[cur].RemainingTime, a.untilNextArrival())
		if next := h.peek(); next >= 0 {
			catchUp := a.jobs[next].Elapsed() - a.jobs[cur].Elapsed()
			delta = min(delta, max(1, catchUp))
		}
		if !a.execute(cur, delta) {
			h.push(cur)
		}
	}
	return a.outcome()
}
