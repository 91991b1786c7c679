package sched

// FCFS runs jobs to completion in arrival order.
type FCFS struct{}

func (FCFS) Name() string { return PolicyFCFS }

func (FCFS) Simulate(jobs []Job) Outcome {
	return runNonPreemptive(PolicyFCFS, jobs, fcfsLess)
}

// runNonPreemptive serves jobs one at a time in less order; a started job
// always runs to completion.
func runNonPreemptive(policy string, jobs []Job, less lessFunc) Outcome {
	a := newArena(policy, jobs)
	h := newSlotHeap(a.jobs, less)
	for !a.finished() {
		a.admit(h.push)
		cur := h.pop()
		if cur < 0 {
			a.advance()
			continue
		}
		a.execute(cur, a.jobs[cur].RemainingTime)
	}
	return a.outcome()
}
