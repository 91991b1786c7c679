package sched

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"
)

// arena is a simulator's private working copy of the job list.
// Jobs are sorted by (arrival, index) and addressed by slot; the slice is
// never resized, so slots stay valid for the whole run.
type arena struct {
	policy string
	jobs   []Job
	next   int // first slot not yet admitted
	done   int // completed jobs
	clock  int64
}

func newArena(policy string, src []Job) *arena {
	jobs := CloneJobs(src)
	for i := range jobs {
		if jobs[i].Size <= 0 {
			violate(policy, 0, jobs[i].Index, "job_size must be positive, got %d", jobs[i].Size)
		}
		if jobs[i].ArrivalTime < 0 {
			violate(policy, 0, jobs[i].Index, "arrival_time must be non-negative, got %d", jobs[i].ArrivalTime)
		}
		jobs[i].Reset()
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		if jobs[i].ArrivalTime != jobs[j].ArrivalTime {
			return jobs[i].ArrivalTime < jobs[j].ArrivalTime
		}
		return jobs[i].Index < jobs[j].Index
	})
	return &arena{policy: policy, jobs: jobs}
}

func (a *arena) finished() bool {
	return a.done == len(a.jobs)
}

// admit hands every pending job with arrival <= clock to fn, in slot order.
// Returns the number of jobs admitted.
func (a *arena) admit(fn func(slot int)) int {
	n := 0
	for a.next < len(a.jobs) && a.jobs[a.next].ArrivalTime <= a.clock {
		fn(a.next)
		a.next++
		n++
	}
	return n
}

// untilNextArrival returns the gap to the next pending arrival,
// or math.MaxInt64 when every job has been admitted.
func (a *arena) untilNextArrival() int64 {
	if a.next >= len(a.jobs) {
		return math.MaxInt64
	}
	return a.jobs[a.next].ArrivalTime - a.clock
}

// advance moves the idle clock forward to the next arrival.
func (a *arena) advance() {
	if a.next >= len(a.jobs) {
		violate(a.policy, a.clock, -1, "no schedulable job and no pending arrivals with %d/%d jobs complete", a.done, len(a.jobs))
	}
	t := a.jobs[a.next].ArrivalTime
	if t <= a.clock {
		violate(a.policy, a.clock, a.jobs[a.next].Index, "next arrival %d does not advance the clock", t)
	}
	a.clock = t
}

// execute runs slot for delta time units and reports whether it completed.
func (a *arena) execute(slot int, delta int64) bool {
	j := &a.jobs[slot]
	switch {
	case delta <= 0:
		violate(a.policy, a.clock, j.Index, "non-positive execution delta %d", delta)
	case a.clock < j.ArrivalTime:
		violate(a.policy, a.clock, j.Index, "executed before arrival %d", j.ArrivalTime)
	case j.Completed():
		violate(a.policy, a.clock, j.Index, "executed after completion at %d", j.CompletionTime)
	case delta > j.RemainingTime:
		violate(a.policy, a.clock, j.Index, "delta %d exceeds remaining time %d", delta, j.RemainingTime)
	}
	if j.StartTime < 0 {
		j.StartTime = a.clock
	}
	logrus.Tracef("[%s t=%d] run job %d for %d", a.policy, a.clock, j.Index, delta)
	j.RemainingTime -= delta
	a.clock += delta
	if j.RemainingTime == 0 {
		j.CompletionTime = a.clock
		a.done++
		return true
	}
	return false
}

// outcome verifies the terminal state and returns the run's jobs ordered
// by Index together with their aggregate result.
func (a *arena) outcome() Outcome {
	for _, j := range a.jobs {
		if !j.Completed() || j.RemainingTime != 0 {
			violate(a.policy, a.clock, j.Index, "job not completed at end of run (remaining %d)", j.RemainingTime)
		}
		if j.CompletionTime < j.ArrivalTime+j.Size {
			violate(a.policy, a.clock, j.Index, "completion %d earlier than arrival+size %d", j.CompletionTime, j.ArrivalTime+j.Size)
		}
	}
	out := CloneJobs(a.jobs)
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return Outcome{Policy: a.policy, Jobs: out, Result: ComputeResult(out)}
}

// takeSlot removes slot from active. A slot missing from active means the
// selector and the active list disagree; the first active job is used
// instead and the mismatch is logged.
func takeSlot(policy string, active []int, slot int) ([]int, int) {
	for i, s := range active {
		if s == slot {
			return append(active[:i], active[i+1:]...), s
		}
	}
	if len(active) == 0 {
		violate(policy, -1, -1, "selected slot %d from an empty active set", slot)
	}
	logrus.Warnf("%s: selected slot %d not in active set of %d jobs; falling back to first queued job", policy, slot, len(active))
	return active[1:], active[0]
}
