package sched

import (
	"math"
	"sort"
)

// rule is a selection discipline driven by liveLoop. The meta-schedulers
// swap rules between dispatches.
type rule interface {
	name() string
	preemptive() bool
	// pick returns the slot to run next from a non-empty active set.
	pick(jobs []Job, active []int, now int64) int
	// bound caps the slice of slot beyond the remaining-work and
	// next-arrival limits; it returns delta when nothing earlier matters.
	bound(jobs []Job, active []int, slot int, now, delta int64) int64
}

type srptRule struct{}

func (srptRule) name() string { return PolicySRPT }
func (srptRule) preemptive() bool { return true }
func (srptRule) pick(jobs []Job, active []int, _ int64) int { return SelectSRPT(jobs, active) }
func (srptRule) bound(_ []Job, _ []int, _ int, _, delta int64) int64 {
	return delta
}

type fcfsRule struct{}

func (fcfsRule) name() string { return PolicyFCFS }
func (fcfsRule) preemptive() bool { return false }
func (fcfsRule) pick(jobs []Job, active []int, _ int64) int { return SelectFCFS(jobs, active) }
func (fcfsRule) bound(_ []Job, _ []int, _ int, _, delta int64) int64 {
	return delta
}

// balRule selects by starvation status and ends a slice at the first
// integer time any active job crosses the threshold, which is exactly
// when a unit-step loop would change its decision.
type balRule struct {
	threshold float64
	legacy    bool
}

func (r balRule) name() string {
	if r.legacy {
		return PolicyBALLegacy
	}
	return PolicyBAL
}

func (balRule) preemptive() bool { return true }

func (r balRule) pick(jobs []Job, active []int, now int64) int {
	if r.legacy {
		return SelectBALLegacy(jobs, active, now, r.threshold)
	}
	return SelectBAL(jobs, active, now, r.threshold)
}

func (r balRule) bound(jobs []Job, active []int, slot int, now, delta int64) int64 {
	if r.legacy && jobs[slot].StarvingTime >= 0 {
		// Equal starving times are ordered by waiting ratio, which can
		// change every unit.
		for _, s := range active {
			if jobs[s].StarvingTime == jobs[slot].StarvingTime {
				return 1
			}
		}
	}
	for _, s := range active {
		delta = starvationHorizon(&jobs[s], now, delta, r.threshold, false)
	}
	return starvationHorizon(&jobs[slot], now, delta, r.threshold, true)
}

// starvationHorizon returns the number of units k in [1, delta] after
// which j first reaches threshold, or delta if it does not. A running job
// loses one unit of remaining time per unit elapsed.
func starvationHorizon(j *Job, now, delta int64, threshold float64, running bool) int64 {
	if j.StarvingTime >= 0 || delta <= 1 || math.IsNaN(threshold) {
		return delta
	}
	ratioAt := func(k int64) float64 {
		rem := j.RemainingTime
		if running {
			rem -= k
		}
		return float64(now+k-j.ArrivalTime) / float64(max(1, rem))
	}
	// Units before delta are the only ones that can shorten the slice.
	k := sort.Search(int(delta-1), func(i int) bool {
		return ratioAt(int64(i)+1) >= threshold
	})
	return int64(k) + 1
}

// liveLoop drives the shared state machine with a rule that may change
// between dispatches. Preemptive rules return the running job to the
// active set after every slice, so selection is re-evaluated at each
// arrival, completion and rule event; a job dispatched under a
// non-preemptive rule runs to completion.
type liveLoop struct {
	a       *arena
	active  []int
	rule    rule
	onAdmit func(slot int) // may replace rule
}

func (l *liveLoop) run() {
	a := l.a
	admit := func(slot int) {
		l.active = append(l.active, slot)
		if l.onAdmit != nil {
			l.onAdmit(slot)
		}
	}
	for !a.finished() {
		a.admit(admit)
		if len(l.active) == 0 {
			a.advance()
			continue
		}
		r := l.rule
		var cur int
		l.active, cur = takeSlot(a.policy, l.active, r.pick(a.jobs, l.active, a.clock))
		delta := a.jobs[cur].RemainingTime
		if r.preemptive() {
			delta = min(delta, a.untilNextArrival())
			delta = r.bound(a.jobs, l.active, cur, a.clock, delta)
		}
		if !a.execute(cur, delta) {
			l.active = append(l.active, cur)
		}
	}
}
