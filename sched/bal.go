package sched

import "math"

// BAL is a starvation-aware SRPT hybrid. A job whose waiting ratio
// (now - arrival) / max(1, remaining) reaches the threshold is starving;
// starving jobs run first, shortest remaining time first. The default
// threshold is n^(2/3) for a run over n jobs.
type BAL struct {
	threshold *float64
	legacy    bool
}

// NewBAL creates a BAL simulator. A nil threshold selects n^(2/3).
func NewBAL(threshold *float64) *BAL {
	b := &BAL{}
	if threshold != nil {
		t := *threshold
		b.threshold = &t
	}
	return b
}

// Legacy returns a copy that orders starving jobs by starving time, then
// waiting ratio descending.
func (b *BAL) Legacy() *BAL {
	c := *b
	c.legacy = true
	return &c
}

func (b *BAL) Name() string {
	if b.legacy {
		return PolicyBALLegacy
	}
	return PolicyBAL
}

// DefaultStarvationThreshold returns n^(2/3).
func DefaultStarvationThreshold(n int) float64 {
	return math.Pow(float64(n), 2.0/3.0)
}

// thresholdFor resolves the threshold for a run over n jobs.
func (b *BAL) thresholdFor(n int) float64 {
	if b.threshold != nil {
		return *b.threshold
	}
	return DefaultStarvationThreshold(n)
}

func (b *BAL) Simulate(jobs []Job) Outcome {
	a := newArena(b.Name(), jobs)
	l := &liveLoop{a: a, rule: balRule{threshold: b.thresholdFor(len(a.jobs)), legacy: b.legacy}}
	l.run()
	return a.outcome()
}
