package sched

import (
	"math"
	"math/rand"
)

// RMLF constants.
const (
	// rmlfTau scales the per-job beta draw.
	rmlfTau = 12.0
	// rmlfFixedBeta is used for the first rmlfFixedJobs inserted jobs.
	rmlfFixedBeta = 2.0
	rmlfFixedJobs = 3
)

// RMLF is the randomized multi-level feedback policy. It is preemptive and
// non-clairvoyant: a job in level i (0-based) moves down a level once its
// attained service reaches ceil(2^i * (1 + beta)), where beta is drawn
// once per job on insertion. The head of the lowest non-empty level runs
// one unit per step; consecutive identical steps are executed as a single
// slice ending at completion, the level target or the next arrival.
type RMLF struct {
	seed int64
	rng  *rand.Rand
}

// NewRMLF creates an RMLF simulator whose draws are seeded from seed on
// every run, so repeated runs are reproducible.
func NewRMLF(seed int64) *RMLF {
	return &RMLF{seed: seed}
}

// WithRand returns a copy that draws from rng instead of a per-run seeded
// source. The caller owns rng; runs sharing it are not reproducible.
func (r *RMLF) WithRand(rng *rand.Rand) *RMLF {
	c := *r
	c.rng = rng
	return &c
}

func (r *RMLF) Name() string { return PolicyRMLF }

// Seed returns the seed used when no RNG is injected.
func (r *RMLF) Seed() int64 { return r.seed }

// rmlfBeta draws beta for the k-th inserted job (0-based).
func rmlfBeta(rng *rand.Rand, k int, index int) float64 {
	if k < rmlfFixedJobs {
		return rmlfFixedBeta
	}
	// ln(index) must be positive; indices 0 and 1 only reach here when
	// the input is not in index order.
	idx := float64(max(index, 2))
	return -math.Log(1-rng.Float64()) / (rmlfTau * math.Log(idx))
}

// rmlfTarget returns the attained-service target of level l.
func rmlfTarget(l int, beta float64) int64 {
	t := math.Ceil(math.Ldexp(1+beta, min(l, 62)))
	if t >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(t)
}

func (r *RMLF) Simulate(jobs []Job) Outcome {
	rng := r.rng
	if rng == nil {
		rng = NewPartitionedRNG(NewSimulationKey(r.seed)).ForSubsystem(SubsystemRMLF)
	}
	a := newArena(PolicyRMLF, jobs)
	var levels [][]int
	level := make([]int, len(a.jobs))
	beta := make([]float64, len(a.jobs))
	inserted := 0

	// place appends slot to level l, growing the level array on demand.
	place := func(slot, l int) {
		for len(levels) <= l {
			levels = append(levels, nil)
		}
		level[slot] = l
		levels[l] = append(levels[l], slot)
	}

	for !a.finished() {
		a.admit(func(slot int) {
			beta[slot] = rmlfBeta(rng, inserted, a.jobs[slot].Index)
			inserted++
			place(slot, 0)
		})
		l := 0
		for l < len(levels) && len(levels[l]) == 0 {
			l++
		}
		if l == len(levels) {
			a.advance()
			continue
		}
		cur := levels[l][0]
		target := rmlfTarget(l, beta[cur])
		delta := min(a.jobs[cur].RemainingTime, target-a.jobs[cur].Elapsed(), a.untilNextArrival())
		done := a.execute(cur, delta)
		if !done && a.jobs[cur].Elapsed() < target {
			continue
		}
		levels[l] = levels[l][1:]
		if done {
			continue
		}
		next := l + 1
		for a.jobs[cur].Elapsed() >= rmlfTarget(next, beta[cur]) {
			next++
		}
		place(cur, next)
	}
	return a.outcome()
}
