package sched

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// starvationJobs has a long job that becomes starving at t=4 while short
// jobs keep arriving.
func starvationJobs() []Job {
	return jobsOf(0, 4, 0, 2, 2, 2, 4, 1)
}

func TestBAL_StarvingJobOvertakesShorterJob(t *testing.T) {
	// GIVEN threshold 1 and a stream of short jobs behind a long one
	jobs := starvationJobs()

	// WHEN simulated under BAL
	out := NewBAL(Threshold(1)).Simulate(jobs)

	// THEN the long job runs at t=4 although job 3 is shorter, and among
	// starving jobs the shorter remaining time wins at t=5
	assert.Equal(t, []int64{9, 2, 4, 6}, completions(out))
	assert.Equal(t, []int64{4, 1, 3, 5}, starvingTimes(out))

	// AND pure SRPT would have served job 3 on arrival
	assert.Equal(t, []int64{9, 2, 4, 5}, completions(SRPT{}.Simulate(jobs)))
}

func TestBALLegacy_EarliestStarvingFirst(t *testing.T) {
	// GIVEN the same input
	jobs := starvationJobs()

	// WHEN simulated under the legacy variant
	out := NewBAL(Threshold(1)).Legacy().Simulate(jobs)

	// THEN the job that has starved longest keeps the processor
	assert.Equal(t, PolicyBALLegacy, out.Policy)
	assert.Equal(t, []int64{8, 2, 4, 9}, completions(out))
}

func TestBAL_StarvingTimeStampedAtCrossing(t *testing.T) {
	// GIVEN threshold 1 with a running and a waiting job
	jobs := jobsOf(0, 10, 0, 3)

	// WHEN simulated
	out := NewBAL(Threshold(1)).Simulate(jobs)

	// THEN each starving time is the first integer time the ratio reached 1
	assert.Equal(t, []int64{13, 3}, completions(out))
	assert.Equal(t, []int64{7, 2}, starvingTimes(out))
}

func TestBAL_ZeroThreshold_EqualsSRPTOnIndexOrderedInput(t *testing.T) {
	// GIVEN inputs whose indices follow arrival order
	for seed := int64(1); seed <= 4; seed++ {
		jobs := sortedRandomJobs(seed, 150, 300, 20)

		// WHEN every job is starving from arrival
		bal := NewBAL(Threshold(0)).Simulate(jobs)

		// THEN remaining time then index reproduces SRPT exactly
		assert.Equal(t, completions(SRPT{}.Simulate(jobs)), completions(bal))
	}
}

func TestBAL_InfiniteThreshold_EqualsSRPT(t *testing.T) {
	jobs := randomJobs(8, 150, 300, 20)
	bal := NewBAL(Threshold(math.Inf(1))).Simulate(jobs)
	assert.Equal(t, completions(SRPT{}.Simulate(jobs)), completions(bal))
	for _, j := range bal.Jobs {
		assert.Equal(t, int64(-1), j.StarvingTime)
	}
}

func TestBAL_EventDrivenMatchesUnitSteps(t *testing.T) {
	for seed := int64(1); seed <= 3; seed++ {
		jobs := randomJobs(seed, 60, 120, 15)
		for _, legacy := range []bool{false, true} {
			// GIVEN the same input and threshold
			threshold := DefaultStarvationThreshold(len(jobs))

			// WHEN run event-driven and with one unit per dispatch
			b := NewBAL(Threshold(threshold))
			if legacy {
				b = b.Legacy()
			}
			want := unitStepBAL(jobs, threshold, legacy)
			got := b.Simulate(jobs)

			// THEN completions and starving times are identical
			require.Equal(t, completions(want), completions(got), "seed %d legacy %v", seed, legacy)
			require.Equal(t, starvingTimes(want), starvingTimes(got), "seed %d legacy %v", seed, legacy)
		}
	}
}

// unitStepBAL re-selects after every time unit.
func unitStepBAL(jobs []Job, threshold float64, legacy bool) Outcome {
	a := newArena(PolicyBAL, jobs)
	var active []int
	for !a.finished() {
		a.admit(func(slot int) { active = append(active, slot) })
		if len(active) == 0 {
			a.advance()
			continue
		}
		var slot int
		if legacy {
			slot = SelectBALLegacy(a.jobs, active, a.clock, threshold)
		} else {
			slot = SelectBAL(a.jobs, active, a.clock, threshold)
		}
		var cur int
		active, cur = takeSlot(PolicyBAL, active, slot)
		if !a.execute(cur, 1) {
			active = append(active, cur)
		}
	}
	return a.outcome()
}

func TestBAL_DefaultThreshold(t *testing.T) {
	assert.InDelta(t, 4.0, DefaultStarvationThreshold(8), 1e-12)
	assert.InDelta(t, 100.0, DefaultStarvationThreshold(1000), 1e-9)
	assert.InDelta(t, 4.0, NewBAL(nil).thresholdFor(8), 1e-12)
	assert.Equal(t, 0.5, NewBAL(Threshold(0.5)).thresholdFor(8))
}

func TestNewBAL_CopiesThreshold(t *testing.T) {
	th := 2.0
	b := NewBAL(&th)
	th = 9
	assert.Equal(t, 2.0, b.thresholdFor(10))
}

func TestStarvationHorizon(t *testing.T) {
	tests := []struct {
		name      string
		job       Job
		now       int64
		delta     int64
		threshold float64
		running   bool
		want      int64
	}{
		{"waiting crosses mid-slice", NewJob(0, 0, 4), 2, 5, 1, false, 2},
		{"waiting never crosses", NewJob(0, 0, 100), 0, 5, 1, false, 5},
		{"running remaining shrinks", NewJob(0, 0, 2), 0, 2, 1, true, 1},
		{"already starving", Job{StarvingTime: 3, RemainingTime: 4}, 10, 5, 1, false, 5},
		{"unit slice", NewJob(0, 0, 4), 0, 1, 0.1, false, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := starvationHorizon(&tc.job, tc.now, tc.delta, tc.threshold, tc.running)
			assert.Equal(t, tc.want, got)
		})
	}
}

func starvingTimes(out Outcome) []int64 {
	s := make([]int64, len(out.Jobs))
	for i, j := range out.Jobs {
		s[i] = j.StarvingTime
	}
	return s
}
