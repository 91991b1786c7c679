package sched

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Enuma3lish/ultimus-sub000/sched/trace"
)

func dynamicConfig(perRound, mode int) PolicyConfig {
	return PolicyConfig{Dynamic: DynamicConfig{JobsPerRound: perRound, Mode: mode}}
}

// fcfsFavoredRounds has a first round where FCFS scores a lower L2 norm
// than SRPT: preempting the nearly finished long job costs more than it
// saves.
func fcfsFavoredRounds() []Job {
	return jobsOf(0, 10, 8, 1, 20, 10, 28, 1)
}

func TestDynamic_SwitchesToFallbackOnLowerL2(t *testing.T) {
	// GIVEN two rounds of two jobs where round 1 favors FCFS in hindsight
	jobs := fcfsFavoredRounds()

	// WHEN simulated by the SRPT/FCFS meta-scheduler
	out := NewDynamic(dynamicConfig(2, 1)).Simulate(jobs)

	// THEN round 1 runs SRPT and round 2 runs FCFS
	require.NotNil(t, out.Rounds)
	assert.Equal(t, []string{PolicySRPT, PolicyFCFS}, out.Rounds.Labels())
	assert.Equal(t, []int64{11, 9, 30, 31}, completions(out))

	rec := out.Rounds.Records[1]
	assert.Equal(t, 2, rec.Round)
	assert.Equal(t, int64(20), rec.Clock)
	assert.Equal(t, 1, rec.WindowRounds)
	assert.Equal(t, 2, rec.WindowJobs)
	assert.InDelta(t, math.Sqrt(122), rec.PrimaryL2, 1e-12)
	assert.InDelta(t, math.Sqrt(109), rec.FallbackL2, 1e-12)
	assert.Equal(t, trace.ReasonLowerL2, rec.Reason)
}

func TestDynamic_FirstRoundAlwaysPrimary(t *testing.T) {
	jobs := randomJobs(13, 40, 100, 10)
	for mode := 1; mode <= MaxMode; mode++ {
		for _, m := range []*MetaScheduler{NewDynamic(dynamicConfig(5, mode)), NewDynamicBAL(dynamicConfig(5, mode))} {
			out := m.Simulate(jobs)
			primary, _ := m.Candidates()
			rec := out.Rounds.Records[0]
			assert.Equal(t, primary, rec.Chosen, "%s mode %d", m.Name(), mode)
			assert.Equal(t, trace.ReasonFirstRound, rec.Reason)
			assert.Zero(t, rec.WindowJobs)
		}
	}
}

func TestDynamic_RoundCount(t *testing.T) {
	tests := []struct {
		n, perRound, want int
	}{
		{10, 4, 3},
		{12, 4, 3},
		{3, 100, 1},
		{1, 1, 1},
	}
	for _, tc := range tests {
		jobs := randomJobs(2, tc.n, 50, 5)
		out := NewDynamic(dynamicConfig(tc.perRound, 1)).Simulate(jobs)
		assert.Equal(t, tc.want, out.Rounds.TotalRounds(), "n=%d N=%d", tc.n, tc.perRound)
		assert.Len(t, out.Rounds.Labels(), tc.want)
		assert.Equal(t, tc.perRound, out.Rounds.JobsPerRound)
	}
}

func TestDynamic_ModeOneIgnoresOlderRounds(t *testing.T) {
	// GIVEN two inputs that differ only in round 1
	x := append(jobsOf(0, 10, 8, 1), jobsOf(20, 10, 28, 1, 40, 3, 41, 1)...)
	y := append(jobsOf(0, 1, 1, 1), jobsOf(20, 10, 28, 1, 40, 3, 41, 1)...)
	for i := range x {
		x[i].Index, y[i].Index = i, i
	}
	m := NewDynamic(dynamicConfig(2, 1))

	// WHEN simulated with mode 1
	ox, oy := m.Simulate(x), m.Simulate(y)

	// THEN round 2 differs but round 3 is decided identically
	assert.NotEqual(t, ox.Rounds.Records[1].Chosen, oy.Rounds.Records[1].Chosen)
	assert.Equal(t, ox.Rounds.Records[2], oy.Rounds.Records[2])
}

func TestDynamic_SingleRound_EqualsPrimary(t *testing.T) {
	// GIVEN one round covering every job
	jobs := randomJobs(31, 80, 200, 20)
	cfg := dynamicConfig(len(jobs), 1)

	// WHEN simulated by the meta-schedulers
	// THEN they reproduce the primary policy exactly
	assert.Equal(t, SRPT{}.Simulate(jobs).Jobs, NewDynamic(cfg).Simulate(jobs).Jobs)
	assert.Equal(t, completions(NewBAL(nil).Simulate(jobs)), completions(NewDynamicBAL(cfg).Simulate(jobs)))
}

func TestDynamic_ParallelMatchesSequential(t *testing.T) {
	jobs := randomJobs(41, 120, 300, 25)
	for mode := 1; mode <= MaxMode; mode++ {
		seq, par := dynamicConfig(6, mode), dynamicConfig(6, mode)
		par.Dynamic.Parallel = true
		for _, name := range []string{PolicyDynamic, PolicyDynamicBAL} {
			a := NewSimulator(name, seq).Simulate(jobs)
			b := NewSimulator(name, par).Simulate(jobs)
			assert.Equal(t, a.Rounds, b.Rounds, "%s mode %d", name, mode)
			assert.Equal(t, a.Result, b.Result)
		}
	}
}

func TestDynamic_ShortHistoryDegradesMode(t *testing.T) {
	// GIVEN mode 3, which wants four closed rounds
	jobs := randomJobs(3, 12, 60, 5)

	// WHEN only two rounds have closed before round 3
	out := NewDynamic(dynamicConfig(4, 3)).Simulate(jobs)

	// THEN the decision uses the previous round only
	rec := out.Rounds.Records[2]
	assert.Equal(t, 3, rec.Mode)
	assert.Equal(t, 1, rec.EffectiveMode)
	assert.Equal(t, 1, rec.WindowRounds)
	assert.Equal(t, 4, rec.WindowJobs)
}

func TestDynamic_FullHistoryWindow(t *testing.T) {
	jobs := randomJobs(4, 20, 80, 5)
	out := NewDynamicBAL(dynamicConfig(4, 6)).Simulate(jobs)
	for i, rec := range out.Rounds.Records[1:] {
		assert.Equal(t, i+1, rec.WindowRounds)
		assert.Equal(t, 4*(i+1), rec.WindowJobs)
	}
}

func TestChoose(t *testing.T) {
	tests := []struct {
		name       string
		l2a, l2b   float64
		wantChosen string
		wantReason string
	}{
		{"fallback lower", 10, 9, PolicyFCFS, trace.ReasonLowerL2},
		{"primary lower", 9, 10, PolicySRPT, trace.ReasonNotLower},
		{"tie keeps primary", 5, 5, PolicySRPT, trace.ReasonNotLower},
		{"nan primary", math.NaN(), 1, PolicySRPT, trace.ReasonNonFinite},
		{"inf fallback", 10, math.Inf(-1), PolicySRPT, trace.ReasonNonFinite},
		{"inf primary", math.Inf(1), 3, PolicySRPT, trace.ReasonNonFinite},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chosen, reason := choose(PolicySRPT, PolicyFCFS, tc.l2a, tc.l2b)
			assert.Equal(t, tc.wantChosen, chosen)
			assert.Equal(t, tc.wantReason, reason)
		})
	}
}

func TestNewMetaScheduler_InvalidConfig_Panics(t *testing.T) {
	assert.Panics(t, func() { NewDynamic(dynamicConfig(-1, 1)) })
	assert.Panics(t, func() { NewDynamicBAL(dynamicConfig(10, MaxMode+1)) })
	assert.Panics(t, func() { NewDynamic(dynamicConfig(10, -2)) })
}

func TestMetaScheduler_Candidates(t *testing.T) {
	p, f := NewDynamicBAL(PolicyConfig{}).Candidates()
	assert.Equal(t, PolicyBAL, p)
	assert.Equal(t, PolicyFCFS, f)
	assert.Equal(t, PolicyDynamicBAL, NewDynamicBAL(PolicyConfig{}).Name())
}

func TestLiveLoop_FCFSRule_EqualsFCFS(t *testing.T) {
	jobs := randomJobs(19, 100, 200, 15)
	a := newArena(PolicyFCFS, jobs)
	(&liveLoop{a: a, rule: fcfsRule{}}).run()
	assert.Equal(t, FCFS{}.Simulate(jobs).Jobs, a.outcome().Jobs)
}
