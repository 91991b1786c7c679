package sched

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Enuma3lish/ultimus-sub000/sched/internal/testutil"
)

// jobsOf builds jobs from (arrival, size) pairs given as a flat list.
func jobsOf(pairs ...int64) []Job {
	if len(pairs)%2 != 0 {
		panic("jobsOf needs arrival/size pairs")
	}
	specs := make([]JobSpec, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		specs = append(specs, JobSpec{ArrivalTime: pairs[i], Size: pairs[i+1]})
	}
	return NewJobs(specs)
}

// randomJobs returns seeded random jobs in index order but unsorted arrivals.
func randomJobs(seed int64, n int, horizon, maxSize int64) []Job {
	pairs := testutil.RandomPairs(seed, n, horizon, maxSize)
	specs := make([]JobSpec, len(pairs))
	for i, p := range pairs {
		specs[i] = JobSpec{ArrivalTime: p.Arrival, Size: p.Size}
	}
	return NewJobs(specs)
}

// singlePolicies lists every non-meta simulator with test parameters.
func singlePolicies() []Simulator {
	cfg := PolicyConfig{TimeQuantum: 3, NumQueues: 5, Seed: 7}
	return []Simulator{
		NewSimulator(PolicyFCFS, cfg),
		NewSimulator(PolicySRPT, cfg),
		NewSimulator(PolicySJF, cfg),
		NewSimulator(PolicySETF, cfg),
		NewSimulator(PolicyRR, cfg),
		NewSimulator(PolicyMLFQ, cfg),
		NewSimulator(PolicyBAL, cfg),
		NewSimulator(PolicyBALLegacy, cfg),
		NewSimulator(PolicyRMLF, cfg),
	}
}

// allPolicies adds the meta-schedulers with small rounds.
func allPolicies() []Simulator {
	cfg := PolicyConfig{Dynamic: DynamicConfig{JobsPerRound: 4, Mode: 6, Parallel: true}}
	return append(singlePolicies(), NewSimulator(PolicyDynamic, cfg), NewSimulator(PolicyDynamicBAL, cfg))
}

// requireCompleted asserts the terminal invariants of an outcome against
// the input it was produced from.
func requireCompleted(t *testing.T, input []Job, out Outcome) {
	t.Helper()
	require.Len(t, out.Jobs, len(input), "%s: job count", out.Policy)
	for i, j := range out.Jobs {
		require.Equal(t, input[i].Index, j.Index, "%s: outcome must be ordered by index", out.Policy)
		require.Equal(t, input[i].ArrivalTime, j.ArrivalTime)
		require.Equal(t, input[i].Size, j.Size)
		require.Zero(t, j.RemainingTime, "%s: %v", out.Policy, j)
		require.True(t, j.Completed(), "%s: %v", out.Policy, j)
		require.GreaterOrEqual(t, j.StartTime, j.ArrivalTime, "%s: %v", out.Policy, j)
		require.GreaterOrEqual(t, j.CompletionTime, j.ArrivalTime+j.Size, "%s: %v", out.Policy, j)
		require.GreaterOrEqual(t, j.CompletionTime, j.StartTime+j.Size, "%s: %v", out.Policy, j)
	}
}

// requireMetricsConsistent recomputes the aggregates from the jobs.
func requireMetricsConsistent(t *testing.T, out Outcome) {
	t.Helper()
	var sum, sq, mx float64
	for _, j := range out.Jobs {
		f := float64(j.FlowTime())
		sum += f
		sq += f * f
		mx = math.Max(mx, f)
	}
	n := float64(len(out.Jobs))
	testutil.AssertFloat64Equal(t, out.Policy+" avg", sum/n, out.Result.AvgFlowTime, 1e-9)
	testutil.AssertFloat64Equal(t, out.Policy+" l2", math.Sqrt(sq), out.Result.L2NormFlowTime, 1e-9)
	testutil.AssertFloat64Equal(t, out.Policy+" max", mx, out.Result.MaxFlowTime, 1e-9)
}
