package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Enuma3lish/ultimus-sub000/sched"
)

func results(l2 ...float64) []sched.Result {
	out := make([]sched.Result, len(l2))
	for i, v := range l2 {
		out[i] = sched.Result{AvgFlowTime: v / 2, L2NormFlowTime: v, MaxFlowTime: v * 2}
	}
	return out
}

func TestSummarize(t *testing.T) {
	// GIVEN four runs with L2 norms 4, 1, 3, 2
	rs := results(4, 1, 3, 2)

	// WHEN summarized
	s := Summarize("srpt", rs)

	// THEN each metric is described independently
	assert.Equal(t, "srpt", s.Policy)
	assert.Equal(t, 4, s.Runs)
	assert.Equal(t, 2.5, s.L2Norm.Mean)
	assert.InDelta(t, math.Sqrt(5.0/3), s.L2Norm.StdDev, 1e-12)
	assert.Equal(t, 2.0, s.L2Norm.P50)
	assert.Equal(t, 4.0, s.L2Norm.P95)
	assert.Equal(t, 4.0, s.L2Norm.Max)
	assert.Equal(t, 1.25, s.AvgFlow.Mean)
	assert.Equal(t, 8.0, s.MaxFlow.Max)

	// AND the input is left in its original order
	assert.Equal(t, 4.0, rs[0].L2NormFlowTime)
}

func TestSummarize_SingleAndEmpty(t *testing.T) {
	s := Summarize("fcfs", results(7))
	assert.Equal(t, Stats{Mean: 7, P50: 7, P95: 7, Max: 7}, s.L2Norm)

	assert.Equal(t, Summary{Policy: "fcfs"}, Summarize("fcfs", nil))
}

func TestRank(t *testing.T) {
	in := []Summary{
		Summarize("fcfs", results(9)),
		Summarize("srpt", results(3)),
		Summarize("bal", results(3)),
		Summarize("rr", results(5)),
	}
	ranked := Rank(in)
	names := make([]string, len(ranked))
	for i, s := range ranked {
		names[i] = s.Policy
	}
	assert.Equal(t, []string{"bal", "srpt", "rr", "fcfs"}, names)
	assert.Equal(t, "fcfs", in[0].Policy)
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 2.0, Ratio(6, 3))
	assert.Equal(t, 0.5, Ratio(1.5, 3.0))
	assert.Zero(t, Ratio(4, 0))
}

func TestMaxOf(t *testing.T) {
	assert.Equal(t, -1.0, maxOf([]float64{-3, -1, -2}))
	assert.Equal(t, int64(9), maxOf([]int64{9, 2}))
	assert.Zero(t, maxOf([]int{}))
}

func TestRow(t *testing.T) {
	best := Summarize("srpt", results(4))
	row := Row(Summarize("fcfs", results(6)), best)
	assert.Equal(t, []string{"fcfs", "1", "3", "6", "6", "12", "1.5"}, row)
	assert.Len(t, Header(), len(row))
}
