// Package report aggregates simulator results across repeated runs.
package report

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/stat"

	"github.com/Enuma3lish/ultimus-sub000/sched"
)

// Stats describes one metric over a set of runs.
type Stats struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"stddev" yaml:"stddev"`
	P50    float64 `json:"p50" yaml:"p50"`
	P95    float64 `json:"p95" yaml:"p95"`
	Max    float64 `json:"max" yaml:"max"`
}

// Summary aggregates the results of one policy.
type Summary struct {
	Policy  string `json:"policy" yaml:"policy"`
	Runs    int    `json:"runs" yaml:"runs"`
	AvgFlow Stats  `json:"avg_flow_time" yaml:"avg_flow_time"`
	L2Norm  Stats  `json:"l2_norm_flow_time" yaml:"l2_norm_flow_time"`
	MaxFlow Stats  `json:"max_flow_time" yaml:"max_flow_time"`
}

// Summarize computes statistics over results. No results yield a zero
// Summary carrying only the policy name.
func Summarize(policy string, results []sched.Result) Summary {
	s := Summary{Policy: policy, Runs: len(results)}
	if len(results) == 0 {
		return s
	}
	s.AvgFlow = describe(column(results, func(r sched.Result) float64 { return r.AvgFlowTime }))
	s.L2Norm = describe(column(results, func(r sched.Result) float64 { return r.L2NormFlowTime }))
	s.MaxFlow = describe(column(results, func(r sched.Result) float64 { return r.MaxFlowTime }))
	return s
}

func column(results []sched.Result, f func(sched.Result) float64) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = f(r)
	}
	return out
}

// describe sorts x in place and summarizes it.
func describe(x []float64) Stats {
	sort.Float64s(x)
	st := Stats{
		Mean: stat.Mean(x, nil),
		P50:  stat.Quantile(0.5, stat.Empirical, x, nil),
		P95:  stat.Quantile(0.95, stat.Empirical, x, nil),
		Max:  maxOf(x),
	}
	if len(x) > 1 {
		st.StdDev = stat.StdDev(x, nil)
	}
	return st
}

func maxOf[T constraints.Integer | constraints.Float](x []T) T {
	var m T
	for i, v := range x {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}

// Rank orders summaries by mean L2 norm, then mean flow time, then policy
// name. The input is not modified.
func Rank(summaries []Summary) []Summary {
	out := make([]Summary, len(summaries))
	copy(out, summaries)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.L2Norm.Mean != b.L2Norm.Mean {
			return a.L2Norm.Mean < b.L2Norm.Mean
		}
		if a.AvgFlow.Mean != b.AvgFlow.Mean {
			return a.AvgFlow.Mean < b.AvgFlow.Mean
		}
		return a.Policy < b.Policy
	})
	return out
}

// Ratio returns value / baseline, or 0 when the baseline is zero.
func Ratio[T constraints.Integer | constraints.Float](value, baseline T) float64 {
	if baseline == 0 {
		return 0
	}
	return float64(value) / float64(baseline)
}

// Row formats a summary for tabular output: policy, runs, mean avg flow,
// mean L2, p95 L2, mean max flow and the L2 ratio against baseline.
func Row(s Summary, baseline Summary) []string {
	return []string{
		s.Policy,
		fmt.Sprint(s.Runs),
		formatFloat(s.AvgFlow.Mean),
		formatFloat(s.L2Norm.Mean),
		formatFloat(s.L2Norm.P95),
		formatFloat(s.MaxFlow.Mean),
		formatFloat(Ratio(s.L2Norm.Mean, baseline.L2Norm.Mean)),
	}
}

// Header matches Row.
func Header() []string {
	return []string{"Policy", "Runs", "Avg Flow", "L2 Norm", "L2 p95", "Max Flow", "L2 / Best"}
}

func formatFloat(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}
