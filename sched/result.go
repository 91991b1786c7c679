package sched

import (
	"math"

	"github.com/Enuma3lish/ultimus-sub000/sched/trace"
)

// Result is the aggregate every simulator produces.
type Result struct {
	AvgFlowTime    float64 `json:"avg_flow_time" yaml:"avg_flow_time"`
	L2NormFlowTime float64 `json:"l2_norm_flow_time" yaml:"l2_norm_flow_time"`
	MaxFlowTime    float64 `json:"max_flow_time" yaml:"max_flow_time"`
}

// ComputeResult aggregates flow times over completed jobs.
// Flow times are summed in int64 and their squares in float64, so large
// traces cannot overflow the L2 accumulator.
func ComputeResult(jobs []Job) Result {
	var (
		sum     int64
		squares float64
		maxFlow int64
		n       int
	)
	for _, j := range jobs {
		if !j.Completed() {
			continue
		}
		f := j.FlowTime()
		sum += f
		squares += float64(f) * float64(f)
		if f > maxFlow {
			maxFlow = f
		}
		n++
	}
	if n == 0 {
		return Result{}
	}
	return Result{
		AvgFlowTime:    float64(sum) / float64(n),
		L2NormFlowTime: math.Sqrt(squares),
		MaxFlowTime:    float64(maxFlow),
	}
}

// Outcome is the full product of one simulator invocation.
type Outcome struct {
	Policy string
	Jobs   []Job // the run's private copies, ordered by Index
	Result Result
	// Rounds holds the per-round policy decisions of a meta-scheduler.
	// nil for single-policy simulators.
	Rounds *trace.RoundTrace
}
