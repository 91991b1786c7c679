package metrics

import (
	"bytes"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/Enuma3lish/ultimus-sub000/sched"
	"github.com/Enuma3lish/ultimus-sub000/sched/trace"
)

func TestObserveRun(t *testing.T) {
	// GIVEN fresh collectors
	c := NewCollectors()

	// WHEN two runs of one policy are observed
	c.ObserveRun("srpt", sched.Result{AvgFlowTime: 2, L2NormFlowTime: 3, MaxFlowTime: 4}, time.Millisecond)
	c.ObserveRun("srpt", sched.Result{AvgFlowTime: 5, L2NormFlowTime: 6, MaxFlowTime: 7}, time.Millisecond)

	// THEN the counter accumulates and the gauges hold the latest values
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Runs.WithLabelValues("srpt")))
	assert.Equal(t, 6.0, testutil.ToFloat64(c.FlowTime.WithLabelValues("srpt", "l2")))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.FlowTime.WithLabelValues("srpt", "max")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.RunDuration))
}

func TestObserveRounds(t *testing.T) {
	c := NewCollectors()
	tr := trace.NewRoundTrace("srpt", "fcfs", 2, 1)
	for _, l := range []string{"srpt", "fcfs", "srpt"} {
		tr.Record(trace.RoundRecord{Chosen: l})
	}

	c.ObserveRounds("dynamic", trace.Summarize(tr))
	c.ObserveRounds("dynamic", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Rounds.WithLabelValues("dynamic", "srpt")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Rounds.WithLabelValues("dynamic", "fcfs")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Switches.WithLabelValues("dynamic")))
}

func TestRegister_Twice_ReportsEveryCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollectors()
	require.NoError(t, c.Register(reg))

	err := c.Register(reg)
	assert.Len(t, multierr.Errors(err), len(c.list()))
}

func TestWriteText(t *testing.T) {
	// GIVEN registered collectors with one observation
	reg := prometheus.NewRegistry()
	c := NewCollectors()
	require.NoError(t, c.Register(reg))
	c.ObserveRun("fcfs", sched.Result{AvgFlowTime: 1, L2NormFlowTime: 1, MaxFlowTime: 1}, time.Second)

	// WHEN written as text
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))

	// THEN the run counter appears with its label
	assert.Contains(t, buf.String(), `schedsim_runs_total{policy="fcfs"} 1`)
}
