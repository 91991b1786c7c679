// Package metrics exposes simulator runs and meta-scheduler decisions as
// Prometheus collectors.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/Enuma3lish/ultimus-sub000/sched"
	"github.com/Enuma3lish/ultimus-sub000/sched/trace"
)

const namespace = "schedsim"

// Collectors groups every metric recorded by the batch runner. The zero
// value is not usable; call NewCollectors.
type Collectors struct {
	Runs        *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec
	FlowTime    *prometheus.GaugeVec
	Rounds      *prometheus.CounterVec
	Switches    *prometheus.CounterVec
}

// NewCollectors creates unregistered collectors.
func NewCollectors() *Collectors {
	return &Collectors{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed simulator runs",
		}, []string{"policy"}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:                   namespace,
			Name:                        "run_duration_seconds",
			Help:                        "Wall-clock time of one simulator run",
			Buckets:                     prometheus.ExponentialBuckets(1e-4, 4, 10),
			NativeHistogramBucketFactor: 1.1,
		}, []string{"policy"}),
		FlowTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "flow_time",
			Help:      "Flow-time aggregate of the latest run",
		}, []string{"policy", "stat"}),
		Rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_total",
			Help:      "Meta-scheduler rounds by chosen policy",
		}, []string{"policy", "chosen"}),
		Switches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_switches_total",
			Help:      "Rounds whose policy differs from the previous round",
		}, []string{"policy"}),
	}
}

func (c *Collectors) list() []prometheus.Collector {
	return []prometheus.Collector{c.Runs, c.RunDuration, c.FlowTime, c.Rounds, c.Switches}
}

// Register adds every collector to r and returns all registration errors.
func (c *Collectors) Register(r prometheus.Registerer) error {
	var errs error
	for _, col := range c.list() {
		errs = multierr.Append(errs, r.Register(col))
	}
	return errs
}

// ObserveRun records one completed run.
func (c *Collectors) ObserveRun(policy string, r sched.Result, d time.Duration) {
	c.Runs.WithLabelValues(policy).Inc()
	c.RunDuration.WithLabelValues(policy).Observe(d.Seconds())
	c.FlowTime.WithLabelValues(policy, "avg").Set(r.AvgFlowTime)
	c.FlowTime.WithLabelValues(policy, "l2").Set(r.L2NormFlowTime)
	c.FlowTime.WithLabelValues(policy, "max").Set(r.MaxFlowTime)
}

// ObserveRounds records the round decisions of a meta-scheduler run.
// A nil summary is ignored.
func (c *Collectors) ObserveRounds(policy string, s *trace.RoundSummary) {
	if s == nil {
		return
	}
	for chosen, n := range s.Counts {
		c.Rounds.WithLabelValues(policy, chosen).Add(float64(n))
	}
	c.Switches.WithLabelValues(policy).Add(float64(s.Switches))
}

// WriteText gathers g and writes it in the Prometheus text format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}
	log.WithFields(log.Fields{"families": len(families)}).Debug("wrote metrics")
	return nil
}
