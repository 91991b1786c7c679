package sched

import (
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Enuma3lish/ultimus-sub000/sched/trace"
)

// MetaScheduler switches between a primary and a fallback policy per
// round. Before each round after the first it replays a window of closed
// rounds under both policies and runs the upcoming round under whichever
// produced the lower L2-norm flow time.
type MetaScheduler struct {
	name     string
	primary  string
	fallback string
	cfg      PolicyConfig
}

// NewDynamic creates the SRPT-vs-FCFS meta-scheduler.
// Panics on an invalid round size or mode.
func NewDynamic(cfg PolicyConfig) *MetaScheduler {
	return newMetaScheduler(PolicyDynamic, PolicySRPT, PolicyFCFS, cfg)
}

// NewDynamicBAL creates the BAL-vs-FCFS meta-scheduler.
// Panics on an invalid round size or mode.
func NewDynamicBAL(cfg PolicyConfig) *MetaScheduler {
	return newMetaScheduler(PolicyDynamicBAL, PolicyBAL, PolicyFCFS, cfg)
}

func newMetaScheduler(name, primary, fallback string, cfg PolicyConfig) *MetaScheduler {
	cfg = cfg.withDefaults()
	if cfg.Dynamic.JobsPerRound <= 0 {
		panic(fmt.Sprintf("%s: jobs per round must be positive, got %d", name, cfg.Dynamic.JobsPerRound))
	}
	if cfg.Dynamic.Mode < 1 || cfg.Dynamic.Mode > MaxMode {
		panic(fmt.Sprintf("%s: mode must be in 1..%d, got %d", name, MaxMode, cfg.Dynamic.Mode))
	}
	return &MetaScheduler{name: name, primary: primary, fallback: fallback, cfg: cfg}
}

func (m *MetaScheduler) Name() string { return m.name }

// Candidates returns the primary and fallback policy names.
func (m *MetaScheduler) Candidates() (primary, fallback string) {
	return m.primary, m.fallback
}

// liveRule returns the rule used for policy name in a live run over n jobs.
func (m *MetaScheduler) liveRule(name string, n int) rule {
	switch name {
	case PolicySRPT:
		return srptRule{}
	case PolicyFCFS:
		return fcfsRule{}
	case PolicyBAL:
		return balRule{threshold: NewBAL(m.cfg.StarvationThreshold).thresholdFor(n)}
	default:
		panic(fmt.Sprintf("%s: no live rule for %q", m.name, name))
	}
}

func (m *MetaScheduler) Simulate(jobs []Job) Outcome {
	a := newArena(m.name, jobs)
	perRound := m.cfg.Dynamic.JobsPerRound
	tr := trace.NewRoundTrace(m.primary, m.fallback, perRound, m.cfg.Dynamic.Mode)
	rules := map[string]rule{
		m.primary:  m.liveRule(m.primary, len(a.jobs)),
		m.fallback: m.liveRule(m.fallback, len(a.jobs)),
	}
	hist := newRoundHistory(perRound)
	loop := &liveLoop{a: a, rule: rules[m.primary]}
	// Slots follow arrival order, so slot/perRound is the job's round and
	// every earlier round has closed when a round's first job is admitted.
	loop.onAdmit = func(slot int) {
		if slot%perRound == 0 {
			rec := m.decide(hist, slot/perRound+1)
			rec.Clock = a.clock
			tr.Record(rec)
			loop.rule = rules[rec.Chosen]
		}
		hist.add(a.jobs[slot])
	}
	loop.run()

	out := a.outcome()
	out.Rounds = tr
	return out
}

// decide picks the policy for the given 1-based round.
func (m *MetaScheduler) decide(hist *roundHistory, round int) trace.RoundRecord {
	rec := trace.RoundRecord{Round: round, Mode: m.cfg.Dynamic.Mode, EffectiveMode: m.cfg.Dynamic.Mode}
	if round == 1 || hist.closedCount() == 0 {
		rec.Chosen, rec.Reason = m.primary, trace.ReasonFirstRound
		return rec
	}
	count, effective := windowRounds(m.cfg.Dynamic.Mode, round, hist.closedCount())
	if effective != m.cfg.Dynamic.Mode {
		logrus.Debugf("%s round %d: mode %d needs more history, using mode %d", m.name, round, m.cfg.Dynamic.Mode, effective)
	}
	window := hist.windowJobs(count)
	rec.EffectiveMode, rec.WindowRounds, rec.WindowJobs = effective, count, len(window)

	rec.PrimaryL2, rec.FallbackL2 = m.replay(window)
	rec.Chosen, rec.Reason = choose(m.primary, m.fallback, rec.PrimaryL2, rec.FallbackL2)
	logrus.Debugf("%s round %d: %s l2=%.4f, %s l2=%.4f -> %s (%s)",
		m.name, round, m.primary, rec.PrimaryL2, m.fallback, rec.FallbackL2, rec.Chosen, rec.Reason)
	return rec
}

// replay simulates window under both candidates and returns their L2 norms.
// Each candidate gets its own copy of the window.
func (m *MetaScheduler) replay(window []Job) (primaryL2, fallbackL2 float64) {
	run := func(name string) float64 {
		return NewSimulator(name, m.cfg).Simulate(CloneJobs(window)).Result.L2NormFlowTime
	}
	if !m.cfg.Dynamic.Parallel {
		return run(m.primary), run(m.fallback)
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		fallbackL2 = run(m.fallback)
	}()
	primaryL2 = run(m.primary)
	wg.Wait()
	return primaryL2, fallbackL2
}

// choose adopts the fallback only when both scores are finite and the
// fallback is strictly lower; ties and anomalies keep the primary.
func choose(primary, fallback string, primaryL2, fallbackL2 float64) (string, string) {
	if !finite(primaryL2) || !finite(fallbackL2) {
		logrus.Debugf("non-finite retrospective score (%v, %v); keeping %s", primaryL2, fallbackL2, primary)
		return primary, trace.ReasonNonFinite
	}
	if fallbackL2 < primaryL2 {
		return fallback, trace.ReasonLowerL2
	}
	return primary, trace.ReasonNotLower
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
