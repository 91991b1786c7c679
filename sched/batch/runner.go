// Package batch runs many independent simulations on a worker pool and
// streams their reports over a channel.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/Enuma3lish/ultimus-sub000/internal/metrics"
	"github.com/Enuma3lish/ultimus-sub000/sched"
	"github.com/Enuma3lish/ultimus-sub000/sched/trace"
)

// Task is one simulator invocation.
type Task struct {
	ID     int
	Label  string // free-form, e.g. the workload a task belongs to
	Policy string
	Config sched.PolicyConfig
	Jobs   []sched.Job
}

// Report is the product of one Task.
type Report struct {
	TaskID   int
	Label    string
	Outcome  sched.Outcome
	Duration time.Duration
	// Rounds summarizes meta-scheduler decisions; nil for single policies.
	Rounds *trace.RoundSummary
}

// Runner executes tasks concurrently. Workers <= 0 uses GOMAXPROCS.
// Metrics, when set, records every completed run.
type Runner struct {
	Workers int
	Metrics *metrics.Collectors
}

// ValidateTasks checks policy names, configs and job tables of every task
// and returns all problems found.
func ValidateTasks(tasks []Task) error {
	var errs error
	seen := make(map[int]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			errs = multierr.Append(errs, fmt.Errorf("task %d: duplicate id", t.ID))
		}
		seen[t.ID] = true
		if !sched.IsValidPolicy(t.Policy) {
			errs = multierr.Append(errs, fmt.Errorf("task %d: unknown policy %q", t.ID, t.Policy))
		}
		if err := t.Config.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("task %d: %w", t.ID, err))
		}
		if err := sched.ValidateJobs(t.Jobs); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("task %d: %w", t.ID, err))
		}
	}
	return errs
}

// Run dispatches tasks to the worker pool and returns a channel that
// receives one Report per executed task and is closed when all workers are
// done. Cancelling ctx stops dispatching; tasks already running finish.
// Reports arrive in completion order. Invalid tasks panic in the worker,
// so callers should check ValidateTasks first.
func (r *Runner) Run(ctx context.Context, tasks []Task) <-chan Report {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = max(1, min(workers, len(tasks)))

	queue := make(chan Task)
	// Buffered so workers never block on a consumer that stopped reading.
	out := make(chan Report, len(tasks))

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for t := range queue {
				out <- r.run(t)
			}
		}()
	}

	go func() {
		defer close(queue)
		for i, t := range tasks {
			if ctx.Err() != nil {
				logrus.Debugf("batch cancelled after dispatching %d/%d tasks", i, len(tasks))
				return
			}
			select {
			case <-ctx.Done():
				logrus.Debugf("batch cancelled after dispatching %d/%d tasks", i, len(tasks))
				return
			case queue <- t:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func (r *Runner) run(t Task) Report {
	start := time.Now()
	out := sched.NewSimulator(t.Policy, t.Config).Simulate(t.Jobs)
	rep := Report{TaskID: t.ID, Label: t.Label, Outcome: out, Duration: time.Since(start)}
	if out.Rounds != nil {
		rep.Rounds = trace.Summarize(out.Rounds)
	}
	if r.Metrics != nil {
		r.Metrics.ObserveRun(out.Policy, out.Result, rep.Duration)
		r.Metrics.ObserveRounds(out.Policy, rep.Rounds)
	}
	logrus.Debugf("task %d (%s) done in %v: avg=%.3f l2=%.3f max=%.0f",
		t.ID, t.Policy, rep.Duration, out.Result.AvgFlowTime, out.Result.L2NormFlowTime, out.Result.MaxFlowTime)
	return rep
}

// Collect drains ch and returns the reports ordered by task ID.
func Collect(ch <-chan Report) []Report {
	var reports []Report
	for rep := range ch {
		reports = append(reports, rep)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].TaskID < reports[j].TaskID })
	return reports
}
