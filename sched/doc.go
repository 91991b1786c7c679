// Package sched provides the discrete-event simulators used to evaluate
// single-machine scheduling policies.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - job.go: Job record, lifecycle fields and validation
//   - arena.go: the per-run working copy of the job list and the shared
//     admission/execution bookkeeping every simulator uses
//   - selector.go: orderings that pick the next job from the active set
//   - dynamic.go: the meta-schedulers that pick a policy per round
//
// # Architecture
//
// Every simulator implements Simulator and is a pure function of its input:
// it copies the caller's jobs into a private arena, refers to them by arena
// slot, and returns an Outcome. Nothing is shared between runs, so callers
// may run any number of simulators concurrently (see sched/batch).
//
// Sub-packages:
//   - sched/trace/: per-round decision records of the meta-schedulers
//   - sched/workload/: two-column job tables and synthetic job generation
//   - sched/batch/: concurrent runner that reports results over a channel
//   - sched/report/: cross-run aggregation of results
//
// # Failure model
//
// Arithmetic invariant violations (negative remaining time, execution
// before arrival, non-positive slices, unfinished jobs at the end of a run)
// panic with *InvariantViolation. A corrupted trace cannot be partially
// trusted, so callers are expected to let the panic abort the process.
package sched
