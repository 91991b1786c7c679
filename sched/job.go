// Defines the Job record shared by every simulator.

package sched

import (
	"fmt"

	"go.uber.org/multierr"
)

// JobSpec is the externally supplied description of a job.
type JobSpec struct {
	ArrivalTime int64 // time the job becomes available
	Size        int64 // total service requirement
}

// Job models one unit of work.
// Jobs are value types: a simulator copies the jobs it is given and never
// observes mutations made by another run on the "same" job.
type Job struct {
	Index       int   // unique tie-break key, stable under re-sorting
	ArrivalTime int64 // >= 0
	Size        int64 // > 0

	RemainingTime    int64   // 0 <= RemainingTime <= Size
	StartTime        int64   // -1 until first executed
	CompletionTime   int64   // -1 until done
	StarvingTime     int64   // -1 unless BAL marked the job starving
	WaitingTimeRatio float64 // (now - arrival) / max(1, remaining), refreshed by BAL
}

// NewJob creates a job with its mutable fields reset.
func NewJob(index int, arrival, size int64) Job {
	j := Job{Index: index, ArrivalTime: arrival, Size: size}
	j.Reset()
	return j
}

// NewJobs builds jobs from specs, assigning indices in insertion order.
func NewJobs(specs []JobSpec) []Job {
	jobs := make([]Job, len(specs))
	for i, s := range specs {
		jobs[i] = NewJob(i, s.ArrivalTime, s.Size)
	}
	return jobs
}

// Reset restores the job to its pre-simulation state.
func (j *Job) Reset() {
	j.RemainingTime = j.Size
	j.StartTime = -1
	j.CompletionTime = -1
	j.StarvingTime = -1
	j.WaitingTimeRatio = 0
}

// Completed reports whether the job has a completion time.
func (j Job) Completed() bool {
	return j.CompletionTime >= 0
}

// Elapsed returns the service the job has received so far.
func (j Job) Elapsed() int64 {
	return j.Size - j.RemainingTime
}

// FlowTime returns completion time minus arrival time.
func (j Job) FlowTime() int64 {
	return j.CompletionTime - j.ArrivalTime
}

// Spec returns the immutable part of the job.
func (j Job) Spec() JobSpec {
	return JobSpec{ArrivalTime: j.ArrivalTime, Size: j.Size}
}

func (j Job) String() string {
	return fmt.Sprintf("Job(index=%d, arrival=%d, size=%d, remaining=%d, start=%d, completion=%d)",
		j.Index, j.ArrivalTime, j.Size, j.RemainingTime, j.StartTime, j.CompletionTime)
}

// ValidateJobs checks the externally supplied fields of every job and
// returns all problems found.
func ValidateJobs(jobs []Job) error {
	var errs error
	seen := make(map[int]int, len(jobs))
	for pos, j := range jobs {
		if j.ArrivalTime < 0 {
			errs = multierr.Append(errs, fmt.Errorf("job %d: arrival_time must be >= 0, got %d", j.Index, j.ArrivalTime))
		}
		if j.Size <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("job %d: job_size must be > 0, got %d", j.Index, j.Size))
		}
		if prev, dup := seen[j.Index]; dup {
			errs = multierr.Append(errs, fmt.Errorf("job_index %d used at positions %d and %d", j.Index, prev, pos))
			continue
		}
		seen[j.Index] = pos
	}
	return errs
}

// CloneJobs returns an independent copy of jobs.
func CloneJobs(jobs []Job) []Job {
	out := make([]Job, len(jobs))
	copy(out, jobs)
	return out
}
