package sched

import "fmt"

// InvariantViolation is the panic value raised when a simulator detects a
// logic defect in its own bookkeeping.
type InvariantViolation struct {
	Policy string
	Clock  int64
	Job    int // job index, -1 when not job-specific
	Msg    string
}

func (v *InvariantViolation) Error() string {
	if v.Job < 0 {
		return fmt.Sprintf("%s: invariant violated at t=%d: %s", v.Policy, v.Clock, v.Msg)
	}
	return fmt.Sprintf("%s: invariant violated at t=%d (job %d): %s", v.Policy, v.Clock, v.Job, v.Msg)
}

func violate(policy string, clock int64, job int, format string, args ...any) {
	panic(&InvariantViolation{Policy: policy, Clock: clock, Job: job, Msg: fmt.Sprintf(format, args...)})
}
