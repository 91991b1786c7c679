package sched

import (
	"fmt"

	"go.uber.org/multierr"
)

// Defaults applied to zero-valued PolicyConfig fields.
const (
	DefaultTimeQuantum  = 1
	DefaultNumQueues    = 8
	DefaultJobsPerRound = 100
	DefaultMode         = 1
	DefaultSeed         = 42
)

// PolicyConfig groups the parameters recognized by the simulators.
type PolicyConfig struct {
	TimeQuantum int64 `yaml:"time_quantum"` // Round-Robin slice length
	NumQueues   int   `yaml:"num_queues"`   // MLFQ levels
	// StarvationThreshold overrides BAL's n^(2/3) default when set.
	// Zero is a valid threshold: every job is starving immediately.
	StarvationThreshold *float64      `yaml:"starvation_threshold,omitempty"`
	Seed                int64         `yaml:"seed"` // RMLF randomness
	Dynamic             DynamicConfig `yaml:"dynamic"`
}

// DynamicConfig parameterizes the Dynamic and Dynamic_BAL meta-schedulers.
type DynamicConfig struct {
	JobsPerRound int `yaml:"jobs_per_round"`
	// Mode selects the history window: 1 previous round, 2..5 last
	// 2/4/8/16 rounds, 6 full history, 7 last ceil(r/2) rounds.
	Mode int `yaml:"mode"`
	// Parallel runs the two retrospective candidates concurrently.
	Parallel bool `yaml:"parallel"`
}

// DefaultPolicyConfig returns the configuration used when nothing is set.
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		TimeQuantum: DefaultTimeQuantum,
		NumQueues:   DefaultNumQueues,
		Seed:        DefaultSeed,
		Dynamic: DynamicConfig{
			JobsPerRound: DefaultJobsPerRound,
			Mode:         DefaultMode,
			Parallel:     true,
		},
	}
}

// Threshold returns a pointer to t, for populating StarvationThreshold.
func Threshold(t float64) *float64 {
	return &t
}

func (c PolicyConfig) withDefaults() PolicyConfig {
	if c.TimeQuantum == 0 {
		c.TimeQuantum = DefaultTimeQuantum
	}
	if c.NumQueues == 0 {
		c.NumQueues = DefaultNumQueues
	}
	if c.Dynamic.JobsPerRound == 0 {
		c.Dynamic.JobsPerRound = DefaultJobsPerRound
	}
	if c.Dynamic.Mode == 0 {
		c.Dynamic.Mode = DefaultMode
	}
	return c
}

// Validate checks every field and returns all problems found.
func (c PolicyConfig) Validate() error {
	var errs error
	if c.TimeQuantum < 0 {
		errs = multierr.Append(errs, fmt.Errorf("time_quantum must be positive, got %d", c.TimeQuantum))
	}
	if c.NumQueues < 0 {
		errs = multierr.Append(errs, fmt.Errorf("num_queues must be positive, got %d", c.NumQueues))
	}
	if t := c.StarvationThreshold; t != nil && !(*t >= 0) {
		errs = multierr.Append(errs, fmt.Errorf("starvation_threshold must be >= 0, got %v", *t))
	}
	return multierr.Append(errs, c.Dynamic.Validate())
}

// Validate checks the meta-scheduler parameters. Zero values mean default.
func (c DynamicConfig) Validate() error {
	var errs error
	if c.JobsPerRound < 0 {
		errs = multierr.Append(errs, fmt.Errorf("jobs_per_round must be positive, got %d", c.JobsPerRound))
	}
	if c.Mode < 0 || c.Mode > MaxMode {
		errs = multierr.Append(errs, fmt.Errorf("mode must be in 1..%d, got %d", MaxMode, c.Mode))
	}
	return errs
}
