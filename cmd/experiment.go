package cmd

import (
	"bytes"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/Enuma3lish/ultimus-sub000/sched"
	"github.com/Enuma3lish/ultimus-sub000/sched/workload"
)

// Experiment is the YAML file accepted by --config. It names a workload
// (a job table or a generator), the policies to run over it and their
// parameters.
// All top-level keys must be listed here: decoding uses KnownFields(true).
type Experiment struct {
	Jobs      string                    `yaml:"jobs"`      // job table path; exclusive with generator
	Generator *workload.GeneratorConfig `yaml:"generator"` // synthetic workload
	Repeat    int                       `yaml:"repeat"`    // generated tables, each with its own seed
	Policies  []string                  `yaml:"policies"`
	Policy    sched.PolicyConfig        `yaml:"policy"`
	Workers   int                       `yaml:"workers"` // batch pool size, 0 = GOMAXPROCS
}

// Workload is one job table of an experiment.
type Workload struct {
	Label string
	Jobs  []sched.Job
}

// LoadExperiment reads and strictly decodes an experiment file. Unknown
// keys are errors so typos do not silently fall back to defaults.
func LoadExperiment(path string) (Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Experiment{}, fmt.Errorf("read experiment %s: %w", path, err)
	}
	return parseExperiment(data)
}

func parseExperiment(data []byte) (Experiment, error) {
	var exp Experiment
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&exp); err != nil {
		return Experiment{}, fmt.Errorf("parse experiment: %w", err)
	}
	if err := exp.Validate(); err != nil {
		return Experiment{}, fmt.Errorf("invalid experiment: %w", err)
	}
	return exp, nil
}

// Validate checks every field and returns all problems found. An
// experiment without a workload source is valid; the command line may
// still provide one.
func (e Experiment) Validate() error {
	var errs error
	if e.Jobs != "" && e.Generator != nil {
		errs = multierr.Append(errs, fmt.Errorf("jobs and generator are mutually exclusive"))
	}
	if e.Generator != nil {
		errs = multierr.Append(errs, e.Generator.Validate())
	}
	if e.Repeat < 0 {
		errs = multierr.Append(errs, fmt.Errorf("repeat must be >= 0, got %d", e.Repeat))
	}
	if e.Workers < 0 {
		errs = multierr.Append(errs, fmt.Errorf("workers must be >= 0, got %d", e.Workers))
	}
	for _, p := range e.Policies {
		if !sched.IsValidPolicy(p) {
			errs = multierr.Append(errs, fmt.Errorf("unknown policy %q", p))
		}
	}
	return multierr.Append(errs, e.Policy.Validate())
}

// Workloads materializes the job tables of the experiment. A job table is
// read once. A generator yields max(1, Repeat) tables; the first uses the
// configured seed and every later one a seed derived from it.
func (e Experiment) Workloads() ([]Workload, error) {
	switch {
	case e.Jobs != "":
		jobs, err := readJobs(e.Jobs)
		if err != nil {
			return nil, err
		}
		return []Workload{{Label: e.Jobs, Jobs: jobs}}, nil
	case e.Generator != nil:
		n := max(1, e.Repeat)
		rng := sched.NewPartitionedRNG(sched.NewSimulationKey(e.Generator.Seed))
		out := make([]Workload, n)
		for i := range out {
			cfg := *e.Generator
			if i > 0 {
				cfg.Seed = rng.SeedFor(sched.SubsystemTask(i))
			}
			jobs, err := workload.Generate(cfg)
			if err != nil {
				return nil, err
			}
			out[i] = Workload{Label: fmt.Sprintf("%s-%d", cfg.SizeDist, cfg.Seed), Jobs: jobs}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("no workload: set jobs or generator")
	}
}

// readJobs reads a job table from path, or from stdin when path is "-".
func readJobs(path string) ([]sched.Job, error) {
	if path == "-" {
		return workload.ReadJobs(os.Stdin)
	}
	return workload.ReadJobsFile(path)
}
