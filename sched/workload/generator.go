package workload

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Enuma3lish/ultimus-sub000/sched"
)

// Size distributions accepted by Generate.
const (
	DistUniform     = "uniform"
	DistExponential = "exponential"
	DistPareto      = "pareto"
)

// maxGeneratedSize caps heavy-tailed draws so sizes stay far from int64 overflow.
const maxGeneratedSize = int64(1) << 40

// GeneratorConfig describes a synthetic workload: Poisson arrivals and
// i.i.d. job sizes with the given mean.
type GeneratorConfig struct {
	NumJobs     int     `yaml:"num_jobs"`
	ArrivalRate float64 `yaml:"arrival_rate"` // mean arrivals per time unit
	SizeDist    string  `yaml:"size_dist"`
	MeanSize    float64 `yaml:"mean_size"`
	ParetoAlpha float64 `yaml:"pareto_alpha"` // shape, only for pareto; must exceed 1
	Seed        int64   `yaml:"seed"`
}

// DefaultGeneratorConfig returns a moderately loaded exponential workload.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		NumJobs:     1000,
		ArrivalRate: 0.1,
		SizeDist:    DistExponential,
		MeanSize:    8,
		ParetoAlpha: 1.5,
		Seed:        sched.DefaultSeed,
	}
}

// Validate checks every field and returns all problems found.
func (c GeneratorConfig) Validate() error {
	var errs error
	if c.NumJobs < 0 {
		errs = multierr.Append(errs, fmt.Errorf("num_jobs must be >= 0, got %d", c.NumJobs))
	}
	if !(c.ArrivalRate > 0) || math.IsInf(c.ArrivalRate, 0) {
		errs = multierr.Append(errs, fmt.Errorf("arrival_rate must be positive and finite, got %v", c.ArrivalRate))
	}
	if !(c.MeanSize >= 1) || math.IsInf(c.MeanSize, 0) {
		errs = multierr.Append(errs, fmt.Errorf("mean_size must be >= 1 and finite, got %v", c.MeanSize))
	}
	switch c.SizeDist {
	case DistUniform, DistExponential:
	case DistPareto:
		if !(c.ParetoAlpha > 1) {
			errs = multierr.Append(errs, fmt.Errorf("pareto_alpha must be > 1 for a finite mean, got %v", c.ParetoAlpha))
		}
	default:
		errs = multierr.Append(errs, fmt.Errorf("unknown size_dist %q (want %s, %s or %s)", c.SizeDist, DistUniform, DistExponential, DistPareto))
	}
	return errs
}

// sizeSampler builds the size distribution of c over src.
func (c GeneratorConfig) sizeSampler(src rand.Source) func() float64 {
	switch c.SizeDist {
	case DistUniform:
		// Mean of U(1, 2m-1) is m.
		return distuv.Uniform{Min: 1, Max: 2*c.MeanSize - 1, Src: src}.Rand
	case DistPareto:
		xm := c.MeanSize * (c.ParetoAlpha - 1) / c.ParetoAlpha
		return distuv.Pareto{Xm: xm, Alpha: c.ParetoAlpha, Src: src}.Rand
	default:
		return distuv.Exponential{Rate: 1 / c.MeanSize, Src: src}.Rand
	}
}

// Generate draws a job table from c. The first job arrives at 0; arrivals
// are the floor of a Poisson process, so several jobs may share a time.
// Sizes are rounded up and are at least 1. The same config always
// produces the same table.
func Generate(c GeneratorConfig) ([]sched.Job, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	seed := sched.NewPartitionedRNG(sched.NewSimulationKey(c.Seed)).SeedFor(sched.SubsystemWorkload)
	src := rand.NewSource(uint64(seed))
	gaps := distuv.Exponential{Rate: c.ArrivalRate, Src: src}
	size := c.sizeSampler(src)

	specs := make([]sched.JobSpec, c.NumJobs)
	t := 0.0
	for i := range specs {
		specs[i] = sched.JobSpec{
			ArrivalTime: int64(math.Floor(t)),
			Size:        clampSize(size()),
		}
		t += gaps.Rand()
	}
	logrus.Debugf("generated %d %s jobs over [0, %.0f)", c.NumJobs, c.SizeDist, t)
	return sched.NewJobs(specs), nil
}

func clampSize(v float64) int64 {
	if math.IsNaN(v) || v < 1 {
		return 1
	}
	if v >= float64(maxGeneratedSize) {
		return maxGeneratedSize
	}
	return int64(math.Ceil(v))
}
