package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Enuma3lish/ultimus-sub000/sched"
	"github.com/Enuma3lish/ultimus-sub000/sched/workload"
)

var (
	// Synthetic workload flags shared by generate and compare
	numJobs     int     // Number of jobs
	arrivalRate float64 // Mean arrivals per time unit
	sizeDist    string  // uniform, exponential or pareto
	meanSize    float64 // Mean job size
	paretoAlpha float64 // Pareto shape
	repeat      int     // Generated tables per experiment

	outPath string // Job table destination, stdout when empty
)

var generatorFlagNames = []string{"num-jobs", "rate", "size-dist", "mean-size", "pareto-alpha", "repeat"}

// generateCmd writes a synthetic job table.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic job table",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := workload.DefaultGeneratorConfig()
		overrideGenerator(cmd, &cfg)
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seed
		}

		w := cmd.OutOrStdout()
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				logrus.Fatalf("unable to create %s; %v", outPath, err)
			}
			defer f.Close()
			w = f
		}
		if err := generate(w, cfg); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Generated %d jobs (%s, mean %.1f, rate %v)", cfg.NumJobs, cfg.SizeDist, cfg.MeanSize, cfg.ArrivalRate)
	},
}

// generate writes the job table described by cfg to w.
func generate(w io.Writer, cfg workload.GeneratorConfig) error {
	jobs, err := workload.Generate(cfg)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	if err := workload.WriteJobs(bw, jobs); err != nil {
		return fmt.Errorf("write job table: %w", err)
	}
	return bw.Flush()
}

// overrideGenerator copies explicitly set generator flags into cfg.
func overrideGenerator(c *cobra.Command, cfg *workload.GeneratorConfig) {
	flags := c.Flags()
	if flags.Changed("num-jobs") {
		cfg.NumJobs = numJobs
	}
	if flags.Changed("rate") {
		cfg.ArrivalRate = arrivalRate
	}
	if flags.Changed("size-dist") {
		cfg.SizeDist = sizeDist
	}
	if flags.Changed("mean-size") {
		cfg.MeanSize = meanSize
	}
	if flags.Changed("pareto-alpha") {
		cfg.ParetoAlpha = paretoAlpha
	}
}

// applyGeneratorFlags turns generator flags into the experiment workload.
// Setting any of them selects a generated workload, starting from the
// file's generator or the defaults.
func applyGeneratorFlags(c *cobra.Command, exp *Experiment) {
	changed := false
	for _, name := range generatorFlagNames {
		changed = changed || c.Flags().Changed(name)
	}
	if !changed {
		return
	}
	cfg := workload.DefaultGeneratorConfig()
	if exp.Generator != nil {
		cfg = *exp.Generator
	} else {
		cfg.Seed = exp.Policy.Seed
	}
	overrideGenerator(c, &cfg)
	if c.Flags().Changed("repeat") {
		exp.Repeat = repeat
	}
	exp.Generator = &cfg
	exp.Jobs = ""
}

func registerGeneratorFlags(c *cobra.Command) {
	def := workload.DefaultGeneratorConfig()
	c.Flags().IntVar(&numJobs, "num-jobs", def.NumJobs, "Number of generated jobs")
	c.Flags().Float64Var(&arrivalRate, "rate", def.ArrivalRate, "Mean job arrivals per time unit")
	c.Flags().StringVar(&sizeDist, "size-dist", def.SizeDist, "Job size distribution (uniform, exponential, pareto)")
	c.Flags().Float64Var(&meanSize, "mean-size", def.MeanSize, "Mean job size")
	c.Flags().Float64Var(&paretoAlpha, "pareto-alpha", def.ParetoAlpha, "Pareto shape, must exceed 1")
}

func init() {
	registerGeneratorFlags(generateCmd)
	generateCmd.Flags().Int64Var(&seed, "seed", sched.DefaultSeed, "Generator seed")
	generateCmd.Flags().StringVar(&outPath, "out", "", "Output file (default stdout)")
	rootCmd.AddCommand(generateCmd)

	registerGeneratorFlags(compareCmd)
	compareCmd.Flags().IntVar(&repeat, "repeat", 1, "Number of generated workloads")
}
