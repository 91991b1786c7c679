package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Enuma3lish/ultimus-sub000/sched"
)

var (
	logLevel string // Log verbosity level

	// Policy parameters shared by run and compare
	configPath          string  // Experiment YAML
	jobsPath            string  // Job table, "-" for stdin
	timeQuantum         int64   // Round-Robin slice length
	numQueues           int     // MLFQ levels
	starvationThreshold float64 // BAL threshold, overrides n^(2/3) when set
	seed                int64   // RMLF and generator seed
	jobsPerRound        int     // Meta-scheduler round length
	mode                int     // Meta-scheduler history window
	sequential          bool    // Replay meta-scheduler candidates one after the other
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "schedsim",
	Short: "Single-machine scheduling policy simulator",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerPolicyFlags attaches the policy parameter flags to c.
func registerPolicyFlags(c *cobra.Command) {
	c.Flags().StringVar(&configPath, "config", "", "Experiment YAML file")
	c.Flags().StringVar(&jobsPath, "jobs", "", "Job table (arrival_time,job_size), '-' reads stdin")
	c.Flags().Int64Var(&timeQuantum, "quantum", sched.DefaultTimeQuantum, "Round-Robin time quantum")
	c.Flags().IntVar(&numQueues, "queues", sched.DefaultNumQueues, "Number of MLFQ levels")
	c.Flags().Float64Var(&starvationThreshold, "threshold", 0, "BAL starvation threshold (default n^(2/3))")
	c.Flags().Int64Var(&seed, "seed", sched.DefaultSeed, "Seed for RMLF and generated workloads")
	c.Flags().IntVar(&jobsPerRound, "jobs-per-round", sched.DefaultJobsPerRound, "Jobs per meta-scheduler round")
	c.Flags().IntVar(&mode, "mode", sched.DefaultMode, "Meta-scheduler history mode (1-7)")
	c.Flags().BoolVar(&sequential, "sequential", false, "Replay meta-scheduler candidates sequentially")
}

// loadExperiment reads --config when given and lets explicitly set flags
// override the values from the file.
func loadExperiment(c *cobra.Command) Experiment {
	exp := Experiment{Policy: sched.DefaultPolicyConfig()}
	if configPath != "" {
		loaded, err := LoadExperiment(configPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		exp = loaded
	}
	applyGeneratorFlags(c, &exp)
	applyPolicyFlags(c, &exp)
	if err := exp.Validate(); err != nil {
		logrus.Fatalf("invalid options: %v", err)
	}
	return exp
}

func applyPolicyFlags(c *cobra.Command, exp *Experiment) {
	flags := c.Flags()
	if flags.Changed("jobs") {
		exp.Jobs = jobsPath
		exp.Generator = nil
	}
	if flags.Changed("quantum") {
		exp.Policy.TimeQuantum = timeQuantum
	}
	if flags.Changed("queues") {
		exp.Policy.NumQueues = numQueues
	}
	if flags.Changed("threshold") {
		exp.Policy.StarvationThreshold = sched.Threshold(starvationThreshold)
	}
	if flags.Changed("seed") {
		exp.Policy.Seed = seed
		if exp.Generator != nil {
			exp.Generator.Seed = seed
		}
	}
	if flags.Changed("jobs-per-round") {
		exp.Policy.Dynamic.JobsPerRound = jobsPerRound
	}
	if flags.Changed("mode") {
		exp.Policy.Dynamic.Mode = mode
	}
	if flags.Changed("sequential") {
		exp.Policy.Dynamic.Parallel = !sequential
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
}
