package cmd

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Enuma3lish/ultimus-sub000/sched"
	"github.com/Enuma3lish/ultimus-sub000/sched/trace"
)

var policyName string // Policy simulated by run

// runCmd simulates one policy over a job table.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate one scheduling policy",
	Run: func(cmd *cobra.Command, args []string) {
		exp := loadExperiment(cmd)
		if !sched.IsValidPolicy(policyName) {
			logrus.Fatalf("Unknown policy %q; valid policies: %v", policyName, sched.PolicyNames())
		}
		workloads, err := exp.Workloads()
		if err != nil {
			logrus.Fatalf("unable to load workload; %v", err)
		}

		logrus.Infof("Starting %s over %d workload(s), config=%+v", policyName, len(workloads), exp.Policy)
		for _, wl := range workloads {
			runWorkload(cmd.OutOrStdout(), policyName, exp.Policy, wl)
		}
		logrus.Info("Simulation complete.")
	},
}

// runWorkload simulates policy over one workload and prints the outcome.
func runWorkload(w io.Writer, policy string, cfg sched.PolicyConfig, wl Workload) sched.Outcome {
	start := time.Now()
	out := sched.NewSimulator(policy, cfg).Simulate(wl.Jobs)
	logrus.Debugf("%s over %s took %v", policy, wl.Label, time.Since(start))
	printOutcome(w, wl.Label, out)
	return out
}

// printOutcome writes the result block of one run; meta-schedulers also
// report how often each candidate policy was applied.
func printOutcome(w io.Writer, label string, out sched.Outcome) {
	_, _ = fmt.Fprintln(w, "=== Simulation Result ===")
	_, _ = fmt.Fprintf(w, "Policy              : %s\n", out.Policy)
	_, _ = fmt.Fprintf(w, "Workload            : %s\n", label)
	_, _ = fmt.Fprintf(w, "Jobs                : %d\n", len(out.Jobs))
	_, _ = fmt.Fprintf(w, "Avg Flow Time       : %.3f\n", out.Result.AvgFlowTime)
	_, _ = fmt.Fprintf(w, "L2 Norm Flow Time   : %.3f\n", out.Result.L2NormFlowTime)
	_, _ = fmt.Fprintf(w, "Max Flow Time       : %.0f\n", out.Result.MaxFlowTime)
	if out.Rounds != nil {
		printRounds(w, trace.Summarize(out.Rounds))
	}
}

func printRounds(w io.Writer, s *trace.RoundSummary) {
	_, _ = fmt.Fprintf(w, "Rounds              : %d\n", s.TotalRounds)
	_, _ = fmt.Fprintf(w, "Policy Switches     : %d\n", s.Switches)
	policies := make([]string, 0, len(s.Percent))
	for p := range s.Percent {
		policies = append(policies, p)
	}
	sort.Strings(policies)
	for _, p := range policies {
		_, _ = fmt.Fprintf(w, "  %-18s: %d rounds (%.2f%%)\n", p, s.Counts[p], s.Percent[p])
	}
}

func init() {
	runCmd.Flags().StringVar(&policyName, "policy", sched.PolicySRPT, "Scheduling policy")
	registerPolicyFlags(runCmd)

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
