package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Enuma3lish/ultimus-sub000/internal/metrics"
	"github.com/Enuma3lish/ultimus-sub000/sched"
	"github.com/Enuma3lish/ultimus-sub000/sched/batch"
	"github.com/Enuma3lish/ultimus-sub000/sched/report"
	"github.com/Enuma3lish/ultimus-sub000/sched/trace"
)

var (
	comparePolicies []string // Policies to compare, all when empty
	workers         int      // Batch pool size
	printMetrics    bool     // Dump prometheus metrics after the table
)

// compareCmd runs several policies over the same workloads and ranks them.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare scheduling policies over the same workloads",
	Run: func(cmd *cobra.Command, args []string) {
		exp := loadExperiment(cmd)
		if cmd.Flags().Changed("policies") {
			exp.Policies = comparePolicies
		}
		if cmd.Flags().Changed("workers") {
			exp.Workers = workers
		}
		if err := exp.Validate(); err != nil {
			logrus.Fatalf("invalid options: %v", err)
		}
		workloads, err := exp.Workloads()
		if err != nil {
			logrus.Fatalf("unable to load workload; %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var reg *prometheus.Registry
		var m *metrics.Collectors
		if printMetrics {
			reg = prometheus.NewRegistry()
			m = metrics.NewCollectors()
			if err := m.Register(reg); err != nil {
				logrus.Fatalf("unable to register metrics; %v", err)
			}
		}

		w := cmd.OutOrStdout()
		if err := compare(ctx, w, exp, workloads, m); err != nil {
			logrus.Fatalf("%v", err)
		}
		if reg != nil {
			if err := metrics.WriteText(w, reg); err != nil {
				logrus.Fatalf("unable to write metrics; %v", err)
			}
		}
	},
}

// buildTasks crosses policies with workloads. Task IDs are dense, in
// workload-major order.
func buildTasks(policies []string, cfg sched.PolicyConfig, workloads []Workload) []batch.Task {
	tasks := make([]batch.Task, 0, len(policies)*len(workloads))
	for _, wl := range workloads {
		for _, p := range policies {
			tasks = append(tasks, batch.Task{
				ID:     len(tasks),
				Label:  wl.Label,
				Policy: p,
				Config: cfg,
				Jobs:   wl.Jobs,
			})
		}
	}
	return tasks
}

// compare runs every policy of exp over workloads and writes the ranked
// summary table, followed by the round shares of any meta-scheduler.
func compare(ctx context.Context, w io.Writer, exp Experiment, workloads []Workload, m *metrics.Collectors) error {
	policies := exp.Policies
	if len(policies) == 0 {
		policies = sched.PolicyNames()
	}
	tasks := buildTasks(policies, exp.Policy, workloads)
	if err := batch.ValidateTasks(tasks); err != nil {
		return fmt.Errorf("invalid tasks: %w", err)
	}

	runner := &batch.Runner{Workers: exp.Workers, Metrics: m}
	reports := batch.Collect(runner.Run(ctx, tasks))
	if len(reports) < len(tasks) {
		return fmt.Errorf("interrupted after %d/%d tasks", len(reports), len(tasks))
	}

	results := make(map[string][]sched.Result, len(policies))
	rounds := make(map[string][]*trace.RoundSummary)
	for _, rep := range reports {
		p := tasks[rep.TaskID].Policy
		results[p] = append(results[p], rep.Outcome.Result)
		if rep.Rounds != nil {
			rounds[p] = append(rounds[p], rep.Rounds)
		}
	}
	summaries := make([]report.Summary, 0, len(policies))
	for _, p := range policies {
		summaries = append(summaries, report.Summarize(p, results[p]))
	}
	writeSummaryTable(w, report.Rank(summaries))

	for _, p := range policies {
		if rs := rounds[p]; len(rs) > 0 {
			_, _ = fmt.Fprintf(w, "\n=== %s rounds ===\n", p)
			printRounds(w, mergeRounds(rs))
		}
	}
	return nil
}

// writeSummaryTable renders ranked summaries; the ratio column is relative
// to the best (first) entry.
func writeSummaryTable(w io.Writer, ranked []report.Summary) {
	rows := make([][]string, len(ranked))
	for i, s := range ranked {
		rows[i] = report.Row(s, ranked[0])
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(report.Header())
	table.AppendBulk(rows)
	table.Render()
}

// mergeRounds adds up round summaries of one policy across workloads.
func mergeRounds(summaries []*trace.RoundSummary) *trace.RoundSummary {
	out := &trace.RoundSummary{Counts: make(map[string]int), Percent: make(map[string]float64)}
	for _, s := range summaries {
		out.TotalRounds += s.TotalRounds
		out.Switches += s.Switches
		for p, c := range s.Counts {
			out.Counts[p] += c
		}
	}
	for p, c := range out.Counts {
		out.Percent[p] = 0
		if out.TotalRounds > 0 {
			out.Percent[p] = 100 * float64(c) / float64(out.TotalRounds)
		}
	}
	return out
}

func init() {
	compareCmd.Flags().StringSliceVar(&comparePolicies, "policies", nil, "Comma-separated policies to compare (default all)")
	compareCmd.Flags().IntVar(&workers, "workers", 0, "Concurrent simulations (default GOMAXPROCS)")
	compareCmd.Flags().BoolVar(&printMetrics, "metrics", false, "Print prometheus metrics after the summary")
	registerPolicyFlags(compareCmd)

	rootCmd.AddCommand(compareCmd)
}
