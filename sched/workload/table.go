// Package workload reads, writes and generates job tables.
//
// A job table has one job per row: arrival_time and job_size, separated by
// a comma or whitespace. A leading header row and '#' comment lines are
// ignored. Row order defines job_index.
package workload

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Enuma3lish/ultimus-sub000/sched"
)

// Columns is the header written by WriteJobs.
var Columns = []string{"arrival_time", "job_size"}

// ReadJobs parses a job table. Every row is validated; all problems are
// reported together.
func ReadJobs(r io.Reader) ([]sched.Job, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var specs []sched.JobSpec
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading job table: %w", err)
		}
		line, _ := reader.FieldPos(0)
		fields := splitRow(row)
		if len(fields) == 0 {
			continue
		}
		if first {
			first = false
			if isHeader(fields) {
				continue
			}
		}
		spec, err := parseRow(fields)
		if err != nil {
			return nil, fmt.Errorf("job table line %d: %w", line, err)
		}
		specs = append(specs, spec)
	}

	jobs := sched.NewJobs(specs)
	if err := sched.ValidateJobs(jobs); err != nil {
		return nil, fmt.Errorf("invalid job table: %w", err)
	}
	return jobs, nil
}

// ReadJobsFile opens path and parses it with ReadJobs.
func ReadJobsFile(path string) ([]sched.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening job table: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadJobs(f)
}

// splitRow flattens csv fields and splits whitespace-separated values.
func splitRow(row []string) []string {
	var out []string
	for _, f := range row {
		out = append(out, strings.Fields(f)...)
	}
	return out
}

func isHeader(fields []string) bool {
	_, err := strconv.ParseInt(fields[0], 10, 64)
	return err != nil
}

func parseRow(fields []string) (sched.JobSpec, error) {
	if len(fields) != 2 {
		return sched.JobSpec{}, fmt.Errorf("want 2 columns (arrival_time, job_size), got %d", len(fields))
	}
	arrival, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return sched.JobSpec{}, fmt.Errorf("arrival_time %q: %w", fields[0], err)
	}
	size, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return sched.JobSpec{}, fmt.Errorf("job_size %q: %w", fields[1], err)
	}
	return sched.JobSpec{ArrivalTime: arrival, Size: size}, nil
}

// WriteJobs writes jobs as a comma-separated table with a header row, in
// slice order.
func WriteJobs(w io.Writer, jobs []sched.Job) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, j := range jobs {
		row := []string{
			strconv.FormatInt(j.ArrivalTime, 10),
			strconv.FormatInt(j.Size, 10),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing job %d: %w", j.Index, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
