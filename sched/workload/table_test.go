package workload

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Enuma3lish/ultimus-sub000/sched"
)

func TestReadJobs_Formats(t *testing.T) {
	want := sched.NewJobs([]sched.JobSpec{{ArrivalTime: 0, Size: 5}, {ArrivalTime: 3, Size: 2}})
	tests := []struct {
		name  string
		input string
	}{
		{"csv with header", "arrival_time,job_size\n0,5\n3,2\n"},
		{"csv without header", "0,5\n3,2\n"},
		{"whitespace", "0 5\n3\t2\n"},
		{"comments and blank lines", "# generated\narrival_time job_size\n\n0, 5\n# mid\n3,2\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// GIVEN a job table in one of the accepted layouts
			// WHEN parsed
			got, err := ReadJobs(strings.NewReader(tc.input))

			// THEN rows become jobs indexed in row order
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestReadJobs_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"three columns", "0,5,1\n", "want 2 columns"},
		{"bad size", "0,5\n1,x\n", "job_size"},
		{"zero size", "0,0\n", "job_size must be > 0"},
		{"negative arrival", "-2,3\n", "arrival_time must be >= 0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadJobs(strings.NewReader(tc.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestReadJobs_ReportsLineNumber(t *testing.T) {
	_, err := ReadJobs(strings.NewReader("arrival_time,job_size\n0,1\n2,oops\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestReadJobs_Empty(t *testing.T) {
	jobs, err := ReadJobs(strings.NewReader("arrival_time,job_size\n"))
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestWriteJobs_RoundTrip(t *testing.T) {
	// GIVEN generated jobs
	jobs, err := Generate(GeneratorConfig{NumJobs: 50, ArrivalRate: 0.5, SizeDist: DistPareto, MeanSize: 4, ParetoAlpha: 2, Seed: 3})
	require.NoError(t, err)

	// WHEN written to a file and read back
	var buf bytes.Buffer
	require.NoError(t, WriteJobs(&buf, jobs))
	path := filepath.Join(t.TempDir(), "jobs.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	got, err := ReadJobsFile(path)

	// THEN the table is unchanged
	require.NoError(t, err)
	assert.Equal(t, jobs, got)
	assert.True(t, strings.HasPrefix(buf.String(), "arrival_time,job_size\n"))
}

func TestReadJobsFile_Missing(t *testing.T) {
	_, err := ReadJobsFile(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
