package sched

import "fmt"

// MaxMode is the highest history window mode.
const MaxMode = 7

// windowRounds returns how many of the most recent closed rounds feed the
// decision for the upcoming 1-based round, and the mode actually applied.
// Modes 2..5 fall back to mode 1 until enough rounds have closed.
func windowRounds(mode, upcoming, closed int) (count, effective int) {
	if closed <= 0 {
		return 0, mode
	}
	switch mode {
	case 1:
		return 1, 1
	case 2, 3, 4, 5:
		need := 1 << (mode - 1)
		if closed < need {
			return 1, 1
		}
		return need, mode
	case 6:
		return closed, 6
	case 7:
		return min((upcoming+1)/2, closed), 7
	default:
		panic(fmt.Sprintf("unknown history mode %d", mode))
	}
}

// roundHistory partitions admitted jobs into fixed-size rounds. Closed
// rounds are immutable and kept for the whole run.
type roundHistory struct {
	size   int
	closed [][]Job
	open   []Job
}

func newRoundHistory(size int) *roundHistory {
	return &roundHistory{size: size, open: make([]Job, 0, size)}
}

// add appends j to the open round and reports whether the round closed.
func (h *roundHistory) add(j Job) bool {
	h.open = append(h.open, j)
	if len(h.open) < h.size {
		return false
	}
	h.closed = append(h.closed, h.open)
	h.open = make([]Job, 0, h.size)
	return true
}

func (h *roundHistory) closedCount() int {
	return len(h.closed)
}

// windowJobs returns fresh copies of the jobs in the last count closed
// rounds, reset and shifted so the first windowed arrival is time 0.
func (h *roundHistory) windowJobs(count int) []Job {
	rounds := h.closed[len(h.closed)-count:]
	var out []Job
	for _, r := range rounds {
		out = append(out, r...)
	}
	if len(out) == 0 {
		return out
	}
	origin := out[0].ArrivalTime
	for i := range out {
		out[i] = NewJob(out[i].Index, out[i].ArrivalTime-origin, out[i].Size)
	}
	return out
}
