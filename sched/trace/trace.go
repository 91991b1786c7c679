package trace

// RoundTrace is the ordered decision history of one meta-scheduler run.
type RoundTrace struct {
	Primary      string
	Fallback     string
	JobsPerRound int
	Mode         int
	Records      []RoundRecord
}

// NewRoundTrace creates an empty trace for a primary/fallback pair.
func NewRoundTrace(primary, fallback string, jobsPerRound, mode int) *RoundTrace {
	return &RoundTrace{
		Primary:      primary,
		Fallback:     fallback,
		JobsPerRound: jobsPerRound,
		Mode:         mode,
		Records:      make([]RoundRecord, 0),
	}
}

// Record appends a round decision.
func (t *RoundTrace) Record(r RoundRecord) {
	t.Records = append(t.Records, r)
}

// TotalRounds returns the number of rounds decided.
func (t *RoundTrace) TotalRounds() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Labels returns the chosen policy of every round in order.
func (t *RoundTrace) Labels() []string {
	if t == nil {
		return nil
	}
	labels := make([]string, len(t.Records))
	for i, r := range t.Records {
		labels[i] = r.Chosen
	}
	return labels
}
