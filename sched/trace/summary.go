package trace

// RoundSummary aggregates the policy choices of a RoundTrace.
type RoundSummary struct {
	TotalRounds int
	Counts      map[string]int     // policy -> rounds run under it
	Percent     map[string]float64 // policy -> share of rounds, 0..100
	Switches    int                // rounds whose policy differs from the previous round
}

// Summarize computes aggregate statistics from a RoundTrace.
// Safe for nil or empty traces (returns zero-value fields). Both policies
// of the pair are always present in Counts and Percent.
func Summarize(t *RoundTrace) *RoundSummary {
	s := &RoundSummary{
		Counts:  make(map[string]int),
		Percent: make(map[string]float64),
	}
	if t == nil {
		return s
	}
	for _, p := range []string{t.Primary, t.Fallback} {
		if p != "" {
			s.Counts[p] = 0
			s.Percent[p] = 0
		}
	}
	s.TotalRounds = len(t.Records)
	for i, r := range t.Records {
		s.Counts[r.Chosen]++
		if i > 0 && r.Chosen != t.Records[i-1].Chosen {
			s.Switches++
		}
	}
	if s.TotalRounds > 0 {
		for p, c := range s.Counts {
			s.Percent[p] = 100 * float64(c) / float64(s.TotalRounds)
		}
	}
	return s
}
