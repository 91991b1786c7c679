// Package trace records the per-round policy decisions of the
// meta-schedulers. It has no dependencies on sched/ and stores pure data.
package trace

// Decision reasons.
const (
	ReasonFirstRound = "first-round" // no history yet, primary policy
	ReasonLowerL2    = "lower-l2"    // fallback scored a strictly lower L2 norm
	ReasonNotLower   = "not-lower"   // primary scored lower or tied
	ReasonNonFinite  = "non-finite"  // a candidate produced NaN or Inf
)

// RoundRecord captures the decision made before one round ran.
type RoundRecord struct {
	Round         int     // 1-based round number
	Clock         int64   // simulation time the decision was made
	Mode          int     // configured history mode
	EffectiveMode int     // mode after degrading for short history
	WindowRounds  int     // closed rounds replayed
	WindowJobs    int     // jobs replayed
	PrimaryL2     float64 // retrospective L2 norm under the primary policy
	FallbackL2    float64 // retrospective L2 norm under the fallback policy
	Chosen        string  // policy applied to the round
	Reason        string
}
