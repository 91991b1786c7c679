// Package testutil provides shared test assertions for the sched packages.
// It does not import sched so in-package tests can use it.
package testutil

import (
	"math"
	"math/rand"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == got {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// Pair is an (arrival, size) job description.
type Pair struct {
	Arrival int64
	Size    int64
}

// RandomPairs returns n seeded random jobs with arrivals in [0, horizon)
// and sizes in [1, maxSize]. Arrivals are not sorted.
func RandomPairs(seed int64, n int, horizon, maxSize int64) []Pair {
	rng := rand.New(rand.NewSource(seed))
	out := make([]Pair, n)
	for i := range out {
		out[i] = Pair{Arrival: rng.Int63n(horizon), Size: 1 + rng.Int63n(maxSize)}
	}
	return out
}
