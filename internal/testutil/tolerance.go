package testutil

import (
	"fmt"
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair differs by more than eps. The report names the worst
// offending index.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()

	diff, idx, err := MaxAbsDiff(got, want)
	if err != nil {
		t.Fatal(err)
	}
	if diff > eps {
		t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", idx, got[idx], want[idx], diff, eps)
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// MaxAbsDiff returns the largest absolute element difference of a and b and
// the first index where it occurs. Empty slices give (0, -1, nil).
func MaxAbsDiff(a, b []float64) (diff float64, idx int, err error) {
	if len(a) != len(b) {
		return 0, -1, fmt.Errorf("length mismatch: got %d, want %d", len(a), len(b))
	}

	idx = -1
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > diff || idx < 0 {
			diff, idx = d, i
		}
	}
	return diff, idx, nil
}
