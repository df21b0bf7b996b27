package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		wantDiff float64
		wantIdx  int
	}{
		{"empty", nil, nil, 0, -1},
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 0, 0},
		{"largest wins", []float64{1, 2, 3}, []float64{1.5, 2, 1}, 2, 2},
		{"first of ties", []float64{0, 1, 0}, []float64{1, 0, 0}, 1, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			diff, idx, err := MaxAbsDiff(tc.a, tc.b)
			if err != nil {
				t.Fatalf("MaxAbsDiff: %v", err)
			}
			if math.Abs(diff-tc.wantDiff) > 1e-15 || idx != tc.wantIdx {
				t.Fatalf("MaxAbsDiff = (%v, %d), want (%v, %d)", diff, idx, tc.wantDiff, tc.wantIdx)
			}
		})
	}
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	if _, _, err := MaxAbsDiff([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestRequireSliceNearlyEqualPasses(t *testing.T) {
	RequireSliceNearlyEqual(t, []float64{1, 2}, []float64{1, 2 + 1e-13}, 1e-12)
	RequireSliceNearlyEqual(t, nil, nil, 0)
}
