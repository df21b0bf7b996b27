package core

import (
	"math"
	"testing"
)

func TestEnsureLenReuse(t *testing.T) {
	buf := make([]float64, 4, 8)

	out := EnsureLen(buf, 6)
	if len(out) != 6 {
		t.Fatalf("len = %d, want 6", len(out))
	}

	if cap(out) != cap(buf) {
		t.Fatalf("cap = %d, want %d", cap(out), cap(buf))
	}

	if got := EnsureLen(buf, 0); len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestMagnitudesToDB(t *testing.T) {
	tests := []struct {
		name  string
		mag   float64
		floor float64
		want  float64
	}{
		{name: "unity", mag: 1, floor: -200, want: 0},
		{name: "ten", mag: 10, floor: -200, want: 20},
		{name: "half", mag: 0.5, floor: -200, want: 20 * math.Log10(0.5)},
		{name: "silent", mag: 0, floor: -120, want: -120},
		{name: "below-floor", mag: 1e-9, floor: -120, want: -120},
		{name: "negative", mag: -1, floor: -90, want: -90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MagnitudesToDB(nil, []float64{tt.mag}, tt.floor)
			if !NearlyEqual(got[0], tt.want, 1e-12) {
				t.Fatalf("MagnitudesToDB(%v) = %v, want %v", tt.mag, got[0], tt.want)
			}
		})
	}
}

func TestMagnitudesToDBReusesDst(t *testing.T) {
	dst := make([]float64, 0, 4)
	out := MagnitudesToDB(dst, []float64{1, 10, 100}, -100)

	if cap(out) != 4 || len(out) != 3 {
		t.Fatalf("len=%d cap=%d want 3/4", len(out), cap(out))
	}
	if !NearlyEqual(out[2], 40, 1e-12) {
		t.Fatalf("out[2] = %v, want 40", out[2])
	}
}
