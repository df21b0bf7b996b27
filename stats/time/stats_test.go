package time

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-fftscan/dsp/spectrum"
	"github.com/cwbudde/algo-fftscan/internal/testutil"
)

const tolerance = 1e-10

func almostEqual(a, b, tol float64) bool {
	if math.IsInf(a, -1) && math.IsInf(b, -1) {
		return true
	}
	return math.Abs(a-b) <= tol
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name      string
		signal    []float64
		dc        float64
		rms       float64
		peak      float64
		crestdB   float64
		crossings int
	}{
		{name: "dc", signal: testutil.DC(0.5, 100), dc: 0.5, rms: 0.5, peak: 0.5, crestdB: 0},
		{name: "negative-dc", signal: testutil.DC(-2, 10), dc: -2, rms: 2, peak: 2, crestdB: 0},
		{name: "square", signal: []float64{1, -1, 1, -1}, dc: 0, rms: 1, peak: 1, crestdB: 0, crossings: 3},
		{name: "zero", signal: make([]float64, 16), dc: 0, rms: 0, peak: 0, crestdB: 0},
		{
			name:    "sine",
			signal:  testutil.BinSine(1, 64, 1, 64),
			dc:      0,
			rms:     1 / math.Sqrt2,
			peak:    1,
			crestdB: 20 * math.Log10(math.Sqrt2),
			// one full cycle starting at 0 crosses once in the middle
			crossings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Calculate(tt.signal)

			if s.Length != len(tt.signal) {
				t.Fatalf("Length = %d, want %d", s.Length, len(tt.signal))
			}
			if !almostEqual(s.DC, tt.dc, tolerance) {
				t.Fatalf("DC = %v, want %v", s.DC, tt.dc)
			}
			if !almostEqual(s.RMS, tt.rms, tolerance) {
				t.Fatalf("RMS = %v, want %v", s.RMS, tt.rms)
			}
			if !almostEqual(s.Peak, tt.peak, tolerance) {
				t.Fatalf("Peak = %v, want %v", s.Peak, tt.peak)
			}
			if !almostEqual(s.CrestFactordB, tt.crestdB, 1e-9) {
				t.Fatalf("CrestFactordB = %v, want %v", s.CrestFactordB, tt.crestdB)
			}
			if s.ZeroCrossings != tt.crossings {
				t.Fatalf("ZeroCrossings = %d, want %d", s.ZeroCrossings, tt.crossings)
			}
		})
	}
}

func TestCalculateLevels(t *testing.T) {
	s := Calculate(testutil.DC(0.1, 8))
	if !almostEqual(s.RMSdB, -20, 1e-9) || !almostEqual(s.PeakdB, -20, 1e-9) {
		t.Fatalf("RMSdB=%v PeakdB=%v want -20", s.RMSdB, s.PeakdB)
	}

	silent := Calculate(make([]float64, 8))
	if !math.IsInf(silent.RMSdB, -1) || !math.IsInf(silent.PeakdB, -1) {
		t.Fatalf("silent levels: %+v", silent)
	}

	empty := Calculate(nil)
	if empty.Length != 0 || !math.IsInf(empty.RMSdB, -1) {
		t.Fatalf("empty: %+v", empty)
	}
}

func TestForChannel(t *testing.T) {
	s, err := spectrum.Interleaved(testutil.Interleave(testutil.DC(1, 4), testutil.DC(-0.5, 4)), 2)
	if err != nil {
		t.Fatalf("Interleaved: %v", err)
	}

	right, err := ForChannel(s, 1)
	if err != nil {
		t.Fatalf("ForChannel: %v", err)
	}
	if right.DC != -0.5 || right.Peak != 0.5 {
		t.Fatalf("right channel: %+v", right)
	}

	if _, err := ForChannel(s, 2); err == nil {
		t.Fatal("expected error for channel out of range")
	}
	if _, err := ForChannel(nil, 0); err == nil {
		t.Fatal("expected error for nil samples")
	}
}
