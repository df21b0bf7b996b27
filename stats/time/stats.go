package time

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-fftscan/dsp/core"
	"github.com/cwbudde/algo-fftscan/dsp/spectrum"
)

// Stats holds level statistics of one channel of the analysed input.
type Stats struct {
	Length        int
	DC            float64 // mean
	RMS           float64
	RMSdB         float64
	Peak          float64 // largest absolute sample
	PeakdB        float64
	CrestFactordB float64 // peak over RMS; 0 for silence
	ZeroCrossings int
}

// Calculate computes level statistics of signal. Level fields of an empty
// or silent signal are -Inf dB.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{
			RMSdB:  math.Inf(-1),
			PeakdB: math.Inf(-1),
		}
	}

	rms := math.Sqrt(vecmath.DotProduct(signal, signal) / float64(n))
	peak := vecmath.MaxAbs(signal)

	s := Stats{
		Length:        n,
		DC:            stat.Mean(signal, nil),
		RMS:           rms,
		RMSdB:         core.LinearToDB(rms),
		Peak:          peak,
		PeakdB:        core.LinearToDB(peak),
		ZeroCrossings: ZeroCrossings(signal),
	}
	if rms > 0 {
		s.CrestFactordB = core.LinearToDB(peak / rms)
	}

	return s
}

// ForChannel computes the statistics of channel ch of s.
func ForChannel(s *spectrum.Samples, ch int) (Stats, error) {
	if s == nil || ch < 0 || ch >= s.Channels() {
		return Stats{}, fmt.Errorf("time: channel %d out of range", ch)
	}
	return Calculate(s.Channel(ch)), nil
}

// ZeroCrossings returns the number of sign changes between consecutive
// samples. Zero-valued samples never count as a crossing.
func ZeroCrossings(signal []float64) int {
	count := 0
	for i := 1; i < len(signal); i++ {
		if signal[i-1]*signal[i] < 0 {
			count++
		}
	}

	return count
}
