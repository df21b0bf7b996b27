package frequency

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-fftscan/dsp/core"
	"github.com/cwbudde/algo-fftscan/dsp/spectrum"
)

// ErrLength reports a frequency axis that does not match the magnitudes.
var ErrLength = errors.New("frequency: axis and magnitude length mismatch")

const defaultRolloff = 0.85

// Stats describes a one-sided linear magnitude spectrum.
type Stats struct {
	BinCount int

	DC     float64 // bin 0 magnitude
	DCdB   float64
	Peak   float64 // largest magnitude
	PeakdB float64
	// PeakBin is the lowest bin holding Peak; PeakHz is its frequency.
	PeakBin int
	PeakHz  float64
	Mean    float64
	Energy  float64 // sum of squared magnitudes

	Centroid  float64 // magnitude-weighted mean frequency (Hz)
	Spread    float64 // magnitude-weighted standard deviation around Centroid (Hz)
	Flatness  float64 // geometric over arithmetic mean of bins 1..n-1, 0..1
	Rolloff   float64 // frequency below which the rolloff fraction of energy lies (Hz)
	Bandwidth float64 // -3 dB width around the peak (Hz)
}

// Option configures Calculate.
type Option func(*config)

type config struct {
	rolloff float64
}

// WithRolloff sets the energy fraction used for Stats.Rolloff. Values
// outside (0, 1] are ignored; the default is 0.85.
func WithRolloff(fraction float64) Option {
	return func(c *config) {
		if fraction > 0 && fraction <= 1 {
			c.rolloff = fraction
		}
	}
}

// Calculate computes statistics of mag sampled at the frequencies freqs.
// Both slices must have the same length; freqs is expected to increase.
func Calculate(freqs, mag []float64, opts ...Option) (Stats, error) {
	if len(freqs) != len(mag) {
		return Stats{}, fmt.Errorf("%w: %d frequencies, %d magnitudes", ErrLength, len(freqs), len(mag))
	}

	cfg := config{rolloff: defaultRolloff}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	n := len(mag)
	if n == 0 {
		return Stats{
			DCdB:   math.Inf(-1),
			PeakdB: math.Inf(-1),
		}, nil
	}

	s := Stats{BinCount: n, DC: mag[0]}
	s.DCdB = core.LinearToDB(s.DC)
	s.PeakBin = floats.MaxIdx(mag)
	s.Peak = mag[s.PeakBin]
	s.PeakdB = core.LinearToDB(s.Peak)
	s.PeakHz = freqs[s.PeakBin]

	sum := vecmath.Sum(mag)
	s.Mean = sum / float64(n)
	s.Energy = vecmath.DotProduct(mag, mag)

	if n < 2 {
		return s, nil
	}

	s.Centroid = centroid(freqs, mag, sum)
	s.Spread = spread(freqs, mag, s.Centroid, sum)
	s.Flatness = flatness(mag)
	s.Rolloff = rolloff(freqs, mag, cfg.rolloff, s.Energy)
	s.Bandwidth = bandwidth(freqs, mag, s.PeakBin)

	return s, nil
}

// ForChannel computes the statistics of one channel of an estimate.
func ForChannel(res spectrum.Result, ch int, opts ...Option) (Stats, error) {
	if ch < 0 || ch >= res.Channels() {
		return Stats{}, fmt.Errorf("frequency: channel %d out of range [0,%d)", ch, res.Channels())
	}
	return Calculate(res.Frequencies, res.Channel(ch), opts...)
}

func centroid(freqs, mag []float64, sum float64) float64 {
	if sum == 0 {
		return 0
	}
	return vecmath.DotProduct(freqs, mag) / sum
}

func spread(freqs, mag []float64, cent, sum float64) float64 {
	if sum == 0 {
		return 0
	}

	acc := 0.0
	for i, v := range mag {
		d := freqs[i] - cent
		acc += d * d * v
	}
	return math.Sqrt(acc / sum)
}

// Flatness returns the spectral flatness (Wiener entropy) of mag in the
// range 0..1, ignoring the DC bin. A zero bin makes the result 0.
func Flatness(mag []float64) float64 {
	return flatness(mag)
}

func flatness(mag []float64) float64 {
	if len(mag) < 2 {
		return 0
	}

	bins := mag[1:]
	meanLin := vecmath.Sum(bins) / float64(len(bins))
	if meanLin == 0 {
		return 0
	}

	sumLog := 0.0
	for _, v := range bins {
		if v <= 0 {
			return 0
		}
		sumLog += math.Log(v)
	}

	return math.Exp(sumLog/float64(len(bins))) / meanLin
}

func rolloff(freqs, mag []float64, fraction, energy float64) float64 {
	if energy == 0 {
		return 0
	}

	threshold := fraction * energy
	cum := 0.0
	for i, v := range mag {
		cum += v * v
		if cum >= threshold {
			return freqs[i]
		}
	}
	return freqs[len(freqs)-1]
}

// bandwidth walks out from the peak to the points where the magnitude
// drops to peak/sqrt(2), interpolating linearly between bins.
func bandwidth(freqs, mag []float64, peakBin int) float64 {
	n := len(mag)
	peak := mag[peakBin]
	if peak == 0 {
		return 0
	}

	threshold := peak / math.Sqrt2

	lower := freqs[0]
	for i := peakBin; i >= 1; i-- {
		if mag[i-1] <= threshold && mag[i] > threshold {
			lower = crossing(freqs[i-1], freqs[i], mag[i-1], mag[i], threshold)
			break
		}
	}

	upper := freqs[n-1]
	for i := peakBin; i < n-1; i++ {
		if mag[i+1] <= threshold && mag[i] > threshold {
			upper = crossing(freqs[i], freqs[i+1], mag[i], mag[i+1], threshold)
			break
		}
	}

	return math.Max(upper-lower, 0)
}

func crossing(f0, f1, m0, m1, threshold float64) float64 {
	if m1 == m0 {
		return (f0 + f1) / 2
	}
	return f0 + (threshold-m0)/(m1-m0)*(f1-f0)
}
