// Package thd measures harmonic distortion on averaged magnitude spectra.
package thd

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fftscan/dsp/core"
	"github.com/cwbudde/algo-fftscan/dsp/spectrum"
	"github.com/cwbudde/algo-fftscan/dsp/window"
)

const (
	defaultRangeLowerHz = 20.0
	defaultRangeUpperHz = 20000.0
	defaultRubNBuzz     = 10

	// captureAnalysisSize is the window length used to locate the first
	// null of the main lobe when CaptureBins is left at zero.
	captureAnalysisSize = 1024
)

var (
	// ErrAxis reports a frequency axis that is too short, mismatched or not
	// uniformly spaced from 0 Hz.
	ErrAxis = errors.New("thd: invalid frequency axis")
	// ErrNoFundamental reports a search range that holds no usable bin.
	ErrNoFundamental = errors.New("thd: no fundamental in range")
)

// Config holds THD calculation parameters. Zero values select defaults.
type Config struct {
	// FundamentalHz fixes the fundamental. When zero the largest bin inside
	// [RangeLowerHz, RangeUpperHz] is used.
	FundamentalHz float64
	RangeLowerHz  float64
	RangeUpperHz  float64

	// CaptureBins is the number of bins on each side of a peak that count
	// towards its level. Zero derives it from Window's main lobe.
	CaptureBins   int
	MaxHarmonics  int
	RubNBuzzStart int
	Window        window.Type
}

// Result holds THD measurement results. Ratios are linear, relative to
// the fundamental level.
type Result struct {
	FundamentalHz    float64
	FundamentalBin   int
	FundamentalLevel float64

	THD      float64
	THDN     float64
	THDdB    float64
	THDNdB   float64
	OddHD    float64
	EvenHD   float64
	Noise    float64
	RubNBuzz float64
	SINAD    float64

	// Harmonics holds the level of H2, H3, ... relative to the fundamental.
	Harmonics []float64
}

// FromSpectrum measures distortion in mag, a one-sided linear magnitude
// spectrum sampled at freqs. freqs must start at 0 Hz and be uniformly
// spaced, as produced by spectrum.FrequencyAxis.
func FromSpectrum(freqs, mag []float64, cfg Config) (Result, error) {
	if len(freqs) != len(mag) {
		return Result{}, fmt.Errorf("%w: %d frequencies, %d magnitudes", ErrAxis, len(freqs), len(mag))
	}
	if len(mag) < 3 {
		return Result{}, fmt.Errorf("%w: need at least 3 bins, got %d", ErrAxis, len(mag))
	}

	binHz := freqs[1] - freqs[0]
	if freqs[0] != 0 || binHz <= 0 {
		return Result{}, fmt.Errorf("%w: axis must start at 0 Hz and increase", ErrAxis)
	}

	cfg = normalizeConfig(cfg)

	maxBin := len(mag) - 1
	lowerBin := clampInt(int(math.Round(cfg.RangeLowerHz/binHz)), 1, maxBin)
	upperBin := clampInt(int(math.Round(cfg.RangeUpperHz/binHz)), lowerBin, maxBin)

	fundBin := findFundamental(mag, cfg.FundamentalHz, binHz, lowerBin, upperBin)

	capture := cfg.CaptureBins
	if capture == 0 {
		capture = captureBinsFor(cfg.Window)
	}
	capture = min(capture, fundBin/2)

	res := Result{
		FundamentalHz:  freqs[fundBin],
		FundamentalBin: fundBin,
		THDdB:          math.Inf(-1),
		THDNdB:         math.Inf(-1),
	}

	fundLevel := binLevel(mag, fundBin, capture)
	if fundLevel <= 0 {
		return res, fmt.Errorf("%w: bin %d is silent", ErrNoFundamental, fundBin)
	}
	res.FundamentalLevel = fundLevel

	var thdAbs, oddAbs, evenAbs, rubAbs float64
	count := 0
	for k := 2; ; k++ {
		if cfg.MaxHarmonics > 0 && count >= cfg.MaxHarmonics {
			break
		}

		bin := k * fundBin
		if bin > upperBin {
			break
		}

		v := binLevel(mag, bin, capture)
		thdAbs += v
		if k%2 == 0 {
			evenAbs += v
		} else {
			oddAbs += v
		}
		if k >= cfg.RubNBuzzStart {
			rubAbs += v
		}
		res.Harmonics = append(res.Harmonics, v/fundLevel)
		count++
	}

	totalAbs := vecmath.Sum(mag[lowerBin : upperBin+1])
	thdnAbs := math.Max(totalAbs-fundLevel, 0)
	noiseAbs := math.Max(thdnAbs-thdAbs, 0)

	res.THD = thdAbs / fundLevel
	res.THDN = thdnAbs / fundLevel
	res.THDdB = core.LinearToDB(res.THD)
	res.THDNdB = core.LinearToDB(res.THDN)
	res.OddHD = oddAbs / fundLevel
	res.EvenHD = evenAbs / fundLevel
	res.Noise = noiseAbs / fundLevel
	res.RubNBuzz = rubAbs / fundLevel

	res.SINAD = math.Inf(1)
	if res.THDN > 0 {
		res.SINAD = -core.LinearToDB(res.THDN)
	}

	return res, nil
}

// ForChannel measures one channel of an estimate. The window used for
// auto capture should match the one the estimate was computed with.
func ForChannel(res spectrum.Result, ch int, cfg Config) (Result, error) {
	if ch < 0 || ch >= res.Channels() {
		return Result{}, fmt.Errorf("thd: channel %d out of range [0,%d)", ch, res.Channels())
	}
	return FromSpectrum(res.Frequencies, res.Channel(ch), cfg)
}

func findFundamental(mag []float64, hz, binHz float64, lowerBin, upperBin int) int {
	if hz > 0 {
		return clampInt(int(math.Round(hz/binHz)), lowerBin, upperBin)
	}

	best := lowerBin
	for i := lowerBin + 1; i <= upperBin; i++ {
		if mag[i] > mag[best] {
			best = i
		}
	}
	return best
}

var captureCache sync.Map // window.Type -> int

// captureBinsFor returns the rounded first-null position of t's main lobe.
func captureBinsFor(t window.Type) int {
	if v, ok := captureCache.Load(t); ok {
		return v.(int)
	}

	a := window.Analyze(window.Generate(t, captureAnalysisSize, window.WithPeriodic()))
	bins := 0
	if a.FirstMinimumBins > 0 && !math.IsNaN(a.FirstMinimumBins) {
		bins = int(math.Round(a.FirstMinimumBins))
	}

	captureCache.Store(t, bins)
	return bins
}

func normalizeConfig(cfg Config) Config {
	if cfg.RangeLowerHz <= 0 {
		cfg.RangeLowerHz = defaultRangeLowerHz
	}
	if cfg.RangeUpperHz <= 0 {
		cfg.RangeUpperHz = defaultRangeUpperHz
	}
	cfg.RangeUpperHz = math.Max(cfg.RangeUpperHz, cfg.RangeLowerHz)
	if cfg.RubNBuzzStart < 1 {
		cfg.RubNBuzzStart = defaultRubNBuzz
	}
	cfg.CaptureBins = max(cfg.CaptureBins, 0)
	cfg.MaxHarmonics = max(cfg.MaxHarmonics, 0)
	return cfg
}

// binLevel sums the magnitudes within capture bins of bin.
func binLevel(mag []float64, bin, capture int) float64 {
	if bin < 0 || bin >= len(mag) {
		return 0
	}
	lo := max(bin-capture, 0)
	hi := min(bin+capture, len(mag)-1)
	return vecmath.Sum(mag[lo : hi+1])
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
