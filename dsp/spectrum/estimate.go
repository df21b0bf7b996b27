package spectrum

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-fftscan/dsp/rfft"
	"github.com/cwbudde/algo-fftscan/dsp/window"
)

// Result is an averaged one-sided magnitude spectrum.
type Result struct {
	// Frequencies holds the bin centre frequencies in Hz, k*sampleRate/BlockSize.
	Frequencies []float64
	// Magnitudes is shaped [bins, channels] and holds linear magnitudes.
	Magnitudes *mat.Dense

	BlockSize       int
	Segments        int
	DiscardedFrames int
}

// Bins returns the number of frequency bins.
func (r Result) Bins() int { return len(r.Frequencies) }

// Channels returns the number of channels.
func (r Result) Channels() int {
	if r.Magnitudes == nil {
		return 0
	}
	_, c := r.Magnitudes.Dims()
	return c
}

// Channel returns a copy of the magnitude spectrum of channel ch.
func (r Result) Channel(ch int) []float64 {
	return mat.Col(nil, ch, r.Magnitudes)
}

// Option configures an Estimator.
type Option func(*config)

type config struct {
	backend rfft.Backend
}

// WithBackend selects the FFT implementation. The default is rfft.BackendAuto.
func WithBackend(b rfft.Backend) Option {
	return func(c *config) {
		c.backend = b
	}
}

// Estimator computes block-averaged magnitude spectra. It holds only
// configuration and is safe for concurrent use.
type Estimator struct {
	cfg config
}

// NewEstimator returns an Estimator configured by opts.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{cfg: config{backend: rfft.BackendAuto}}
	for _, opt := range opts {
		if opt != nil {
			opt(&e.cfg)
		}
	}
	return e
}

// Estimate is shorthand for NewEstimator(opts...).Estimate.
func Estimate(sampleRate int, samples *Samples, binCount int, windowName string, opts ...Option) (Result, error) {
	return NewEstimator(opts...).Estimate(sampleRate, samples, binCount, windowName)
}

// BlockSize returns the block length 2*(binCount-1) whose one-sided
// transform has exactly binCount bins.
func BlockSize(binCount int) int {
	return 2 * (binCount - 1)
}

// FrequencyAxis returns k*sampleRate/blockSize for k in [0, binCount).
func FrequencyAxis(sampleRate, binCount int) []float64 {
	blockSize := float64(BlockSize(binCount))
	fs := float64(sampleRate)

	out := make([]float64, binCount)
	for k := range out {
		out[k] = float64(k) * fs / blockSize
	}
	return out
}

// Estimate splits samples into non-overlapping blocks of BlockSize(binCount)
// frames, windows each block, and averages the magnitudes of the one-sided
// transforms across blocks, per channel. Trailing frames that do not fill a
// block are dropped and reported in Result.DiscardedFrames.
//
// An unknown window name yields an *UnknownWindowError before any other
// check. An input shorter than one block yields an *InsufficientDataError.
func (e *Estimator) Estimate(sampleRate int, samples *Samples, binCount int, windowName string) (Result, error) {
	wt, err := window.Parse(windowName)
	if err != nil {
		return Result{}, &UnknownWindowError{Name: windowName, err: err}
	}

	if sampleRate <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	if binCount < 2 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidBinCount, binCount)
	}
	if samples == nil || samples.channels <= 0 {
		return Result{}, fmt.Errorf("%w: no channels", ErrShape)
	}

	blockSize := BlockSize(binCount)
	frames := samples.Frames()
	if blockSize > frames {
		return Result{}, &InsufficientDataError{BlockSize: blockSize, Frames: frames}
	}

	segments := frames / blockSize

	tr, err := rfft.New(blockSize, e.cfg.backend)
	if err != nil {
		return Result{}, fmt.Errorf("spectrum: create transform: %w", err)
	}
	if tr.Bins() != binCount {
		return Result{}, fmt.Errorf("%w: transform of %d samples yields %d bins, want %d",
			rfft.ErrBinCount, blockSize, tr.Bins(), binCount)
	}

	coeffs := window.Generate(wt, blockSize, window.WithPeriodic())
	channels := samples.Channels()

	// sums[ch*binCount:(ch+1)*binCount] accumulates channel ch.
	sums := make([]float64, binCount*channels)
	block := make([]float64, blockSize)
	bins := make([]complex128, binCount)
	mag := make([]float64, binCount)

	for seg := range segments {
		start := seg * blockSize
		for ch := range channels {
			samples.gather(block, ch, start)
			if err := window.ApplyCoefficientsInPlace(block, coeffs); err != nil {
				return Result{}, fmt.Errorf("spectrum: apply window: %w", err)
			}

			bins, err = tr.Coefficients(bins, block)
			if err != nil {
				return Result{}, fmt.Errorf("spectrum: transform segment %d channel %d: %w", seg, ch, err)
			}
			if len(bins) != binCount {
				return Result{}, fmt.Errorf("%w: got %d bins, want %d", rfft.ErrBinCount, len(bins), binCount)
			}

			magnitudeInto(mag, bins)
			vecmath.AddBlockInPlace(sums[ch*binCount:(ch+1)*binCount], mag)
		}
	}

	out := mat.NewDense(binCount, channels, nil)
	n := float64(segments)
	for ch := range channels {
		col := sums[ch*binCount : (ch+1)*binCount]
		for k, v := range col {
			out.Set(k, ch, v/n)
		}
	}

	return Result{
		Frequencies:     FrequencyAxis(sampleRate, binCount),
		Magnitudes:      out,
		BlockSize:       blockSize,
		Segments:        segments,
		DiscardedFrames: frames - segments*blockSize,
	}, nil
}
