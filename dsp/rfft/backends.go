package rfft

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
	dspfft "github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// algoTransform packs the real input into a complex buffer and keeps the
// non-negative half of the full complex spectrum.
type algoTransform struct {
	n    int
	plan *algofft.Plan[complex128]
	in   []complex128
	out  []complex128
}

func newAlgoFFT(n int) (*algoTransform, error) {
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("rfft: algo-fft plan for n=%d: %w", n, err)
	}

	return &algoTransform{
		n:    n,
		plan: plan,
		in:   make([]complex128, n),
		out:  make([]complex128, n),
	}, nil
}

func (t *algoTransform) Len() int  { return t.n }
func (t *algoTransform) Bins() int { return Bins(t.n) }

func (t *algoTransform) Coefficients(dst []complex128, seq []float64) ([]complex128, error) {
	if err := checkSeq(t.n, seq); err != nil {
		return nil, err
	}

	for i, v := range seq {
		t.in[i] = complex(v, 0)
	}

	if err := t.plan.Forward(t.out, t.in); err != nil {
		return nil, fmt.Errorf("rfft: algo-fft forward: %w", err)
	}

	dst = ensureBins(dst, t.Bins())
	copy(dst, t.out)

	return dst, nil
}

// gonumTransform uses FFTPACK's real-input path, which yields the
// one-sided spectrum directly and supports every length.
type gonumTransform struct {
	fft *fourier.FFT
}

func newGonum(n int) *gonumTransform {
	return &gonumTransform{fft: fourier.NewFFT(n)}
}

func (t *gonumTransform) Len() int  { return t.fft.Len() }
func (t *gonumTransform) Bins() int { return Bins(t.fft.Len()) }

func (t *gonumTransform) Coefficients(dst []complex128, seq []float64) ([]complex128, error) {
	if err := checkSeq(t.fft.Len(), seq); err != nil {
		return nil, err
	}

	return t.fft.Coefficients(ensureBins(dst, t.Bins()), seq), nil
}

// goDSPTransform is stateless; go-dsp caches twiddle factors globally
// behind its own lock.
type goDSPTransform struct {
	n int
}

func newGoDSP(n int) *goDSPTransform {
	return &goDSPTransform{n: n}
}

func (t *goDSPTransform) Len() int  { return t.n }
func (t *goDSPTransform) Bins() int { return Bins(t.n) }

func (t *goDSPTransform) Coefficients(dst []complex128, seq []float64) ([]complex128, error) {
	if err := checkSeq(t.n, seq); err != nil {
		return nil, err
	}

	full := dspfft.FFTReal(seq)
	bins := t.Bins()
	if len(full) < bins {
		return nil, fmt.Errorf("%w: go-dsp returned %d bins, need %d", ErrBinCount, len(full), bins)
	}

	dst = ensureBins(dst, bins)
	copy(dst, full)

	return dst, nil
}
