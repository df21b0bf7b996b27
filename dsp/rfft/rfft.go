// Package rfft computes one-sided Fourier transforms of real sequences.
//
// A transform of an even length n returns exactly n/2+1 bins, DC through
// Nyquist. Several FFT implementations can back a [Transform]; the choice
// is made once per length with [New] and never changes afterwards, so a
// given (length, backend) pair always produces the same output.
package rfft

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLength reports an unsupported transform or sequence length.
	ErrLength = errors.New("rfft: invalid length")
	// ErrBinCount reports a backend that produced fewer bins than n/2+1.
	ErrBinCount = errors.New("rfft: unexpected bin count")
	// ErrBackend reports an unknown backend name or value.
	ErrBackend = errors.New("rfft: unknown backend")
)

// Backend selects the FFT implementation behind a Transform.
type Backend int

const (
	// BackendAuto uses algo-fft when it can plan the length and gonum otherwise.
	BackendAuto Backend = iota
	// BackendAlgoFFT uses github.com/cwbudde/algo-fft complex plans.
	BackendAlgoFFT
	// BackendGonum uses the FFTPACK port in gonum.org/v1/gonum/dsp/fourier.
	BackendGonum
	// BackendGoDSP uses github.com/mjibson/go-dsp/fft.
	BackendGoDSP
)

var backendNames = map[Backend]string{
	BackendAuto:    "auto",
	BackendAlgoFFT: "algofft",
	BackendGonum:   "gonum",
	BackendGoDSP:   "godsp",
}

func (b Backend) String() string {
	if s, ok := backendNames[b]; ok {
		return s
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

// Backends returns all selectable backends.
func Backends() []Backend {
	return []Backend{BackendAuto, BackendAlgoFFT, BackendGonum, BackendGoDSP}
}

// ParseBackend resolves a backend by name, ignoring case.
func ParseBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for b, s := range backendNames {
		if s == name {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBackend, name)
}

// Transform is a one-sided real FFT of a fixed length.
//
// A Transform owns scratch memory and must not be shared between
// goroutines.
type Transform interface {
	// Len returns the time-domain length n.
	Len() int
	// Bins returns n/2+1.
	Bins() int
	// Coefficients transforms seq (length n) into dst, reusing dst when
	// its capacity allows, and returns the n/2+1 bins.
	Coefficients(dst []complex128, seq []float64) ([]complex128, error)
}

// New returns a Transform of length n backed by b. n must be even and >= 2.
func New(n int, b Backend) (Transform, error) {
	if n < 2 || n%2 != 0 {
		return nil, fmt.Errorf("%w: %d (need even n >= 2)", ErrLength, n)
	}

	switch b {
	case BackendAuto:
		if t, err := newAlgoFFT(n); err == nil {
			return t, nil
		}
		return newGonum(n), nil
	case BackendAlgoFFT:
		return newAlgoFFT(n)
	case BackendGonum:
		return newGonum(n), nil
	case BackendGoDSP:
		return newGoDSP(n), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrBackend, b)
	}
}

// Bins returns the one-sided bin count n/2+1 for a real sequence of length n.
func Bins(n int) int {
	return n/2 + 1
}

func checkSeq(n int, seq []float64) error {
	if len(seq) != n {
		return fmt.Errorf("%w: sequence has %d samples, transform expects %d", ErrLength, len(seq), n)
	}
	return nil
}

func ensureBins(dst []complex128, bins int) []complex128 {
	if cap(dst) >= bins {
		return dst[:bins]
	}
	return make([]complex128, bins)
}
