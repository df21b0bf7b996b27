package spectrum

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

func split(in []complex128) (re, im []float64, buf *scratchBuf) {
	re, im, buf = getScratch(len(in))
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
	return re, im, buf
}

// Magnitude returns |X[k]| for each complex spectrum bin.
//
// This function uses SIMD-optimized implementations when available (AVX2, SSE2, NEON).
// Scratch buffers are pooled internally, so in steady state this allocates
// only the output slice.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	magnitudeInto(out, in)
	return out
}

// magnitudeInto writes |in[k]| to dst, which must have len(in) elements.
func magnitudeInto(dst []float64, in []complex128) {
	re, im, buf := split(in)
	vecmath.Magnitude(dst, re, im)
	putScratch(buf)
}

// SmoothFractionalOctave applies simple 1/N-octave smoothing on linear-domain
// values using arithmetic mean over each fractional-octave band.
//
// freqHz and values must have equal length and freqHz must be strictly
// increasing with positive values.
func SmoothFractionalOctave(freqHz, values []float64, fraction int) ([]float64, error) {
	if len(freqHz) == 0 || len(values) == 0 {
		return nil, fmt.Errorf("fractional-octave smoothing requires non-empty inputs")
	}
	if len(freqHz) != len(values) {
		return nil, fmt.Errorf("fractional-octave input length mismatch: %d != %d", len(freqHz), len(values))
	}
	if fraction <= 0 {
		return nil, fmt.Errorf("fractional-octave fraction must be > 0: %d", fraction)
	}
	for i := range freqHz {
		if freqHz[i] <= 0 {
			return nil, fmt.Errorf("fractional-octave frequencies must be > 0 at index %d", i)
		}
		if i > 0 && !(freqHz[i] > freqHz[i-1]) {
			return nil, fmt.Errorf("fractional-octave frequencies must be strictly increasing at index %d", i)
		}
	}

	out := make([]float64, len(values))
	halfBand := math.Pow(2, 1/(2*float64(fraction)))

	for i, f := range freqHz {
		i0 := sort.SearchFloat64s(freqHz, f/halfBand)
		i1 := sort.Search(len(freqHz), func(k int) bool { return freqHz[k] > f*halfBand })
		if i0 >= i1 {
			out[i] = values[i]
			continue
		}

		out[i] = vecmath.Sum(values[i0:i1]) / float64(i1-i0)
	}

	return out, nil
}
