package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}

// BinSine generates a sine that completes exactly bin cycles every
// blockSize samples, so it falls on the centre of FFT bin bin.
func BinSine(bin, blockSize int, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * float64(bin) / float64(blockSize)
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Interleave merges equal-length channels into frame-major order.
// It panics if the channels differ in length.
func Interleave(channels ...[]float64) []float64 {
	if len(channels) == 0 {
		return nil
	}

	frames := len(channels[0])
	out := make([]float64, frames*len(channels))
	for c, ch := range channels {
		if len(ch) != frames {
			panic("testutil: channel length mismatch")
		}
		for i, v := range ch {
			out[i*len(channels)+c] = v
		}
	}
	return out
}
