package window

import (
	"math"

	"github.com/cwbudde/algo-fftscan/dsp/core"
	"github.com/cwbudde/algo-fftscan/dsp/rfft"
	"github.com/cwbudde/algo-vecmath"
)

// analyzeOversample is the number of response samples per DFT bin.
const analyzeOversample = 32

// Analysis holds numerically computed spectral properties of a window.
type Analysis struct {
	// CoherentGain is sum(w[n]) / N, the DC response of the window.
	CoherentGain float64
	// ENBW is the equivalent noise bandwidth in bins.
	ENBW float64
	// Bandwidth3dB is the 3 dB (half-power) main lobe width in bins.
	Bandwidth3dB float64
	// HighestSidelobedB is the highest sidelobe level relative to DC in dB.
	HighestSidelobedB float64
	// FirstMinimumBins is the first null (minimum) position in bins.
	FirstMinimumBins float64
	// ScallopLossdB is the amplitude error for a signal half a bin off centre.
	ScallopLossdB float64
}

// Analyze computes spectral properties of the given window coefficients
// from a zero-padded one-sided FFT of the window.
func Analyze(coeffs []float64) Analysis {
	n := len(coeffs)
	if n == 0 {
		return Analysis{}
	}

	sum := vecmath.Sum(coeffs)
	if sum == 0 {
		return Analysis{}
	}

	response := normalizedPowerResponse(coeffs, sum)
	if response == nil {
		return Analysis{}
	}

	nf := float64(n)
	a := Analysis{
		CoherentGain:      sum / nf,
		ENBW:              nf * vecmath.DotProduct(coeffs, coeffs) / (sum * sum),
		Bandwidth3dB:      2 * halfPowerPoint(response) / analyzeOversample,
		ScallopLossdB:     core.LinearPowerToDB(response[analyzeOversample/2]),
		HighestSidelobedB: math.Inf(-1),
	}

	if minIdx := firstMinimum(response); minIdx > 0 {
		a.FirstMinimumBins = float64(minIdx) / analyzeOversample

		peak := 0.0
		for _, v := range response[minIdx:] {
			peak = math.Max(peak, v)
		}
		a.HighestSidelobedB = core.LinearPowerToDB(peak)
	}

	return a
}

// normalizedPowerResponse returns |W(f)|^2 / |W(0)|^2 sampled
// analyzeOversample times per bin from DC to Nyquist.
func normalizedPowerResponse(coeffs []float64, sum float64) []float64 {
	size := len(coeffs) * analyzeOversample

	tr, err := rfft.New(size, rfft.BackendAuto)
	if err != nil {
		return nil
	}

	padded := make([]float64, size)
	copy(padded, coeffs)

	spec, err := tr.Coefficients(nil, padded)
	if err != nil {
		return nil
	}

	re := make([]float64, len(spec))
	im := make([]float64, len(spec))
	for k, c := range spec {
		re[k] = real(c)
		im[k] = imag(c)
	}

	power := make([]float64, len(spec))
	vecmath.Power(power, re, im)
	vecmath.ScaleBlockInPlace(power, 1/(sum*sum))

	return power
}

// halfPowerPoint returns the fractional response index where the main lobe
// first falls to half power.
func halfPowerPoint(response []float64) float64 {
	for k := 1; k < len(response); k++ {
		if response[k] <= 0.5 {
			prev := response[k-1]
			return float64(k-1) + (prev-0.5)/(prev-response[k])
		}
	}
	return float64(len(response) - 1)
}

// firstMinimum returns the index of the first local minimum after the main
// lobe has dropped below 10% of DC, or 0 if there is none. The threshold
// skips the plateau of flat-top windows.
func firstMinimum(response []float64) int {
	const threshold = 0.1
	for k := 1; k < len(response); k++ {
		if response[k-1] < threshold && response[k] > response[k-1] {
			return k - 1
		}
	}
	return 0
}
