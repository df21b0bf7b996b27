// Package spectrum estimates averaged magnitude spectra of sampled signals.
//
// [Estimate] cuts a [Samples] buffer into consecutive, non-overlapping
// blocks of 2*(binCount-1) frames, weights each block with a periodic
// window from the dsp/window catalog, and takes the one-sided FFT. The
// per-bin magnitudes are averaged arithmetically over all complete blocks,
// independently for every channel. Frames that do not fill a final block
// are ignored.
//
// The package also carries [Magnitude], which wraps the kernel the estimator
// applies to every block, and [SmoothFractionalOctave] for presentation.
package spectrum
