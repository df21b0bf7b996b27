package spectrum

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Samples is a multichannel sample buffer shaped [frames, channels],
// stored frame-major (interleaved).
type Samples struct {
	data     []float64
	frames   int
	channels int
}

// Mono normalizes a single-channel sequence to shape [len(x), 1].
// x is wrapped, not copied.
func Mono(x []float64) *Samples {
	return &Samples{data: x, frames: len(x), channels: 1}
}

// Interleaved wraps frame-major data with the given channel count.
// data is not copied.
func Interleaved(data []float64, channels int) (*Samples, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: channel count must be > 0: %d", ErrShape, channels)
	}
	if len(data)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples do not divide into %d channels", ErrShape, len(data), channels)
	}

	return &Samples{data: data, frames: len(data) / channels, channels: channels}, nil
}

// FromFrames copies a [frames][channels] array. Every row must have the
// same, non-zero length.
func FromFrames(rows [][]float64) (*Samples, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no frames", ErrShape)
	}

	channels := len(rows[0])
	if channels == 0 {
		return nil, fmt.Errorf("%w: frame 0 has no channels", ErrShape)
	}

	data := make([]float64, 0, len(rows)*channels)
	for i, row := range rows {
		if len(row) != channels {
			return nil, fmt.Errorf("%w: frame %d has %d channels, want %d", ErrShape, i, len(row), channels)
		}
		data = append(data, row...)
	}

	return &Samples{data: data, frames: len(rows), channels: channels}, nil
}

// FromMatrix copies m, whose rows are frames and columns are channels.
func FromMatrix(m mat.Matrix) *Samples {
	r, c := m.Dims()
	data := make([]float64, r*c)
	for i := range r {
		for j := range c {
			data[i*c+j] = m.At(i, j)
		}
	}

	return &Samples{data: data, frames: r, channels: c}
}

// Frames returns the number of frames.
func (s *Samples) Frames() int { return s.frames }

// Channels returns the number of channels.
func (s *Samples) Channels() int { return s.channels }

// At returns the sample of channel ch at frame i.
func (s *Samples) At(i, ch int) float64 {
	return s.data[i*s.channels+ch]
}

// Channel returns a copy of one channel.
func (s *Samples) Channel(ch int) []float64 {
	out := make([]float64, s.frames)
	s.gather(out, ch, 0)
	return out
}

// gather copies len(dst) frames of channel ch starting at frame start.
func (s *Samples) gather(dst []float64, ch, start int) {
	if s.channels == 1 {
		copy(dst, s.data[start:start+len(dst)])
		return
	}

	idx := start*s.channels + ch
	for i := range dst {
		dst[i] = s.data[idx]
		idx += s.channels
	}
}
