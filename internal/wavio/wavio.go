// Package wavio decodes WAV files into multichannel sample buffers for
// spectral analysis.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-fftscan/dsp/spectrum"
)

var (
	// ErrInvalidWAV reports input that is not a decodable WAV stream.
	ErrInvalidWAV = errors.New("wavio: invalid wav file")
	// ErrEmpty reports a WAV stream without sample data.
	ErrEmpty = errors.New("wavio: no sample data")
	// ErrUnsupported reports a sample format this package cannot convert.
	ErrUnsupported = errors.New("wavio: unsupported sample format")
)

const formatIEEEFloat = 3

// Decoded is a decoded WAV stream.
type Decoded struct {
	SampleRate int
	Channels   int
	BitDepth   int
	// Float reports IEEE float sample data.
	Float   bool
	Samples *spectrum.Samples
}

// Frames returns the number of decoded frames.
func (d Decoded) Frames() int {
	if d.Samples == nil {
		return 0
	}
	return d.Samples.Frames()
}

// Option configures Decode.
type Option func(*config)

type config struct {
	normalize bool
}

// WithNormalize scales integer PCM to [-1, 1). Without it integer samples
// keep their stored values, and 8-bit data stays unsigned.
func WithNormalize() Option {
	return func(c *config) {
		c.normalize = true
	}
}

// Decode reads a whole WAV stream from r.
func Decode(r io.ReadSeeker, opts ...Option) (Decoded, error) {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Decoded{}, ErrInvalidWAV
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil && !errors.Is(err, io.EOF) {
		return Decoded{}, fmt.Errorf("%w: %w", ErrInvalidWAV, err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return Decoded{}, ErrEmpty
	}

	d := Decoded{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
		Float:      dec.WavAudioFormat == formatIEEEFloat,
	}
	if d.SampleRate == 0 && buf.Format != nil {
		d.SampleRate = buf.Format.SampleRate
	}
	if d.Channels == 0 && buf.Format != nil {
		d.Channels = buf.Format.NumChannels
	}

	data, err := convert(buf, d, cfg.normalize)
	if err != nil {
		return Decoded{}, err
	}

	// Drop a trailing partial frame from a truncated data chunk.
	data = data[:len(data)-len(data)%d.Channels]
	if len(data) == 0 {
		return Decoded{}, ErrEmpty
	}

	d.Samples, err = spectrum.Interleaved(data, d.Channels)
	if err != nil {
		return Decoded{}, fmt.Errorf("%w: %w", ErrInvalidWAV, err)
	}

	return d, nil
}

// DecodeFile opens and decodes the WAV file at path.
func DecodeFile(path string, opts ...Option) (Decoded, error) {
	f, err := os.Open(path)
	if err != nil {
		return Decoded{}, err
	}
	defer f.Close()

	d, err := Decode(f, opts...)
	if err != nil {
		return Decoded{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func convert(buf *audio.IntBuffer, d Decoded, normalize bool) ([]float64, error) {
	if d.Channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidWAV, d.Channels)
	}

	out := make([]float64, len(buf.Data))

	if d.Float {
		if d.BitDepth != 32 {
			return nil, fmt.Errorf("%w: %d-bit float", ErrUnsupported, d.BitDepth)
		}
		for i, v := range buf.Data {
			out[i] = floatFromBits(v)
		}
		return out, nil
	}

	if d.BitDepth < 8 || d.BitDepth > 32 {
		return nil, fmt.Errorf("%w: %d-bit pcm", ErrUnsupported, d.BitDepth)
	}

	if !normalize {
		for i, v := range buf.Data {
			out[i] = float64(v)
		}
		return out, nil
	}

	// 8-bit WAV is unsigned with its midpoint at 128.
	offset := 0.0
	if d.BitDepth == 8 {
		offset = 128
	}
	scale := 1 / math.Ldexp(1, d.BitDepth-1)
	for i, v := range buf.Data {
		out[i] = (float64(v) - offset) * scale
	}

	return out, nil
}

// floatFromBits reinterprets a 32-bit sample word as an IEEE float.
func floatFromBits(v int) float64 {
	return float64(math.Float32frombits(uint32(int32(v))))
}
