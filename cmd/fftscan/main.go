// Command fftscan prints block-averaged magnitude spectra of WAV files.
//
// Usage:
//
//	fftscan [flags] file.wav ...
//
// Every file is split into non-overlapping blocks of 2*(bins-1) frames; the
// windowed FFT magnitudes of all complete blocks are averaged per channel.
// The summary format prints one line of spectral and level statistics per
// channel. The csv format prints the spectrum itself in dB.
//
// Examples:
//
//	fftscan take1.wav take2.wav
//	fftscan -bins 8192 -window blackman -format csv -o spectra.csv mix.wav
//	FFTSCAN_BACKEND=gonum fftscan -smooth 3 -format csv noise.wav
//
// Files that cannot be decoded or are shorter than one block are reported
// and skipped; the exit status is 1 if any file failed.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cwbudde/algo-fftscan/dsp/spectrum"
	"github.com/cwbudde/algo-fftscan/internal/config"
	"github.com/cwbudde/algo-fftscan/internal/wavio"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	out := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// createOutput opens the -o destination.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Parse("fftscan", args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "fftscan: %v\n", err)
		return exitUsage
	}

	log.Logger = newLogger(stderr, cfg.LogLevel)

	if !cfg.IsReferenceBins() {
		log.Warn().Int("bins", cfg.Bins).Ints("reference", config.ReferenceBins).
			Msg("bin count outside the reference set")
	}

	out := stdout
	var outFile io.WriteCloser
	if cfg.Output != "" {
		f, err := createOutput(cfg.Output)
		if err != nil {
			log.Error().Err(err).Str("path", cfg.Output).Msg("cannot create output")
			return exitFailed
		}
		outFile = f
		out = f
	}

	s := &scanner{
		cfg: cfg,
		est: spectrum.NewEstimator(spectrum.WithBackend(cfg.Backend)),
		log: log.Logger,
	}

	var r renderer
	switch cfg.Format {
	case config.FormatCSV:
		r = newCSVRenderer(out, cfg.Smooth, cfg.FloorDB)
	default:
		r = newSummaryRenderer(out, cfg.WindowType)
	}

	failed := 0
	for _, path := range cfg.Files {
		res, err := s.scan(path)
		if err != nil {
			failed++
			continue
		}
		if err := r.render(res); err != nil {
			log.Error().Err(err).Str("file", path).Msg("render failed")
			failed++
		}
	}

	err = r.flush()
	if outFile != nil {
		if cerr := outFile.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		log.Error().Err(err).Str("path", cfg.Output).Msg("write output")
		return exitFailed
	}

	if failed > 0 {
		log.Error().Int("failed", failed).Int("files", len(cfg.Files)).Msg("some files could not be scanned")
		return exitFailed
	}
	return exitOK
}

type scanner struct {
	cfg config.Config
	est *spectrum.Estimator
	log zerolog.Logger
}

// scanResult is the analysis of one input file.
type scanResult struct {
	path    string
	input   wavio.Decoded
	average spectrum.Result
}

func (s *scanner) scan(path string) (scanResult, error) {
	var opts []wavio.Option
	if s.cfg.Normalize {
		opts = append(opts, wavio.WithNormalize())
	}

	in, err := wavio.DecodeFile(path, opts...)
	if err != nil {
		s.log.Error().Err(err).Str("file", path).Msg("decode failed")
		return scanResult{}, err
	}

	res, err := s.est.Estimate(in.SampleRate, in.Samples, s.cfg.Bins, s.cfg.Window)
	if err != nil {
		ev := s.log.Error().Err(err).Str("file", path)
		var ide *spectrum.InsufficientDataError
		if errors.As(err, &ide) {
			ev = ev.Int("block_size", ide.BlockSize).Int("frames", ide.Frames)
		}
		ev.Msg("estimate failed")
		return scanResult{}, err
	}

	s.log.Debug().
		Str("file", path).
		Int("sample_rate", in.SampleRate).
		Int("channels", in.Channels).
		Int("frames", in.Frames()).
		Int("block_size", res.BlockSize).
		Int("segments", res.Segments).
		Int("discarded", res.DiscardedFrames).
		Msg("scanned")

	return scanResult{path: path, input: in, average: res}, nil
}
