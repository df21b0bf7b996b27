// Package config builds the fftscan command configuration from flags, with
// defaults taken from the environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cwbudde/algo-fftscan/dsp/rfft"
	"github.com/cwbudde/algo-fftscan/dsp/window"
)

// Output formats.
const (
	FormatSummary = "summary"
	FormatCSV     = "csv"
)

var (
	// ErrNoInput reports a command line without input files.
	ErrNoInput = errors.New("config: no input files")
	// ErrBins reports an odd or too small bin count.
	ErrBins = errors.New("config: bin count must be even and >= 2")
	// ErrFormat reports an unknown output format.
	ErrFormat = errors.New("config: unknown output format")
	// ErrSmooth reports a negative smoothing fraction.
	ErrSmooth = errors.New("config: smoothing fraction must be >= 0")
)

// ReferenceBins are the bin counts offered by the original analysis tool.
var ReferenceBins = []int{128, 256, 512, 1024, 2048, 4096, 8192, 16384}

// Config is the resolved fftscan configuration.
type Config struct {
	Bins       int
	Window     string
	WindowType window.Type // Window resolved by Validate
	Backend    rfft.Backend
	Format     string
	Normalize  bool
	// Smooth is the 1/N-octave smoothing fraction; 0 disables smoothing.
	Smooth   int
	Output   string
	FloorDB  float64
	LogLevel zerolog.Level
	Files    []string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "0", "false", "no", "off":
			return false
		default:
			return true
		}
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// LogLevel returns the level named by LOG_LEVEL, or info.
func LogLevel() zerolog.Level {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if l, err := zerolog.ParseLevel(v); err == nil {
			return l
		}
	}
	return zerolog.InfoLevel
}

// Parse parses args (without the program name). Usage and flag errors are
// written to stderr.
func Parse(name string, args []string, stderr io.Writer) (Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	bins := fs.Int("bins", getenvInt("FFTSCAN_BINS", 2048), "number of frequency bins, even (env FFTSCAN_BINS)")
	win := fs.String("window", getenv("FFTSCAN_WINDOW", "hann"), "analysis window name (env FFTSCAN_WINDOW)")
	backend := fs.String("backend", getenv("FFTSCAN_BACKEND", "auto"), "FFT backend: auto, algofft, gonum, godsp (env FFTSCAN_BACKEND)")
	format := fs.String("format", getenv("FFTSCAN_FORMAT", FormatSummary), "output format: summary or csv (env FFTSCAN_FORMAT)")
	normalize := fs.Bool("normalize", getenvBool("FFTSCAN_NORMALIZE", false), "scale integer PCM to [-1, 1) (env FFTSCAN_NORMALIZE)")
	smooth := fs.Int("smooth", getenvInt("FFTSCAN_SMOOTH", 0), "1/N-octave smoothing of csv output, 0 disables (env FFTSCAN_SMOOTH)")
	output := fs.String("o", getenv("FFTSCAN_OUTPUT", ""), "write output to file instead of stdout (env FFTSCAN_OUTPUT)")
	floor := fs.Float64("floor", getenvFloat("FFTSCAN_FLOOR_DB", -240), "lowest reported level in dB (env FFTSCAN_FLOOR_DB)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] file.wav ...\n\n", name)
		fmt.Fprintf(stderr, "Prints block-averaged magnitude spectra of WAV files.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Bins:      *bins,
		Window:    *win,
		Format:    strings.ToLower(*format),
		Normalize: *normalize,
		Smooth:    *smooth,
		Output:    *output,
		FloorDB:   *floor,
		LogLevel:  LogLevel(),
		Files:     fs.Args(),
	}

	b, err := rfft.ParseBackend(*backend)
	if err != nil {
		return Config{}, err
	}
	cfg.Backend = b

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the option values and resolves WindowType.
func (c *Config) Validate() error {
	if len(c.Files) == 0 {
		return ErrNoInput
	}
	if c.Bins < 2 || c.Bins%2 != 0 {
		return fmt.Errorf("%w: %d", ErrBins, c.Bins)
	}
	wt, err := window.Parse(c.Window)
	if err != nil {
		return err
	}
	c.WindowType = wt
	if c.Format != FormatSummary && c.Format != FormatCSV {
		return fmt.Errorf("%w: %q", ErrFormat, c.Format)
	}
	if c.Smooth < 0 {
		return fmt.Errorf("%w: %d", ErrSmooth, c.Smooth)
	}
	return nil
}

// IsReferenceBins reports whether c.Bins is one of ReferenceBins.
func (c Config) IsReferenceBins() bool {
	return slices.Contains(ReferenceBins, c.Bins)
}
