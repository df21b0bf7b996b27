package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/cwbudde/algo-fftscan/dsp/core"
	"github.com/cwbudde/algo-fftscan/dsp/spectrum"
	"github.com/cwbudde/algo-fftscan/dsp/window"
	"github.com/cwbudde/algo-fftscan/measure/thd"
	frequencystats "github.com/cwbudde/algo-fftscan/stats/frequency"
	timestats "github.com/cwbudde/algo-fftscan/stats/time"
)

type renderer interface {
	render(r scanResult) error
	flush() error
}

// csvRenderer writes one section per file: a header row
// frequency_hz,<file>:<ch>,... followed by one row per bin in dB.
type csvRenderer struct {
	w       *csv.Writer
	smooth  int
	floorDB float64
}

func newCSVRenderer(w io.Writer, smooth int, floorDB float64) *csvRenderer {
	return &csvRenderer{w: csv.NewWriter(w), smooth: smooth, floorDB: floorDB}
}

func (c *csvRenderer) render(r scanResult) error {
	res := r.average
	channels := res.Channels()

	header := make([]string, 0, channels+1)
	header = append(header, "frequency_hz")
	for ch := range channels {
		header = append(header, fmt.Sprintf("%s:%d", r.path, ch))
	}
	if err := c.w.Write(header); err != nil {
		return err
	}

	levels := make([][]float64, channels)
	for ch := range channels {
		mag, err := c.smoothed(res.Frequencies, res.Channel(ch))
		if err != nil {
			return err
		}
		levels[ch] = core.MagnitudesToDB(nil, mag, c.floorDB)
	}

	row := make([]string, channels+1)
	for k, f := range res.Frequencies {
		row[0] = strconv.FormatFloat(f, 'f', -1, 64)
		for ch := range channels {
			row[ch+1] = strconv.FormatFloat(levels[ch][k], 'f', 4, 64)
		}
		if err := c.w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// smoothed applies fractional-octave smoothing to all bins above DC.
func (c *csvRenderer) smoothed(freqs, mag []float64) ([]float64, error) {
	if c.smooth == 0 || len(mag) < 2 {
		return mag, nil
	}

	upper, err := spectrum.SmoothFractionalOctave(freqs[1:], mag[1:], c.smooth)
	if err != nil {
		return nil, err
	}
	return append(mag[:1], upper...), nil
}

func (c *csvRenderer) flush() error {
	c.w.Flush()
	return c.w.Error()
}

// summaryRenderer prints one table row per channel. The THD column is
// measured against the largest bin and printed as "-" for silent channels.
type summaryRenderer struct {
	tw     *tabwriter.Writer
	win    window.Type
	header bool
}

func newSummaryRenderer(w io.Writer, win window.Type) *summaryRenderer {
	return &summaryRenderer{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0), win: win}
}

func (s *summaryRenderer) render(r scanResult) error {
	if !s.header {
		if _, err := fmt.Fprintf(s.tw, "File\tCh\tRate\tBlock\tSegments\tDiscarded\tPeak [Hz]\tPeak [dB]\tCentroid [Hz]\tRolloff [Hz]\tRMS [dB]\tCrest [dB]\tTHD [dB]\n"); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(s.tw, "----\t--\t----\t-----\t--------\t---------\t---------\t---------\t-------------\t------------\t----------\t----------\t--------\n"); err != nil {
			return err
		}
		s.header = true
	}

	res := r.average
	for ch := range res.Channels() {
		fs, err := frequencystats.ForChannel(res, ch)
		if err != nil {
			return err
		}
		ts, err := timestats.ForChannel(r.input.Samples, ch)
		if err != nil {
			return err
		}

		distortion := "-"
		if m, err := thd.ForChannel(res, ch, thd.Config{Window: s.win}); err == nil {
			distortion = fmt.Sprintf("%.2f", m.THDdB)
		}

		if _, err := fmt.Fprintf(s.tw, "%s\t%d\t%d\t%d\t%d\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
			r.path,
			ch,
			r.input.SampleRate,
			res.BlockSize,
			res.Segments,
			res.DiscardedFrames,
			fs.PeakHz,
			fs.PeakdB,
			fs.Centroid,
			fs.Rolloff,
			ts.RMSdB,
			ts.CrestFactordB,
			distortion,
		); err != nil {
			return err
		}
	}

	return nil
}

func (s *summaryRenderer) flush() error {
	return s.tw.Flush()
}
