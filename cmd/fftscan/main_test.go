package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-fftscan/internal/testutil"
)

// testBlock is the block size for -bins 34.
const testBlock = 66

// writeSineWAV writes a 16-bit WAV whose channels carry sines centred on
// the given bins of a testBlock-sample block.
func writeSineWAV(t *testing.T, dir, name string, sampleRate, frames int, bins ...int) string {
	t.Helper()

	chans := make([][]float64, len(bins))
	for c, b := range bins {
		chans[c] = testutil.BinSine(b, testBlock, 16000, frames)
	}

	inter := testutil.Interleave(chans...)
	data := make([]int, len(inter))
	for i, v := range inter {
		data[i] = int(math.Round(v))
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, len(bins), 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: len(bins), SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	return path
}

func TestRunCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeSineWAV(t, dir, "stereo.wav", 6600, 4*testBlock, 8, 20)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-bins", "34", "-format", "csv", "-normalize", path}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code %d, stderr:\n%s", code, stderr.String())
	}

	records, err := csv.NewReader(&stdout).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 35 {
		t.Fatalf("got %d records, want header + 34 bins", len(records))
	}

	want := []string{"frequency_hz", path + ":0", path + ":1"}
	for i, h := range want {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	if records[34][0] != "3300" {
		t.Fatalf("last frequency = %q, want 3300", records[34][0])
	}

	// Channel peaks sit on bins 8 and 20.
	for ch, bin := range []int{8, 20} {
		peak, peakDB := -1, math.Inf(-1)
		for k, rec := range records[1:] {
			db, err := strconv.ParseFloat(rec[ch+1], 64)
			if err != nil {
				t.Fatalf("parse %q: %v", rec[ch+1], err)
			}
			if db > peakDB {
				peak, peakDB = k, db
			}
		}
		if peak != bin {
			t.Fatalf("channel %d peaks at bin %d, want %d", ch, peak, bin)
		}
	}
}

func TestRunSummaryContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeSineWAV(t, dir, "good.wav", 8000, 200, 4)
	short := writeSineWAV(t, dir, "short.wav", 8000, 20, 4)
	bad := filepath.Join(dir, "bad.wav")
	if err := os.WriteFile(bad, []byte("not a wav"), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"-bins", "34", bad, short, good}, &stdout, &stderr)
	if code != exitFailed {
		t.Fatalf("exit code %d, want %d", code, exitFailed)
	}

	out := stdout.String()
	if !strings.Contains(out, good) {
		t.Fatalf("summary is missing the good file:\n%s", out)
	}
	if strings.Contains(out, short) || strings.Contains(out, bad) {
		t.Fatalf("summary lists a failed file:\n%s", out)
	}

	logs := stderr.String()
	for _, want := range []string{"bad.wav", "block_size=66", "frames=20", "estimate failed", "decode failed"} {
		if !strings.Contains(logs, want) {
			t.Fatalf("log output is missing %q:\n%s", want, logs)
		}
	}
}

func TestRunSummaryColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeSineWAV(t, dir, "tone.wav", 6600, 200, 8)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-bins", "34", path}, &stdout, &stderr); code != exitOK {
		t.Fatalf("exit code %d, stderr:\n%s", code, stderr.String())
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header, rule and one row:\n%s", len(lines), stdout.String())
	}

	fields := strings.Fields(lines[2])
	if len(fields) != 13 {
		t.Fatalf("got %d columns, want 13 (row %q)", len(fields), lines[2])
	}
	// File Ch Rate Block Segments Discarded Peak...
	want := []string{path, "0", "6600", "66", "3", "2", "800.00"}
	for i, w := range want {
		if fields[i] != w {
			t.Fatalf("field %d = %q, want %q (row %q)", i, fields[i], w, lines[2])
		}
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	return records
}

func TestRunOutputFileAndSmoothing(t *testing.T) {
	dir := t.TempDir()
	path := writeSineWAV(t, dir, "tone.wav", 8000, 256, 5)
	rawPath := filepath.Join(dir, "raw.csv")
	smoothPath := filepath.Join(dir, "smooth.csv")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-bins", "34", "-format", "csv", "-o", rawPath, path}, &stdout, &stderr); code != exitOK {
		t.Fatalf("exit code %d, stderr:\n%s", code, stderr.String())
	}
	code := run([]string{"-bins", "34", "-format", "csv", "-smooth", "3", "-o", smoothPath, path}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit code %d, stderr:\n%s", code, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("unexpected stdout output: %q", stdout.String())
	}

	raw := readCSV(t, rawPath)
	smooth := readCSV(t, smoothPath)
	if len(raw) != 35 || len(smooth) != 35 {
		t.Fatalf("got %d and %d records, want 35", len(raw), len(smooth))
	}

	// Row 1 is DC, which smoothing leaves alone.
	if smooth[1][1] != raw[1][1] {
		t.Fatalf("DC changed by smoothing: %s -> %s", raw[1][1], smooth[1][1])
	}

	changed := 0
	for k := 2; k < len(raw); k++ {
		if smooth[k][0] != raw[k][0] {
			t.Fatalf("row %d: frequency %s, want %s", k, smooth[k][0], raw[k][0])
		}
		if smooth[k][1] != raw[k][1] {
			changed++
		}
	}
	if changed == 0 {
		t.Fatal("smoothing left every bin unchanged")
	}
}

type failingCloser struct {
	bytes.Buffer
}

func (*failingCloser) Close() error { return errors.New("disk full") }

func TestRunReportsOutputCloseError(t *testing.T) {
	dir := t.TempDir()
	path := writeSineWAV(t, dir, "tone.wav", 8000, 256, 5)

	dst := &failingCloser{}
	orig := createOutput
	createOutput = func(string) (io.WriteCloser, error) { return dst, nil }
	t.Cleanup(func() { createOutput = orig })

	var stdout, stderr bytes.Buffer
	code := run([]string{"-bins", "34", "-o", "out.txt", path}, &stdout, &stderr)
	if code != exitFailed {
		t.Fatalf("exit code %d, want %d", code, exitFailed)
	}
	if dst.Len() == 0 {
		t.Fatal("nothing was written before close")
	}
	if !strings.Contains(stderr.String(), "disk full") {
		t.Fatalf("close error not logged:\n%s", stderr.String())
	}
}

func TestRunNonReferenceBinsWarns(t *testing.T) {
	dir := t.TempDir()
	path := writeSineWAV(t, dir, "tone.wav", 8000, 256, 5)

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-bins", "34", path}, &stdout, &stderr); code != exitOK {
		t.Fatalf("exit code %d, stderr:\n%s", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "outside the reference set") {
		t.Fatalf("expected a warning, got:\n%s", stderr.String())
	}

	stderr.Reset()
	if code := run([]string{"-bins", "128", path}, &stdout, &stderr); code != exitOK {
		t.Fatalf("exit code %d, stderr:\n%s", code, stderr.String())
	}
	if strings.Contains(stderr.String(), "outside the reference set") {
		t.Fatalf("unexpected warning for a reference bin count:\n%s", stderr.String())
	}
}

func TestRunUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "no-files", args: nil, want: exitUsage},
		{name: "odd-bins", args: []string{"-bins", "33", "x.wav"}, want: exitUsage},
		{name: "unknown-window", args: []string{"-window", "nope", "x.wav"}, want: exitUsage},
		{name: "help", args: []string{"-h"}, want: exitOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != tt.want {
				t.Fatalf("exit code %d, want %d (stderr %q)", code, tt.want, stderr.String())
			}
		})
	}
}
