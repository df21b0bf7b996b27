package spectrum

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData matches every *InsufficientDataError.
	ErrInsufficientData = errors.New("spectrum: insufficient data")
	// ErrUnknownWindow matches every *UnknownWindowError.
	ErrUnknownWindow = errors.New("spectrum: unknown window")

	ErrInvalidSampleRate = errors.New("spectrum: sample rate must be > 0")
	ErrInvalidBinCount   = errors.New("spectrum: bin count must be >= 2")
	ErrShape             = errors.New("spectrum: invalid sample buffer shape")
)

// InsufficientDataError reports an input shorter than one block.
type InsufficientDataError struct {
	BlockSize int // required frames, 2*(binCount-1)
	Frames    int // available frames
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("spectrum: block size %d is greater than the input length %d", e.BlockSize, e.Frames)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// UnknownWindowError reports a window name missing from the catalog.
type UnknownWindowError struct {
	Name string
	err  error
}

func (e *UnknownWindowError) Error() string {
	return fmt.Sprintf("spectrum: unknown window %q", e.Name)
}

func (e *UnknownWindowError) Is(target error) bool {
	return target == ErrUnknownWindow
}

func (e *UnknownWindowError) Unwrap() error {
	return e.err
}
