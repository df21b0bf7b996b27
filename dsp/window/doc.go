// Package window provides a closed catalog of DSP window functions.
//
// Every window is a member of the [Type] enumeration and is addressed by a
// canonical name plus scipy-compatible aliases ("hanning", "boxcar", ...).
// [Parse] is the only string entry point, so an unknown name is always
// reported as an [*UnknownError] rather than silently falling back.
//
// Spectral analysis uses the periodic form ([WithPeriodic]); the default is
// the symmetric form.
package window
