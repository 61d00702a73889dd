package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig signals invalid matching parameters (negative weight,
	// non-positive sigma, or a bad tolerance combination).
	ErrInvalidConfig = errors.New("invalid matching config")
	// ErrMalformedSpectrum signals mass/intensity slices of different lengths.
	ErrMalformedSpectrum = errors.New("malformed spectrum")
	// ErrRunNotFound signals a missing stored match run.
	ErrRunNotFound = errors.New("match run not found")
	// ErrUnknownStrategy signals an unrecognized solver strategy name.
	ErrUnknownStrategy = errors.New("unknown solver strategy")
)

// MalformedSpectrumError wraps ErrMalformedSpectrum with the offending record.
type MalformedSpectrumError struct {
	Side      string // "predicted" or "observed"
	Index     int
	Masses    int
	Intensity int
}

func (e *MalformedSpectrumError) Error() string {
	return fmt.Sprintf("%s: %s[%d] has %d masses and %d intensities",
		ErrMalformedSpectrum.Error(), e.Side, e.Index, e.Masses, e.Intensity)
}

func (e *MalformedSpectrumError) Unwrap() error { return ErrMalformedSpectrum }

// NewMalformedSpectrum creates a malformed spectrum error for one record.
func NewMalformedSpectrum(side string, index, masses, intensity int) error {
	return &MalformedSpectrumError{Side: side, Index: index, Masses: masses, Intensity: intensity}
}
