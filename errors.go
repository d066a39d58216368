// Package qrfolio generates scannable QR codes for a portfolio site: a QR
// encoder, a raster/vector renderer and the plumbing around them.
package qrfolio

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPayload is returned when a payload is empty or contains
	// characters the requested encoding mode cannot represent.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrCapacityExceeded is returned when a payload does not fit in the
	// largest symbol at the requested error correction level.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrInvalidOptions is returned for out-of-range encoder options such as
	// a forced version or mask pattern.
	ErrInvalidOptions = errors.New("invalid options")

	// ErrRenderTargetTooSmall is returned when the requested pixel size cannot
	// hold the symbol at an integral module size.
	ErrRenderTargetTooSmall = errors.New("render target too small")

	// ErrLogoLoadFailed is reported when the overlay asset cannot be loaded.
	// Renders degrade to no overlay and surface it as a warning.
	ErrLogoLoadFailed = errors.New("logo load failed")
)

// CapacityError describes a payload that did not fit. It unwraps to
// ErrCapacityExceeded.
type CapacityError struct {
	Mode          string
	Level         string
	Version       int
	BitsRequired  int
	BitsAvailable int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: %s mode at level %s needs %d bits, version %d holds %d",
		ErrCapacityExceeded, e.Mode, e.Level, e.BitsRequired, e.Version, e.BitsAvailable)
}

// Unwrap returns ErrCapacityExceeded.
func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}
