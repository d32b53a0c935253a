package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFFTSize is returned for FFT sizes that are not a power of two, are too small,
	// or do not evenly divide the tile size.
	ErrInvalidFFTSize = errors.New("invalid fft size")
	// ErrInvalidMagnitudeRange is returned when magnitude max is not greater than magnitude min.
	ErrInvalidMagnitudeRange = errors.New("invalid magnitude range")
	// ErrInvalidZoom is returned for zoom levels below 1.
	ErrInvalidZoom = errors.New("invalid zoom level")
	// ErrInvalidViewport is returned for non-positive spectrogram heights.
	ErrInvalidViewport = errors.New("invalid viewport")
	// ErrMalformedColorMap is returned when a colormap table does not hold exactly 256 entries.
	ErrMalformedColorMap = errors.New("malformed colormap")
	// ErrUnknownWindow is returned when parsing an unsupported window function name.
	ErrUnknownWindow = errors.New("unknown window function")
	// ErrUnknownColorMap is returned when parsing an unsupported colormap name.
	ErrUnknownColorMap = errors.New("unknown colormap")
	// ErrUnknownDataType is returned for SigMF datatypes the sample decoder does not handle.
	ErrUnknownDataType = errors.New("unknown sigmf datatype")
	// ErrClosed is returned by components that have been shut down.
	ErrClosed = errors.New("component closed")
)

// TileFetchError records a failed tile fetch. The tile stays missing until re-requested.
type TileFetchError struct {
	Tile int
	Err  error
}

func (e *TileFetchError) Error() string {
	return fmt.Sprintf("tile %d fetch failed: %v", e.Tile, e.Err)
}

func (e *TileFetchError) Unwrap() error { return e.Err }
