package types

import (
	"context"
	"fmt"
	"strings"
)

// DefaultTileSize is the number of IQ samples per tile. A power of two keeps every supported
// FFT size an exact divisor.
const DefaultTileSize = 65536

// MinFFTSize is the smallest FFT size accepted by the render pipeline.
const MinFFTSize = 32

// WindowFunction selects the analysis window applied before each FFT.
type WindowFunction int

const (
	Rectangular WindowFunction = iota
	Hamming
	Hanning
	Bartlett
	Blackman
)

var windowNames = [...]string{"rectangular", "hamming", "hanning", "bartlett", "blackman"}

func (w WindowFunction) String() string {
	if w < 0 || int(w) >= len(windowNames) {
		return fmt.Sprintf("WindowFunction(%d)", int(w))
	}
	return windowNames[w]
}

// Valid reports whether w is one of the known window functions.
func (w WindowFunction) Valid() bool { return w >= Rectangular && w <= Blackman }

// ParseWindowFunction maps a case-insensitive name to a WindowFunction. "hann" is accepted
// as an alias for hanning.
func ParseWindowFunction(name string) (WindowFunction, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "hann" {
		return Hanning, nil
	}
	for i, candidate := range windowNames {
		if candidate == n {
			return WindowFunction(i), nil
		}
	}
	return Rectangular, fmt.Errorf("%w: %q", ErrUnknownWindow, name)
}

// ColorMapID keys into the fixed set of built-in colormap tables.
type ColorMapID int

const (
	Viridis ColorMapID = iota
	Turbo
	Jet
	Gray
	Hot
)

var colorMapNames = [...]string{"viridis", "turbo", "jet", "gray", "hot"}

func (c ColorMapID) String() string {
	if c < 0 || int(c) >= len(colorMapNames) {
		return fmt.Sprintf("ColorMapID(%d)", int(c))
	}
	return colorMapNames[c]
}

// Valid reports whether c is one of the built-in colormaps.
func (c ColorMapID) Valid() bool { return c >= Viridis && c <= Hot }

// ParseColorMapID maps a case-insensitive name to a ColorMapID.
func ParseColorMapID(name string) (ColorMapID, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "grey" {
		return Gray, nil
	}
	for i, candidate := range colorMapNames {
		if candidate == n {
			return ColorMapID(i), nil
		}
	}
	return Viridis, fmt.Errorf("%w: %q", ErrUnknownColorMap, name)
}

// RecordingInfo is the slice of recording metadata the render pipeline reads.
type RecordingInfo struct {
	TotalIQSamples  int64
	SampleRate      float64
	CenterFrequency float64
	DataType        string
}

// TileSource supplies already-decoded, already-preprocessed interleaved IQ samples for a tile.
// byteCount is clamped to the end of the recording by the caller.
type TileSource interface {
	FetchTileSamples(ctx context.Context, tileIndex int, byteOffset, byteCount int64) ([]float32, error)
}

// TileSourceFunc adapts a function to TileSource.
type TileSourceFunc func(ctx context.Context, tileIndex int, byteOffset, byteCount int64) ([]float32, error)

// FetchTileSamples calls f.
func (f TileSourceFunc) FetchTileSamples(ctx context.Context, tileIndex int, byteOffset, byteCount int64) ([]float32, error) {
	return f(ctx, tileIndex, byteOffset, byteCount)
}

// ViewportState is everything a render depends on. LowerTile and UpperTile are not part of it:
// they are always derived from HandleTop.
type ViewportState struct {
	FFTSize           int
	MagnitudeMin      float64
	MagnitudeMax      float64
	Window            WindowFunction
	ColorMap          ColorMapID
	ZoomLevel         int
	HandleTop         float64
	SpectrogramHeight int
}

// TileRange is a fractional tile-space interval [Lower, Upper).
type TileRange struct {
	Lower float64
	Upper float64
}

// RenderResult is the output of one render pass.
type RenderResult struct {
	Image        []byte // RGBA, Width*Height*4 bytes
	Width        int
	Height       int
	Tiles        TileRange
	MissingTiles []int
}

// Annotation is a rectangle in (sample, frequency) space.
type Annotation struct {
	SampleStart   int64
	SampleCount   int64
	FreqLowerEdge float64
	FreqUpperEdge float64
	Label         string
}

// PixelRect is an annotation placed in spectrogram pixel coordinates.
type PixelRect struct {
	X0, Y0, X1, Y1 float64
	Visible        bool
}
